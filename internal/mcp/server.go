// Package mcp exposes the running framewin daemon to MCP clients over
// stdio. Every tool is a thin wrapper around an IPC call.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewin/internal/ipc"
)

const (
	ServerName    = "framewin"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools call. *ipc.Client implements it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	OpenWindow(name string) (*ipc.WindowInfo, error)
	CloseWindow(name string) (*ipc.WindowInfo, error)
	SetGeometry(g ipc.GeometryPayload) (*ipc.WindowInfo, error)
	SetUndestroyable(name string, on bool) (*ipc.WindowInfo, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for framewin window control.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window the framewin daemon manages with its lifecycle state (not-created, open, closed-by-code, closed-by-user), native handle, foreground/minimized flags and geometry.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_status",
		Description: "Report daemon status (backend, presenter, fps, uptime, window counts) and, when name is given, the state of that window.",
	}, s.handleWindowStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Create the named window now. Also revives a window the user closed.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Destroy the named window. The daemon re-creates it on its next frame, so this is mostly useful to reset a window.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_geometry",
		Description: "Move and/or resize an open window. Omitted fields keep their current value; sizes below 150x50 are raised to that minimum.",
	}, s.handleSetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_undestroyable",
		Description: "Toggle whether the named window comes back after the user closes it.",
	}, s.handleSetUndestroyable)
}

func requireName(tool, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s: name is required", tool)
	}
	return nil
}

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if windows == nil {
		windows = []ipc.WindowInfo{}
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleWindowStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowStatusInput) (*mcpsdk.CallToolResult, WindowStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, WindowStatusOutput{}, err
	}
	out := WindowStatusOutput{Daemon: *status}
	if args.Name == "" {
		return nil, out, nil
	}

	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, WindowStatusOutput{}, err
	}
	for i := range windows {
		if windows[i].Name == args.Name {
			out.Window = &windows[i]
			return nil, out, nil
		}
	}
	return nil, WindowStatusOutput{}, fmt.Errorf("window_status: unknown window %q", args.Name)
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowNameInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireName("open_window", args.Name); err != nil {
		return nil, WindowOutput{}, err
	}
	info, err := s.daemon.OpenWindow(args.Name)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("mcp: window opened", "window", args.Name)
	return textResult("Window %q is %s (handle %d)", info.Name, info.State, info.Handle), WindowOutput{Window: *info}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowNameInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireName("close_window", args.Name); err != nil {
		return nil, WindowOutput{}, err
	}
	info, err := s.daemon.CloseWindow(args.Name)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("mcp: window closed", "window", args.Name)
	return textResult("Window %q is %s", info.Name, info.State), WindowOutput{Window: *info}, nil
}

func (s *Server) handleSetGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args SetGeometryInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireName("set_window_geometry", args.Name); err != nil {
		return nil, WindowOutput{}, err
	}
	if args.X == nil && args.Y == nil && args.Width == nil && args.Height == nil {
		return nil, WindowOutput{}, fmt.Errorf("set_window_geometry: at least one of x, y, width, height is required")
	}
	info, err := s.daemon.SetGeometry(ipc.GeometryPayload{
		Name:   args.Name,
		X:      args.X,
		Y:      args.Y,
		Width:  args.Width,
		Height: args.Height,
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{Window: *info}, nil
}

func (s *Server) handleSetUndestroyable(_ context.Context, _ *mcpsdk.CallToolRequest, args SetUndestroyableInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireName("set_undestroyable", args.Name); err != nil {
		return nil, WindowOutput{}, err
	}
	info, err := s.daemon.SetUndestroyable(args.Name, args.Undestroyable)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{Window: *info}, nil
}
