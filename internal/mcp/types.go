package mcp

import "github.com/1broseidon/framewin/internal/ipc"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// WindowStatusInput is the input for the window_status tool.
type WindowStatusInput struct {
	Name string `json:"name,omitempty" jsonschema:"Window name. When omitted only the daemon status is returned."`
}

// WindowStatusOutput is the output for the window_status tool.
type WindowStatusOutput struct {
	Daemon ipc.StatusData  `json:"daemon"`
	Window *ipc.WindowInfo `json:"window,omitempty"`
}

// WindowNameInput names the window for open_window and close_window.
type WindowNameInput struct {
	Name string `json:"name" jsonschema:"Window name as configured under windows in config.yaml"`
}

// WindowOutput is the state of one window after a change.
type WindowOutput struct {
	Window ipc.WindowInfo `json:"window"`
}

// SetGeometryInput is the input for the set_window_geometry tool.
type SetGeometryInput struct {
	Name   string `json:"name" jsonschema:"Window name"`
	X      *int   `json:"x,omitempty" jsonschema:"New left edge of the client area in screen pixels"`
	Y      *int   `json:"y,omitempty" jsonschema:"New top edge of the client area in screen pixels"`
	Width  *int   `json:"width,omitempty" jsonschema:"New client width in pixels (minimum 150)"`
	Height *int   `json:"height,omitempty" jsonschema:"New client height in pixels (minimum 50)"`
}

// SetUndestroyableInput is the input for the set_undestroyable tool.
type SetUndestroyableInput struct {
	Name          string `json:"name" jsonschema:"Window name"`
	Undestroyable bool   `json:"undestroyable" jsonschema:"When true the window comes back whenever the user closes it"`
}
