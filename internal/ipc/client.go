package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/framewin/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for the socket at path.
func NewClientWithPath(path string) *Client {
	return &Client{
		socketPath: path,
		timeout:    callTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// The server waits up to callTimeout for the render loop; leave room for
	// its answer.
	conn.SetDeadline(time.Now().Add(c.timeout + time.Second))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) request(cmd CommandType, payload any, out any) error {
	resp, err := c.sendRequest(cmd, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.request(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves every registered window.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.request(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// OpenWindow creates the named window, reviving it if the user closed it.
func (c *Client) OpenWindow(name string) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.request(CommandOpenWindow, WindowPayload{Name: name}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CloseWindow destroys the named window. The daemon re-creates it on its
// next frame.
func (c *Client) CloseWindow(name string) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.request(CommandCloseWindow, WindowPayload{Name: name}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetGeometry moves and/or resizes an open window.
func (c *Client) SetGeometry(g GeometryPayload) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.request(CommandSetGeometry, g, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetUndestroyable toggles re-creation after user closes.
func (c *Client) SetUndestroyable(name string, on bool) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.request(CommandSetUndestroyable, UndestroyablePayload{Name: name, Undestroyable: on}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
