package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandListWindows      CommandType = "LIST_WINDOWS"
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandOpenWindow       CommandType = "OPEN_WINDOW"
	CommandCloseWindow      CommandType = "CLOSE_WINDOW"
	CommandSetGeometry      CommandType = "SET_GEOMETRY"
	CommandSetUndestroyable CommandType = "SET_UNDESTROYABLE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string `json:"backend"`
	Presenter     string `json:"presenter"`
	FPS           int    `json:"fps"`
	WindowCount   int    `json:"window_count"`
	OpenCount     int    `json:"open_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WindowInfo describes one registered window.
type WindowInfo struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	Handle        uint32 `json:"handle"`
	Foreground    bool   `json:"foreground"`
	Iconic        bool   `json:"iconic"`
	Undestroyable bool   `json:"undestroyable"`
	X             *int   `json:"x,omitempty"`
	Y             *int   `json:"y,omitempty"`
	Width         *int   `json:"width,omitempty"`
	Height        *int   `json:"height,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowPayload names the target of OPEN_WINDOW and CLOSE_WINDOW.
type WindowPayload struct {
	Name string `json:"name"`
}

// GeometryPayload moves and/or resizes a window. Nil fields are left as they
// are.
type GeometryPayload struct {
	Name   string `json:"name"`
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

type UndestroyablePayload struct {
	Name          string `json:"name"`
	Undestroyable bool   `json:"undestroyable"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
