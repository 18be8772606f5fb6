package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/framewin/internal/opt"
	"github.com/1broseidon/framewin/internal/window"
)

// Controller is the part of window.Manager the IPC commands drive.
type Controller interface {
	Names() []string
	Status(name string) (window.Status, error)
	GetPosition(name string) (window.Position, error)
	GetSize(name string) (window.Size, error)
	GetOpen(name string) (bool, error)
	GetUndestroyable(name string) (bool, error)
	SetOpen(name string, open bool) error
	Close(name string) error
	SetPosition(name string, p window.Position) error
	SetSize(name string, s window.Size) error
	SetUndestroyable(name string, on bool) error
}

var _ Controller = (*window.Manager)(nil)

// Info is the static part of GET_STATUS.
type Info struct {
	Backend   string
	Presenter string
	FPS       int
}

// Dispatcher answers IPC commands against a Controller.
type Dispatcher struct {
	ctrl      Controller
	info      Info
	startTime time.Time
}

var _ Handler = (*Dispatcher)(nil)

func NewDispatcher(ctrl Controller, info Info) *Dispatcher {
	return &Dispatcher{ctrl: ctrl, info: info, startTime: time.Now()}
}

// HandleCommand processes an IPC command and returns a response
func (d *Dispatcher) HandleCommand(req *Request) *Response {
	switch req.Command {
	case CommandListWindows:
		return d.handleListWindows()
	case CommandGetStatus:
		return d.handleGetStatus()
	case CommandOpenWindow:
		return d.handleOpenWindow(req.Payload)
	case CommandCloseWindow:
		return d.handleCloseWindow(req.Payload)
	case CommandSetGeometry:
		return d.handleSetGeometry(req.Payload)
	case CommandSetUndestroyable:
		return d.handleSetUndestroyable(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (d *Dispatcher) handleGetStatus() *Response {
	names := d.ctrl.Names()
	open := 0
	for _, name := range names {
		if isOpen, _ := d.ctrl.GetOpen(name); isOpen {
			open++
		}
	}
	return ok(StatusData{
		Backend:       d.info.Backend,
		Presenter:     d.info.Presenter,
		FPS:           d.info.FPS,
		WindowCount:   len(names),
		OpenCount:     open,
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (d *Dispatcher) handleListWindows() *Response {
	names := d.ctrl.Names()
	data := WindowsData{Windows: make([]WindowInfo, 0, len(names))}
	for _, name := range names {
		info, err := d.describe(name)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		data.Windows = append(data.Windows, info)
	}
	return ok(data)
}

func optPtr(o opt.Int) *int {
	if v, set := o.Get(); set {
		return &v
	}
	return nil
}

func (d *Dispatcher) describe(name string) (WindowInfo, error) {
	st, err := d.ctrl.Status(name)
	if err != nil {
		return WindowInfo{}, err
	}
	pos, err := d.ctrl.GetPosition(name)
	if err != nil {
		return WindowInfo{}, err
	}
	size, err := d.ctrl.GetSize(name)
	if err != nil {
		return WindowInfo{}, err
	}
	undestroyable, err := d.ctrl.GetUndestroyable(name)
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		Name:          name,
		State:         st.State.String(),
		Handle:        uint32(st.Handle),
		Foreground:    st.Foreground,
		Iconic:        st.Iconic,
		Undestroyable: undestroyable,
		X:             optPtr(pos.X),
		Y:             optPtr(pos.Y),
		Width:         optPtr(size.Width),
		Height:        optPtr(size.Height),
	}, nil
}

func decode(payload json.RawMessage, out interface{ target() string }) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if out.target() == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (p *WindowPayload) target() string        { return p.Name }
func (p *GeometryPayload) target() string      { return p.Name }
func (p *UndestroyablePayload) target() string { return p.Name }

func (d *Dispatcher) handleOpenWindow(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := d.ctrl.SetOpen(req.Name, true); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open window: %v", err))
	}
	return d.windowResponse(req.Name)
}

func (d *Dispatcher) handleCloseWindow(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := d.ctrl.Close(req.Name); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to close window: %v", err))
	}
	return d.windowResponse(req.Name)
}

func (d *Dispatcher) handleSetGeometry(payload json.RawMessage) *Response {
	var req GeometryPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.X == nil && req.Y == nil && req.Width == nil && req.Height == nil {
		return NewErrorResponse("geometry requires at least one of x, y, width, height")
	}
	isOpen, err := d.ctrl.GetOpen(req.Name)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if !isOpen {
		return NewErrorResponse(fmt.Sprintf("window %q is not open", req.Name))
	}

	if req.X != nil || req.Y != nil {
		if err := d.ctrl.SetPosition(req.Name, window.Position{X: fromPtr(req.X), Y: fromPtr(req.Y)}); err != nil {
			return NewErrorResponse(err.Error())
		}
	}
	if req.Width != nil || req.Height != nil {
		if err := d.ctrl.SetSize(req.Name, window.Size{Width: fromPtr(req.Width), Height: fromPtr(req.Height)}); err != nil {
			return NewErrorResponse(err.Error())
		}
	}
	return d.windowResponse(req.Name)
}

func (d *Dispatcher) handleSetUndestroyable(payload json.RawMessage) *Response {
	var req UndestroyablePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := d.ctrl.SetUndestroyable(req.Name, req.Undestroyable); err != nil {
		return NewErrorResponse(err.Error())
	}
	return d.windowResponse(req.Name)
}

func (d *Dispatcher) windowResponse(name string) *Response {
	info, err := d.describe(name)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func fromPtr(p *int) opt.Int {
	if p == nil {
		return opt.None
	}
	return opt.Some(*p)
}
