package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// EventKind classifies the events the window engine cares about.
type EventKind int

const (
	// EventCloseRequested is a WM_DELETE_WINDOW client message.
	EventCloseRequested EventKind = iota + 1
	// EventDestroyed is a DestroyNotify for a window we created.
	EventDestroyed
)

// Event is a decoded window event.
type Event struct {
	Kind   EventKind
	Window xproto.Window
}

// DrainEvents reads every queued event without blocking and returns the
// ones that affect window lifetime. Protocol errors are passed to onError.
func (c *Connection) DrainEvents(onError func(error)) []Event {
	var out []Event
	for {
		ev, xerr := c.Conn().PollForEvent()
		if ev == nil && xerr == nil {
			return out
		}
		if xerr != nil {
			if onError != nil {
				onError(xerr)
			}
			continue
		}
		switch e := ev.(type) {
		case xproto.ClientMessageEvent:
			if e.Type == c.wmProtocols && e.Format == 32 &&
				xproto.Atom(e.Data.Data32[0]) == c.wmDeleteWindow {
				out = append(out, Event{Kind: EventCloseRequested, Window: e.Window})
			}
		case xproto.DestroyNotifyEvent:
			out = append(out, Event{Kind: EventDestroyed, Window: e.Window})
		}
	}
}
