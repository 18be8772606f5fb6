package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/framewin/internal/runtimepath"
)

// callTimeout bounds how long a connection waits for the render loop to
// pick up and answer its request.
const callTimeout = 5 * time.Second

// Handler answers requests. It is only ever called from Server.Pump.
type Handler interface {
	HandleCommand(req *Request) *Response
}

type call struct {
	req   *Request
	reply chan *Response
}

// Server accepts IPC connections and queues their requests. Requests are
// answered only when the owner calls Pump, so the handler runs on the
// owner's goroutine.
type Server struct {
	socketPath string
	listener   net.Listener
	logger     *slog.Logger
	calls      chan *call
	done       chan struct{}
	stopOnce   sync.Once
}

// NewServer creates a new IPC server. An empty socketPath uses
// runtimepath.SocketPath.
func NewServer(socketPath string, logger *slog.Logger) (*Server, error) {
	if socketPath == "" {
		path, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = path
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		logger:     logger,
		calls:      make(chan *call, 16),
		done:       make(chan struct{}),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.dispatch(req))
}

// dispatch hands req to the next Pump and waits for its answer.
func (s *Server) dispatch(req *Request) *Response {
	c := &call{req: req, reply: make(chan *Response, 1)}
	timer := time.NewTimer(callTimeout)
	defer timer.Stop()

	select {
	case s.calls <- c:
	case <-s.done:
		return NewErrorResponse("daemon is shutting down")
	case <-timer.C:
		return NewErrorResponse("daemon is busy")
	}

	select {
	case resp := <-c.reply:
		return resp
	case <-s.done:
		return NewErrorResponse("daemon is shutting down")
	case <-timer.C:
		return NewErrorResponse("daemon did not answer in time")
	}
}

// Pump answers every queued request with h and returns how many it
// handled. It never blocks.
func (s *Server) Pump(h Handler) int {
	n := 0
	for {
		select {
		case c := <-s.calls:
			resp := h.HandleCommand(c.req)
			if resp == nil {
				resp = NewErrorResponse("no response")
			}
			c.reply <- resp
			n++
		default:
			return n
		}
	}
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("failed to send IPC response", "error", err)
	}
}

// Stop gracefully shuts down the IPC server. Waiting clients get an error
// response.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		os.Remove(s.socketPath)
	})
}
