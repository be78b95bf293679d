package ipc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
)

// Handler answers one request. It runs on the connection's goroutine; ctx
// is cancelled when the server stops.
type Handler func(ctx context.Context, req *Request) *Response

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler
	logger     *slog.Logger

	shutdownMu   sync.Mutex
	shuttingDown bool
	conns        sync.WaitGroup
}

// NewServer creates a server that will listen on socketPath.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{socketPath: socketPath, handler: handler, logger: logger}
}

// Serve listens on the socket and answers requests until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a crashed process.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener
	defer os.Remove(s.socketPath)

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				s.conns.Wait()
				return nil
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection answers the single request a connection carries.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		s.logger.Debug("IPC request", "command", req.Command)
		resp = s.handler(ctx, req)
		if resp == nil {
			resp = NewErrorResponse(fmt.Sprintf("unknown command %q", req.Command))
		}
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// Stop closes the listener. Serve returns once in-flight requests finish.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
}
