// Package server owns the TCP listener and hands accepted connections to
// the configured game mode.
package server

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/board"
	"oneboard-server/pkg/session"
)

// Mode selects how accepted connections are served
type Mode string

// game modes
const (
	// ModeBoard enrolls every connection on the shared board
	ModeBoard Mode = "board"
	// ModeSession gives every connection a private table
	ModeSession Mode = "session"
)

// accept wakes up this often so Close can take effect
const acceptInterval = time.Second

// Server accepts TCP connections and dispatches them
type Server struct {
	listener *net.TCPListener
	mode     Mode
	registry *board.Registry
	stop     chan struct{}
	done     chan struct{}
}

// Listen binds the TCP address. Use port 0 to let the OS pick; the chosen
// port is available from Port for the offer broadcast.
func Listen(addr string, mode Mode, registry *board.Registry) (*Server, error) {
	if mode != ModeBoard && mode != ModeSession {
		return nil, fmt.Errorf("unknown game mode %q", mode)
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	return &Server{
		listener: l.(*net.TCPListener),
		mode:     mode,
		registry: registry,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Port returns the bound TCP port
func (s *Server) Port() uint16 {
	return uint16(s.listener.Addr().(*net.TCPAddr).Port)
}

// Serve accepts connections until Close is called. Each connection gets
// its own goroutine; a failed enrollment never affects the listener.
func (s *Server) Serve() {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		_ = s.listener.SetDeadline(time.Now().Add(acceptInterval))

		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}

			select {
			case <-s.stop:
			default:
				logrus.WithError(err).Error("accept failed")
			}
			return
		}

		go s.handle(conn)
	}
}

// Close stops the accept loop and waits for it to exit. Connections
// already being served are left to finish on their own.
func (s *Server) Close() {
	close(s.stop)
	_ = s.listener.Close()
	<-s.done
}

func (s *Server) handle(conn net.Conn) {
	switch s.mode {
	case ModeSession:
		session.New(conn).Run()
	default:
		if err := s.registry.Enroll(conn); err != nil {
			logrus.WithError(err).WithField("remoteAddr", conn.RemoteAddr().String()).Error("enrollment rejected")
			_ = conn.Close()
		}
	}
}
