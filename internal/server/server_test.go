package server

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneboard-server/pkg/board"
	"oneboard-server/pkg/wire"
)

func dialServer(t *testing.T, s *Server) net.Conn {
	t.Helper()

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", s.Port()))
	require.NoError(t, err)
	return conn
}

func waitForCount(t *testing.T, r *board.Registry, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for r.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("registry count never reached %d (got %d)", want, r.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServer_BoardModeEnrollsConnections(t *testing.T) {
	r := board.NewRegistry()
	s, err := Listen("127.0.0.1:0", ModeBoard, r)
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	c1 := dialServer(t, s)
	defer c1.Close()
	c2 := dialServer(t, s)
	defer c2.Close()

	_, err = c1.Write(wire.EncodeRequest(wire.Request{Rounds: 2, ClientName: "one"}))
	require.NoError(t, err)
	_, err = c2.Write(wire.EncodeRequest(wire.Request{Rounds: 2, ClientName: "two"}))
	require.NoError(t, err)

	waitForCount(t, r, 2)
}

func TestServer_BoardModeRejectsBadRequest(t *testing.T) {
	r := board.NewRegistry()
	s, err := Listen("127.0.0.1:0", ModeBoard, r)
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	conn := dialServer(t, s)
	defer conn.Close()

	frame := wire.EncodeRequest(wire.Request{Rounds: 1, ClientName: "x"})
	frame[0] = 0xFF
	_, err = conn.Write(frame)
	require.NoError(t, err)

	// the server closes the connection instead of enrolling it
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Count())
}

func TestServer_SessionModePlaysPrivateTable(t *testing.T) {
	s, err := Listen("127.0.0.1:0", ModeSession, nil)
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	conn := dialServer(t, s)
	defer conn.Close()

	_, err = conn.Write(wire.EncodeRequest(wire.Request{Rounds: 1, ClientName: "private"}))
	require.NoError(t, err)

	// the session answers with the initial deal
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	p, err := wire.ReadPayload(conn)
	require.NoError(t, err)
	assert.Equal(t, wire.ResultNotOver, p.Result)
	assert.True(t, p.Card.Valid())
}

func TestListen_RejectsUnknownMode(t *testing.T) {
	_, err := Listen("127.0.0.1:0", Mode("tournament"), nil)
	assert.Error(t, err)
}

func TestServer_CloseStopsServe(t *testing.T) {
	s, err := Listen("127.0.0.1:0", ModeSession, nil)
	require.NoError(t, err)

	served := make(chan struct{})
	go func() {
		s.Serve()
		close(served)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case <-served:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}
