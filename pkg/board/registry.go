package board

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/wire"
)

// Stats tracks one player's cumulative round outcomes
type Stats struct {
	DealerWins int `json:"dealerWins"`
	ClientWins int `json:"clientWins"`
	Ties       int `json:"ties"`
}

// PlayerInfo is a point-in-time view of an enrolled player
type PlayerInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Remaining int       `json:"remainingRounds"`
	Stats     Stats     `json:"stats"`
}

type record struct {
	id        uuid.UUID
	name      string
	remaining int
	stats     Stats
}

// Registry maps live connections to their enrollment state. It is the only
// state shared between the connection handlers and the board loop, so every
// read and write goes through one mutex. The condition variable wakes a
// board blocked in WaitForPlayers whenever an enrollment lands.
type Registry struct {
	mu      sync.Mutex
	cond    *sync.Cond
	players map[net.Conn]*record
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	r := &Registry{
		players: make(map[net.Conn]*record),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Enroll blocks reading one request frame from the connection and, if it is
// valid, adds the player and wakes the board. On error the caller owns
// closing the connection.
func (r *Registry) Enroll(conn net.Conn) error {
	req, err := wire.ReadRequest(conn)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	rounds := int(req.Rounds)
	if rounds < 1 {
		rounds = 1
	}

	name := req.ClientName
	if name == "" {
		name = "client"
	}

	rec := &record{
		id:        uuid.New(),
		name:      name,
		remaining: rounds,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[conn] = rec
	logrus.WithFields(logrus.Fields{
		"playerId":   rec.id,
		"player":     rec.name,
		"remoteAddr": conn.RemoteAddr().String(),
		"rounds":     rounds,
	}).Info("client joined")

	r.cond.Broadcast()
	return nil
}

// Remove closes the connection and deletes its record. It is idempotent and
// safe to call concurrently with any other registry operation.
func (r *Registry) Remove(conn net.Conn, reason string) {
	r.mu.Lock()
	rec, ok := r.players[conn]
	delete(r.players, conn)
	r.mu.Unlock()

	_ = conn.Close()

	if ok {
		logrus.WithFields(logrus.Fields{
			"player": rec.name,
			"reason": reason,
		}).Info("dropping client")
	}
}

// WaitForPlayers blocks the caller until at least one player is enrolled
func (r *Registry) WaitForPlayers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.players) == 0 {
		logrus.Debug("waiting for players")
		r.cond.Wait()
	}
}

// SnapshotEligible returns the connections with rounds left to play,
// atomically with respect to Enroll and Remove
func (r *Registry) SnapshotEligible() []net.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]net.Conn, 0, len(r.players))
	for conn, rec := range r.players {
		if rec.remaining > 0 {
			conns = append(conns, conn)
		}
	}

	return conns
}

// DecrementRound spends one round for the player. No-op if the player
// was already removed.
func (r *Registry) DecrementRound(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.players[conn]; ok && rec.remaining > 0 {
		rec.remaining--
	}
}

// RecordOutcome updates the player's stats for one finished round. No-op if
// the player was already removed.
func (r *Registry) RecordOutcome(conn net.Conn, result wire.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.players[conn]
	if !ok {
		return
	}

	switch result {
	case wire.ResultWin:
		rec.stats.ClientWins++
	case wire.ResultLoss:
		rec.stats.DealerWins++
	case wire.ResultTie:
		rec.stats.Ties++
	}
}

// Exhausted returns the connections whose round quota has run out
func (r *Registry) Exhausted() []net.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conns []net.Conn
	for conn, rec := range r.players {
		if rec.remaining <= 0 {
			conns = append(conns, conn)
		}
	}

	return conns
}

// Lookup returns a view of one player's state
func (r *Registry) Lookup(conn net.Conn) (PlayerInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.players[conn]
	if !ok {
		return PlayerInfo{}, false
	}

	return rec.info(), true
}

// Name returns the player's display name, or "client" if already removed
func (r *Registry) Name(conn net.Conn) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.players[conn]; ok {
		return rec.name
	}

	return "client"
}

// Count returns the number of enrolled players
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.players)
}

// Players returns a view of every enrolled player for the status endpoint
func (r *Registry) Players() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]PlayerInfo, 0, len(r.players))
	for _, rec := range r.players {
		players = append(players, rec.info())
	}

	return players
}

func (rec *record) info() PlayerInfo {
	return PlayerInfo{
		ID:        rec.id,
		Name:      rec.name,
		Remaining: rec.remaining,
		Stats:     rec.stats,
	}
}
