// Package board runs the shared blackjack table: every enrolled client
// plays each round against one dealer hand. Enrollment is concurrent;
// round execution is deliberately single-threaded with blocking I/O and
// no timeouts, so a silent client stalls the round for everyone. That is
// an accepted trade-off for a small-scale game, not an oversight.
package board

import (
	"net"

	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/deck"
	"oneboard-server/pkg/wire"
)

// hitHeadroom is the number of cards kept in reserve for hits beyond the
// two dealt to each player and the dealer
const hitHeadroom = 20

// dummyCard fills the card fields of terminal payloads; receivers ignore it
var dummyCard = deck.Card{Rank: 2, Suit: deck.Hearts}

// Board coordinates rounds across all enrolled players
type Board struct {
	registry *Registry
	deck     *deck.Deck
}

// New returns a board backed by the given registry
func New(registry *Registry) *Board {
	return &Board{
		registry: registry,
		deck:     deck.New(),
	}
}

// Run plays rounds forever. No connection failure ever terminates the loop;
// the process owning the board stops it by exiting.
func (b *Board) Run() {
	logrus.Info("board starting")

	for {
		b.playRound()
	}
}

// playRound runs one complete cycle: wait, snapshot, deal, player turns,
// dealer turn, settle, reap
func (b *Board) playRound() {
	b.registry.WaitForPlayers()

	conns := b.registry.SnapshotEligible()
	if len(conns) == 0 {
		// raced with reaping; wait again
		return
	}

	b.deck.Ensure(2*len(conns) + 2 + hitHeadroom)

	hands := make(map[net.Conn]deck.Hand, len(conns))
	for _, conn := range conns {
		hands[conn] = deck.Hand{b.deck.Draw(), b.deck.Draw()}
	}

	dealer := deck.Hand{b.deck.Draw(), b.deck.Draw()}
	upCard, holeCard := dealer[0], dealer[1]

	logrus.WithFields(logrus.Fields{
		"players":  len(conns),
		"dealerUp": upCard.String(),
	}).Info("new round")

	// the round is spent at deal time, even for players who disconnect
	// before it settles
	for _, conn := range conns {
		b.registry.DecrementRound(conn)
	}

	active := b.dealInitialHands(conns, hands, upCard)
	active = b.playerTurns(active, hands)
	dealerTotal, active := b.dealerTurn(active, hands, dealer, holeCard)
	b.settle(active, hands, dealerTotal)
	b.reap()
}

// dealInitialHands sends each player their two cards and the dealer's
// up-card, returning the players that survived the sends
func (b *Board) dealInitialHands(conns []net.Conn, hands map[net.Conn]deck.Hand, upCard deck.Card) []net.Conn {
	active := make([]net.Conn, 0, len(conns))

	for _, conn := range conns {
		ok := true
		for _, card := range hands[conn] {
			if !b.send(conn, wire.Payload{Result: wire.ResultNotOver, Card: card}) {
				b.registry.Remove(conn, "send failed (player card)")
				ok = false
				break
			}
		}

		if ok && !b.send(conn, wire.Payload{Result: wire.ResultNotOver, Card: upCard}) {
			b.registry.Remove(conn, "send failed (dealer upcard)")
			ok = false
		}

		if ok {
			active = append(active, conn)
		}
	}

	return active
}

// playerTurns runs each player's decision loop to completion before moving
// to the next. A read failure or invalid decision drops only that player.
func (b *Board) playerTurns(active []net.Conn, hands map[net.Conn]deck.Hand) []net.Conn {
	for _, conn := range snapshot(active) {
		log := logrus.WithField("player", b.registry.Name(conn))

		// a dealt pair of aces is already a bust; settle it before asking
		// for a decision the client will never send
		if hands[conn].Busted() {
			log.WithField("total", hands[conn].Total()).Info("bust")
			if !b.send(conn, wire.Payload{Result: wire.ResultLoss, Card: dummyCard}) {
				b.registry.Remove(conn, "send failed (bust result)")
				active = removeConn(active, conn)
				continue
			}

			b.registry.RecordOutcome(conn, wire.ResultLoss)
			active = removeConn(active, conn)
			continue
		}

		for {
			decision, err := wire.ReadDecision(conn)
			if err != nil {
				log.WithError(err).Info("dropping player mid-decision")
				b.registry.Remove(conn, "disconnect during decision")
				active = removeConn(active, conn)
				break
			}

			if decision == wire.DecisionStand {
				log.WithField("total", hands[conn].Total()).Info("stand")
				break
			}

			card := b.deck.Draw()
			hands[conn] = append(hands[conn], card)
			total := hands[conn].Total()
			log.WithFields(logrus.Fields{
				"card":  card.String(),
				"total": total,
			}).Info("hit")

			if !b.send(conn, wire.Payload{Result: wire.ResultNotOver, Card: card}) {
				b.registry.Remove(conn, "send failed (hit card)")
				active = removeConn(active, conn)
				break
			}

			if total > 21 {
				log.WithField("total", total).Info("bust")
				if !b.send(conn, wire.Payload{Result: wire.ResultLoss, Card: dummyCard}) {
					b.registry.Remove(conn, "send failed (bust result)")
					active = removeConn(active, conn)
					break
				}

				// busted players leave this round but stay enrolled
				b.registry.RecordOutcome(conn, wire.ResultLoss)
				active = removeConn(active, conn)
				break
			}
		}
	}

	return active
}

// dealerTurn reveals the hole card and hits per the shared-board rule:
// keep drawing while the dealer has not busted and some non-busted player
// total is at least the dealer's
func (b *Board) dealerTurn(active []net.Conn, hands map[net.Conn]deck.Hand, dealer deck.Hand, holeCard deck.Card) (int, []net.Conn) {
	for _, conn := range snapshot(active) {
		if !b.send(conn, wire.Payload{Result: wire.ResultNotOver, Card: holeCard}) {
			b.registry.Remove(conn, "send failed (dealer reveal)")
			active = removeConn(active, conn)
		}
	}

	logrus.WithFields(logrus.Fields{
		"card":  holeCard.String(),
		"total": dealer.Total(),
	}).Info("dealer reveals")

	for dealerShouldHit(dealer.Total(), bestActiveTotal(active, hands)) {
		card := b.deck.Draw()
		dealer = append(dealer, card)
		logrus.WithFields(logrus.Fields{
			"card":  card.String(),
			"total": dealer.Total(),
		}).Info("dealer hits")

		for _, conn := range snapshot(active) {
			if !b.send(conn, wire.Payload{Result: wire.ResultNotOver, Card: card}) {
				b.registry.Remove(conn, "send failed (dealer hit)")
				active = removeConn(active, conn)
			}
		}
	}

	return dealer.Total(), active
}

// settle sends each remaining player their result and updates stats
func (b *Board) settle(active []net.Conn, hands map[net.Conn]deck.Hand, dealerTotal int) {
	for _, conn := range active {
		playerTotal := hands[conn].Total()

		var result wire.Result
		switch {
		case dealerTotal > 21:
			result = wire.ResultWin
		case playerTotal > dealerTotal:
			result = wire.ResultWin
		case dealerTotal > playerTotal:
			result = wire.ResultLoss
		default:
			result = wire.ResultTie
		}

		if !b.send(conn, wire.Payload{Result: result, Card: dummyCard}) {
			b.registry.Remove(conn, "send failed (result)")
			continue
		}

		b.registry.RecordOutcome(conn, result)

		logrus.WithFields(logrus.Fields{
			"player":      b.registry.Name(conn),
			"playerTotal": playerTotal,
			"dealerTotal": dealerTotal,
			"result":      result.String(),
		}).Info("round settled")
	}
}

// reap drops every player whose round quota ran out, logging their final
// stats on the way out
func (b *Board) reap() {
	for _, conn := range b.registry.Exhausted() {
		if info, ok := b.registry.Lookup(conn); ok {
			logrus.WithFields(logrus.Fields{
				"player": info.Name,
				"wins":   info.Stats.ClientWins,
				"losses": info.Stats.DealerWins,
				"ties":   info.Stats.Ties,
			}).Info("client finished all rounds")
		}

		b.registry.Remove(conn, "finished rounds")
	}
}

func (b *Board) send(conn net.Conn, p wire.Payload) bool {
	_, err := conn.Write(wire.EncodePayload(p))
	return err == nil
}

// dealerShouldHit implements the shared-board policy. bestPlayerTotal is
// the highest non-busted active player total, or 0 if everyone busted.
func dealerShouldHit(dealerTotal, bestPlayerTotal int) bool {
	if dealerTotal > 21 {
		return false
	}

	if bestPlayerTotal == 0 {
		return false
	}

	return dealerTotal <= bestPlayerTotal
}

func bestActiveTotal(active []net.Conn, hands map[net.Conn]deck.Hand) int {
	best := 0
	for _, conn := range active {
		if total := hands[conn].Total(); total <= 21 && total > best {
			best = total
		}
	}

	return best
}

// snapshot copies the active list so it can be mutated while ranging
func snapshot(conns []net.Conn) []net.Conn {
	cp := make([]net.Conn, len(conns))
	copy(cp, conns)
	return cp
}

func removeConn(conns []net.Conn, conn net.Conn) []net.Conn {
	for i, c := range conns {
		if c == conn {
			return append(conns[:i], conns[i+1:]...)
		}
	}

	return conns
}
