// Package session implements the per-client game mode: each connection
// gets a private table and plays its requested rounds to completion.
// Unlike the shared board, the dealer here follows the 17 rule.
package session

import (
	"net"

	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/deck"
	"oneboard-server/pkg/wire"
)

// dealerStandsAbove is the session-mode dealer threshold: the dealer keeps
// hitting while at or below it
const dealerStandsAbove = 17

var dummyCard = deck.Card{Rank: 2, Suit: deck.Hearts}

// Session plays a full game against a single client
type Session struct {
	conn net.Conn
	log  logrus.FieldLogger
}

// New returns a session for the connection
func New(conn net.Conn) *Session {
	return &Session{
		conn: conn,
		log:  logrus.WithField("remoteAddr", conn.RemoteAddr().String()),
	}
}

// Run reads the client's request and plays every requested round. The
// connection is closed when Run returns.
func (s *Session) Run() {
	defer s.conn.Close()

	req, err := wire.ReadRequest(s.conn)
	if err != nil {
		s.log.WithError(err).Error("could not read request")
		return
	}

	rounds := int(req.Rounds)
	if rounds < 1 {
		rounds = 1
	}

	name := req.ClientName
	if name == "" {
		name = "client"
	}

	s.log = s.log.WithField("player", name)
	s.log.WithField("rounds", rounds).Info("session started")

	var tally struct{ wins, losses, ties int }
	for i := 1; i <= rounds; i++ {
		result, err := s.playRound(i)
		if err != nil {
			s.log.WithError(err).WithField("round", i).Info("session ended early")
			return
		}

		switch result {
		case wire.ResultWin:
			tally.wins++
		case wire.ResultLoss:
			tally.losses++
		default:
			tally.ties++
		}
	}

	s.log.WithFields(logrus.Fields{
		"wins":   tally.wins,
		"losses": tally.losses,
		"ties":   tally.ties,
	}).Info("session finished")
}

// playRound plays one round over a fresh deck and returns the result sent
// to the client
func (s *Session) playRound(round int) (wire.Result, error) {
	d := deck.New()

	player := deck.Hand{d.Draw(), d.Draw()}
	dealer := deck.Hand{d.Draw(), d.Draw()}

	log := s.log.WithField("round", round)
	log.WithFields(logrus.Fields{
		"hand":     player.String(),
		"dealerUp": dealer[0].String(),
	}).Info("round dealt")

	for _, card := range player {
		if err := s.send(wire.Payload{Result: wire.ResultNotOver, Card: card}); err != nil {
			return 0, err
		}
	}
	if err := s.send(wire.Payload{Result: wire.ResultNotOver, Card: dealer[0]}); err != nil {
		return 0, err
	}

	// player turn
	for {
		if player.Busted() {
			log.WithField("total", player.Total()).Info("player bust")
			if err := s.send(wire.Payload{Result: wire.ResultLoss, Card: dummyCard}); err != nil {
				return 0, err
			}
			return wire.ResultLoss, nil
		}

		decision, err := wire.ReadDecision(s.conn)
		if err != nil {
			return 0, err
		}

		if decision == wire.DecisionStand {
			log.WithField("total", player.Total()).Info("player stands")
			break
		}

		card := d.Draw()
		player = append(player, card)
		log.WithFields(logrus.Fields{
			"card":  card.String(),
			"total": player.Total(),
		}).Info("player hits")

		if err := s.send(wire.Payload{Result: wire.ResultNotOver, Card: card}); err != nil {
			return 0, err
		}
	}

	// dealer turn: reveal the hole card, then hit per the 17 rule
	if err := s.send(wire.Payload{Result: wire.ResultNotOver, Card: dealer[1]}); err != nil {
		return 0, err
	}

	for dealer.Total() <= dealerStandsAbove {
		card := d.Draw()
		dealer = append(dealer, card)
		log.WithFields(logrus.Fields{
			"card":  card.String(),
			"total": dealer.Total(),
		}).Info("dealer hits")

		if err := s.send(wire.Payload{Result: wire.ResultNotOver, Card: card}); err != nil {
			return 0, err
		}
	}

	playerTotal, dealerTotal := player.Total(), dealer.Total()

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

	log.WithFields(logrus.Fields{
		"playerTotal": playerTotal,
		"dealerTotal": dealerTotal,
		"result":      result.String(),
	}).Info("round settled")

	if err := s.send(wire.Payload{Result: result, Card: dummyCard}); err != nil {
		return 0, err
	}

	return result, nil
}

func (s *Session) send(p wire.Payload) error {
	_, err := s.conn.Write(wire.EncodePayload(p))
	return err
}
