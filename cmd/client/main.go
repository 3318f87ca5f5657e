package main

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"oneboard-server/pkg/deck"
	"oneboard-server/pkg/discovery"
	"oneboard-server/pkg/wire"
)

var port = flag.Int("port", discovery.DefaultPort, "UDP discovery port")

func main() {
	flag.Parse()

	pterm.DefaultHeader.Println("OneBoard Blackjack")

	src, offer, err := waitForOffer(*port)
	if err != nil {
		pterm.Fatal.Printfln("Discovery failed: %v", err)
	}

	target := fmt.Sprintf("%s:%d", src.IP, offer.TCPPort)
	conn, err := net.Dial("tcp", target)
	if err != nil {
		pterm.Fatal.Printfln("Could not connect to %s: %v", target, err)
	}
	defer conn.Close()
	pterm.Success.Printfln("Connected to %q at %s", offer.ServerName, target)

	rounds := promptRounds()
	name, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Your client name").
		WithDefaultValue("ClientTeam").
		Show()

	req := wire.Request{Rounds: uint8(rounds), ClientName: strings.TrimSpace(name)}
	if _, err := conn.Write(wire.EncodeRequest(req)); err != nil {
		pterm.Fatal.Printfln("Could not send request: %v", err)
	}

	tally := make(map[wire.Result]int)
	errorCount := 0
	for i := 1; i <= rounds; i++ {
		result, err := playRound(conn, i)
		if err != nil {
			pterm.Error.Printfln("Round %d aborted: %v", i, err)
			errorCount++
			break
		}

		tally[result]++
	}

	pterm.DefaultSection.Println("Game summary")
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Wins", "Losses", "Ties", "Errors"},
		{
			strconv.Itoa(tally[wire.ResultWin]),
			strconv.Itoa(tally[wire.ResultLoss]),
			strconv.Itoa(tally[wire.ResultTie]),
			strconv.Itoa(errorCount),
		},
	}).Render()
}

func waitForOffer(port int) (*net.UDPAddr, wire.Offer, error) {
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Listening for offers on UDP port %d", port))

	ls, err := discovery.NewListener(fmt.Sprintf(":%d", port))
	if err != nil {
		spinner.Fail("Could not bind discovery port")
		return nil, wire.Offer{}, err
	}
	defer ls.Close()

	src, offer, err := ls.Next()
	if err != nil {
		spinner.Fail("Discovery listen failed")
		return nil, wire.Offer{}, err
	}

	spinner.Success(fmt.Sprintf("Offer from %s: server=%q tcpPort=%d", src.IP, offer.ServerName, offer.TCPPort))
	return src, offer, nil
}

func promptRounds() int {
	answer, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("How many rounds? (1-255)").
		WithDefaultValue("1").
		Show()

	rounds, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || rounds < 1 {
		rounds = 1
	}
	if rounds > 255 {
		rounds = 255
	}

	return rounds
}

func playRound(conn net.Conn, round int) (wire.Result, error) {
	pterm.DefaultSection.Printfln("Round %d", round)

	var hand deck.Hand
	var dealerUp deck.Card
	for i := 0; i < 3; i++ {
		p, err := wire.ReadPayload(conn)
		if err != nil {
			return 0, err
		}
		if p.Result != wire.ResultNotOver {
			return 0, fmt.Errorf("round ended before the deal completed (result=%s)", p.Result)
		}

		if i < 2 {
			hand = append(hand, p.Card)
		} else {
			dealerUp = p.Card
		}
	}

	pterm.Info.Printfln("Your cards: %s (total=%d)", hand, hand.Total())
	pterm.Info.Printfln("Dealer up:  %s", dealerUp)

	// a dealt pair of aces is already a bust; the server settles it
	// without asking for a decision
	for !hand.Busted() {
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Hit or stand?").
			WithOptions([]string{"Hit", "Stand"}).
			Show()

		if choice == "Stand" {
			if _, err := conn.Write(wire.EncodeDecision(wire.DecisionStand)); err != nil {
				return 0, err
			}
			break
		}

		if _, err := conn.Write(wire.EncodeDecision(wire.DecisionHit)); err != nil {
			return 0, err
		}

		p, err := wire.ReadPayload(conn)
		if err != nil {
			return 0, err
		}
		if p.Result != wire.ResultNotOver {
			// the server ended the round early
			return finishRound(p.Result, hand), nil
		}

		hand = append(hand, p.Card)
		pterm.Info.Printfln("You got: %s (total=%d)", p.Card, hand.Total())
	}

	// dealer reveal and hits, then the terminal result
	for {
		p, err := wire.ReadPayload(conn)
		if err != nil {
			return 0, err
		}

		if p.Result == wire.ResultNotOver {
			pterm.Info.Printfln("Dealer: %s", p.Card)
			continue
		}

		return finishRound(p.Result, hand), nil
	}
}

func finishRound(result wire.Result, hand deck.Hand) wire.Result {
	switch result {
	case wire.ResultWin:
		pterm.Success.Println("You WIN!")
	case wire.ResultLoss:
		pterm.Error.Printfln("You LOSE! (total=%d)", hand.Total())
	case wire.ResultTie:
		pterm.Warning.Println("TIE!")
	}

	return result
}
