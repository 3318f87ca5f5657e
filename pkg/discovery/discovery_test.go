package discovery

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneboard-server/pkg/wire"
)

func TestBroadcasterDeliversOffers(t *testing.T) {
	a := assert.New(t)

	ls, err := NewListener("127.0.0.1:0")
	require.NoError(t, err)
	defer ls.Close()

	offer := wire.Offer{TCPPort: 4321, ServerName: "discovery test"}
	b := NewBroadcaster(offer, fmt.Sprintf("127.0.0.1:%d", ls.Port()), 10*time.Millisecond)
	require.NoError(t, b.Start())
	defer b.Stop()

	src, got, err := ls.Next()
	require.NoError(t, err)
	a.Equal(offer, got)
	a.Equal("127.0.0.1", src.IP.String())
}

func TestListenerSkipsMalformedDatagrams(t *testing.T) {
	a := assert.New(t)

	ls, err := NewListener("127.0.0.1:0")
	require.NoError(t, err)
	defer ls.Close()

	sender, err := net.Dial("udp4", fmt.Sprintf("127.0.0.1:%d", ls.Port()))
	require.NoError(t, err)
	defer sender.Close()

	// junk, then a frame with a bad cookie, then a valid offer
	_, err = sender.Write([]byte("not an offer"))
	require.NoError(t, err)

	bad := wire.EncodeOffer(wire.Offer{TCPPort: 1, ServerName: "bad"})
	bad[0] = 0x00
	_, err = sender.Write(bad)
	require.NoError(t, err)

	want := wire.Offer{TCPPort: 7777, ServerName: "good"}
	_, err = sender.Write(wire.EncodeOffer(want))
	require.NoError(t, err)

	_, got, err := ls.Next()
	require.NoError(t, err)
	a.Equal(want, got)
}

func TestListenerCloseUnblocksNext(t *testing.T) {
	ls, err := NewListener("127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, _, err := ls.Next()
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, ls.Close())

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Close")
	}
}
