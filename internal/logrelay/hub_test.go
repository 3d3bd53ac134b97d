package logrelay

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/logs"
)

func transferEvent() logs.Event {
	return logs.Event{
		Name: "Transfer",
		Inputs: []abi.Parameter{
			{Name: "from", Type: abi.KindAddress, Indexed: true},
			{Name: "to", Type: abi.KindAddress, Indexed: true},
			{Name: "value", Type: abi.KindUint, BitSize: 256},
		},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubDecodesAndBroadcasts(t *testing.T) {
	h := NewHub(newTestLogger())
	event := transferEvent()
	h.RegisterEvent(event)

	from := evmtype.Address{1}
	to := evmtype.Address{2}
	values := []abi.Value{{Address: from}, {Address: to}, {Int: big.NewInt(1000)}}

	l, err := logs.Encode(event, values)
	require.NoError(t, err)

	topics := make([]string, len(l.Topics))
	for i, tp := range l.Topics {
		topics[i] = `"0x` + tp.Hex() + `"`
	}

	payload := fmt.Sprintf(`{"params":{"result":{"address":"%s","topics":[%s],"data":"0x%s"}}}`,
		to.Hex(), strings.Join(topics, ","), hex.EncodeToString(l.Data))

	c := &client{hub: h, send: make(chan []byte, 1)}
	h.clients[c] = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	require.NoError(t, h.Ingest([]byte(payload)))

	select {
	case msg := <-c.send:
		var decoded DecodedEvent
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, "Transfer", decoded.Name)
		assert.Equal(t, "1000", decoded.Values["value"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHubIgnoresUnregisteredTopic(t *testing.T) {
	h := NewHub(newTestLogger())

	unknownTopic := evmtype.Keccak256([]byte("Unknown()"))
	raw := fmt.Sprintf(`{"params":{"result":{"address":"0x0000000000000000000000000000000000000000","topics":["0x%s"],"data":"0x"}}}`,
		unknownTopic.Hex())

	var payload rawLogPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	_, _, ok := h.decode(payload)
	assert.False(t, ok)
}
