// Package logrelay fans decoded Ethereum event logs out to WebSocket
// subscribers. It consumes already-received JSON-RPC eth_subscribe log
// payloads; it does not implement a JSON-RPC client itself.
package logrelay

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/logs"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// rawLogPayload is the subset of a JSON-RPC 2.0 `eth_subscribe` logs
// notification this relay understands:
//
//	{"params":{"result":{"address":"0x...","topics":["0x...",...],"data":"0x..."}}}
type rawLogPayload struct {
	Params struct {
		Result struct {
			Address string   `json:"address"`
			Topics  []string `json:"topics"`
			Data    string   `json:"data"`
		} `json:"result"`
	} `json:"params"`
}

// DecodedEvent is what subscribers receive: the event name plus its
// decoded field values rendered as a plain JSON object, one entry per
// input parameter name.
type DecodedEvent struct {
	Address string         `json:"address"`
	Name    string         `json:"name"`
	Values  map[string]any `json:"values"`
}

// client is one connected WebSocket subscriber.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub decodes raw log payloads against a registered set of event schemas
// and broadcasts the decoded result to every connected subscriber.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	events   map[evmtype.Hash]logs.Event
	register chan *client
	unreg    chan *client
	feed     chan rawLogPayload
	logger   *slog.Logger
}

// NewHub creates a Hub with no registered events. Call RegisterEvent before
// Run to recognize incoming log payloads.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*client]bool),
		events:   make(map[evmtype.Hash]logs.Event),
		register: make(chan *client),
		unreg:    make(chan *client),
		feed:     make(chan rawLogPayload, 256),
		logger:   logger,
	}
}

// RegisterEvent tells the hub how to decode logs whose topic-0 matches e's
// signature hash.
func (h *Hub) RegisterEvent(e logs.Event) {
	topic0 := eventTopic0(e)
	h.mu.Lock()
	h.events[topic0] = e
	h.mu.Unlock()
}

// Ingest feeds one raw eth_subscribe JSON-RPC notification into the relay.
// Payloads whose topic-0 is not registered via RegisterEvent are dropped.
func (h *Hub) Ingest(raw []byte) error {
	var payload rawLogPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	select {
	case h.feed <- payload:
	default:
		h.logger.Warn("logrelay: dropping payload, feed buffer full")
	}
	return nil
}

// Run starts the hub's dispatch loop. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case payload := <-h.feed:
			h.dispatch(payload)
		}
	}
}

func (h *Hub) dispatch(payload rawLogPayload) {
	l, event, ok := h.decode(payload)
	if !ok {
		return
	}

	values, err := logs.Decode(event, l)
	if err != nil {
		h.logger.Warn("logrelay: decode failed", slog.String("event", event.Name), slog.String("error", err.Error()))
		return
	}

	out := DecodedEvent{Name: event.Name, Values: make(map[string]any, len(values))}
	if addr, err := evmtype.ParseAddress(payload.Params.Result.Address); err == nil {
		out.Address = addr.String()
	}
	for i, p := range event.Inputs {
		out.Values[p.Name] = renderValue(p, values[i])
	}

	data, err := json.Marshal(out)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("logrelay: dropping message for slow client")
		}
	}
}

func (h *Hub) decode(payload rawLogPayload) (logs.Log, logs.Event, bool) {
	if len(payload.Params.Result.Topics) == 0 {
		return logs.Log{}, logs.Event{}, false
	}

	topics := make([]evmtype.Hash, len(payload.Params.Result.Topics))
	for i, t := range payload.Params.Result.Topics {
		topic, err := evmtype.ParseHash(t)
		if err != nil {
			return logs.Log{}, logs.Event{}, false
		}
		topics[i] = topic
	}

	data, err := hexToBytes(payload.Params.Result.Data)
	if err != nil {
		return logs.Log{}, logs.Event{}, false
	}

	h.mu.RLock()
	event, ok := h.events[topics[0]]
	h.mu.RUnlock()
	if !ok {
		return logs.Log{}, logs.Event{}, false
	}

	return logs.Log{Topics: topics, Data: data}, event, true
}

// HandleWS upgrades an HTTP request to a WebSocket connection and registers
// the connection as a subscriber.
// GET /relay
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("logrelay: upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unreg <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// eventTopic0 computes the topic-0 signature hash for e the same way
// logs.Encode does, from its full ordered input list regardless of which
// inputs are indexed.
func eventTopic0(e logs.Event) evmtype.Hash {
	return abi.EventTopic0(e.Name, e.Inputs)
}

// renderValue converts a decoded abi.Value into a plain JSON-friendly form.
// Dynamic indexed parameters carry only their topic hash (see logs.Decode);
// those render as a 0x-prefixed hex string rather than the original value.
func renderValue(p abi.Parameter, v abi.Value) any {
	switch p.Type {
	case abi.KindAddress:
		return v.Address.Hex()
	case abi.KindBool:
		return v.Bool
	case abi.KindString:
		if p.Indexed {
			return "0x" + hex.EncodeToString(v.Bytes)
		}
		return v.Str
	case abi.KindBytes, abi.KindBytesN:
		return "0x" + hex.EncodeToString(v.Bytes)
	case abi.KindUint, abi.KindInt, abi.KindEnum:
		if v.Int == nil {
			return nil
		}
		return v.Int.String()
	case abi.KindFixedArray, abi.KindDynamicArray:
		if p.Indexed {
			return "0x" + hex.EncodeToString(v.Bytes)
		}
		out := make([]any, len(v.Array))
		for i, elem := range v.Array {
			out[i] = renderValue(*p.Elem, elem)
		}
		return out
	case abi.KindTuple:
		if p.Indexed {
			return "0x" + hex.EncodeToString(v.Bytes)
		}
		out := make(map[string]any, len(v.Tuple))
		for i, c := range p.Components {
			out[c.Name] = renderValue(c, v.Tuple[i])
		}
		return out
	default:
		return nil
	}
}

// hexToBytes decodes a 0x-prefixed hex string into bytes.
func hexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 {
		return nil, nil
	}
	return hex.DecodeString(s)
}
