package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	checkout "github.com/pymstr/checkout-go"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The checkout page may be served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// HandleStream upgrades the request to a WebSocket and pushes a snapshot
// on every machine transition, starting with the current one. The
// subscription drops intermediate snapshots for slow consumers; the latest
// state always arrives.
func HandleStream(w http.ResponseWriter, r *http.Request, m *checkout.Machine) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	snapshots, cancel := m.Subscribe(8)
	defer cancel()

	if err := conn.WriteJSON(m.Snapshot()); err != nil {
		return
	}

	// Drain reads so close frames are processed; the client never sends
	// intents over the stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
