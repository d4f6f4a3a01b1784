// SPDX-License-Identifier: GPL-2.0-or-later

package eventwait

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/owntone/go-libretune-server/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// revisionMessage is the JSON frame pushed to a websocket client on every
// Bump. It carries only the field a client needs to decide whether to
// re-fetch: the new revision number.
type revisionMessage struct {
	ServerRevision uint32 `json:"server_revision"`
}

// ServeWebSocket upgrades r and pushes a revisionMessage every time h's
// revision advances, until the client disconnects. This is the optional
// push alternative to repeatedly long-polling GET /update; the handler
// that mounts this still serves the plain long-poll by default (see
// internal/api), matching spec §6's "GET /update" without changing its
// semantics for clients that never upgrade.
func ServeWebSocket(h *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Drain and discard client reads (this protocol has nothing for the
	// client to send); the read loop only exists to notice disconnects
	// and answer pings.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	since := h.Revision()
	if err := writeRevision(conn, since); err != nil {
		return err
	}

	ch, cancel := h.Subscribe()
	defer func() { cancel() }()

	for {
		select {
		case <-closed:
			return nil
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ch:
			rev := h.Revision()
			if err := writeRevision(conn, rev); err != nil {
				return err
			}
			ch, cancel = h.Subscribe()
		}
	}
}

func writeRevision(conn *websocket.Conn, rev uint32) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	b, err := json.Marshal(revisionMessage{ServerRevision: rev})
	if err != nil {
		logging.Error().Err(err).Msg("eventwait: marshal revision message")
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}
