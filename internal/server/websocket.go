package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
)

// upgrader accepts any origin; the host exists for local demos and
// integration tests, not for exposure to the open internet.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleThingStream upgrades the connection and streams every hosted
// description as one text message each, then closes with a normal
// closure frame. A direct-discovery client that takes the first
// message sees one description; a client that reads until close sees
// the whole catalog.
func (s *Server) handleThingStream(w http.ResponseWriter, r *http.Request) {
	logRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "websocket_upgraded")

	defer func() {
		_ = conn.Close()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	for _, name := range s.catalog.Names() {
		payload, ok := s.catalog.Get(name)
		if !ok {
			continue
		}

		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logging.Warn("Failed to set write deadline",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logging.Info("Connection closed while streaming",
				zap.String("remote_addr", remoteAddr),
				zap.String("thing", name),
				zap.Error(err),
			)
			return
		}
		logging.LogWebSocketMessage(remoteAddr, "sent", websocket.TextMessage, payload)
	}

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait)); err != nil {
		logging.Debug("Failed to send close frame",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
	}
}
