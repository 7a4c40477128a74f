package ingestion

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"swing-coach-lab/internal/domain"
	"swing-coach-lab/internal/observability"
	"swing-coach-lab/internal/session"
)

// wsEvent is pushed back to the pose-source client whenever the session
// produces something worth announcing.
type wsEvent struct {
	Type    string                  `json:"type"` // "swing" | "snapshot" | "error"
	Swing   *domain.SwingResult     `json:"swing,omitempty"`
	State   *domain.SessionSnapshot `json:"state,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// WSHandlerConfig configures the pose-frame WebSocket endpoint.
type WSHandlerConfig struct {
	// WriteTimeout bounds one outbound event write.
	WriteTimeout time.Duration
	// ReadLimit caps inbound message size; a full 33-landmark frame is
	// well under 4 KiB.
	ReadLimit int64
	// SnapshotInterval is how often the session snapshot is pushed even
	// without swing activity.
	SnapshotInterval time.Duration
}

// DefaultWSHandlerConfig returns default WebSocket endpoint configuration.
func DefaultWSHandlerConfig() WSHandlerConfig {
	return WSHandlerConfig{
		WriteTimeout:     5 * time.Second,
		ReadLimit:        16 * 1024,
		SnapshotInterval: 2 * time.Second,
	}
}

// WSHandler accepts one pose-source connection at a time per socket and
// bridges it to the session controller: frames in, swing results and
// snapshots out.
type WSHandler struct {
	config     WSHandlerConfig
	controller *session.Controller
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
}

// NewWSHandler creates the WebSocket bridge.
func NewWSHandler(config WSHandlerConfig, controller *session.Controller, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		config:     config,
		controller: controller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The pose source is a local browser page; same-host
			// deployments do not need origin policy here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// ServeHTTP upgrades the connection and runs the frame loop until the client
// disconnects or the request context ends.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(h.config.ReadLimit)
	observability.DefaultMetrics.WSConnections.Inc()
	defer observability.DefaultMetrics.WSConnections.Dec()
	h.logger.Info().Str("remote", r.RemoteAddr).Msg("pose source connected")

	// Outbound writes are serialized through one channel; gorilla
	// connections allow a single concurrent writer.
	events := make(chan wsEvent, 16)
	done := make(chan struct{})
	defer close(done)

	go h.writeLoop(conn, events, done)

	h.controller.SetResultHandler(func(result domain.SwingResult) {
		r := result
		select {
		case events <- wsEvent{Type: "swing", Swing: &r}:
		case <-done:
		default:
			// A stalled client must not block result delivery.
		}
	})
	defer h.controller.SetResultHandler(nil)

	go h.snapshotLoop(events, done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("pose source read error")
			} else {
				h.logger.Info().Msg("pose source disconnected")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			observability.RecordFrameRejected("malformed")
			select {
			case events <- wsEvent{Type: "error", Message: err.Error()}:
			case <-done:
				return
			default:
			}
			continue
		}

		h.controller.SubmitFrame(frame)
	}
}

// writeLoop drains the event channel onto the socket.
func (h *WSHandler) writeLoop(conn *websocket.Conn, events <-chan wsEvent, done <-chan struct{}) {
	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Warn().Err(err).Msg("websocket write failed")
				return
			}
		case <-done:
			return
		}
	}
}

// snapshotLoop periodically pushes the session snapshot so the client UI
// tracks swing count and lockout state without polling.
func (h *WSHandler) snapshotLoop(events chan<- wsEvent, done <-chan struct{}) {
	ticker := time.NewTicker(h.config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap := h.controller.Snapshot()
			select {
			case events <- wsEvent{Type: "snapshot", State: &snap}:
			case <-done:
				return
			default:
			}
		case <-done:
			return
		}
	}
}
