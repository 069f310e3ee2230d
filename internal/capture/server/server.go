package server

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"loom/internal/capture"
	"loom/internal/shared/constants"
	"loom/internal/shared/recovery"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the capture relay's HTTP/WebSocket front end: one endpoint for
// capture agents, one for viewers.
type Server struct {
	manager       *Manager
	logger        *zap.Logger
	recoverer     *recovery.Recoverer
	tableSize     uint32
	hardTableMax  uint32
}

// NewServer creates a relay server. tableSize and hardTableMax seed every
// new session's hpack.Decoder.
func NewServer(logger *zap.Logger, tableSize, hardTableMax uint32) *Server {
	return &Server{
		manager:      NewManager(logger),
		logger:       logger,
		recoverer:    recovery.NewRecoverer(logger, nil),
		tableSize:    tableSize,
		hardTableMax: hardTableMax,
	}
}

// Close stops the server's background session sweep.
func (s *Server) Close() {
	s.manager.Close()
}

// ServeAgent upgrades a capture client's connection and reads envelopes
// from it until the connection closes or a decode error occurs.
func (s *Server) ServeAgent(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("agent websocket upgrade failed", zap.Error(err))
		return
	}

	session := s.manager.CreateSession(s.tableSize, s.hardTableMax)
	s.logger.Info("capture session started", zap.String("session_id", session.ID))

	go s.recoverer.WrapGoroutine("capture-agent-"+session.ID, func() {
		defer conn.Close()
		defer s.manager.RemoveSession(session.ID)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				s.logger.Info("capture agent disconnected", zap.String("session_id", session.ID), zap.Error(err))
				return
			}

			var env capture.Envelope
			if err := env.Unmarshal(data); err != nil {
				s.logger.Warn("malformed capture envelope",
					zap.String("code", constants.ErrCodeInvalidRequest),
					zap.String("session_id", session.ID), zap.Error(err))
				return
			}

			switch env.Kind {
			case capture.KindHeartbeat:
				session.touch()
			case capture.KindData:
				if err := session.HandleData(env.Payload); err != nil {
					s.logger.Warn("capture decode failed, closing session",
						zap.String("code", constants.ErrCodeDecodeFailed),
						zap.String("session_id", session.ID), zap.Error(err))
					return
				}
			}
		}
	})()
}

type viewerControl struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// ServeViewer upgrades a viewer's connection, reads one subscribe control
// message, then streams that session's decoded header sets as JSON.
func (s *Server) ServeViewer(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("viewer websocket upgrade failed", zap.Error(err))
		return
	}

	go s.recoverer.WrapGoroutine("capture-viewer", func() {
		defer conn.Close()

		var ctrl viewerControl
		if err := conn.ReadJSON(&ctrl); err != nil {
			return
		}
		if ctrl.SessionID == "" {
			_ = conn.WriteJSON(map[string]string{"type": "error", "code": constants.ErrCodeInvalidRequest})
			return
		}
		session, ok := s.manager.GetSession(ctrl.SessionID)
		if !ok {
			_ = conn.WriteJSON(map[string]string{"type": "error", "code": constants.ErrCodeSessionNotFound})
			return
		}

		viewer := &Viewer{ID: GenerateSessionID(), Outbox: make(chan []DecodedHeader, 16)}
		session.Subscribe(viewer)
		defer session.Unsubscribe(viewer.ID)

		for headers := range viewer.Outbox {
			payload, err := json.Marshal(headers)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})()
}
