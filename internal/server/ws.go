package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"Hearthlight/internal/dialogue"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var errMissingIndex = errors.New("dialogue_choose: missing index")

// serveWS upgrades the request and runs one dialogue session until the
// client disconnects. A "start" query parameter enters that node right away.
func serveWS(h *Hub, logger zerolog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := h.Open()
	log := logger.With().Str("session", session.ID).Logger()
	log.Info().Int("sessions", h.SessionCount()).Msg("dialogue session opened")

	done := make(chan struct{})
	defer func() {
		close(done)
		h.Close(session.ID)
		_ = conn.Close()
		log.Info().Msg("dialogue session closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go keepAlive(conn, done, log)

	if start := r.URL.Query().Get("start"); start != "" {
		session.Engine.Start(start)
		logTransition(log, session, "start")
	}
	if err := writeJSON(conn, snapshotMsg(session)); err != nil {
		log.Warn().Err(err).Msg("initial write failed")
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("read failed")
			}
			return
		}

		replies := []any{}
		reply, err := handleMessage(session, data, log)
		switch {
		case err == nil:
			replies = append(replies, reply)
		case errors.Is(err, dialogue.ErrMalformedNode):
			// The engine already dropped the node; tell the client to close it too.
			replies = append(replies, errorMsg{Type: "error", Error: err.Error()}, snapshotMsg(session))
		default:
			replies = append(replies, errorMsg{Type: "error", Error: err.Error()})
		}
		for _, out := range replies {
			if err := writeJSON(conn, out); err != nil {
				log.Warn().Err(err).Msg("write failed")
				return
			}
		}
	}
}

// handleMessage applies one client frame to the session and returns the frame
// to send back. Malformed content ends the conversation and also returns an
// error for the client.
func handleMessage(s *Session, data []byte, log zerolog.Logger) (any, error) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch msg.Type {
	case "dialogue_start":
		var req dialogueStartDTO
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("dialogue_start: %w", err)
		}
		s.Engine.Start(req.Node)
		logTransition(log, s, "start")

	case "dialogue_choose":
		var req dialogueChooseDTO
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("dialogue_choose: %w", err)
		}
		if req.Index == nil {
			return nil, errMissingIndex
		}
		if _, err := s.Engine.Choose(*req.Index); err != nil {
			log.Error().Err(err).Msg("dialogue content error")
			return nil, err
		}
		logTransition(log, s, "choose")

	case "dialogue_state":
		// snapshot only

	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}

	return snapshotMsg(s), nil
}

func logTransition(log zerolog.Logger, s *Session, op string) {
	key, node := s.Engine.Active()
	if node != nil {
		log.Debug().Str("op", op).Str("node", key).Int("options", len(node.Options)).Msg("dialogue node entered")
		return
	}
	reason := s.Engine.EndReason()
	ev := log.Debug()
	if reason == dialogue.EndDanglingNext || reason == dialogue.EndUnknownStart || reason == dialogue.EndOptionOutOfRange {
		ev = log.Warn()
	}
	ev.Str("op", op).Str("reason", string(reason)).Msg("dialogue ended")
}

func keepAlive(conn *websocket.Conn, done <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
