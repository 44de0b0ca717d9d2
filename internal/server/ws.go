package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/store"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsBacklog      = 16
)

// stateMessage is what websocket clients receive: the initial snapshot and
// one message per dispatched action.
type stateMessage struct {
	Type   string      `json:"type"`
	Action string      `json:"action,omitempty"`
	Reload bool        `json:"reload"`
	State  store.State `json:"state"`
	Forms  []string    `json:"forms,omitempty"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	// The client never sends; CloseRead keeps control frames flowing and
	// cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	updates := make(chan stateMessage, wsBacklog)
	unsubscribe := s.store.Subscribe(func(action store.Action, state store.State) {
		msg := stateMessage{Type: "state", Action: string(action.Type), Reload: true, State: state}
		select {
		case updates <- msg:
		default:
			s.logger.Warn("websocket backlog full, dropping update", zap.String("action", string(action.Type)))
		}
	})
	defer unsubscribe()

	if err := s.send(ctx, conn, stateMessage{Type: "state", State: s.store.State(), Forms: s.FormIDs()}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg := <-updates:
			if err := s.send(ctx, conn, msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg stateMessage) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
			s.logger.Warn("websocket write", zap.Error(err))
		}
		return err
	}
	return nil
}
