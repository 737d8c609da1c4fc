package httpapi

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

const eventBuffer = 16

type documentEvent struct {
	Type     string            `json:"type"`
	Document metaform.Document `json:"document"`
}

// handleEvents streams every published pending document to the client. Slow
// clients skip intermediate documents; the latest one always wins.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	updates := make(chan metaform.Document, eventBuffer)
	unsubscribe := e.session.Subscribe(func(doc metaform.Document) {
		for {
			select {
			case updates <- doc:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	ctx := conn.CloseRead(r.Context())
	if doc, ok := e.session.Pending(); ok {
		if !s.sendDocument(ctx, conn, doc) {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case doc := <-updates:
			if !s.sendDocument(ctx, conn, doc) {
				return
			}
		}
	}
}

func (s *Server) sendDocument(ctx context.Context, conn *websocket.Conn, doc metaform.Document) bool {
	if err := wsjson.Write(ctx, conn, documentEvent{Type: "document", Document: doc}); err != nil {
		if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
			s.logger.Debug("websocket write", zap.Error(err))
		}
		return false
	}
	return true
}
