package ws

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// Server exposes the realtime channel to websocket clients: each
// connection subscribes to one conversation's message feed.
type Server struct {
	gw  chat.Gateway
	log *zap.SugaredLogger
}

func NewServer(gw chat.Gateway, log *zap.SugaredLogger) *Server {
	return &Server{gw: gw, log: log}
}

// Handle serves one client connection. The caller (fiber route) has
// already authenticated the user; the conversation id arrives as a query
// parameter.
func (s *Server) Handle(wc *websocket.Conn) {
	userID, _ := wc.Locals("user_id").(string)
	convID := wc.Query("conversation_id")
	if userID == "" || convID == "" {
		_ = wc.Close()
		return
	}

	conv, err := s.gw.Conversation(context.Background(), convID)
	if err != nil || !conv.HasParticipant(userID) {
		_ = wc.Close()
		return
	}

	c := newConn(wc)
	sub, err := s.gw.Subscribe(convID, func(msg models.Message) {
		c.deliver(msg)
	})
	if err != nil {
		s.log.Errorw("ws subscribe", "conversation", convID, "err", err)
		_ = wc.Close()
		return
	}
	defer sub.Unsubscribe()

	s.log.Infow("ws connected", "user", userID, "conversation", convID)
	go c.writePump()
	c.readPump()
	s.log.Infow("ws disconnected", "user", userID, "conversation", convID)
}
