package chat

import (
	"context"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type Decision int

const (
	DecisionSuppressed Decision = iota
	DecisionSent
	DecisionNoToken
	DecisionFailed
)

func (d Decision) String() string {
	switch d {
	case DecisionSuppressed:
		return "suppressed"
	case DecisionSent:
		return "sent"
	case DecisionNoToken:
		return "no_token"
	default:
		return "failed"
	}
}

// Gate decides, on the sender's side after a successful send, whether the
// recipient should get a push notification. A recipient whose presence
// marker points at this conversation is already looking at the thread and
// gets nothing. Every outcome here is advisory: failures are logged and
// never propagate into the send path.
type Gate struct {
	gw      Gateway
	log     *zap.SugaredLogger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewGate(gw Gateway, log *zap.SugaredLogger, limit rate.Limit, burst int) *Gate {
	return &Gate{
		gw:      gw,
		log:     log,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "push"}),
	}
}

func (g *Gate) Notify(ctx context.Context, conv *models.Conversation, senderID, senderName, text string) Decision {
	recipient := conv.Counterparty(senderID)

	active, err := g.gw.ActiveConversation(ctx, recipient)
	if err != nil {
		// presence is advisory; on a read failure assume not viewing
		g.log.Warnw("presence read", "user", recipient, "err", err)
	}
	if active == conv.ID {
		return DecisionSuppressed
	}

	token, err := g.gw.PushToken(ctx, recipient)
	if err != nil {
		g.log.Warnw("push token lookup", "user", recipient, "err", err)
		return DecisionFailed
	}
	if token == "" {
		return DecisionNoToken
	}

	if !g.limiter.Allow() {
		g.log.Warnw("push rate exceeded, dropping", "conversation", conv.ID)
		return DecisionFailed
	}

	title := senderName + " texted you"
	data := map[string]string{
		"type":           "message",
		"conversationId": conv.ID,
		"senderName":     senderName,
	}
	_, err = g.breaker.Execute(func() (interface{}, error) {
		return nil, g.gw.SendPush(ctx, token, title, text, data)
	})
	if err != nil {
		g.log.Warnw("push dispatch", "conversation", conv.ID, "err", err)
		return DecisionFailed
	}
	return DecisionSent
}
