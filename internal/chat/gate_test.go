package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/logger"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type gateGateway struct {
	*fakeGateway
	tokenErr error
	pushErr  error
}

func (g *gateGateway) PushToken(ctx context.Context, userID string) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return g.fakeGateway.PushToken(ctx, userID)
}

func (g *gateGateway) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if g.pushErr != nil {
		return g.pushErr
	}
	return g.fakeGateway.SendPush(ctx, token, title, body, data)
}

func newGateGateway() *gateGateway {
	return &gateGateway{fakeGateway: newFakeGateway()}
}

func gateConv() *models.Conversation {
	return &models.Conversation{ID: "conv1", BuyerID: "alice", SellerID: "bob"}
}

func TestNotifySuppressedWhenRecipientViewing(t *testing.T) {
	gw := newGateGateway()
	gw.presence["bob"] = "conv1"
	g := NewGate(gw, logger.Nop(), rate.Inf, 1)

	d := g.Notify(context.Background(), gateConv(), "alice", "Alice", "hello")
	assert.Equal(t, DecisionSuppressed, d)
	assert.Empty(t, gw.pushes)
}

func TestNotifySentWhenRecipientElsewhere(t *testing.T) {
	gw := newGateGateway()
	gw.presence["bob"] = "some-other-conv"
	g := NewGate(gw, logger.Nop(), rate.Inf, 1)

	d := g.Notify(context.Background(), gateConv(), "alice", "Alice", "hello")
	assert.Equal(t, DecisionSent, d)
	assert.Equal(t, []string{"Alice texted you"}, gw.pushes)
}

func TestNotifyNoToken(t *testing.T) {
	gw := newGateGateway()
	gw.profiles["bob"].PushToken = ""
	g := NewGate(gw, logger.Nop(), rate.Inf, 1)

	d := g.Notify(context.Background(), gateConv(), "alice", "Alice", "hello")
	assert.Equal(t, DecisionNoToken, d)
}

func TestNotifyTokenLookupFailure(t *testing.T) {
	gw := newGateGateway()
	gw.tokenErr = errors.New("store down")
	g := NewGate(gw, logger.Nop(), rate.Inf, 1)

	d := g.Notify(context.Background(), gateConv(), "alice", "Alice", "hello")
	assert.Equal(t, DecisionFailed, d)
}

func TestNotifyPushFailureIsContained(t *testing.T) {
	gw := newGateGateway()
	gw.pushErr = errors.New("expo 503")
	g := NewGate(gw, logger.Nop(), rate.Inf, 1)

	d := g.Notify(context.Background(), gateConv(), "alice", "Alice", "hello")
	assert.Equal(t, DecisionFailed, d)
}

func TestNotifyRateLimited(t *testing.T) {
	gw := newGateGateway()
	g := NewGate(gw, logger.Nop(), rate.Limit(0.0001), 1)

	assert.Equal(t, DecisionSent, g.Notify(context.Background(), gateConv(), "alice", "Alice", "one"))
	assert.Equal(t, DecisionFailed, g.Notify(context.Background(), gateConv(), "alice", "Alice", "two"))
	assert.Len(t, gw.pushes, 1)
}
