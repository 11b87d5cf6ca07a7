package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/events"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/presence"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/push"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/realtime"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/repository"
)

// Gateway is the backend realization of the chat.Gateway contract: Mongo
// for durable state, Redis for the presence marker, the in-process hub
// (bridged over Kafka) for realtime fan-out, NATS for lifecycle events and
// Expo for push delivery.
type Gateway struct {
	conversations *repository.ConversationRepo
	messages      *repository.MessageRepo
	profiles      *repository.ProfileRepo
	presence      *presence.Store
	hub           *realtime.Hub
	producer      *events.Producer
	lifecycle     *events.LifecyclePublisher
	pusher        push.Sender
	log           *zap.SugaredLogger
}

type Deps struct {
	Conversations *repository.ConversationRepo
	Messages      *repository.MessageRepo
	Profiles      *repository.ProfileRepo
	Presence      *presence.Store
	Hub           *realtime.Hub
	Producer      *events.Producer
	Lifecycle     *events.LifecyclePublisher
	Pusher        push.Sender
	Log           *zap.SugaredLogger
}

func New(d Deps) *Gateway {
	return &Gateway{
		conversations: d.Conversations,
		messages:      d.Messages,
		profiles:      d.Profiles,
		presence:      d.Presence,
		hub:           d.Hub,
		producer:      d.Producer,
		lifecycle:     d.Lifecycle,
		pusher:        d.Pusher,
		log:           d.Log,
	}
}

var _ chat.Gateway = (*Gateway)(nil)

func (g *Gateway) Conversation(ctx context.Context, id string) (*models.Conversation, error) {
	return g.conversations.Get(ctx, id)
}

func (g *Gateway) FindConversation(ctx context.Context, a, b, itemID string) (*models.Conversation, error) {
	return g.conversations.Find(ctx, a, b, itemID)
}

func (g *Gateway) CreateConversation(ctx context.Context, buyerID, sellerID, itemID string) (*models.Conversation, error) {
	conv, err := g.conversations.Create(ctx, buyerID, sellerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := g.lifecycle.PublishConversationCreated(events.ConversationCreatedEvent{
		ConversationID: conv.ID,
		BuyerID:        conv.BuyerID,
		SellerID:       conv.SellerID,
		ItemID:         conv.ItemID,
	}); err != nil {
		g.log.Warnw("conversation.created publish", "conversation", conv.ID, "err", err)
	}
	return conv, nil
}

// InsertMessage persists the message, bumps the conversation's
// last-activity timestamp and fans the insert out to realtime subscribers
// on this instance and, via Kafka, on the others.
func (g *Gateway) InsertMessage(ctx context.Context, convID, senderID, content string) (*models.Message, error) {
	msg, err := g.messages.Insert(ctx, convID, senderID, content)
	if err != nil {
		return nil, err
	}
	if err := g.conversations.Touch(ctx, convID, msg.CreatedAt); err != nil {
		g.log.Warnw("conversation touch", "conversation", convID, "err", err)
	}
	g.hub.Publish(*msg)
	if g.producer != nil {
		if err := g.producer.PublishMessageSent(ctx, msg); err != nil {
			g.log.Warnw("message.sent publish", "conversation", convID, "err", err)
		}
	}
	return msg, nil
}

func (g *Gateway) ListMessages(ctx context.Context, convID string) ([]*models.Message, error) {
	return g.messages.List(ctx, convID)
}

func (g *Gateway) MarkRead(ctx context.Context, convID, readerID string) error {
	return g.messages.MarkRead(ctx, convID, readerID)
}

func (g *Gateway) Subscribe(convID string, fn func(models.Message)) (chat.Subscription, error) {
	return g.hub.Subscribe(convID, fn), nil
}

func (g *Gateway) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return g.profiles.Get(ctx, userID)
}

func (g *Gateway) PushToken(ctx context.Context, userID string) (string, error) {
	return g.profiles.PushToken(ctx, userID)
}

func (g *Gateway) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if g.pusher == nil {
		return fmt.Errorf("no push sender configured")
	}
	return g.pusher.Send(ctx, token, title, body, data)
}

func (g *Gateway) ActiveConversation(ctx context.Context, userID string) (string, error) {
	return g.presence.Active(ctx, userID)
}

func (g *Gateway) SetActiveConversation(ctx context.Context, userID, convID string) error {
	return g.presence.SetActive(ctx, userID, convID)
}

func (g *Gateway) ClearActiveConversation(ctx context.Context, userID string) error {
	return g.presence.Clear(ctx, userID)
}

// RunEventBridge attaches a Kafka consumer to the hub so inserts made by
// other instances reach local subscribers. Blocks until ctx is cancelled.
func (g *Gateway) RunEventBridge(ctx context.Context, c *events.Consumer) {
	c.Run(ctx, g.hub)
}
