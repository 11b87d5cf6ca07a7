package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

type ConversationCreatedEvent struct {
	ConversationID string `json:"conversation_id"`
	BuyerID        string `json:"buyer_id"`
	SellerID       string `json:"seller_id"`
	ItemID         string `json:"item_id,omitempty"`
}

// LifecyclePublisher announces conversation creation on NATS for interested
// services (inbox badges, analytics). Best-effort: a nil publisher is valid
// and publishes nothing.
type LifecyclePublisher struct {
	nc *nats.Conn
}

func NewLifecyclePublisher(url string) (*LifecyclePublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &LifecyclePublisher{nc: nc}, nil
}

func (p *LifecyclePublisher) PublishConversationCreated(ev ConversationCreatedEvent) error {
	if p == nil || p.nc == nil {
		return nil
	}
	b, _ := json.Marshal(ev)
	return p.nc.Publish("conversation.created", b)
}

func (p *LifecyclePublisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
