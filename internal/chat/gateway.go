package chat

import (
	"context"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// Subscription is a live realtime feed; Unsubscribe releases it.
type Subscription interface {
	Unsubscribe()
}

// Gateway is the remote backend a session talks to. The production
// implementation lives in internal/gateway; tests substitute fakes.
type Gateway interface {
	// Conversation resolves an explicit conversation id.
	// Returns apperr.ErrNotFound if it does not exist.
	Conversation(ctx context.Context, id string) (*models.Conversation, error)

	// FindConversation looks up the conversation for an unordered
	// participant pair, optionally scoped to an item.
	FindConversation(ctx context.Context, a, b, itemID string) (*models.Conversation, error)

	CreateConversation(ctx context.Context, buyerID, sellerID, itemID string) (*models.Conversation, error)

	// InsertMessage persists a message; the server assigns id and timestamp.
	InsertMessage(ctx context.Context, convID, senderID, content string) (*models.Message, error)

	// ListMessages returns the conversation log, oldest first.
	ListMessages(ctx context.Context, convID string) ([]*models.Message, error)

	MarkRead(ctx context.Context, convID, readerID string) error

	// Subscribe delivers every new message in the conversation to fn.
	Subscribe(convID string, fn func(models.Message)) (Subscription, error)

	Profile(ctx context.Context, userID string) (*models.Profile, error)
	PushToken(ctx context.Context, userID string) (string, error)
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error

	ActiveConversation(ctx context.Context, userID string) (string, error)
	SetActiveConversation(ctx context.Context, userID, convID string) error
	ClearActiveConversation(ctx context.Context, userID string) error
}
