package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type messageDoc struct {
	ID             string     `bson:"_id"`
	ConversationID string     `bson:"conversation_id"`
	SenderID       string     `bson:"sender_id"`
	Content        string     `bson:"content"`
	CreatedAt      time.Time  `bson:"created_at"`
	ReadAt         *time.Time `bson:"read_at,omitempty"`
}

func (d *messageDoc) toModel() *models.Message {
	return &models.Message{
		ID:             models.ServerMessageID(d.ID),
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		Content:        d.Content,
		CreatedAt:      d.CreatedAt,
		ReadAt:         d.ReadAt,
	}
}

type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(coll *mongo.Collection) *MessageRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("conv_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MessageRepo{coll: coll}
}

// Insert assigns the server id and timestamp.
func (r *MessageRepo) Insert(ctx context.Context, convID, senderID, content string) (*models.Message, error) {
	d := messageDoc{
		ID:             uuid.NewString(),
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d.toModel(), nil
}

// List returns the conversation's full message log, oldest first.
func (r *MessageRepo) List(ctx context.Context, convID string) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"conversation_id": convID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	for cur.Next(ctx) {
		var d messageDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toModel())
	}
	return out, cur.Err()
}

// MarkRead stamps read_at on every unread message not sent by the reader.
func (r *MessageRepo) MarkRead(ctx context.Context, convID, readerID string) error {
	filter := bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": readerID},
		"read_at":         nil,
	}
	update := bson.M{"$set": bson.M{"read_at": time.Now().UTC()}}
	_, err := r.coll.UpdateMany(ctx, filter, update)
	return err
}
