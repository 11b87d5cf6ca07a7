package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type conversationDoc struct {
	ID        string    `bson:"_id"`
	PairKey   string    `bson:"pair_key"`
	BuyerID   string    `bson:"buyer_id"`
	SellerID  string    `bson:"seller_id"`
	ItemID    string    `bson:"item_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *conversationDoc) toModel() *models.Conversation {
	return &models.Conversation{
		ID:        d.ID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		ItemID:    d.ItemID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type ConversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepo(coll *mongo.Collection) *ConversationRepo {
	// one conversation per unordered participant pair (optionally item-scoped)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("pair_key_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &ConversationRepo{coll: coll}
}

func (r *ConversationRepo) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var d conversationDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return d.toModel(), nil
}

// Find looks up the conversation for an unordered participant pair.
func (r *ConversationRepo) Find(ctx context.Context, a, b, itemID string) (*models.Conversation, error) {
	var d conversationDoc
	err := r.coll.FindOne(ctx, bson.M{"pair_key": models.PairKey(a, b, itemID)}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return d.toModel(), nil
}

// Create inserts a conversation for the pair. A duplicate-key error means a
// concurrent opener already created it, so the existing record is fetched
// and returned instead.
func (r *ConversationRepo) Create(ctx context.Context, buyerID, sellerID, itemID string) (*models.Conversation, error) {
	now := time.Now().UTC()
	d := conversationDoc{
		ID:        uuid.NewString(),
		PairKey:   models.PairKey(buyerID, sellerID, itemID),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ItemID:    itemID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.Find(ctx, buyerID, sellerID, itemID)
		}
		return nil, err
	}
	return d.toModel(), nil
}

func (r *ConversationRepo) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"updated_at": at}})
	return err
}

// ListForUser returns the user's conversations, most recently active first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]*models.Conversation, error) {
	filter := bson.M{"$or": bson.A{bson.M{"buyer_id": userID}, bson.M{"seller_id": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Conversation
	for cur.Next(ctx) {
		var d conversationDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toModel())
	}
	return out, cur.Err()
}
