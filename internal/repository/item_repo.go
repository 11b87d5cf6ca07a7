package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type itemDoc struct {
	ID          string    `bson:"_id"`
	SellerID    string    `bson:"seller_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	Price       float64   `bson:"price"`
	Category    string    `bson:"category"`
	ImageURL    string    `bson:"image_url,omitempty"`
	IsAvailable bool      `bson:"is_available"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d *itemDoc) toModel() *models.Item {
	return &models.Item{
		ID:          d.ID,
		SellerID:    d.SellerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		IsAvailable: d.IsAvailable,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ItemRepo struct {
	coll *mongo.Collection
}

func NewItemRepo(coll *mongo.Collection) *ItemRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "is_available", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("available_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &ItemRepo{coll: coll}
}

func (r *ItemRepo) Create(ctx context.Context, it *models.Item) (*models.Item, error) {
	now := time.Now().UTC()
	d := itemDoc{
		ID:          uuid.NewString(),
		SellerID:    it.SellerID,
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		ImageURL:    it.ImageURL,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d.toModel(), nil
}

func (r *ItemRepo) Get(ctx context.Context, id string) (*models.Item, error) {
	var d itemDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return d.toModel(), nil
}

func (r *ItemRepo) Update(ctx context.Context, id string, it *models.Item) (*models.Item, error) {
	update := bson.M{"$set": bson.M{
		"title":       it.Title,
		"description": it.Description,
		"price":       it.Price,
		"category":    it.Category,
		"image_url":   it.ImageURL,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete hides an item instead of removing the record.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_available": false,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) ListAvailable(ctx context.Context) ([]*models.Item, error) {
	return r.list(ctx, bson.M{"is_available": true})
}

func (r *ItemRepo) ListByCategory(ctx context.Context, category string) ([]*models.Item, error) {
	return r.list(ctx, bson.M{"is_available": true, "category": category})
}

func (r *ItemRepo) ListBySeller(ctx context.Context, sellerID string) ([]*models.Item, error) {
	return r.list(ctx, bson.M{"seller_id": sellerID})
}

// Search matches the term against title, description and category.
func (r *ItemRepo) Search(ctx context.Context, term string) ([]*models.Item, error) {
	return r.list(ctx, searchFilter(term))
}

// searchFilter builds a case-insensitive substring match. The term is a
// literal, not a pattern: metacharacters are escaped so input like "c++"
// cannot change or break the query.
func searchFilter(term string) bson.M {
	re := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
	return bson.M{
		"is_available": true,
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"category": re},
		},
	}
}

func (r *ItemRepo) list(ctx context.Context, filter bson.M) ([]*models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Item
	for cur.Next(ctx) {
		var d itemDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toModel())
	}
	return out, cur.Err()
}
