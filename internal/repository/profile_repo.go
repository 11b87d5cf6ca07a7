package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type profileDoc struct {
	ID          string `bson:"_id"`
	FirstName   string `bson:"first_name"`
	LastName    string `bson:"last_name"`
	Email       string `bson:"email"`
	PhoneNumber string `bson:"phone_number,omitempty"`
	PushToken   string `bson:"push_token,omitempty"`
}

type ProfileRepo struct {
	coll *mongo.Collection
}

func NewProfileRepo(coll *mongo.Collection) *ProfileRepo {
	return &ProfileRepo{coll: coll}
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	var d profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &models.Profile{
		ID:          d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		PushToken:   d.PushToken,
	}, nil
}

func (r *ProfileRepo) PushToken(ctx context.Context, userID string) (string, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.PushToken, nil
}

func (r *ProfileRepo) SavePushToken(ctx context.Context, userID, token string) error {
	_, err := r.coll.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"push_token": token}})
	return err
}
