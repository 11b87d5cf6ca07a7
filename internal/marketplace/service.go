package marketplace

import (
	"context"
	"strings"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// Repo is what the service needs from item storage.
type Repo interface {
	Create(ctx context.Context, it *models.Item) (*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Update(ctx context.Context, id string, it *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context) ([]*models.Item, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Item, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*models.Item, error)
	Search(ctx context.Context, term string) ([]*models.Item, error)
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateItem(ctx context.Context, sellerID string, it *models.Item) (*models.Item, error) {
	it.SellerID = sellerID
	it.Title = strings.TrimSpace(it.Title)
	if err := it.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, it)
}

func (s *Service) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.Get(ctx, id)
}

// UpdateItem only lets the seller change their own listing.
func (s *Service) UpdateItem(ctx context.Context, userID, id string, it *models.Item) (*models.Item, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != userID {
		return nil, apperr.ErrPermissionDenied
	}
	it.SellerID = existing.SellerID
	it.Title = strings.TrimSpace(it.Title)
	if err := it.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, it)
}

// DeleteItem marks the listing unavailable; the record stays.
func (s *Service) DeleteItem(ctx context.Context, userID, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != userID {
		return apperr.ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Browse(ctx context.Context, category, search string) ([]*models.Item, error) {
	switch {
	case search != "":
		return s.repo.Search(ctx, search)
	case category != "":
		return s.repo.ListByCategory(ctx, category)
	default:
		return s.repo.ListAvailable(ctx)
	}
}

func (s *Service) MyItems(ctx context.Context, sellerID string) ([]*models.Item, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}
