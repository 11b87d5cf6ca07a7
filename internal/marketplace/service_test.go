package marketplace

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type memRepo struct {
	items map[string]*models.Item
	seq   int
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*models.Item)}
}

func (r *memRepo) Create(_ context.Context, it *models.Item) (*models.Item, error) {
	r.seq++
	cp := *it
	cp.ID = "item" + strconv.Itoa(r.seq)
	cp.IsAvailable = true
	r.items[cp.ID] = &cp
	return &cp, nil
}

func (r *memRepo) Get(_ context.Context, id string) (*models.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return it, nil
}

func (r *memRepo) Update(_ context.Context, id string, it *models.Item) (*models.Item, error) {
	cp := *it
	cp.ID = id
	r.items[id] = &cp
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	it, ok := r.items[id]
	if !ok {
		return apperr.ErrNotFound
	}
	it.IsAvailable = false
	return nil
}

func (r *memRepo) ListAvailable(_ context.Context) ([]*models.Item, error) {
	var out []*models.Item
	for _, it := range r.items {
		if it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) ListByCategory(_ context.Context, category string) ([]*models.Item, error) {
	var out []*models.Item
	for _, it := range r.items {
		if it.IsAvailable && it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) ListBySeller(_ context.Context, sellerID string) ([]*models.Item, error) {
	var out []*models.Item
	for _, it := range r.items {
		if it.SellerID == sellerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) Search(_ context.Context, term string) ([]*models.Item, error) {
	var out []*models.Item
	for _, it := range r.items {
		if it.IsAvailable && strings.Contains(strings.ToLower(it.Title), strings.ToLower(term)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func TestCreateItemValidates(t *testing.T) {
	svc := NewService(newMemRepo())

	it, err := svc.CreateItem(context.Background(), "bob", &models.Item{
		Title: "  Desk lamp ", Price: 12, Category: "Furniture",
	})
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", it.Title)
	assert.Equal(t, "bob", it.SellerID)
	assert.True(t, it.IsAvailable)

	_, err = svc.CreateItem(context.Background(), "bob", &models.Item{Title: "x", Price: 0, Category: "Other"})
	assert.ErrorIs(t, err, models.ErrItemPriceInvalid)
}

func TestUpdateItemOwnership(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	it, err := svc.CreateItem(context.Background(), "bob", &models.Item{Title: "Couch", Price: 80, Category: "Furniture"})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), "mallory", it.ID, &models.Item{Title: "Couch", Price: 1, Category: "Furniture"})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	updated, err := svc.UpdateItem(context.Background(), "bob", it.ID, &models.Item{Title: "Couch", Price: 60, Category: "Furniture"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Price)
	assert.Equal(t, "bob", updated.SellerID)
}

func TestDeleteItemOwnership(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	it, err := svc.CreateItem(context.Background(), "bob", &models.Item{Title: "Monitor", Price: 90, Category: "Electronics"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteItem(context.Background(), "mallory", it.ID), apperr.ErrPermissionDenied)
	require.NoError(t, svc.DeleteItem(context.Background(), "bob", it.ID))

	avail, err := svc.Browse(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, avail)

	mine, err := svc.MyItems(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestBrowseDispatch(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	_, err := svc.CreateItem(ctx, "bob", &models.Item{Title: "Calc textbook", Price: 25, Category: "Books"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, "carol", &models.Item{Title: "Mini fridge", Price: 40, Category: "Other"})
	require.NoError(t, err)

	all, err := svc.Browse(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	books, err := svc.Browse(ctx, "Books", "")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Calc textbook", books[0].Title)

	found, err := svc.Browse(ctx, "", "fridge")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mini fridge", found[0].Title)

	missing, err := svc.GetItem(ctx, "nope")
	assert.Nil(t, missing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
