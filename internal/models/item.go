package models

import (
	"errors"
	"strings"
	"time"
)

var Categories = []string{"Books", "Electronics", "Furniture", "Other"}

type Item struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrItemTitleRequired  = errors.New("item title required")
	ErrItemPriceInvalid   = errors.New("item price must be positive")
	ErrItemBadCategory    = errors.New("unknown item category")
	ErrItemSellerRequired = errors.New("item seller required")
)

func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrItemTitleRequired
	}
	if i.Price <= 0 {
		return ErrItemPriceInvalid
	}
	if i.SellerID == "" {
		return ErrItemSellerRequired
	}
	for _, c := range Categories {
		if i.Category == c {
			return nil
		}
	}
	return ErrItemBadCategory
}
