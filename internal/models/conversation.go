package models

import "time"

type Conversation struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	ItemID    string    `json:"item_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Counterparty returns the other participant of the pair.
func (c *Conversation) Counterparty(userID string) string {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// PairKey canonicalizes the unordered participant pair plus the optional
// item scope. A unique index on this key enforces one conversation per
// pair; concurrent creators race on the index, not on a read-then-write.
func PairKey(a, b, itemID string) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if itemID == "" {
		return lo + "|" + hi
	}
	return lo + "|" + hi + "|" + itemID
}
