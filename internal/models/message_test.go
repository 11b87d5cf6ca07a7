package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDTags(t *testing.T) {
	local := NewLocalMessageID()
	assert.True(t, local.Local())
	assert.NotEmpty(t, local.String())
	assert.False(t, local.IsZero())

	server := ServerMessageID("abc")
	assert.False(t, server.Local())
	assert.Equal(t, "abc", server.String())

	assert.True(t, MessageID{}.IsZero())
}

func TestLocalIDsAreDistinct(t *testing.T) {
	a, b := NewLocalMessageID(), NewLocalMessageID()
	assert.NotEqual(t, a, b)
}

func TestMessageIDWireForm(t *testing.T) {
	msg := Message{
		ID:             ServerMessageID("abc"),
		ConversationID: "conv1",
		SenderID:       "alice",
		Content:        "hi",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"abc"`)

	var back Message
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, msg.ID, back.ID)
	assert.False(t, back.ID.Local())
}

func TestPairKeyCanonical(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob", ""), PairKey("bob", "alice", ""))
	assert.Equal(t, "alice|bob", PairKey("bob", "alice", ""))
	assert.Equal(t, "alice|bob|item1", PairKey("bob", "alice", "item1"))
	assert.NotEqual(t, PairKey("alice", "bob", "item1"), PairKey("alice", "bob", "item2"))
}

func TestConversationParticipants(t *testing.T) {
	c := Conversation{ID: "conv1", BuyerID: "alice", SellerID: "bob"}
	assert.True(t, c.HasParticipant("alice"))
	assert.True(t, c.HasParticipant("bob"))
	assert.False(t, c.HasParticipant("mallory"))
	assert.Equal(t, "bob", c.Counterparty("alice"))
	assert.Equal(t, "alice", c.Counterparty("bob"))
}

func TestProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Profile{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&Profile{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "Someone", (&Profile{}).DisplayName())
}

func TestItemValidate(t *testing.T) {
	ok := Item{SellerID: "bob", Title: "Calc textbook", Price: 25, Category: "Books"}
	assert.NoError(t, ok.Validate())

	cases := []struct {
		name string
		mut  func(*Item)
		want error
	}{
		{"blank title", func(i *Item) { i.Title = "  " }, ErrItemTitleRequired},
		{"zero price", func(i *Item) { i.Price = 0 }, ErrItemPriceInvalid},
		{"negative price", func(i *Item) { i.Price = -3 }, ErrItemPriceInvalid},
		{"no seller", func(i *Item) { i.SellerID = "" }, ErrItemSellerRequired},
		{"bad category", func(i *Item) { i.Category = "Vehicles" }, ErrItemBadCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := ok
			tc.mut(&it)
			assert.ErrorIs(t, it.Validate(), tc.want)
		})
	}
}
