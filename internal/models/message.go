package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageID distinguishes locally created (optimistic, awaiting server
// confirmation) ids from server-assigned ones. Reconciliation dispatches on
// the tag instead of an id prefix convention.
type MessageID struct {
	value string
	local bool
}

func NewLocalMessageID() MessageID {
	return MessageID{value: uuid.NewString(), local: true}
}

func ServerMessageID(v string) MessageID {
	return MessageID{value: v}
}

func (id MessageID) Local() bool { return id.local }

func (id MessageID) String() string { return id.value }

func (id MessageID) IsZero() bool { return id.value == "" }

// Wire form is the bare id string. Local ids never cross the wire, so an
// unmarshalled id is always server-assigned.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *MessageID) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*id = ServerMessageID(v)
	return nil
}

type Message struct {
	ID             MessageID  `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

const MaxMessageLength = 1000
