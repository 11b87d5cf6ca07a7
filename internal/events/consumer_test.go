package events

import (
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/logger"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

func streamRecord(t *testing.T, origin string, msg models.Message) kafka.Message {
	t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{
		Key:     []byte(msg.ConversationID),
		Value:   b,
		Headers: []kafka.Header{{Key: originHeader, Value: []byte(origin)}},
	}
}

func TestDecodeSkipsOwnEvents(t *testing.T) {
	c := &Consumer{instance: "inst-a", log: logger.Nop()}
	msg := models.Message{
		ID:             models.ServerMessageID("s1"),
		ConversationID: "conv1",
		SenderID:       "alice",
		Content:        "hi",
	}

	_, ok := c.decode(streamRecord(t, "inst-a", msg))
	assert.False(t, ok)

	got, ok := c.decode(streamRecord(t, "inst-b", msg))
	require.True(t, ok)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, "hi", got.Content)
}

func TestDecodeUntaggedAndBadPayload(t *testing.T) {
	c := &Consumer{instance: "inst-a", log: logger.Nop()}

	// records without an origin header (older producers) still flow
	msg := models.Message{ID: models.ServerMessageID("s2"), ConversationID: "conv1"}
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	got, ok := c.decode(kafka.Message{Value: b})
	require.True(t, ok)
	assert.Equal(t, msg.ID, got.ID)

	_, ok = c.decode(kafka.Message{Value: []byte("not json")})
	assert.False(t, ok)
}
