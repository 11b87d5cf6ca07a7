package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func serverMsg(id, sender, content string, at time.Time) models.Message {
	return models.Message{
		ID:             models.ServerMessageID(id),
		ConversationID: "conv1",
		SenderID:       sender,
		Content:        content,
		CreatedAt:      at,
	}
}

func localMsg(sender, content string, at time.Time) models.Message {
	return models.Message{
		ID:             models.NewLocalMessageID(),
		ConversationID: "conv1",
		SenderID:       sender,
		Content:        content,
		CreatedAt:      at,
	}
}

func contents(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestSeedReplacesSequence(t *testing.T) {
	r := NewReconciler()
	r.InsertOptimistic(localMsg("alice", "leftover", base))

	r.Seed([]*models.Message{
		{ID: models.ServerMessageID("s1"), SenderID: "bob", Content: "hi", CreatedAt: base},
		{ID: models.ServerMessageID("s2"), SenderID: "alice", Content: "hey", CreatedAt: base.Add(time.Minute)},
	})

	assert.Equal(t, []string{"hi", "hey"}, contents(r.Messages()))
	for _, e := range r.Entries() {
		assert.Equal(t, StateConfirmed, e.State)
	}
}

func TestConfirmReplacesInPlace(t *testing.T) {
	r := NewReconciler()
	r.Seed([]*models.Message{
		{ID: models.ServerMessageID("s1"), SenderID: "bob", Content: "first", CreatedAt: base},
	})

	local := localMsg("alice", "hello", base.Add(time.Minute))
	r.InsertOptimistic(local)
	r.InsertOptimistic(localMsg("alice", "and more", base.Add(2*time.Minute)))
	require.Equal(t, 3, r.Len())

	server := serverMsg("s2", "alice", "hello", base.Add(time.Minute))
	assert.True(t, r.Confirm(local.ID, server))

	msgs := r.Messages()
	require.Equal(t, 3, r.Len())
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, models.ServerMessageID("s2"), msgs[1].ID)
	assert.False(t, msgs[1].ID.Local())
	assert.Equal(t, StatePending, r.Entries()[2].State)
}

func TestConfirmAfterRealtimeResolutionIsNoop(t *testing.T) {
	r := NewReconciler()
	local := localMsg("alice", "hello", base)
	r.InsertOptimistic(local)

	server := serverMsg("s1", "alice", "hello", base)
	require.True(t, r.MergeIncoming(server))
	require.Equal(t, 1, r.Len())

	assert.False(t, r.Confirm(local.ID, server))
	assert.Equal(t, 1, r.Len())
}

func TestConfirmReinsertsWhenEntryGone(t *testing.T) {
	r := NewReconciler()
	r.Seed([]*models.Message{
		{ID: models.ServerMessageID("s1"), SenderID: "bob", Content: "early", CreatedAt: base},
		{ID: models.ServerMessageID("s3"), SenderID: "bob", Content: "late", CreatedAt: base.Add(10 * time.Minute)},
	})

	server := serverMsg("s2", "alice", "middle", base.Add(5*time.Minute))
	assert.True(t, r.Confirm(models.NewLocalMessageID(), server))
	assert.Equal(t, []string{"early", "middle", "late"}, contents(r.Messages()))
}

func TestRollbackRemovesOnlyTarget(t *testing.T) {
	r := NewReconciler()
	r.Seed([]*models.Message{
		{ID: models.ServerMessageID("s1"), SenderID: "bob", Content: "kept", CreatedAt: base},
	})
	local := localMsg("alice", "doomed", base.Add(time.Minute))
	r.InsertOptimistic(local)
	other := localMsg("alice", "still pending", base.Add(2*time.Minute))
	r.InsertOptimistic(other)

	assert.True(t, r.Rollback(local.ID))
	assert.Equal(t, []string{"kept", "still pending"}, contents(r.Messages()))

	assert.False(t, r.Rollback(local.ID))
	assert.Equal(t, 2, r.Len())
}

func TestMergeIncomingDuplicateByID(t *testing.T) {
	r := NewReconciler()
	server := serverMsg("s1", "bob", "yo", base)

	assert.True(t, r.MergeIncoming(server))
	assert.False(t, r.MergeIncoming(server))
	assert.Equal(t, 1, r.Len())
}

func TestMergeIncomingResolvesPendingBySenderAndContent(t *testing.T) {
	r := NewReconciler()
	local := localMsg("alice", "hello", base)
	r.InsertOptimistic(local)

	server := serverMsg("s1", "alice", "hello", base.Add(time.Second))
	assert.True(t, r.MergeIncoming(server))

	require.Equal(t, 1, r.Len())
	e := r.Entries()[0]
	assert.Equal(t, models.ServerMessageID("s1"), e.Message.ID)
	assert.Equal(t, StateConfirmed, e.State)
}

func TestMergeIncomingSameContentOtherSenderIsNew(t *testing.T) {
	r := NewReconciler()
	r.InsertOptimistic(localMsg("alice", "hello", base))

	assert.True(t, r.MergeIncoming(serverMsg("s1", "bob", "hello", base.Add(time.Second))))
	assert.Equal(t, 2, r.Len())
}

func TestCrossChannelDedupLeavesSingleEntry(t *testing.T) {
	// The send response and the realtime event race; both carry the same
	// server record. Whichever lands second must not duplicate it.
	r := NewReconciler()
	local := localMsg("alice", "hello", base)
	r.InsertOptimistic(local)
	server := serverMsg("s1", "alice", "hello", base)

	t.Run("realtime first", func(t *testing.T) {
		rr := NewReconciler()
		l := localMsg("alice", "hello", base)
		rr.InsertOptimistic(l)
		assert.True(t, rr.MergeIncoming(server))
		assert.False(t, rr.Confirm(l.ID, server))
		assert.Equal(t, 1, rr.Len())
	})

	t.Run("confirm first", func(t *testing.T) {
		assert.True(t, r.Confirm(local.ID, server))
		assert.False(t, r.MergeIncoming(server))
		assert.Equal(t, 1, r.Len())
	})
}

func TestInsertOrderedByTimestamp(t *testing.T) {
	r := NewReconciler()
	r.MergeIncoming(serverMsg("s2", "bob", "second", base.Add(2*time.Minute)))
	r.MergeIncoming(serverMsg("s1", "bob", "first", base.Add(time.Minute)))
	r.MergeIncoming(serverMsg("s3", "bob", "third", base.Add(3*time.Minute)))

	assert.Equal(t, []string{"first", "second", "third"}, contents(r.Messages()))
}

func TestEqualTimestampsKeepArrivalOrder(t *testing.T) {
	r := NewReconciler()
	r.MergeIncoming(serverMsg("s1", "bob", "a", base))
	r.MergeIncoming(serverMsg("s2", "bob", "b", base))
	r.MergeIncoming(serverMsg("s3", "bob", "c", base))

	assert.Equal(t, []string{"a", "b", "c"}, contents(r.Messages()))
}

// Full round trip of one send while the counterparty replies: optimistic
// insert, counterparty message over realtime, then confirmation.
func TestOptimisticSendInterleavedWithReply(t *testing.T) {
	r := NewReconciler()
	r.Seed([]*models.Message{
		{ID: models.ServerMessageID("s1"), SenderID: "bob", Content: "anyone there?", CreatedAt: base},
	})

	local := localMsg("alice", "hello", base.Add(time.Minute))
	r.InsertOptimistic(local)

	reply := serverMsg("s3", "bob", "there you are", base.Add(2*time.Minute))
	require.True(t, r.MergeIncoming(reply))

	confirmed := serverMsg("s2", "alice", "hello", base.Add(time.Minute))
	require.True(t, r.Confirm(local.ID, confirmed))

	assert.Equal(t, []string{"anyone there?", "hello", "there you are"}, contents(r.Messages()))
	for _, e := range r.Entries() {
		assert.Equal(t, StateConfirmed, e.State)
	}
}
