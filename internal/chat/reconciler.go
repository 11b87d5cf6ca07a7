package chat

import (
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type EntryState int

const (
	// StatePending marks an optimistic entry awaiting server confirmation.
	StatePending EntryState = iota
	// StateConfirmed marks an entry backed by a server record. An entry
	// never goes back to pending.
	StateConfirmed
)

type Entry struct {
	Message models.Message
	State   EntryState
}

// Reconciler maintains one conversation's ordered, duplicate-free message
// sequence fed from three sources: optimistic local inserts, confirmed
// inserts returned by the send call, and realtime-delivered inserts. The
// same server message can arrive through both of the latter two; whichever
// lands first resolves the optimistic entry and the second is a no-op.
//
// Not safe for concurrent use: the owning Session serializes access.
type Reconciler struct {
	entries []Entry
}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Seed loads the fetched history as confirmed entries, replacing any
// existing sequence.
func (r *Reconciler) Seed(msgs []*models.Message) {
	r.entries = make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		r.entries = append(r.entries, Entry{Message: *m, State: StateConfirmed})
	}
}

// InsertOptimistic appends a locally created message. Sends are issued in
// displayed order, so no reordering happens here.
func (r *Reconciler) InsertOptimistic(msg models.Message) {
	r.entries = append(r.entries, Entry{Message: msg, State: StatePending})
}

// Confirm replaces the optimistic entry with the server record, keeping its
// position. If the entry was already resolved by the realtime channel the
// call is a no-op; if it is simply gone, the server record is inserted in
// timestamp order so the confirmed message is never lost.
func (r *Reconciler) Confirm(localID models.MessageID, server models.Message) bool {
	if i := r.indexOf(localID); i >= 0 {
		r.entries[i] = Entry{Message: server, State: StateConfirmed}
		return true
	}
	if r.indexOf(server.ID) >= 0 {
		return false
	}
	r.insertByTime(server)
	return true
}

// Rollback removes the optimistic entry after a failed send. Other entries
// are untouched.
func (r *Reconciler) Rollback(localID models.MessageID) bool {
	i := r.indexOf(localID)
	if i < 0 {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return true
}

// MergeIncoming folds a realtime-delivered server message into the
// sequence. Duplicates are detected by server id, or by sender+content
// against a pending local entry (the realtime event for the local user's
// own send can beat the send call's response). Reports whether the
// sequence changed.
func (r *Reconciler) MergeIncoming(server models.Message) bool {
	if r.indexOf(server.ID) >= 0 {
		return false
	}
	for i, e := range r.entries {
		if e.Message.ID.Local() && e.Message.SenderID == server.SenderID && e.Message.Content == server.Content {
			r.entries[i] = Entry{Message: server, State: StateConfirmed}
			return true
		}
	}
	r.insertByTime(server)
	return true
}

// insertByTime places msg by creation timestamp; equal timestamps keep
// arrival order, so the new entry goes after the existing run.
func (r *Reconciler) insertByTime(msg models.Message) {
	e := Entry{Message: msg, State: StateConfirmed}
	for i := range r.entries {
		if r.entries[i].Message.CreatedAt.After(msg.CreatedAt) {
			r.entries = append(r.entries, Entry{})
			copy(r.entries[i+1:], r.entries[i:])
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

func (r *Reconciler) indexOf(id models.MessageID) int {
	for i, e := range r.entries {
		if e.Message.ID == id {
			return i
		}
	}
	return -1
}

func (r *Reconciler) Len() int { return len(r.entries) }

// Messages returns an ordered snapshot of the sequence.
func (r *Reconciler) Messages() []models.Message {
	out := make([]models.Message, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Message
	}
	return out
}

// Entries returns a snapshot including per-entry state.
func (r *Reconciler) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
