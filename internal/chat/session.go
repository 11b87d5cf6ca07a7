package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/push"
)

// OpenParams selects the conversation to open: either an explicit id, or a
// counterparty (plus optional item) to find-or-create for.
type OpenParams struct {
	ConversationID string
	ParticipantID  string
	ItemID         string
}

// SendResult reports the outcome of a send to the caller. On failure the
// original text comes back so the UI can restore it for a manual retry.
type SendResult struct {
	Accepted     bool
	RestoredText string
	Message      *models.Message
}

// Session owns one open conversation: it loads history, tracks presence,
// feeds the reconciler from the send path and the realtime channel, and
// decides recipient notifications. All reconciler access goes through the
// session mutex; callbacks from the realtime channel arrive on foreign
// goroutines.
type Session struct {
	gw        Gateway
	gate      *Gate
	notifier  push.LocalNotifier
	log       *zap.SugaredLogger
	localUser string

	mu         sync.Mutex
	conv       *models.Conversation
	other      *models.Profile
	selfName   string
	rec        *Reconciler
	sub        Subscription
	sending    bool
	foreground bool
	closed     bool

	onChange func([]models.Message)
}

func NewSession(gw Gateway, gate *Gate, notifier push.LocalNotifier, localUserID string, log *zap.SugaredLogger) *Session {
	if notifier == nil {
		notifier = push.NopNotifier{}
	}
	return &Session{
		gw:         gw,
		gate:       gate,
		notifier:   notifier,
		log:        log,
		localUser:  localUserID,
		rec:        NewReconciler(),
		foreground: true,
	}
}

// OnSequenceChanged registers the "current message sequence changed"
// callback. Set before Open.
func (s *Session) OnSequenceChanged(fn func([]models.Message)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Open resolves or creates the conversation and attaches the realtime
// subscription. It also marks the local user as actively viewing the
// thread (best-effort).
func (s *Session) Open(ctx context.Context, p OpenParams) (*models.Conversation, error) {
	if s.localUser == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	var (
		conv *models.Conversation
		err  error
	)
	switch {
	case p.ConversationID != "":
		conv, err = s.gw.Conversation(ctx, p.ConversationID)
		if err != nil {
			return nil, err
		}
	case p.ParticipantID != "":
		conv, err = s.gw.FindConversation(ctx, s.localUser, p.ParticipantID, p.ItemID)
		if errors.Is(err, apperr.ErrNotFound) {
			conv, err = s.gw.CreateConversation(ctx, s.localUser, p.ParticipantID, p.ItemID)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("chat: open requires a conversation or participant id")
	}

	otherID := conv.Counterparty(s.localUser)
	other, perr := s.gw.Profile(ctx, otherID)
	if perr != nil {
		s.log.Warnw("counterparty profile", "user", otherID, "err", perr)
		other = &models.Profile{ID: otherID}
	}
	selfName := "Someone"
	if self, serr := s.gw.Profile(ctx, s.localUser); serr == nil {
		selfName = self.DisplayName()
	}

	sub, err := s.gw.Subscribe(conv.ID, s.handleIncoming)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conv = conv
	s.other = other
	s.selfName = selfName
	s.sub = sub
	s.closed = false
	s.mu.Unlock()

	if err := s.gw.SetActiveConversation(ctx, s.localUser, conv.ID); err != nil {
		s.log.Warnw("set presence", "conversation", conv.ID, "err", err)
	}
	return conv, nil
}

// LoadHistory fetches the full message log and marks the counterparty's
// messages read.
func (s *Session) LoadHistory(ctx context.Context) ([]models.Message, error) {
	s.mu.Lock()
	conv := s.conv
	s.mu.Unlock()
	if conv == nil {
		return nil, errors.New("chat: no conversation open")
	}

	msgs, err := s.gw.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRemoteReadFailed, err)
	}

	s.mu.Lock()
	s.rec.Seed(msgs)
	snapshot := s.rec.Messages()
	s.mu.Unlock()
	s.sequenceChanged(snapshot)

	if err := s.gw.MarkRead(ctx, conv.ID, s.localUser); err != nil {
		s.log.Warnw("mark read", "conversation", conv.ID, "err", err)
	}
	return snapshot, nil
}

// Send performs an optimistic single-flight send. Guards (empty text, no
// open conversation, a send already in flight, oversize content) reject
// without touching the sequence.
func (s *Session) Send(ctx context.Context, text string) (SendResult, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || len(text) > models.MaxMessageLength || s.conv == nil || s.sending {
		s.mu.Unlock()
		return SendResult{}, nil
	}
	s.sending = true
	conv := s.conv
	local := models.Message{
		ID:             models.NewLocalMessageID(),
		ConversationID: conv.ID,
		SenderID:       s.localUser,
		Content:        text,
		CreatedAt:      time.Now().UTC(),
	}
	s.rec.InsertOptimistic(local)
	snapshot := s.rec.Messages()
	s.mu.Unlock()
	s.sequenceChanged(snapshot)

	msg, err := s.gw.InsertMessage(ctx, conv.ID, s.localUser, text)

	s.mu.Lock()
	s.sending = false
	if err != nil {
		s.rec.Rollback(local.ID)
		snapshot = s.rec.Messages()
		s.mu.Unlock()
		s.sequenceChanged(snapshot)
		return SendResult{RestoredText: text}, fmt.Errorf("%w: %v", apperr.ErrRemoteWriteFailed, err)
	}
	changed := s.rec.Confirm(local.ID, *msg)
	snapshot = s.rec.Messages()
	selfName := s.selfName
	s.mu.Unlock()
	if changed {
		s.sequenceChanged(snapshot)
	}

	if s.gate != nil {
		s.gate.Notify(ctx, conv, s.localUser, selfName, text)
	}
	return SendResult{Accepted: true, Message: msg}, nil
}

// SetPresence writes or clears the advisory presence marker. Failures are
// logged, never surfaced.
func (s *Session) SetPresence(ctx context.Context, active bool) {
	s.mu.Lock()
	conv := s.conv
	s.mu.Unlock()
	if conv == nil {
		return
	}
	var err error
	if active {
		err = s.gw.SetActiveConversation(ctx, s.localUser, conv.ID)
	} else {
		err = s.gw.ClearActiveConversation(ctx, s.localUser)
	}
	if err != nil {
		s.log.Warnw("presence write", "conversation", conv.ID, "active", active, "err", err)
	}
}

// SetForeground tells the session whether its process is frontmost; a
// backgrounded session schedules local notifications for incoming
// messages.
func (s *Session) SetForeground(fg bool) {
	s.mu.Lock()
	s.foreground = fg
	s.mu.Unlock()
}

// Close releases the realtime subscription and clears presence. In-flight
// sends are not cancelled; only their continuation is dropped.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	conv := s.conv
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if conv != nil {
		if err := s.gw.ClearActiveConversation(ctx, s.localUser); err != nil {
			s.log.Warnw("clear presence", "conversation", conv.ID, "err", err)
		}
	}
}

// Messages returns the current ordered snapshot.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Messages()
}

// Counterparty returns the other participant's profile as known at open.
func (s *Session) Counterparty() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.other
}

func (s *Session) handleIncoming(msg models.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	changed := s.rec.MergeIncoming(msg)
	snapshot := s.rec.Messages()
	conv := s.conv
	fg := s.foreground
	other := s.other
	s.mu.Unlock()

	if changed {
		s.sequenceChanged(snapshot)
	}
	if conv == nil || msg.SenderID == s.localUser {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.gw.MarkRead(ctx, conv.ID, s.localUser); err != nil {
		s.log.Warnw("mark read", "conversation", conv.ID, "err", err)
	}
	if !fg {
		name := "Someone"
		if other != nil {
			name = other.DisplayName()
		}
		if err := s.notifier.Schedule(ctx, name+" texted you", msg.Content, conv.ID); err != nil {
			s.log.Warnw("local notification", "conversation", conv.ID, "err", err)
		}
	}
}

func (s *Session) sequenceChanged(snapshot []models.Message) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}
