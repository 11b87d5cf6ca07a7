package push

import "context"

// LocalNotifier schedules a device-local notification when a session
// receives a message while backgrounded. On a phone this is the OS
// notification center; servers and tests plug in their own.
type LocalNotifier interface {
	Schedule(ctx context.Context, title, body, conversationID string) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Schedule(context.Context, string, string, string) error { return nil }
