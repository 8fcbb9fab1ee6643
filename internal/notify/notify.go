// Package notify delivers reminder digests over the configured channels.
// Each send reports an Outcome instead of failing the caller.
package notify

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotConfigured is reported when a channel lacks the settings it needs.
var ErrNotConfigured = errors.New("channel not configured")

// Message is a channel-neutral notification.
type Message struct {
	Subject string
	Body    string
}

// Outcome records what happened on one channel. Err is nil when Sent.
type Outcome struct {
	Channel string `json:"channel"`
	Sent    bool   `json:"sent"`
	Ref     string `json:"ref,omitempty"`
	Err     error  `json:"-"`
}

// Reason returns the failure text, or "" on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// MarshalJSON adds the failure text as "error".
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain(o), o.Reason()})
}

func sent(channel, ref string) Outcome {
	return Outcome{Channel: channel, Sent: true, Ref: ref}
}

func failed(channel string, err error) Outcome {
	return Outcome{Channel: channel, Err: err}
}

// Notifier is a single delivery channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) Outcome
}

// Broadcast sends msg on every notifier and returns one Outcome per channel,
// in order.
func Broadcast(ctx context.Context, notifiers []Notifier, msg Message) []Outcome {
	out := make([]Outcome, 0, len(notifiers))
	for _, n := range notifiers {
		out = append(out, n.Notify(ctx, msg))
	}
	return out
}

// AnySent reports whether at least one outcome was delivered.
func AnySent(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Sent {
			return true
		}
	}
	return false
}
