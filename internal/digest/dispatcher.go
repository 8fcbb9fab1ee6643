package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/lazypower/stayintouch/internal/notify"
	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
)

// ErrNoChannels is returned when a send is requested with no notifiers.
var ErrNoChannels = errors.New("no notification channels configured")

// ContactSource supplies the contact snapshot for a run.
type ContactSource interface {
	ListContacts() ([]store.Contact, error)
}

// Report summarizes one digest run.
type Report struct {
	RunID     string           `json:"run_id"`
	At        time.Time        `json:"at"`
	Evaluated int              `json:"evaluated"`
	Reminders []reminder.Entry `json:"reminders"`
	Sent      bool             `json:"sent"`
	Outcomes  []notify.Outcome `json:"outcomes"`
}

// Dispatcher evaluates reminders and pushes the digest to its notifiers.
type Dispatcher struct {
	contacts  ContactSource
	evaluator *reminder.Evaluator
	notifiers []notify.Notifier
	log       *slog.Logger
}

// NewDispatcher wires a dispatcher. A nil evaluator uses the system clock.
func NewDispatcher(contacts ContactSource, ev *reminder.Evaluator, notifiers []notify.Notifier, log *slog.Logger) *Dispatcher {
	if ev == nil {
		ev = reminder.NewEvaluator(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		contacts:  contacts,
		evaluator: ev,
		notifiers: notifiers,
		log:       log.With("component", "digest"),
	}
}

// Channels returns the names of the configured notifiers.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.notifiers))
	for i, n := range d.notifiers {
		names[i] = n.Name()
	}
	return names
}

// Run takes a contact snapshot, evaluates it and, when anything is due,
// sends the digest on every channel. Delivery failures are reported in the
// Report's outcomes; the returned error covers only the snapshot.
func (d *Dispatcher) Run(ctx context.Context) (*Report, error) {
	contacts, err := d.contacts.ListContacts()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	rep := &Report{
		RunID:     uuid.NewString(),
		At:        d.evaluator.Clock.Now(),
		Evaluated: len(contacts),
		Outcomes:  []notify.Outcome{},
	}
	rep.Reminders = d.evaluator.Evaluate(contacts)
	log := d.log.With("run_id", rep.RunID)

	msg, ok := Compose(rep.Reminders)
	if !ok {
		log.Info("no reminders today, nothing sent", "contacts", rep.Evaluated)
		return rep, nil
	}

	rep.Outcomes = notify.Broadcast(ctx, d.notifiers, msg)
	rep.Sent = notify.AnySent(rep.Outcomes)
	d.logOutcomes(log, rep.Outcomes)
	log.Info("digest run complete", "contacts", rep.Evaluated, "reminders", len(rep.Reminders), "sent", rep.Sent)
	return rep, nil
}

// SendTest sends the fixed test message on every channel.
func (d *Dispatcher) SendTest(ctx context.Context) ([]notify.Outcome, error) {
	if len(d.notifiers) == 0 {
		return nil, ErrNoChannels
	}
	outcomes := notify.Broadcast(ctx, d.notifiers, TestMessage())
	d.logOutcomes(d.log, outcomes)
	return outcomes, nil
}

func (d *Dispatcher) logOutcomes(log *slog.Logger, outcomes []notify.Outcome) {
	for _, o := range outcomes {
		if o.Sent {
			log.Info("notification sent", "channel", o.Channel, "ref", o.Ref)
		} else {
			log.Warn("notification failed", "channel", o.Channel, "error", o.Err)
		}
	}
}

// Schedule registers Run on the given cron spec and returns the started
// scheduler. Stop it with the returned cron's Stop. Each run gets its own
// timeout-bounded context.
func (d *Dispatcher) Schedule(spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := d.Run(ctx); err != nil {
			d.log.Error("scheduled digest failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	c.Start()
	d.log.Info("digest scheduled", "spec", spec)
	return c, nil
}
