// Package draft writes personalized reconnect messages with an LLM.
package draft

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lazypower/stayintouch/internal/llm"
	"github.com/lazypower/stayintouch/internal/store"
)

// FallbackMessage is returned in place of a draft when the LLM is unavailable.
const FallbackMessage = "Sorry, I couldn't generate a message right now. Please try again later."

// ErrNotConfigured means no LLM client was available at startup.
var ErrNotConfigured = errors.New("message drafting not configured")

// Result is the outcome of a drafting attempt. On failure Message holds
// FallbackMessage, Fallback is true and Err describes why.
type Result struct {
	Message  string
	Fallback bool
	Provider string
	Err      error
}

// OK reports whether the message came from the model.
func (r Result) OK() bool { return r.Err == nil }

// Drafter turns contact details into a short message suggestion.
type Drafter struct {
	LLM     llm.Client
	Timeout time.Duration
	Log     *slog.Logger
}

// New returns a Drafter. client may be nil, in which case every Draft
// degrades to the fallback.
func New(client llm.Client, log *slog.Logger) *Drafter {
	if log == nil {
		log = slog.Default()
	}
	return &Drafter{
		LLM:     client,
		Timeout: 30 * time.Second,
		Log:     log.With("component", "draft"),
	}
}

// Draft asks the LLM for a message to c. It never panics or returns a bare
// error; failures come back as a fallback Result.
func (d *Drafter) Draft(ctx context.Context, c store.Contact, customPrompt string) Result {
	if d.LLM == nil {
		return d.fallback(c, ErrNotConfigured)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	prompt := llm.DraftPrompt(llm.DraftInput{
		Name:            c.Name,
		Birthday:        c.Birthday,
		Notes:           c.Notes,
		LastContactDate: c.LastContactDate,
		ContactGroup:    c.ContactGroup,
		CustomPrompt:    customPrompt,
	})

	resp, err := d.LLM.Complete(ctx, prompt)
	if err != nil {
		return d.fallback(c, err)
	}
	msg := strings.TrimSpace(resp.Content)
	if msg == "" {
		return d.fallback(c, errors.New("empty completion"))
	}

	d.Log.Debug("message drafted", "contact_id", c.ID, "provider", resp.Provider, "tokens", resp.TokensUsed)
	return Result{Message: msg, Provider: resp.Provider}
}

func (d *Drafter) fallback(c store.Contact, err error) Result {
	d.Log.Warn("draft failed, using fallback", "contact_id", c.ID, "error", err)
	return Result{Message: FallbackMessage, Fallback: true, Err: err}
}
