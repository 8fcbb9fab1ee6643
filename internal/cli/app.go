package cli

import (
	"fmt"
	"os"

	"github.com/lazypower/stayintouch/internal/digest"
	"github.com/lazypower/stayintouch/internal/draft"
	"github.com/lazypower/stayintouch/internal/llm"
	"github.com/lazypower/stayintouch/internal/notify"
	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
)

// openDB opens the configured database, or the default path when unset.
func openDB() (*store.DB, string, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return db, dbPath, nil
}

// notifiers returns the delivery channels that have settings.
func notifiers() ([]notify.Notifier, error) {
	var ns []notify.Notifier
	if cfg.Email.Enabled() {
		email, err := notify.NewEmail(cfg.Email)
		if err != nil {
			return nil, err
		}
		ns = append(ns, email)
	}
	if cfg.WhatsApp.Enabled() {
		ns = append(ns, notify.NewWhatsApp(cfg.WhatsApp))
	}
	return ns, nil
}

func newDispatcher(db *store.DB) (*digest.Dispatcher, error) {
	ns, err := notifiers()
	if err != nil {
		return nil, fmt.Errorf("configure notifications: %w", err)
	}
	if len(ns) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no notification channel configured (set EMAIL_* or TWILIO_*)")
	}
	return digest.NewDispatcher(db, reminder.NewEvaluator(nil), ns, logger), nil
}

// newDrafter builds the drafting collaborator. Without a usable LLM the
// drafter still answers, with the fallback message.
func newDrafter() *draft.Drafter {
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: LLM not configured (%v), drafts will use the fallback message\n", err)
		return draft.New(nil, logger)
	}
	fmt.Fprintf(os.Stderr, "  llm: %s\n", cfg.LLM.Provider)
	return draft.New(client, logger)
}
