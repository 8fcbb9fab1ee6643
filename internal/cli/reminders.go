package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/stayintouch/internal/digest"
	"github.com/lazypower/stayintouch/internal/notify"
	"github.com/lazypower/stayintouch/internal/reminder"
)

const sendTimeout = time.Minute

var remindersDryRun bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and apply migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, dbPath, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		v, err := db.SchemaVersion()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		fmt.Printf("Database ready at %s (schema v%d)\n", dbPath, v)
		return nil
	},
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Check who needs attention and send the digest",
	RunE:  runReminders,
}

var testEmailCmd = &cobra.Command{
	Use:   "test-email",
	Short: "Send a test message on every configured channel",
	RunE:  runTestEmail,
}

func runReminders(cmd *cobra.Command, args []string) error {
	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if remindersDryRun {
		return previewDigest(os.Stdout, db, reminder.NewEvaluator(nil))
	}

	dispatcher, err := newDispatcher(db)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	rep, err := dispatcher.Run(ctx)
	if err != nil {
		return err
	}
	if len(rep.Reminders) == 0 {
		fmt.Println("No reminders today - nothing sent")
		return nil
	}
	printOutcomes(os.Stdout, rep.Outcomes)
	if !rep.Sent {
		return fmt.Errorf("digest with %d reminders was not delivered", len(rep.Reminders))
	}
	return nil
}

// previewDigest writes the digest that would be sent today.
func previewDigest(w io.Writer, src digest.ContactSource, ev *reminder.Evaluator) error {
	contacts, err := src.ListContacts()
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	msg, ok := digest.Compose(ev.Evaluate(contacts))
	if !ok {
		fmt.Fprintln(w, "No reminders today")
		return nil
	}
	fmt.Fprintf(w, "Subject: %s\n\n%s\n", msg.Subject, msg.Body)
	return nil
}

func runTestEmail(cmd *cobra.Command, args []string) error {
	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	dispatcher, err := newDispatcher(db)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	outcomes, err := dispatcher.SendTest(ctx)
	if err != nil {
		return err
	}
	printOutcomes(os.Stdout, outcomes)
	if !notify.AnySent(outcomes) {
		return fmt.Errorf("test message not delivered")
	}
	return nil
}

func printOutcomes(w io.Writer, outcomes []notify.Outcome) {
	for _, o := range outcomes {
		if o.Sent {
			fmt.Fprintf(w, "  %s: sent\n", o.Channel)
		} else {
			fmt.Fprintf(w, "  %s: failed (%s)\n", o.Channel, o.Reason())
		}
	}
}
