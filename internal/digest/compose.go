// Package digest turns the current reminder list into a notification and
// delivers it, on demand or on a cron schedule.
package digest

import (
	"fmt"
	"strings"

	"github.com/lazypower/stayintouch/internal/notify"
	"github.com/lazypower/stayintouch/internal/reminder"
)

const (
	testSubject = "Test Email from StayInTouch"
	testBody    = "This is a test email to verify the email system is working correctly!"
)

// TestMessage is the fixed message used to verify delivery settings.
func TestMessage() notify.Message {
	return notify.Message{Subject: testSubject, Body: testBody}
}

// Line renders one reminder as a digest line.
func Line(e reminder.Entry) string {
	if e.Status == reminder.StatusBirthday {
		return fmt.Sprintf("🎂 %s - Birthday reminder", e.Name)
	}
	if by, ok := e.OverdueBy(); ok {
		return fmt.Sprintf("📞 %s - Overdue by %d days", e.Name, by)
	}
	return fmt.Sprintf("📞 %s - Overdue (never contacted)", e.Name)
}

// Compose builds the digest for entries. ok is false when there is nothing
// to send.
func Compose(entries []reminder.Entry) (msg notify.Message, ok bool) {
	if len(entries) == 0 {
		return notify.Message{}, false
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = Line(e)
	}

	n := len(entries)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello!\n\nYou have %d contacts that need your attention:\n\n", n)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nVisit your StayInTouch app to contact them!\n\nBest regards,\nStayInTouch")

	return notify.Message{
		Subject: fmt.Sprintf("StayInTouch Reminders - %d contacts need attention", n),
		Body:    b.String(),
	}, true
}
