package server

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/lazypower/stayintouch/internal/draft"
	"github.com/lazypower/stayintouch/internal/llm"
	"github.com/lazypower/stayintouch/internal/store"
)

func seedReminders(t *testing.T, db *store.DB) {
	t.Helper()
	mustCreate(t, db, store.ContactInput{Name: "Alice", Birthday: "1990-06-09", LastContactDate: "2024-06-08"})
	mustCreate(t, db, store.ContactInput{Name: "Bob", LastContactDate: "2024-05-01"})
	thirty := store.Every(30)
	mustCreate(t, db, store.ContactInput{Name: "Cara", LastContactDate: "2024-06-05", Frequency: &thirty})
}

func TestRemindersEndpoint(t *testing.T) {
	h := newHarness(t)
	seedReminders(t, h.db)

	w := do(t, h.srv, "GET", "/reminders", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	list := decode(t, w)["reminders"].([]any)
	if len(list) != 2 {
		t.Fatalf("reminders = %d, want 2: %s", len(list), w.Body.String())
	}

	alice := list[0].(map[string]any)
	if alice["name"] != "Alice" || alice["status"] != "birthday_reminder" {
		t.Errorf("first = %v", alice)
	}
	if alice["days_until_birthday"] != float64(-1) {
		t.Errorf("days_until_birthday = %v, want -1", alice["days_until_birthday"])
	}

	bob := list[1].(map[string]any)
	if bob["status"] != "overdue" || bob["days_since_contact"] != float64(40) {
		t.Errorf("second = %v", bob)
	}
	if v, ok := bob["birthday"]; !ok || v != nil {
		t.Errorf("unset birthday = %v (present %v), want null", v, ok)
	}
}

func TestRemindersEmpty(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/reminders", "")
	if !strings.Contains(w.Body.String(), `"reminders":[]`) {
		t.Errorf("body = %s, want empty array", w.Body.String())
	}
}

func TestDraftMessage(t *testing.T) {
	h := newHarness(t)
	mustCreate(t, h.db, store.ContactInput{Name: "Alice", Notes: "new job"})

	w := do(t, h.srv, "POST", "/draft-message/1", `{"custom_prompt":"congratulate her"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["success"] != true || body["fallback"] != false {
		t.Errorf("body = %v", body)
	}
	if body["message"] != "Hey there!" || body["contact_name"] != "Alice" {
		t.Errorf("body = %v", body)
	}

	calls := h.mock.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0], "congratulate her") {
		t.Errorf("prompt missing custom text: %v", calls)
	}
}

func TestDraftMessageQueryPrompt(t *testing.T) {
	h := newHarness(t)
	mustCreate(t, h.db, store.ContactInput{Name: "Alice"})

	if w := do(t, h.srv, "POST", "/draft-message/1?custom_prompt=ask+about+hiking", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	calls := h.mock.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0], "ask about hiking") {
		t.Errorf("prompt missing query text: %v", calls)
	}
}

func TestDraftMessageFallback(t *testing.T) {
	h := newHarness(t)
	mustCreate(t, h.db, store.ContactInput{Name: "Alice"})
	h.srv.drafter = draft.New(&llm.MockClient{Err: errors.New("quota")}, nil)

	body := decode(t, do(t, h.srv, "POST", "/draft-message/1", ""))
	if body["success"] != false || body["fallback"] != true {
		t.Errorf("body = %v", body)
	}
	if body["message"] != draft.FallbackMessage {
		t.Errorf("message = %v, want fallback", body["message"])
	}
	if body["error"] == nil {
		t.Error("expected error detail")
	}
}

func TestDraftMessageNotFound(t *testing.T) {
	srv := testServer(t)

	if w := do(t, srv, "POST", "/draft-message/7", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSendRemindersNow(t *testing.T) {
	h := newHarness(t)
	seedReminders(t, h.db)

	w := do(t, h.srv, "POST", "/send-reminders-now", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	report := decode(t, w)["report"].(map[string]any)
	if report["sent"] != true {
		t.Errorf("report = %v", report)
	}
	if len(h.notifier.got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(h.notifier.got))
	}
	if h.notifier.got[0].Subject != "StayInTouch Reminders - 2 contacts need attention" {
		t.Errorf("subject = %q", h.notifier.got[0].Subject)
	}
}

func TestSendRemindersNowNothingDue(t *testing.T) {
	h := newHarness(t)

	if w := do(t, h.srv, "POST", "/send-reminders-now", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(h.notifier.got) != 0 {
		t.Errorf("notifications = %d, want none", len(h.notifier.got))
	}
}

func TestTestEmail(t *testing.T) {
	h := newHarness(t)

	body := decode(t, do(t, h.srv, "POST", "/test-email", ""))
	if body["success"] != true || body["message"] != "Test email sent" {
		t.Errorf("body = %v", body)
	}

	h.notifier.err = errors.New("smtp down")
	body = decode(t, do(t, h.srv, "POST", "/test-email", ""))
	if body["success"] != false || body["message"] != "Failed to send test email" {
		t.Errorf("body = %v", body)
	}
	outcome := body["outcomes"].([]any)[0].(map[string]any)
	if outcome["error"] != "smtp down" {
		t.Errorf("outcome = %v", outcome)
	}
}

func TestSendEndpointsWithoutDispatcher(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()
	srv := New(db, Options{Version: "test"})

	for _, path := range []string{"/test-email", "/send-reminders-now"} {
		if w := do(t, srv, "POST", path, ""); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, w.Code)
		}
	}
}

func TestCalendarFeed(t *testing.T) {
	h := newHarness(t)
	mustCreate(t, h.db, store.ContactInput{Name: "Alice", Birthday: "1990-06-09"})

	w := do(t, h.srv, "GET", "/calendar.ics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "RRULE:FREQ=YEARLY"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("feed missing %q", want)
		}
	}
}
