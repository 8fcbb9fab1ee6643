package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lazypower/stayintouch/internal/calendar"
	"github.com/lazypower/stayintouch/internal/digest"
	"github.com/lazypower/stayintouch/internal/notify"
)

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reminders": s.evaluator.Evaluate(contacts),
	})
}

func (s *Server) handleDraftMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	var req struct {
		CustomPrompt string `json:"custom_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.CustomPrompt == "" {
		req.CustomPrompt = r.URL.Query().Get("custom_prompt")
	}

	c, err := s.db.GetContact(id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, msgContactNotFound)
		return
	}

	res := s.drafter.Draft(r.Context(), *c, req.CustomPrompt)
	body := map[string]any{
		"success":      res.OK(),
		"message":      res.Message,
		"contact_name": c.Name,
		"fallback":     res.Fallback,
	}
	if !res.OK() {
		body["error"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, digest.ErrNoChannels.Error())
		return
	}
	outcomes, err := s.dispatcher.SendTest(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	sent := notify.AnySent(outcomes)
	msg := "Test email sent"
	if !sent {
		msg = "Failed to send test email"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  sent,
		"message":  msg,
		"outcomes": outcomes,
	})
}

func (s *Server) handleSendRemindersNow(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, digest.ErrNoChannels.Error())
		return
	}
	rep, err := s.dispatcher.Run(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reminder check completed",
		"report":  rep,
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	data, err := calendar.Build(contacts, s.evaluator.Clock.Now())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="birthdays.ics"`)
	w.Write(data)
}
