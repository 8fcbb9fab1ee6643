package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
)

const (
	msgContactNotFound = "Contact not found"
	msgDuplicateName   = "A contact with this name already exists"
)

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var in store.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if msg := validateFields(&in.Birthday, &in.LastContactDate, in.Frequency); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := s.db.NameExists(in.Name, 0)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if exists {
		writeError(w, http.StatusConflict, msgDuplicateName)
		return
	}

	id, err := s.db.CreateContact(in)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.Info("contact created", "contact_id", id)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Contact added successfully",
		"contact_id": id,
	})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
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
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var p store.ContactPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if msg := validateFields(p.Birthday, p.LastContactDate, p.Frequency); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := s.db.GetContact(id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, msgContactNotFound)
		return
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		if !strings.EqualFold(name, existing.Name) {
			exists, err := s.db.NameExists(name, id)
			if err != nil {
				s.internalError(w, r, err)
				return
			}
			if exists {
				writeError(w, http.StatusConflict, msgDuplicateName)
				return
			}
		}
	}

	if err := s.db.UpdateContact(id, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgContactNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact updated successfully"})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteContact(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgContactNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.log.Info("contact deleted", "contact_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}

func (s *Server) handleLogContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var in store.InteractionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if in.ContactDate == "" {
		in.ContactDate = s.evaluator.Clock.Now().Format(reminder.DateLayout)
	} else if _, err := reminder.ParseDate(in.ContactDate); err != nil {
		writeError(w, http.StatusBadRequest, "contact_date must be YYYY-MM-DD")
		return
	}

	it, err := s.db.LogInteraction(id, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgContactNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Contact logged successfully",
		"log":     it,
	})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
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
	logs, err := s.db.ListInteractions(id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// validateFields checks the optional date and cadence inputs shared by
// create and update. It returns a client-facing message, or "" when valid.
func validateFields(birthday, lastContact *string, freq *store.Frequency) string {
	if birthday != nil && *birthday != "" {
		if _, err := reminder.ParseDate(*birthday); err != nil {
			return "birthday must be YYYY-MM-DD"
		}
	}
	if lastContact != nil && *lastContact != "" {
		if _, err := reminder.ParseDate(*lastContact); err != nil {
			return "last_contact_date must be YYYY-MM-DD"
		}
	}
	if freq != nil {
		if err := freq.Validate(); err != nil {
			return `reminder_frequency_days must be a positive number of days or "` + store.BirthdayOnly + `"`
		}
	}
	return ""
}
