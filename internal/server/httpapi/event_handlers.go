package httpapi

import (
	"net/http"
	"time"

	"github.com/hkondo/secretbase/internal/server/events"
)

type eventJSON struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type eventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

func eventToJSON(e *events.Event) eventJSON {
	return eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		CreatedAt:   e.CreatedAt,
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	event, err := s.events.Create(r.Context(), &events.Event{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventToJSON(event))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.events.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]eventJSON, 0, len(items))
	for _, e := range items {
		out = append(out, eventToJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	event, err := s.events.Update(r.Context(), &events.Event{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToJSON(event))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.events.Delete(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}
