package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/comigor/bridge-go/internal/relay"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	s.writeJSON(w, http.StatusOK, relay.Health{
		Status:       "healthy",
		MessageCount: st.Total,
		UnreadCount:  st.Unread,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f relay.Filter
	if q.Has("from") {
		from := q.Get("from")
		f.From = &from
	}
	if q.Has("to") {
		to := q.Get("to")
		f.To = &to
	}

	msgs := nonNil(s.store.List(f))
	s.writeJSON(w, http.StatusOK, relay.ListResponse{Messages: msgs, Total: len(msgs)})
}

func (s *Server) handleUnread(w http.ResponseWriter, r *http.Request) {
	msgs := nonNil(s.store.Unread(r.URL.Query().Get("to")))
	s.writeJSON(w, http.StatusOK, relay.UnreadResponse{Messages: msgs, Count: len(msgs)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	m, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req relay.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Debug("bad create body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, relay.ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	m, err := s.store.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, relay.MessageResponse{Success: true, Message: m})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	m, err := s.store.MarkRead(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, relay.MessageResponse{Success: true, Message: m})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.store.Delete(r.Context(), id)
	s.writeJSON(w, http.StatusOK, relay.DeleteResponse{Success: true, Message: "Message deleted"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, relay.ErrorResponse{Error: "Not found"})
}

// pathID parses the {id} wildcard, answering 400 itself when it is not an
// integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, relay.ErrorResponse{Error: "Invalid message id"})
		return 0, false
	}
	return id, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relay.ErrMissingField):
		s.writeJSON(w, http.StatusBadRequest, relay.ErrorResponse{Error: "Missing required fields"})
	case errors.Is(err, relay.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, relay.ErrorResponse{Error: "Message not found"})
	default:
		s.log.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, relay.ErrorResponse{Error: "Internal error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response failed", "error", err)
	}
}

func nonNil(msgs []relay.Message) []relay.Message {
	if msgs == nil {
		return []relay.Message{}
	}
	return msgs
}
