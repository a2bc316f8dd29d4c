package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/revio/revio/pkg/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.svc.List(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	review, err := s.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, &core.InvalidArgumentError{Reason: "malformed JSON body"})
		return
	}
	review, err := s.svc.Create(r.Context(), body.Title, body.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title     *string         `json:"title"`
		Content   *string         `json:"content"`
		DeletedAt json.RawMessage `json:"deletedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, &core.InvalidArgumentError{Reason: "malformed JSON body"})
		return
	}

	patch := core.Patch{Title: body.Title, Content: body.Content}
	if len(body.DeletedAt) > 0 {
		patch.SetDeletedAt = true
		if !bytes.Equal(bytes.TrimSpace(body.DeletedAt), []byte("null")) {
			var t time.Time
			if err := json.Unmarshal(body.DeletedAt, &t); err != nil {
				s.writeError(w, &core.InvalidArgumentError{Reason: "deletedAt must be an RFC 3339 timestamp or null"})
				return
			}
			patch.DeletedAt = &t
		}
	}

	review, err := s.svc.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SoftDelete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}

// parseQuery reads pagination/sort/search parameters with the API
// defaults. "dateTime" is accepted as a sort alias for createdAt for
// compatibility with older clients.
func parseQuery(r *http.Request) (core.Query, error) {
	q := core.DefaultQuery()
	params := r.URL.Query()

	if v := params.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.Query{}, &core.InvalidArgumentError{Reason: "page must be an integer"}
		}
		q.Page = n
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.Query{}, &core.InvalidArgumentError{Reason: "limit must be an integer"}
		}
		q.PageSize = n
	}
	if v := params.Get("sort"); v != "" {
		if v == "dateTime" {
			v = string(core.SortByCreatedAt)
		}
		q.Sort = core.SortField(v)
	}
	if v := params.Get("order"); v != "" {
		q.Order = core.SortDirection(v)
	}
	q.Search = params.Get("search")
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy to status codes: validation
// and argument errors to 400, missing reviews to 404, everything else
// (store failures) to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	var ia *core.InvalidArgumentError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Validation error", "fields": ve.Fields})
	case errors.As(err, &ia):
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": ia.Reason})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Review not found"})
	default:
		s.logger.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
}
