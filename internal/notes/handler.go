package notes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/dbscope/middlewares"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

// Handler serves the notes HTTP API.
type Handler struct {
	repo *Repository
}

// NewHandler creates a Handler backed by repo.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes mounts the API on r. Every route runs through opts, which must
// install a session (middlewares.DBSession) for the repository to work.
func (h *Handler) Routes(r chi.Router, opts ...middlewares.HandleOption) {
	r.Get("/notes", middlewares.Handle(h.list, opts...))
	r.Post("/notes", middlewares.Handle(h.create, opts...))
	r.Get("/notes/{id}", middlewares.Handle(h.get, opts...))
	r.Delete("/notes/{id}", middlewares.Handle(h.delete, opts...))
}

type createRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middlewares.NewHTTPError(http.StatusBadRequest, "invalid json body", err)
	}

	ctx := r.Context()
	n, err := h.repo.Create(ctx, req.Title, req.Body)
	if err != nil {
		return mapError(err)
	}

	sess, err := dbsession.Current(ctx)
	if err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, n)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) error {
	n, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return mapError(err)
	}
	return writeJSON(w, http.StatusOK, n)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return middlewares.NewHTTPError(http.StatusBadRequest, "invalid limit", err)
		}
		limit = n
	}

	notes, err := h.repo.List(r.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, notes)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	if err := h.repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		return mapError(err)
	}

	sess, err := dbsession.Current(ctx)
	if err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return middlewares.NewHTTPError(http.StatusNotFound, "note not found", err)
	case errors.Is(err, ErrInvalidNote):
		return middlewares.NewHTTPError(http.StatusBadRequest, "title must be 1-255 characters", err)
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
