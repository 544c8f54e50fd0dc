// internal/library/handler.go
package library

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/validation"
	"sahachari/internal/models"

	"github.com/go-chi/chi/v5"
)

// Searcher is the optional full-text side of the library.
type Searcher interface {
	Index(ctx context.Context, item *models.SavedItem) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

type SaveInput struct {
	Kind     models.ContentKind `json:"kind"`
	Title    string             `json:"title"`
	Topic    string             `json:"topic"`
	Language string             `json:"language"`
	Payload  json.RawMessage    `json:"payload"`
}

type ItemOutput struct {
	Success bool              `json:"success"`
	Item    *models.SavedItem `json:"item"`
}

type ListOutput struct {
	Success bool                `json:"success"`
	Items   []*models.SavedItem `json:"items"`
}

type DeleteOutput struct {
	Success bool `json:"success"`
}

type Handler struct {
	repo         models.SavedItemRepository
	search       Searcher
	maxBodyBytes int64
	errors       *errors.HTTPErrorHandler
	logger       logger.Logger
}

func NewHandler(repo models.SavedItemRepository, search Searcher, maxBodyBytes int64, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		repo:         repo,
		search:       search,
		maxBodyBytes: maxBodyBytes,
		errors:       errHandler,
		logger:       log.WithFields(map[string]interface{}{"component": "library"}),
	}
}

// Routes mounts the library under the caller's router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

// Create serves POST /api/library.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var input SaveInput
	if err := commonhttp.DecodeJSON(w, r, &input, h.maxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result := validation.NewResult().RequireString("title", input.Title, "Title is required.")
	if !input.Kind.Savable() {
		result.AddError("kind", "Kind must be one of story, worksheet, answer, visualAid or game.", "INVALID_VALUE")
	}
	if p := strings.TrimSpace(string(input.Payload)); p == "" || p == "null" {
		result.AddError("payload", "Payload is required.", "REQUIRED_FIELD_MISSING")
	}
	if err := result.Err(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	item := &models.SavedItem{
		UserID:   session.UserID,
		Kind:     input.Kind,
		Title:    strings.TrimSpace(input.Title),
		Topic:    input.Topic,
		Language: input.Language,
		Payload:  input.Payload,
	}
	if err := h.repo.Save(r.Context(), item); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if h.search != nil {
		if err := h.search.Index(r.Context(), item); err != nil {
			h.logger.Warn("failed to index saved item", map[string]interface{}{
				"itemId": item.ID,
				"error":  err.Error(),
			})
		}
	}

	h.logger.Info("item saved", map[string]interface{}{
		"itemId": item.ID,
		"kind":   string(item.Kind),
		"userId": session.UserID,
	})
	commonhttp.WriteJSON(w, http.StatusCreated, &ItemOutput{Success: true, Item: item})
}

// List serves GET /api/library?kind=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	kind := models.ContentKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Savable() {
		h.errors.Handle(w, r, errors.NewBadRequestError("Unknown kind.", string(kind)))
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	items, err := h.repo.List(r.Context(), session.UserID, kind, limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, &ListOutput{Success: true, Items: items})
}

// Search serves GET /api/library/search?q=. Hits are re-read from the
// repository so results are always the caller's own current items.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if h.search == nil {
		h.errors.Handle(w, r, errors.NewBadRequestError("search is not enabled", ""))
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if err := validation.NewResult().RequireString("q", query, "Search query is required.").Err(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ids, err := h.search.Search(r.Context(), session.UserID, query, limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	items := make([]*models.SavedItem, 0, len(ids))
	for _, id := range ids {
		item, err := h.repo.Get(r.Context(), session.UserID, id)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNotFound) {
				continue
			}
			h.errors.Handle(w, r, err)
			return
		}
		items = append(items, item)
	}
	commonhttp.WriteJSON(w, http.StatusOK, &ListOutput{Success: true, Items: items})
}

// Get serves GET /api/library/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	item, err := h.repo.Get(r.Context(), session.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, &ItemOutput{Success: true, Item: item})
}

// Delete serves DELETE /api/library/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), session.UserID, id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if h.search != nil {
		if err := h.search.Remove(r.Context(), id); err != nil {
			h.logger.Warn("failed to remove saved item from search", map[string]interface{}{
				"itemId": id,
				"error":  err.Error(),
			})
		}
	}
	commonhttp.WriteJSON(w, http.StatusOK, &DeleteOutput{Success: true})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session, ok := models.SessionFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, errors.NewUnauthorizedError("no session on request"))
		return nil, false
	}
	return session, true
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.NewBadRequestError("Limit must be a positive number.", raw)
	}
	return clampLimit(limit), nil
}
