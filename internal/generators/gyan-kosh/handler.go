// internal/generators/gyan-kosh/handler.go
package gyankosh

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"
	"sahachari/internal/common/validation"
	"sahachari/internal/models"
)

const (
	ContentKind = models.KindAnswer

	defaultRecentTimeout = 2 * time.Second
)

// RecentStore keeps each user's recently asked questions.
type RecentStore interface {
	Push(ctx context.Context, userID, question string) error
	List(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	config  *Config
	invoker llm.Invoker
	recent  RecentStore
	errors  *errors.HTTPErrorHandler
	logger  logger.Logger
	pending sync.WaitGroup
}

// NewHandler builds the answer handler. recent may be nil.
func NewHandler(config *Config, invoker llm.Invoker, recent RecentStore, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		invoker: invoker,
		recent:  recent,
		errors:  errHandler,
		logger:  log.WithFields(map[string]interface{}{"contentKind": string(ContentKind)}),
	}
}

// Handle serves POST /api/ai/gyan-kosh.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	var input Input
	if err := commonhttp.DecodeJSON(w, r, &input, h.config.MaxBodyBytes); err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	answer, err := h.execute(r.Context(), &input)
	if err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	h.remember(r.Context(), input.Question)

	tracker.Done("success")
	commonhttp.WriteJSON(w, http.StatusOK, &Output{Success: true, Answer: answer})
}

// HandleRecent serves GET /api/ai/gyan-kosh/recent.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	questions := []string{}

	session, ok := models.SessionFromContext(r.Context())
	if h.recent != nil && ok {
		list, err := h.recent.List(r.Context(), session.UserID)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		if list != nil {
			questions = list
		}
	}

	commonhttp.WriteJSON(w, http.StatusOK, &RecentOutput{Success: true, Questions: questions})
}

func (h *Handler) execute(ctx context.Context, input *Input) (string, error) {
	if err := validation.NewResult().
		RequireString("question", input.Question, "Question is required.").
		Err(); err != nil {
		return "", err
	}

	resp, err := h.invoker.Invoke(ctx, &llm.Request{
		Model:           h.config.Model,
		Prompt:          BuildPrompt(input, h.config.DefaultLanguage),
		Temperature:     llm.Float32(h.config.Temperature),
		MaxOutputTokens: h.config.MaxOutputTokens,
		SafetyFilter:    true,
	})
	if err != nil {
		return "", err
	}

	payload, err := normalize.Text(resp)
	if err != nil {
		return "", err
	}

	h.logger.Info("answer generated", map[string]interface{}{
		"style":   string(ParseStyle(input.ExplanationType)),
		"subject": input.Subject,
		"chars":   len(payload.Text),
	})
	return payload.Text, nil
}

// remember records the question for the current user in the background.
// The write is bounded by RecentTimeout and outlives the request; failures
// are logged and dropped.
func (h *Handler) remember(ctx context.Context, question string) {
	if h.recent == nil {
		return
	}
	session, ok := models.SessionFromContext(ctx)
	if !ok {
		return
	}
	question = strings.TrimSpace(question)

	timeout := h.config.RecentTimeout
	if timeout <= 0 {
		timeout = defaultRecentTimeout
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := h.recent.Push(pushCtx, session.UserID, question); err != nil {
			h.logger.Warn("failed to record recent question", map[string]interface{}{
				"userId": session.UserID,
				"error":  err.Error(),
			})
		}
	}()
}

// Wait blocks until every background recent-question write has finished.
func (h *Handler) Wait() {
	h.pending.Wait()
}
