// internal/generators/story-maker/handler.go
package storymaker

import (
	"context"
	"net/http"
	"strings"
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

const ContentKind = models.KindStory

type Handler struct {
	config  *Config
	invoker llm.Invoker
	errors  *errors.HTTPErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, invoker llm.Invoker, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		invoker: invoker,
		errors:  errHandler,
		logger:  log.WithFields(map[string]interface{}{"contentKind": string(ContentKind)}),
	}
}

// Handle serves POST /api/ai/story.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	var input Input
	if err := commonhttp.DecodeJSON(w, r, &input, h.config.MaxBodyBytes); err != nil {
		h.fail(w, r, tracker, err)
		return
	}

	output, err := h.execute(r.Context(), &input)
	if err != nil {
		h.fail(w, r, tracker, err)
		return
	}

	tracker.Done("success")
	commonhttp.WriteJSON(w, http.StatusOK, output)
}

// HandleDemo serves POST /api/ai/story/demo from the offline catalogue.
func (h *Handler) HandleDemo(w http.ResponseWriter, r *http.Request) {
	var input DemoInput
	if err := commonhttp.DecodeJSON(w, r, &input, h.config.MaxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = demoDefaultLanguage
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		topic = demoDefaultTopic
	}

	commonhttp.WriteJSON(w, http.StatusOK, &Output{
		Success: true,
		Story:   DemoStory(language, topic, input.Prompt),
		Metadata: Metadata{
			Language:    language,
			Topic:       topic,
			AgeGroup:    input.AgeGroup,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			IsDemo:      true,
		},
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validation.NewResult().
		RequireString("topic", input.Topic, "Topic is required.").
		Err(); err != nil {
		return nil, err
	}

	resp, err := h.invoker.Invoke(ctx, &llm.Request{
		Model:           h.config.Model,
		Prompt:          BuildPrompt(input, h.config.DefaultLanguage),
		Temperature:     llm.Float32(h.config.Temperature),
		MaxOutputTokens: h.config.MaxOutputTokens,
		SafetyFilter:    true,
	})
	if err != nil {
		return nil, err
	}

	payload, err := normalize.Text(resp)
	if err != nil {
		return nil, err
	}

	h.logger.Info("story generated", map[string]interface{}{
		"topic":     input.Topic,
		"language":  input.Language,
		"storyType": input.StoryType,
		"chars":     len(payload.Text),
	})

	return &Output{
		Success: true,
		Story:   payload.Text,
		Metadata: Metadata{
			Language:    input.Language,
			Topic:       input.Topic,
			AgeGroup:    input.AgeGroup,
			StoryType:   input.StoryType,
			StoryLength: input.StoryLength,
			Subject:     input.Subject,
			State:       input.State,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, tracker *metrics.Tracker, err error) {
	tracker.Done(string(errors.AsStandardError(err).Code))
	h.errors.Handle(w, r, err)
}
