// internal/generators/rupdrishti/handler.go
package rupdrishti

import (
	"context"
	"net/http"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"
	"sahachari/internal/common/validation"
	"sahachari/internal/models"
)

const ContentKind = models.KindVisualAid

// Generator produces grid diagrams as text and blackboard drawings as images.
type Generator interface {
	llm.Invoker
	llm.ImageGenerator
}

type Handler struct {
	config    *Config
	generator Generator
	errors    *errors.HTTPErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		errors:    errHandler,
		logger:    log.WithFields(map[string]interface{}{"contentKind": string(ContentKind)}),
	}
}

// Handle serves POST /api/ai/rupdrishti.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	var input Input
	if err := commonhttp.DecodeJSON(w, r, &input, h.config.MaxBodyBytes); err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	output, err := h.execute(r.Context(), &input)
	if err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	tracker.Done("success")
	commonhttp.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validation.NewResult().
		RequireString("prompt", input.Prompt, "A topic/prompt is required.").
		Err(); err != nil {
		return nil, err
	}

	style := ParseStyle(input.Style)
	prompt := BuildPrompt(style, input.Prompt)

	if style == StyleGrid {
		resp, err := h.generator.Invoke(ctx, &llm.Request{Model: h.config.TextModel, Prompt: prompt})
		if err != nil {
			return nil, err
		}
		payload, err := normalize.Text(resp)
		if err != nil {
			return nil, err
		}
		h.logger.Info("grid diagram generated", map[string]interface{}{"topic": input.Prompt})
		return &Output{Success: true, IsText: true, Content: payload.Text}, nil
	}

	resp, err := h.generator.GenerateImage(ctx, &llm.ImageRequest{
		Model:       h.config.ImageModel,
		Prompt:      prompt,
		AspectRatio: h.config.AspectRatio,
	})
	if err != nil {
		return nil, err
	}
	payload, err := normalize.Image(resp)
	if err != nil {
		return nil, err
	}

	h.logger.Info("blackboard drawing generated", map[string]interface{}{
		"topic":    input.Prompt,
		"mimeType": payload.MIMEType,
		"inline":   payload.URI == "",
	})
	return &Output{Success: true, IsText: false, Content: payload.DataURL()}, nil
}
