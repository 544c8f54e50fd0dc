// internal/generators/text-to-speech/handler.go
package texttospeech

import (
	"context"
	"net/http"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"
	"sahachari/internal/common/validation"
	"sahachari/internal/models"
)

const ContentKind = models.KindSpeech

type Input struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

// Synthesizer renders narration audio for a BCP-47 language code.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) (*normalize.Payload, error)
}

type Handler struct {
	synthesizer  Synthesizer
	maxBodyBytes int64
	errors       *errors.HTTPErrorHandler
	logger       logger.Logger
}

func NewHandler(synthesizer Synthesizer, maxBodyBytes int64, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		synthesizer:  synthesizer,
		maxBodyBytes: maxBodyBytes,
		errors:       errHandler,
		logger:       log.WithFields(map[string]interface{}{"contentKind": string(ContentKind)}),
	}
}

// Handle serves POST /api/ai/text-to-speech and responds with raw audio.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	var input Input
	err := commonhttp.DecodeJSON(w, r, &input, h.maxBodyBytes)
	if err == nil {
		err = validation.NewResult().
			RequireString("text", input.Text, "Text is required for speech synthesis.").
			Err()
	}
	if err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	payload, err := h.synthesizer.Synthesize(r.Context(), input.Text, input.LanguageCode)
	if err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Debug("speech synthesized", map[string]interface{}{
		"languageCode": input.LanguageCode,
		"bytes":        len(payload.Data),
	})

	tracker.Done("success")
	commonhttp.WriteBinary(w, payload.MIMEType, payload.Data)
}
