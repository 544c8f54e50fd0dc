// internal/generators/speech-to-text/handler.go
package speechtotext

import (
	"net/http"
	"strings"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"
	"sahachari/internal/models"
)

const (
	ContentKind = models.KindTranscription

	AudioField       = "audio"
	DefaultAudioMIME = "audio/webm"
	Prompt           = "Transcribe the following audio. Only return the transcribed text, nothing else."
)

type Output struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
}

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

// Handle serves POST /api/ai/speech-to-text with a multipart audio part.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	transcription, err := h.transcribe(w, r)
	if err != nil {
		tracker.Done(string(errors.AsStandardError(err).Code))
		h.errors.Handle(w, r, err)
		return
	}

	tracker.Done("success")
	commonhttp.WriteJSON(w, http.StatusOK, &Output{Success: true, Transcription: transcription})
}

func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) (string, error) {
	if !commonhttp.IsMultipart(r) {
		return "", errors.NewBadRequestError("No audio file provided", "expected multipart/form-data")
	}
	if err := commonhttp.ParseMultipart(w, r, h.config.MaxUploadBytes); err != nil {
		return "", err
	}

	audio, err := commonhttp.ReadFile(r, AudioField, DefaultAudioMIME)
	if err != nil {
		return "", err
	}
	if audio == nil || len(audio.Data) == 0 {
		return "", errors.NewBadRequestError("No audio file provided", "")
	}

	// Browsers send "audio/webm;codecs=opus"; the provider wants the bare type.
	mimeType := strings.TrimSpace(strings.SplitN(audio.MIMEType, ";", 2)[0])

	resp, err := h.invoker.Invoke(r.Context(), &llm.Request{
		Model:      h.config.Model,
		Prompt:     Prompt,
		Attachment: &llm.Attachment{Data: audio.Data, MIMEType: mimeType},
	})
	if err != nil {
		return "", err
	}

	payload, err := normalize.Text(resp)
	if err != nil {
		return "", err
	}

	h.logger.Info("audio transcribed", map[string]interface{}{
		"mimeType": mimeType,
		"bytes":    len(audio.Data),
	})
	return strings.TrimSpace(payload.Text), nil
}
