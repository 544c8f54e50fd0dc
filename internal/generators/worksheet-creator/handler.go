// internal/generators/worksheet-creator/handler.go
package worksheetcreator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"
	"sahachari/internal/common/storage"
	"sahachari/internal/common/validation"
	"sahachari/internal/models"

	"github.com/yuin/goldmark"
)

const (
	ContentKind = models.KindWorksheet

	defaultImageMIME = "image/jpeg"
	sectionSeparator = "\n\n---\n\n"
)

// Generator is the invoker plus the routing knowledge needed to pick a parse mode.
type Generator interface {
	llm.Invoker
	SupportsStructuredOutput(model string) bool
}

// TextbookSource resolves an image URL to stored page bytes.
type TextbookSource interface {
	Fetch(ctx context.Context, ref string) (*storage.Object, error)
}

type Handler struct {
	config    *Config
	generator Generator
	textbooks TextbookSource
	markdown  goldmark.Markdown
	errors    *errors.HTTPErrorHandler
	logger    logger.Logger
}

// NewHandler builds the worksheet handler. textbooks may be nil, in which
// case only uploaded images are accepted.
func NewHandler(config *Config, generator Generator, textbooks TextbookSource, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		textbooks: textbooks,
		markdown:  goldmark.New(),
		errors:    errHandler,
		logger:    log.WithFields(map[string]interface{}{"contentKind": string(ContentKind)}),
	}
}

// Handle serves POST /api/ai/worksheet.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tracker := metrics.Track(string(ContentKind))

	input, upload, err := h.decode(w, r)
	if err != nil {
		h.fail(w, r, tracker, err)
		return
	}

	output, err := h.execute(r.Context(), input, upload)
	if err != nil {
		h.fail(w, r, tracker, err)
		return
	}

	tracker.Done("success")
	commonhttp.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*Input, *commonhttp.Upload, error) {
	var input Input
	if !commonhttp.IsMultipart(r) {
		if err := commonhttp.DecodeJSON(w, r, &input, h.config.MaxBodyBytes); err != nil {
			return nil, nil, err
		}
		return &input, nil, nil
	}

	if err := commonhttp.ParseMultipart(w, r, h.config.MaxUploadBytes); err != nil {
		return nil, nil, err
	}

	grades, err := ParseGrades(r.MultipartForm.Value["grades"])
	if err != nil {
		return nil, nil, err
	}
	input = Input{
		ImageURL: r.FormValue("imageUrl"),
		Grades:   grades,
		Subject:  r.FormValue("subject"),
		Topic:    r.FormValue("topic"),
		Language: r.FormValue("language"),
		Format:   r.FormValue("format"),
	}

	upload, err := commonhttp.ReadFile(r, "file", defaultImageMIME)
	if err != nil {
		return nil, nil, err
	}
	return &input, upload, nil
}

// ParseGrades reads grades sent as repeated fields, comma separated, or both.
func ParseGrades(values []string) ([]int, error) {
	var grades []int
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			grade, err := strconv.Atoi(part)
			if err != nil {
				return nil, errors.NewBadRequestError("Grades must be whole numbers.", fmt.Sprintf("invalid grade %q", part))
			}
			grades = append(grades, grade)
		}
	}
	return grades, nil
}

func validate(input *Input, upload *commonhttp.Upload) (Format, error) {
	result := validation.NewResult()

	if len(input.Grades) == 0 {
		result.AddError("grades", "At least one grade is required.", "REQUIRED_FIELD_MISSING")
	}
	for _, grade := range input.Grades {
		if grade < MinGrade || grade > MaxGrade {
			result.AddError("grades", fmt.Sprintf("Grades must be between %d and %d.", MinGrade, MaxGrade), "OUT_OF_RANGE")
			break
		}
	}
	if upload == nil && strings.TrimSpace(input.ImageURL) == "" {
		result.AddError("image", "An image is required.", "REQUIRED_FIELD_MISSING")
	}

	format := Format(strings.ToLower(strings.TrimSpace(input.Format)))
	switch format {
	case "":
		format = FormatJSON
	case "md":
		format = FormatMarkdown
	case FormatJSON, FormatMarkdown:
	default:
		result.AddError("format", "Format must be json or markdown.", "INVALID_VALUE")
	}

	return format, result.Err()
}

func (h *Handler) execute(ctx context.Context, input *Input, upload *commonhttp.Upload) (*Output, error) {
	format, err := validate(input, upload)
	if err != nil {
		return nil, err
	}

	attachment, err := h.resolveImage(ctx, input.ImageURL, upload)
	if err != nil {
		return nil, err
	}

	language := models.LanguageName(input.Language, h.config.DefaultLanguage)
	sections := make([]Section, 0, len(input.Grades))

	for _, grade := range input.Grades {
		var section *Section
		if format == FormatMarkdown {
			section, err = h.markdownSection(ctx, grade, input, language, attachment)
		} else {
			section, err = h.jsonSection(ctx, grade, input, language, attachment)
		}
		if err != nil {
			h.logger.Warn("worksheet grade failed", map[string]interface{}{
				"grade": grade,
				"error": err.Error(),
			})
			return nil, err
		}
		sections = append(sections, *section)
	}

	output := &Output{
		Success:    true,
		Worksheets: sections,
		Metadata: Metadata{
			Grades:      input.Grades,
			Subject:     input.Subject,
			Topic:       input.Topic,
			Language:    input.Language,
			Format:      format,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	if format == FormatMarkdown {
		parts := make([]string, 0, len(sections))
		for _, s := range sections {
			parts = append(parts, s.Markdown)
		}
		output.Worksheet = strings.Join(parts, sectionSeparator)
	}

	h.logger.Info("worksheet generated", map[string]interface{}{
		"grades": input.Grades,
		"topic":  input.Topic,
		"format": string(format),
	})
	return output, nil
}

func (h *Handler) resolveImage(ctx context.Context, imageURL string, upload *commonhttp.Upload) (*llm.Attachment, error) {
	if upload != nil {
		if len(upload.Data) == 0 {
			return nil, errors.NewBadRequestError("An image is required.", "uploaded file is empty")
		}
		return &llm.Attachment{Data: upload.Data, MIMEType: upload.MIMEType}, nil
	}

	if h.textbooks == nil {
		return nil, errors.NewBadRequestError("Image URLs are not supported.", "textbook storage is not configured")
	}
	obj, err := h.textbooks.Fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	mimeType := obj.ContentType
	if mimeType == "" {
		mimeType = defaultImageMIME
	}
	return &llm.Attachment{Data: obj.Data, MIMEType: mimeType}, nil
}

func (h *Handler) jsonSection(ctx context.Context, grade int, input *Input, language string, image *llm.Attachment) (*Section, error) {
	structured := h.generator.SupportsStructuredOutput(h.config.Model)

	req := &llm.Request{
		Model:      h.config.Model,
		Prompt:     BuildJSONPrompt(grade, input.Subject, input.Topic, language),
		Attachment: image,
	}
	if structured {
		req.ResponseSchema = validation.WorksheetContract
	}

	resp, err := h.generator.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := normalize.Object(resp, validation.WorksheetContract, normalize.ModeFor(structured))
	if err != nil {
		return nil, err
	}

	if payload.Kind == normalize.KindUnstructured {
		h.logger.Warn("worksheet response was not valid JSON, returning raw content", map[string]interface{}{
			"grade": grade,
			"error": payload.ParseErr.Error(),
		})
		return &Section{
			Grade:      grade,
			Title:      SectionTitle(input.Topic, grade),
			RawContent: payload.Text,
		}, nil
	}

	section, err := sectionFromObject(payload.Object)
	if err != nil {
		return nil, errors.NewMalformedResponseError(resp.Provider, err.Error())
	}
	section.Grade = grade
	if strings.TrimSpace(section.Title) == "" {
		section.Title = SectionTitle(input.Topic, grade)
	}
	return section, nil
}

func (h *Handler) markdownSection(ctx context.Context, grade int, input *Input, language string, image *llm.Attachment) (*Section, error) {
	resp, err := h.generator.Invoke(ctx, &llm.Request{
		Model:      h.config.Model,
		Prompt:     BuildMarkdownPrompt(grade, input.Subject, input.Topic, language),
		Attachment: image,
	})
	if err != nil {
		return nil, err
	}

	payload, err := normalize.Text(resp)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := h.markdown.Convert([]byte(payload.Text), &html); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("render worksheet markdown: %w", err))
	}

	return &Section{
		Grade:    grade,
		Title:    SectionTitle(input.Topic, grade),
		Markdown: payload.Text,
		HTML:     html.String(),
	}, nil
}

// sectionFromObject maps a contract-valid object onto Section.
func sectionFromObject(obj map[string]interface{}) (*Section, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var section Section
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, tracker *metrics.Tracker, err error) {
	tracker.Done(string(errors.AsStandardError(err).Code))
	h.errors.Handle(w, r, err)
}
