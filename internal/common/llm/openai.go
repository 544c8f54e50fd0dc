// internal/common/llm/openai.go
package llm

import (
	"context"
	"encoding/base64"
	"strings"

	"sahachari/internal/common/config"
	"sahachari/internal/common/errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const ProviderOpenAI = "openai"

// OpenAI calls any OpenAI-compatible chat completions endpoint. It accepts
// text prompts with an optional image and does not claim structured output
// support.
type OpenAI struct {
	client openai.Client
}

func NewOpenAI(cfg config.OpenAIConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...)}
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

func (o *OpenAI) SupportsStructuredOutput() bool { return false }

func (o *OpenAI) Invoke(ctx context.Context, req *Request) (*Response, error) {
	message, err := userMessage(req)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{message},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(float64(*req.Temperature))
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, ClassifyError(ProviderOpenAI, err)
	}

	out := &Response{Model: req.Model, Provider: ProviderOpenAI}
	for _, choice := range resp.Choices {
		if out.FinishReason == "" {
			out.FinishReason = string(choice.FinishReason)
		}
		if choice.Message.Content != "" {
			out.Segments = append(out.Segments, Segment{Text: choice.Message.Content})
		}
	}
	return out, nil
}

// userMessage builds the prompt message. Images travel inline as a data URL
// next to the text part.
func userMessage(req *Request) (openai.ChatCompletionMessageParamUnion, error) {
	if req.Attachment == nil {
		return openai.UserMessage(req.Prompt), nil
	}
	if !strings.HasPrefix(req.Attachment.MIMEType, "image/") {
		return openai.ChatCompletionMessageParamUnion{}, errors.NewBadRequestError("unsupported attachment",
			"model "+req.Model+" accepts image attachments only, got "+req.Attachment.MIMEType)
	}

	dataURL := "data:" + req.Attachment.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(req.Attachment.Data)
	return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	}), nil
}
