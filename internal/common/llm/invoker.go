// internal/common/llm/invoker.go
package llm

import (
	"context"

	"sahachari/internal/common/validation"
)

// Attachment is an inline image or audio payload sent alongside the prompt.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Request is a single generation call. Zero values mean provider defaults.
type Request struct {
	Model           string
	Prompt          string
	Attachment      *Attachment
	Temperature     *float32
	MaxOutputTokens int32

	// ResponseSchema asks providers that support structured output to
	// constrain the reply to this contract.
	ResponseSchema *validation.Contract

	SafetyFilter bool
}

// ImageRequest asks an image model for one picture.
type ImageRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
}

// Segment is one piece of provider output. Exactly one of Text, Data or URI is set.
type Segment struct {
	Text     string
	Data     []byte
	MIMEType string
	URI      string
}

// Response is the raw, provider-neutral result of one call.
type Response struct {
	Model        string
	Provider     string
	Segments     []Segment
	FinishReason string
	BlockReason  string
}

// Invoker performs exactly one synchronous generation attempt.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// ImageGenerator performs exactly one image generation attempt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req *ImageRequest) (*Response, error)
}

// Provider is a concrete upstream behind the registry.
type Provider interface {
	Invoker
	Name() string
	SupportsStructuredOutput() bool
}

// Float32 returns a pointer to v, for Request.Temperature.
func Float32(v float32) *float32 {
	return &v
}
