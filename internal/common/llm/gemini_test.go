// internal/common/llm/gemini_test.go
package llm

import (
	"context"
	"testing"

	"sahachari/internal/common/errors"
	"sahachari/internal/common/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// ==========================
// Test Doubles
// ==========================

type fakeModels struct {
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	images   *genai.GenerateImagesResponse
	err      error
	calls    int
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func (f *fakeModels) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.calls++
	return f.images, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts, Role: "model"},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

// ==========================
// Invoke Tests
// ==========================

func TestGemini_Invoke(t *testing.T) {
	tests := []struct {
		name           string
		req            *Request
		resp           *genai.GenerateContentResponse
		validateCall   func(t *testing.T, f *fakeModels)
		validateOutput func(t *testing.T, out *Response)
	}{
		{
			name: "text prompt",
			req:  &Request{Model: "gemini-2.5-pro", Prompt: "Tell a story", Temperature: Float32(0.9), MaxOutputTokens: 2048},
			resp: textResponse(&genai.Part{Text: "Once upon a time"}),
			validateCall: func(t *testing.T, f *fakeModels) {
				require.Len(t, f.contents, 1)
				assert.Len(t, f.contents[0].Parts, 1)
				assert.Equal(t, float32(0.9), *f.config.Temperature)
				assert.Equal(t, int32(2048), f.config.MaxOutputTokens)
				assert.Empty(t, f.config.SafetySettings)
				assert.Empty(t, f.config.ResponseMIMEType)
			},
			validateOutput: func(t *testing.T, out *Response) {
				require.Len(t, out.Segments, 1)
				assert.Equal(t, "Once upon a time", out.Segments[0].Text)
				assert.Equal(t, "STOP", out.FinishReason)
				assert.Equal(t, ProviderGemini, out.Provider)
			},
		},
		{
			name: "attachment, schema and safety",
			req: &Request{
				Model:          "gemini-2.5-pro",
				Prompt:         "Make a worksheet",
				Attachment:     &Attachment{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"},
				ResponseSchema: validation.WorksheetContract,
				SafetyFilter:   true,
			},
			resp: textResponse(&genai.Part{Text: `{"title":"X","questions":[]}`}),
			validateCall: func(t *testing.T, f *fakeModels) {
				parts := f.contents[0].Parts
				require.Len(t, parts, 2)
				require.NotNil(t, parts[1].InlineData)
				assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
				assert.Equal(t, "application/json", f.config.ResponseMIMEType)
				require.NotNil(t, f.config.ResponseSchema)
				assert.Equal(t, genai.TypeObject, f.config.ResponseSchema.Type)
				assert.Len(t, f.config.SafetySettings, 4)
			},
		},
		{
			name: "thoughts skipped, inline data kept",
			req:  &Request{Model: "gemini-2.5-flash", Prompt: "p"},
			resp: textResponse(
				&genai.Part{Text: "thinking...", Thought: true},
				&genai.Part{InlineData: &genai.Blob{Data: []byte("img"), MIMEType: "image/png"}},
			),
			validateOutput: func(t *testing.T, out *Response) {
				require.Len(t, out.Segments, 1)
				assert.Equal(t, []byte("img"), out.Segments[0].Data)
			},
		},
		{
			name: "blocked prompt",
			req:  &Request{Model: "gemini-2.5-pro", Prompt: "p"},
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			validateOutput: func(t *testing.T, out *Response) {
				assert.Empty(t, out.Segments)
				assert.Equal(t, "SAFETY", out.BlockReason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{resp: tt.resp}
			out, err := NewGemini(fake).Invoke(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, 1, fake.calls)

			if tt.validateCall != nil {
				tt.validateCall(t, fake)
			}
			if tt.validateOutput != nil {
				tt.validateOutput(t, out)
			}
		})
	}
}

func TestGemini_InvokeClassifiesAPIError(t *testing.T) {
	tests := []struct {
		name     string
		apiErr   genai.APIError
		expected errors.ErrorCode
	}{
		{"permission", genai.APIError{Code: 403, Status: "PERMISSION_DENIED", Message: "caller lacks permission"}, errors.ErrCodeUpstreamPermissionDenied},
		{"disabled", genai.APIError{Code: 403, Status: "PERMISSION_DENIED", Message: "Generative Language API has not been used in project 123"}, errors.ErrCodeUpstreamServiceDisabled},
		{"quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, errors.ErrCodeUpstreamQuotaExceeded},
		{"bad key", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "API key not valid."}, errors.ErrCodeUpstreamInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{err: tt.apiErr}
			_, err := NewGemini(fake).Invoke(context.Background(), &Request{Model: "m", Prompt: "p"})
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.expected), err.Error())
		})
	}
}

func TestGemini_GenerateImage(t *testing.T) {
	fake := &fakeModels{images: &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: []byte("png-bytes")}},
		},
	}}

	out, err := NewGemini(fake).GenerateImage(context.Background(), &ImageRequest{Model: "imagen-3.0-generate-002", Prompt: "water cycle"})
	require.NoError(t, err)
	require.Len(t, out.Segments, 1)
	assert.Equal(t, "image/png", out.Segments[0].MIMEType)
	assert.Equal(t, []byte("png-bytes"), out.Segments[0].Data)
}

func TestSchemaFromJSONSchema(t *testing.T) {
	s := SchemaFromJSONSchema(validation.WorksheetContract.Schema)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"title", "questions"}, s.Required)
	assert.Equal(t, genai.TypeInteger, s.Properties["grade"].Type)

	questions := s.Properties["questions"]
	require.NotNil(t, questions.Items)
	assert.Equal(t, genai.TypeArray, questions.Type)
	assert.ElementsMatch(t, []string{"mcq", "fillblank", "shortanswer", "matching"}, questions.Items.Properties["type"].Enum)
}
