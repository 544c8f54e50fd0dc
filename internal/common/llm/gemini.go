// internal/common/llm/gemini.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"sahachari/internal/common/config"

	"google.golang.org/genai"
)

const ProviderGemini = "gemini"

// modelsAPI is the subset of genai.Models used here; *genai.Models satisfies it.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Gemini calls Gemini and Imagen models through the Gemini API or Vertex AI.
type Gemini struct {
	models modelsAPI
	safety []*genai.SafetySetting
}

// NewGeminiClient creates a genai client for the configured backend.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
	if cfg.Backend == "vertex" {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewGemini(client.Models), nil
}

func NewGemini(models modelsAPI) *Gemini {
	return &Gemini{models: models, safety: defaultSafetySettings()}
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) SupportsStructuredOutput() bool { return true }

// Invoke sends the prompt, and any attachment as an inline part, in one call.
func (g *Gemini) Invoke(ctx context.Context, req *Request) (*Response, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Attachment != nil && len(req.Attachment.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, req.Model, contents, g.contentConfig(req))
	if err != nil {
		return nil, ClassifyError(ProviderGemini, err)
	}

	return fromGenerateContent(req.Model, resp), nil
}

// GenerateImage asks an Imagen model for a single image.
func (g *Gemini) GenerateImage(ctx context.Context, req *ImageRequest) (*Response, error) {
	cfg := &genai.GenerateImagesConfig{NumberOfImages: 1, AspectRatio: req.AspectRatio}

	resp, err := g.models.GenerateImages(ctx, req.Model, req.Prompt, cfg)
	if err != nil {
		return nil, ClassifyError(ProviderGemini, err)
	}

	out := &Response{Model: req.Model, Provider: ProviderGemini}
	if resp == nil {
		return out, nil
	}
	for _, gen := range resp.GeneratedImages {
		if gen == nil {
			continue
		}
		if gen.RAIFilteredReason != "" {
			out.BlockReason = gen.RAIFilteredReason
		}
		if gen.Image == nil {
			continue
		}
		switch {
		case gen.Image.GCSURI != "":
			out.Segments = append(out.Segments, Segment{URI: gen.Image.GCSURI, MIMEType: gen.Image.MIMEType})
		case len(gen.Image.ImageBytes) > 0:
			mime := gen.Image.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			out.Segments = append(out.Segments, Segment{Data: gen.Image.ImageBytes, MIMEType: mime})
		}
	}
	return out, nil
}

func (g *Gemini) contentConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.SafetyFilter {
		cfg.SafetySettings = g.safety
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = SchemaFromJSONSchema(req.ResponseSchema.Schema)
	}
	return cfg
}

func fromGenerateContent(model string, resp *genai.GenerateContentResponse) *Response {
	out := &Response{Model: model, Provider: ProviderGemini}
	if resp == nil {
		return out
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		out.BlockReason = string(resp.PromptFeedback.BlockReason)
	}

	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if out.FinishReason == "" {
			out.FinishReason = string(cand.FinishReason)
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			switch {
			case part.Text != "":
				out.Segments = append(out.Segments, Segment{Text: part.Text})
			case part.InlineData != nil && len(part.InlineData.Data) > 0:
				out.Segments = append(out.Segments, Segment{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType})
			case part.FileData != nil && part.FileData.FileURI != "":
				out.Segments = append(out.Segments, Segment{URI: part.FileData.FileURI, MIMEType: part.FileData.MIMEType})
			}
		}
	}
	return out
}

func defaultSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

// SchemaFromJSONSchema converts the JSON-schema subset used by output
// contracts into a genai response schema.
func SchemaFromJSONSchema(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		out.Type = schemaType(t)
	}
	if d, ok := schema["description"].(string); ok {
		out.Description = d
	}
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]interface{}); ok {
				out.Properties[name] = SchemaFromJSONSchema(child)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		out.Items = SchemaFromJSONSchema(items)
	}
	out.Required = stringList(schema["required"])
	out.Enum = stringList(schema["enum"])
	return out
}

func schemaType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
