// internal/generators/worksheet-creator/handler_test.go
package worksheetcreator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"sahachari/internal/common/config"
	"sahachari/internal/common/errors"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/observability"
	"sahachari/internal/common/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Doubles
// ==========================

type fakeGenerator struct {
	structured bool
	replies    []string
	failOn     int // 1-based call number that errors, 0 for never
	requests   []*llm.Request
}

func (f *fakeGenerator) Invoke(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	f.requests = append(f.requests, req)
	n := len(f.requests)
	if n == f.failOn {
		return nil, errors.NewUpstreamError(errors.ErrCodeUpstreamTimeout, "gemini", nil)
	}
	text := ""
	if n <= len(f.replies) {
		text = f.replies[n-1]
	}
	return &llm.Response{Provider: "gemini", Segments: []llm.Segment{{Text: text}}}, nil
}

func (f *fakeGenerator) SupportsStructuredOutput(model string) bool {
	return f.structured
}

type fakeTextbooks struct {
	obj  *storage.Object
	err  error
	refs []string
}

func (f *fakeTextbooks) Fetch(ctx context.Context, ref string) (*storage.Object, error) {
	f.refs = append(f.refs, ref)
	return f.obj, f.err
}

func newTestHandler(t *testing.T, gen Generator, textbooks TextbookSource) *Handler {
	log := logger.NewTestLogger(t)
	cfg := &Config{
		Model:           "gemini-2.5-pro",
		DefaultLanguage: "English",
		MaxBodyBytes:    1 << 20,
		MaxUploadBytes:  1 << 20,
	}
	return NewHandler(cfg, gen, textbooks, errors.NewHTTPErrorHandler(log), log)
}

func page() *fakeTextbooks {
	return &fakeTextbooks{obj: &storage.Object{Name: "p1.png", ContentType: "image/png", Data: []byte("png")}}
}

func jsonWorksheet(title string, grade int) string {
	return fmt.Sprintf(`{"title":%q,"grade":%d,"questions":[{"question":"Name a crop","type":"shortanswer","answer":"Rice"}]}`,
		title, grade)
}

// ==========================
// Prompt Tests
// ==========================

func TestActivity(t *testing.T) {
	assert.Equal(t, "Match the Following", Activity(1))
	assert.Equal(t, "Fill in the Blanks", Activity(2))
	assert.Equal(t, "Multiple Choice Questions", Activity(3))
	assert.Equal(t, "Short Answer Questions", Activity(4))
	assert.Equal(t, "Short Answer Questions", Activity(8))
}

func TestBuildPrompts(t *testing.T) {
	p := BuildJSONPrompt(3, "Science", "Plants", "Hindi")
	assert.Contains(t, p, "Grade 3 students")
	assert.Contains(t, p, `"grade": 3`)
	assert.Contains(t, p, `The topic is "Plants" for subject "Science"`)
	assert.Contains(t, p, "Write the worksheet in Hindi")
	assert.Contains(t, p, "Include 5-7 questions")

	md := BuildMarkdownPrompt(1, "Science", "Plants", "Kannada")
	assert.Contains(t, md, "**Kannada**")
	assert.Contains(t, md, "'# Worksheet: Plants'")
	assert.Contains(t, md, "'## Grade 1: Match the Following'")
	assert.Contains(t, md, "'Answer Key'")
}

func TestParseGrades(t *testing.T) {
	grades, err := ParseGrades([]string{"1, 2", "5"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, grades)

	_, err = ParseGrades([]string{"two"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBadRequest))
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Handle_JSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		generator      *fakeGenerator
		textbooks      *fakeTextbooks
		expectedStatus int
		validateOutput func(t *testing.T, body []byte, gen *fakeGenerator)
	}{
		{
			name: "one section per grade, tagged with requested grade",
			body: `{"imageUrl":"https://firebasestorage.googleapis.com/v0/b/x/o/textbooks%2Fp1.png?alt=media","grades":[1,4,6],"subject":"Science","topic":"Plants"}`,
			generator: &fakeGenerator{structured: true, replies: []string{
				jsonWorksheet("Plants for little ones", 9),
				jsonWorksheet("Plants II", 4),
				jsonWorksheet("Plants III", 6),
			}},
			textbooks:      page(),
			expectedStatus: http.StatusOK,
			validateOutput: func(t *testing.T, body []byte, gen *fakeGenerator) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				assert.True(t, out.Success)
				require.Len(t, out.Worksheets, 3)
				for i, grade := range []int{1, 4, 6} {
					assert.Equal(t, grade, out.Worksheets[i].Grade)
					assert.Len(t, out.Worksheets[i].Questions, 1)
				}
				assert.Equal(t, "Plants for little ones", out.Worksheets[0].Title)
				assert.Equal(t, []int{1, 4, 6}, out.Metadata.Grades)
				assert.Equal(t, FormatJSON, out.Metadata.Format)
				assert.Empty(t, out.Worksheet)

				require.Len(t, gen.requests, 3)
				for _, req := range gen.requests {
					assert.NotNil(t, req.ResponseSchema)
					require.NotNil(t, req.Attachment)
					assert.Equal(t, "image/png", req.Attachment.MIMEType)
				}
			},
		},
		{
			name: "lenient provider degrades to raw content",
			body: `{"imageUrl":"p1.png","grades":[2],"topic":"Water"}`,
			generator: &fakeGenerator{replies: []string{
				"Here are some questions: 1. What is rain?",
			}},
			textbooks:      page(),
			expectedStatus: http.StatusOK,
			validateOutput: func(t *testing.T, body []byte, gen *fakeGenerator) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				require.Len(t, out.Worksheets, 1)
				assert.Equal(t, 2, out.Worksheets[0].Grade)
				assert.Equal(t, "Water - Grade 2", out.Worksheets[0].Title)
				assert.Contains(t, out.Worksheets[0].RawContent, "What is rain?")
				assert.Nil(t, gen.requests[0].ResponseSchema)
			},
		},
		{
			name: "lenient provider with embedded json",
			body: `{"imageUrl":"p1.png","grades":[3]}`,
			generator: &fakeGenerator{replies: []string{
				"Sure! " + `{"title":"X","grade":3,"questions":[]}` + " Hope it helps.",
			}},
			textbooks:      page(),
			expectedStatus: http.StatusOK,
			validateOutput: func(t *testing.T, body []byte, gen *fakeGenerator) {
				var out Output
				require.NoError(t, json.Unmarshal(body, &out))
				require.Len(t, out.Worksheets, 1)
				assert.Equal(t, "X", out.Worksheets[0].Title)
				assert.Empty(t, out.Worksheets[0].RawContent)
			},
		},
		{
			name:           "strict provider with prose fails",
			body:           `{"imageUrl":"p1.png","grades":[3]}`,
			generator:      &fakeGenerator{structured: true, replies: []string{"not json"}},
			textbooks:      page(),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "any failing grade fails the request",
			body: `{"imageUrl":"p1.png","grades":[1,2,3]}`,
			generator: &fakeGenerator{structured: true, failOn: 2, replies: []string{
				jsonWorksheet("A", 1), "", jsonWorksheet("C", 3),
			}},
			textbooks:      page(),
			expectedStatus: http.StatusInternalServerError,
			validateOutput: func(t *testing.T, body []byte, gen *fakeGenerator) {
				var out errors.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &out))
				assert.Equal(t, "UPSTREAM_TIMEOUT", out.Code)
				assert.Len(t, gen.requests, 2)
			},
		},
		{
			name:           "missing grades",
			body:           `{"imageUrl":"p1.png","grades":[]}`,
			generator:      &fakeGenerator{},
			textbooks:      page(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "grade out of range",
			body:           `{"imageUrl":"p1.png","grades":[3,13]}`,
			generator:      &fakeGenerator{},
			textbooks:      page(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing image",
			body:           `{"grades":[3]}`,
			generator:      &fakeGenerator{},
			textbooks:      page(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown format",
			body:           `{"imageUrl":"p1.png","grades":[3],"format":"pdf"}`,
			generator:      &fakeGenerator{},
			textbooks:      page(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "textbook page not found",
			body:           `{"imageUrl":"missing.png","grades":[3]}`,
			generator:      &fakeGenerator{},
			textbooks:      &fakeTextbooks{err: errors.NewNotFoundError("Textbook page", "missing.png")},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.generator, tt.textbooks)

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/ai/worksheet", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedStatus == http.StatusBadRequest || tt.expectedStatus == http.StatusNotFound {
				assert.Empty(t, tt.generator.requests)
			}
			if tt.validateOutput != nil {
				tt.validateOutput(t, rec.Body.Bytes(), tt.generator)
			}
		})
	}
}

func TestHandler_Handle_MarkdownUpload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("grades", "1,2"))
	require.NoError(t, mw.WriteField("topic", "Plants"))
	require.NoError(t, mw.WriteField("language", "hi"))
	require.NoError(t, mw.WriteField("format", "markdown"))
	part, err := mw.CreateFormFile("file", "page.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	gen := &fakeGenerator{structured: true, replies: []string{
		"# Worksheet: Plants\n\n## Grade 1: Match the Following\n\n1. Leaf - Green",
		"# Worksheet: Plants\n\n## Grade 2: Fill in the Blanks\n\n1. Plants need ____.",
	}}
	textbooks := page()
	h := newTestHandler(t, gen, textbooks)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/worksheet", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Worksheets, 2)
	assert.Equal(t, 1, out.Worksheets[0].Grade)
	assert.Equal(t, 2, out.Worksheets[1].Grade)
	assert.Contains(t, out.Worksheets[0].HTML, "<h2>Grade 1: Match the Following</h2>")
	assert.Contains(t, out.Worksheet, "## Grade 2: Fill in the Blanks")
	assert.Equal(t, FormatMarkdown, out.Metadata.Format)

	assert.Empty(t, textbooks.refs)
	require.Len(t, gen.requests, 2)
	assert.Nil(t, gen.requests[0].ResponseSchema)
	assert.Equal(t, []byte("jpeg-bytes"), gen.requests[0].Attachment.Data)
	assert.Contains(t, gen.requests[0].Prompt, "**Hindi**")
}

func TestHandler_Handle_NoTextbookStore(t *testing.T) {
	gen := &fakeGenerator{}
	h := newTestHandler(t, gen, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/ai/worksheet",
		strings.NewReader(`{"imageUrl":"p1.png","grades":[1]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.requests)
}

// ==========================
// Provider Routing Tests
// ==========================

func TestHandler_Handle_UploadOnTextProvider(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		validateOutput func(t *testing.T, out *Output)
	}{
		{
			name:  "embedded json is recovered",
			reply: "Here is your worksheet:\n```json\n" + jsonWorksheet("Plants around us", 3) + "\n```\nHappy teaching!",
			validateOutput: func(t *testing.T, out *Output) {
				require.Len(t, out.Worksheets, 1)
				assert.Equal(t, 3, out.Worksheets[0].Grade)
				assert.Equal(t, "Plants around us", out.Worksheets[0].Title)
				require.Len(t, out.Worksheets[0].Questions, 1)
				assert.Empty(t, out.Worksheets[0].RawContent)
			},
		},
		{
			name:  "prose is returned as raw content",
			reply: "1. Name a crop.\n2. What colour is a leaf?",
			validateOutput: func(t *testing.T, out *Output) {
				require.Len(t, out.Worksheets, 1)
				assert.Equal(t, "1. Name a crop.\n2. What colour is a leaf?", out.Worksheets[0].RawContent)
				assert.Empty(t, out.Worksheets[0].Questions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawImage bool
			var sawSchema bool
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				sawImage = strings.Contains(string(body), `"image_url"`) &&
					strings.Contains(string(body), "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("png-bytes")))
				sawSchema = strings.Contains(string(body), "response_format")

				content, err := json.Marshal(tt.reply)
				require.NoError(t, err)
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",
					"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, content)
			}))
			defer upstream.Close()

			log := logger.NewTestLogger(t)
			registry := llm.NewRegistry(llm.ProviderOpenAI, &observability.Observability{}, log)
			registry.Register(llm.NewOpenAI(config.OpenAIConfig{APIKey: "sk-test", BaseURL: upstream.URL}), "gpt-4o")

			cfg := &Config{Model: "gpt-4o", DefaultLanguage: "English", MaxBodyBytes: 1 << 20, MaxUploadBytes: 1 << 20}
			h := NewHandler(cfg, registry, nil, errors.NewHTTPErrorHandler(log), log)

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("grades", "3"))
			require.NoError(t, mw.WriteField("topic", "Plants"))
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", `form-data; name="file"; filename="page.png"`)
			header.Set("Content-Type", "image/png")
			part, err := mw.CreatePart(header)
			require.NoError(t, err)
			_, err = part.Write([]byte("png-bytes"))
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			req := httptest.NewRequest(http.MethodPost, "/api/ai/worksheet", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, sawImage, "image must reach the provider as a data URL")
			assert.False(t, sawSchema, "text provider gets no response schema")

			var out Output
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.True(t, out.Success)
			tt.validateOutput(t, &out)
		})
	}
}
