// internal/generators/text-to-speech/handler_test.go
package texttospeech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sahachari/internal/common/config"
	"sahachari/internal/common/errors"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/speech"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeTTS struct {
	audio []byte
	err   error
	reqs  []*texttospeechpb.SynthesizeSpeechRequest
}

func (f *fakeTTS) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: f.audio}, nil
}

func newTestHandler(t *testing.T, api *fakeTTS) *Handler {
	t.Helper()
	voices, err := speech.NewVoiceMap(config.SpeechConfig{DefaultLanguage: "en-IN"})
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	return NewHandler(speech.NewSynthesizer(api, voices, 1.0), 1<<20, errors.NewHTTPErrorHandler(log), log)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		api            *fakeTTS
		expectedStatus int
		expectedVoice  string
		expectedLang   string
	}{
		{
			name:           "hindi voice",
			body:           `{"text":"नमस्ते","languageCode":"hi-IN"}`,
			api:            &fakeTTS{audio: []byte("ID3mp3")},
			expectedStatus: http.StatusOK,
			expectedVoice:  "hi-IN-Wavenet-D",
			expectedLang:   "hi-IN",
		},
		{
			name:           "unknown language falls back to default voice",
			body:           `{"text":"vanakkam","languageCode":"ta-IN"}`,
			api:            &fakeTTS{audio: []byte("ID3mp3")},
			expectedStatus: http.StatusOK,
			expectedVoice:  "en-IN-Wavenet-D",
			expectedLang:   "en-IN",
		},
		{
			name:           "missing language uses default",
			body:           `{"text":"hello"}`,
			api:            &fakeTTS{audio: []byte("ID3mp3")},
			expectedStatus: http.StatusOK,
			expectedVoice:  "en-IN-Wavenet-D",
			expectedLang:   "en-IN",
		},
		{
			name:           "text required",
			body:           `{"languageCode":"en-IN"}`,
			api:            &fakeTTS{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty audio",
			body:           `{"text":"hello"}`,
			api:            &fakeTTS{},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "service disabled",
			body:           `{"text":"hello"}`,
			api:            &fakeTTS{err: status.Error(codes.PermissionDenied, "SERVICE_DISABLED: Cloud Text-to-Speech API has not been used")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.api)

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/ai/text-to-speech", strings.NewReader(tt.body)))

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				if tt.expectedStatus == http.StatusBadRequest {
					assert.Empty(t, tt.api.reqs)
				}
				return
			}

			assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
			assert.Equal(t, []byte("ID3mp3"), rec.Body.Bytes())

			require.Len(t, tt.api.reqs, 1)
			voice := tt.api.reqs[0].GetVoice()
			assert.Equal(t, tt.expectedVoice, voice.GetName())
			assert.Equal(t, tt.expectedLang, voice.GetLanguageCode())
			assert.Equal(t, texttospeechpb.AudioEncoding_MP3, tt.api.reqs[0].GetAudioConfig().GetAudioEncoding())
		})
	}
}

func TestHandler_Handle_LongStory(t *testing.T) {
	sentence := "एक प्यासा कौआ पानी की तलाश में उड़ रहा था। "
	story := strings.Repeat(sentence, 10240/len(sentence)+1)

	body, err := json.Marshal(map[string]string{"text": story, "languageCode": "hi-IN"})
	require.NoError(t, err)

	api := &fakeTTS{audio: []byte("mp3|")}
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/ai/text-to-speech", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, api.reqs, 3)
	for _, req := range api.reqs {
		assert.LessOrEqual(t, len(req.GetInput().GetText()), speech.MaxRequestBytes)
	}
	assert.Equal(t, []byte("mp3|mp3|mp3|"), rec.Body.Bytes())
}
