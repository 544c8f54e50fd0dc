// internal/common/speech/synthesizer.go
package speech

import (
	"context"
	"fmt"
	"strings"

	"sahachari/internal/common/config"
	"sahachari/internal/common/errors"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/normalize"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	service   = "text-to-speech"
	AudioMIME = "audio/mpeg"
)

// ttsAPI is the call we make on *texttospeech.Client.
type ttsAPI interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// Synthesizer turns text into MP3 narration with Cloud Text-to-Speech.
type Synthesizer struct {
	api    ttsAPI
	voices *VoiceMap
	rate   float64
	closer func() error
}

// NewClient dials Cloud Text-to-Speech with application default credentials.
func NewClient(ctx context.Context, cfg config.SpeechConfig) (*Synthesizer, error) {
	voices, err := NewVoiceMap(cfg)
	if err != nil {
		return nil, err
	}
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	s := NewSynthesizer(client, voices, cfg.SpeakingRate)
	s.closer = client.Close
	return s, nil
}

func NewSynthesizer(api ttsAPI, voices *VoiceMap, speakingRate float64) *Synthesizer {
	if speakingRate <= 0 {
		speakingRate = 1.0
	}
	return &Synthesizer{api: api, voices: voices, rate: speakingRate}
}

// Synthesize narrates text and returns the audio as a binary payload. Text
// over MaxRequestBytes is sent in several requests and the MP3 streams are
// joined in order.
func (s *Synthesizer) Synthesize(ctx context.Context, text, languageCode string) (*normalize.Payload, error) {
	voice, _ := s.voices.Resolve(languageCode)

	var audio []byte
	for _, chunk := range SplitText(text, MaxRequestBytes) {
		resp, err := s.api.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: voice.LanguageCode,
				Name:         voice.Name,
				SsmlGender:   voice.Gender,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  s.rate,
			},
		})
		if err != nil {
			stdErr := classify(err)
			metrics.UpstreamRequests.WithLabelValues(service, string(stdErr.Code)).Inc()
			return nil, stdErr
		}
		metrics.UpstreamRequests.WithLabelValues(service, "success").Inc()
		audio = append(audio, resp.GetAudioContent()...)
	}

	return normalize.Binary(audio, AudioMIME)
}

// Voices exposes the resolved voice map.
func (s *Synthesizer) Voices() *VoiceMap { return s.voices }

func (s *Synthesizer) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// classify maps gRPC status codes to upstream error kinds.
func classify(err error) *errors.StandardError {
	st, ok := status.FromError(err)
	if !ok {
		return errors.NewUpstreamError(errors.ErrCodeUpstreamFailed, service, err)
	}

	msg := strings.ToUpper(st.Message())
	var code errors.ErrorCode
	switch {
	case strings.Contains(msg, "SERVICE_DISABLED") || strings.Contains(msg, "HAS NOT BEEN USED IN PROJECT"):
		code = errors.ErrCodeUpstreamServiceDisabled
	case st.Code() == codes.PermissionDenied:
		code = errors.ErrCodeUpstreamPermissionDenied
	case st.Code() == codes.ResourceExhausted:
		code = errors.ErrCodeUpstreamQuotaExceeded
	case st.Code() == codes.Unauthenticated:
		code = errors.ErrCodeUpstreamInvalidCredentials
	case st.Code() == codes.DeadlineExceeded:
		code = errors.ErrCodeUpstreamTimeout
	default:
		code = errors.ErrCodeUpstreamFailed
	}
	return errors.NewUpstreamError(code, service, err).
		WithMetadata("grpcCode", st.Code().String())
}
