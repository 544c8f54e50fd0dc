// internal/common/speech/voices.go
package speech

import (
	"fmt"
	"strings"

	"sahachari/internal/common/config"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

const DefaultLanguageCode = "en-IN"

// Voice is a concrete Cloud Text-to-Speech voice.
type Voice struct {
	LanguageCode string
	Name         string
	Gender       texttospeechpb.SsmlVoiceGender
}

// DefaultVoices are used unless configuration overrides a language.
var DefaultVoices = map[string]Voice{
	"en-IN": {LanguageCode: "en-IN", Name: "en-IN-Wavenet-D", Gender: texttospeechpb.SsmlVoiceGender_FEMALE},
	"hi-IN": {LanguageCode: "hi-IN", Name: "hi-IN-Wavenet-D", Gender: texttospeechpb.SsmlVoiceGender_FEMALE},
	"kn-IN": {LanguageCode: "kn-IN", Name: "kn-IN-Wavenet-A", Gender: texttospeechpb.SsmlVoiceGender_FEMALE},
	"mr-IN": {LanguageCode: "mr-IN", Name: "mr-IN-Wavenet-A", Gender: texttospeechpb.SsmlVoiceGender_FEMALE},
}

// VoiceMap resolves BCP-47 language codes to voices. Lookups ignore case.
type VoiceMap struct {
	voices      map[string]Voice
	defaultCode string
}

// NewVoiceMap merges configured voices over DefaultVoices. The default
// language must resolve to a voice.
func NewVoiceMap(cfg config.SpeechConfig) (*VoiceMap, error) {
	m := &VoiceMap{voices: make(map[string]Voice)}
	for code, v := range DefaultVoices {
		m.voices[strings.ToLower(code)] = v
	}

	for key, vc := range cfg.Voices {
		if vc.Name == "" {
			return nil, fmt.Errorf("speech voice for %q has no name", key)
		}
		code := vc.LanguageCode
		if code == "" {
			code = languageFromVoiceName(vc.Name, key)
		}
		m.voices[strings.ToLower(code)] = Voice{
			LanguageCode: canonicalCode(code),
			Name:         vc.Name,
			Gender:       parseGender(vc.Gender),
		}
	}

	m.defaultCode = strings.ToLower(cfg.DefaultLanguage)
	if m.defaultCode == "" {
		m.defaultCode = strings.ToLower(DefaultLanguageCode)
	}
	if _, ok := m.voices[m.defaultCode]; !ok {
		return nil, fmt.Errorf("no voice configured for default language %q", cfg.DefaultLanguage)
	}
	return m, nil
}

// Resolve returns the voice for code. Unknown or empty codes resolve to the
// default voice, language code included.
func (m *VoiceMap) Resolve(code string) (Voice, bool) {
	if v, ok := m.voices[strings.ToLower(strings.TrimSpace(code))]; ok {
		return v, true
	}
	return m.voices[m.defaultCode], false
}

// languageFromVoiceName takes "en-IN" from "en-IN-Wavenet-D", falling back to key.
func languageFromVoiceName(name, key string) string {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) >= 2 && len(parts[0]) >= 2 && len(parts[1]) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return key
}

// canonicalCode restores "en-in" to "en-IN".
func canonicalCode(code string) string {
	lang, region, found := strings.Cut(code, "-")
	if !found {
		return strings.ToLower(code)
	}
	return strings.ToLower(lang) + "-" + strings.ToUpper(region)
}

func parseGender(g string) texttospeechpb.SsmlVoiceGender {
	if v, ok := texttospeechpb.SsmlVoiceGender_value[strings.ToUpper(g)]; ok {
		return texttospeechpb.SsmlVoiceGender(v)
	}
	return texttospeechpb.SsmlVoiceGender_FEMALE
}
