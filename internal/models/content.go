package models

import "strings"

// ContentKind identifies what a generation request produces.
type ContentKind string

const (
	KindStory         ContentKind = "story"
	KindWorksheet     ContentKind = "worksheet"
	KindAnswer        ContentKind = "answer"
	KindVisualAid     ContentKind = "visualAid"
	KindTranscription ContentKind = "transcription"
	KindSpeech        ContentKind = "speech"
	KindGame          ContentKind = "game"
)

// SavableKinds are the kinds a teacher may keep in the saved library.
var SavableKinds = []ContentKind{KindStory, KindWorksheet, KindAnswer, KindVisualAid, KindGame}

func (k ContentKind) Savable() bool {
	for _, s := range SavableKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Language is a UI language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageKannada Language = "kn"
	LanguageMarathi Language = "mr"
)

var languageNames = map[Language]string{
	LanguageEnglish: "English",
	LanguageHindi:   "Hindi",
	LanguageKannada: "Kannada",
	LanguageMarathi: "Marathi",
}

// LanguageName expands a short UI code to the language name used in prompts.
// Anything else, including names already spelled out, is returned trimmed.
// Blank input yields fallback.
func LanguageName(value, fallback string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback
	}
	if name, ok := languageNames[Language(strings.ToLower(v))]; ok {
		return name
	}
	return v
}

// LanguageCode maps a language name or code back to its UI code.
func LanguageCode(value string) (Language, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for code, name := range languageNames {
		if v == string(code) || v == strings.ToLower(name) {
			return code, true
		}
	}
	return "", false
}
