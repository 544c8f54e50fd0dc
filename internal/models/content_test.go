package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"HI", "Hindi"},
		{"kn", "Kannada"},
		{"mr", "Marathi"},
		{"Tamil", "Tamil"},
		{"  ", "English"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageName(tt.input, "English"))
		})
	}
}

func TestLanguageCode(t *testing.T) {
	code, ok := LanguageCode("Kannada")
	assert.True(t, ok)
	assert.Equal(t, LanguageKannada, code)

	_, ok = LanguageCode("Klingon")
	assert.False(t, ok)
}

func TestContentKind_Savable(t *testing.T) {
	assert.True(t, KindStory.Savable())
	assert.True(t, KindGame.Savable())
	assert.False(t, KindSpeech.Savable())
	assert.False(t, ContentKind("poster").Savable())
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{UserID: "teacher-1", Provider: ProviderFirebase})
	s, ok := SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "teacher-1", s.UserID)
}
