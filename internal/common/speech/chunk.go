// internal/common/speech/chunk.go
package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxRequestBytes is the Cloud Text-to-Speech limit on input text per request.
const MaxRequestBytes = 5000

// SplitText cuts text into pieces of at most max bytes. It prefers to cut
// after a sentence end (including the Devanagari danda), then at whitespace,
// and only splits inside a word when nothing else fits.
func SplitText(text string, max int) []string {
	text = strings.TrimSpace(text)
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var chunks []string
	for len(text) > max {
		cut := cutPoint(text, max)
		if chunk := strings.TrimSpace(text[:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimLeftFunc(text[cut:], unicode.IsSpace)
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// cutPoint returns a byte offset in (0, max] that falls on a rune boundary.
func cutPoint(text string, max int) int {
	sentence, space := 0, 0
	for i, r := range text[:max] {
		if r == utf8.RuneError {
			continue
		}
		end := i + utf8.RuneLen(r)
		switch {
		case isSentenceEnd(r):
			sentence = end
		case unicode.IsSpace(r):
			space = end
		}
	}
	if sentence > 0 {
		return sentence
	}
	if space > 0 {
		return space
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		return max
	}
	return cut
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', '।', '॥':
		return true
	}
	return false
}
