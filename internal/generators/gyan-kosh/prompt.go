// internal/generators/gyan-kosh/prompt.go
package gyankosh

import (
	"fmt"
	"strings"

	"sahachari/internal/models"
)

const defaultAgeGroup = "6-10"

// ParseStyle maps an explanation type to a style. Anything unknown is basic.
func ParseStyle(value string) Style {
	switch s := Style(strings.ToLower(strings.TrimSpace(value))); s {
	case StyleDetailed, StyleAnalogy, StyleStory:
		return s
	default:
		return StyleBasic
	}
}

// BuildPrompt renders the explanation instruction for the chosen style.
func BuildPrompt(input *Input, defaultLanguage string) string {
	question := strings.TrimSpace(input.Question)
	language := models.LanguageName(input.Language, defaultLanguage)
	ageGroup := strings.TrimSpace(input.AgeGroup)
	if ageGroup == "" {
		ageGroup = defaultAgeGroup
	}

	switch ParseStyle(input.ExplanationType) {
	case StyleAnalogy:
		return fmt.Sprintf("Explain '%s' to a %s-year-old village child in %s using a perfect analogy from rural Indian life (like sifting grain, drawing water from a well, cooking on a chulha, etc.). Make it so simple that any villager would understand immediately.",
			question, ageGroup, language)
	case StyleStory:
		return fmt.Sprintf("Create a very short story in %s that explains '%s' to children aged %s. Use characters like farmers, animals, or village children. Keep it under 100 words with a clear explanation embedded naturally.",
			language, question, ageGroup)
	case StyleDetailed:
		return fmt.Sprintf("You are an expert Indian teacher explaining to rural students aged %s in %s. Provide a detailed explanation for '%s'. Use simple words and concepts familiar to village children. Use analogies from farming, household items, animals, or nature where possible.",
			ageGroup, language, question)
	default:
		return fmt.Sprintf("You are an expert Indian teacher explaining to rural students aged %s in %s. Explain '%s' using simple words and concepts familiar to village children. Use analogies from farming, household items, animals, or nature. Give 2-3 sentences maximum. Avoid technical terms.",
			ageGroup, language, question)
	}
}
