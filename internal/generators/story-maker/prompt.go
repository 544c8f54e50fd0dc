// internal/generators/story-maker/prompt.go
package storymaker

import (
	"fmt"
	"strings"

	"sahachari/internal/models"
)

const (
	defaultAgeGroup  = "6-10"
	defaultState     = "Karnataka"
	defaultSubject   = "General"
	defaultStoryType = "story"
	defaultDuration  = "5-7"
)

var narrationMinutes = map[string]string{
	"short":  "2-3",
	"medium": "5-7",
	"long":   "10-12",
}

// Duration maps a length category to narration minutes.
func Duration(storyLength string) string {
	if d, ok := narrationMinutes[strings.ToLower(strings.TrimSpace(storyLength))]; ok {
		return d
	}
	return defaultDuration
}

// BuildPrompt renders the storyteller instruction for input.
func BuildPrompt(input *Input, defaultLanguage string) string {
	language := models.LanguageName(input.Language, defaultLanguage)
	ageGroup := orDefault(input.AgeGroup, defaultAgeGroup)
	state := orDefault(input.State, defaultState)
	subject := orDefault(input.Subject, defaultSubject)
	storyType := orDefault(strings.ToLower(input.StoryType), defaultStoryType)
	topic := strings.TrimSpace(input.Topic)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Indian storyteller and educator. Your task is to generate a culturally relevant %s in the %s language for rural children in the state of %s, India, who are in the %s age group.\n\n",
		storyType, language, state, ageGroup)
	fmt.Fprintf(&b, "The content must explain the educational concept of %q which falls under the subject of %s. The explanation should be woven into the narrative using local farmer characters and simple, everyday situations.\n\n",
		topic, subject)
	b.WriteString("Key Requirements:\n")
	fmt.Fprintf(&b, "- Language and Vocabulary: Use simple vocabulary and sentence structures appropriate for the specified age group. Where appropriate, you may include common local dialect words from %s, but ensure they are understandable in the broader context.\n", state)
	fmt.Fprintf(&b, "- Cultural and Regional Context: The story must be deeply rooted in the culture of %s. Mention local customs, festivals, or seasonal elements if relevant to the topic. Use common names for characters that would be familiar in the region.\n", state)
	fmt.Fprintf(&b, "- Narrative Structure: The %s should have a clear beginning, a middle where the educational concept is explained through the plot, and an end with a positive moral or practical learning outcome.\n", storyType)
	b.WriteString("- Tone and Style: The tone should be engaging, conversational, and easy for a teacher to narrate.\n")
	fmt.Fprintf(&b, "- Length: The content should be long enough to be narrated in approximately %s minutes.\n\n", Duration(input.StoryLength))
	fmt.Fprintf(&b, "Generate the %s now.", storyType)

	return b.String()
}

func orDefault(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}
