// internal/generators/rupdrishti/prompt.go
package rupdrishti

import (
	"fmt"
	"strings"
)

func ParseStyle(value string) Style {
	if Style(strings.ToLower(strings.TrimSpace(value))) == StyleGrid {
		return StyleGrid
	}
	return StyleBlackboard
}

func BuildPrompt(style Style, topic string) string {
	topic = strings.TrimSpace(topic)
	if style == StyleGrid {
		return fmt.Sprintf("Generate a simple, structured diagram for the concept of '%s' using only basic ASCII characters (like |, -, +, *, #, >). The output must be plain text, suitable for a teacher to easily copy onto a gridded blackboard. Do not include any narrative or descriptive text outside of the diagram itself.", topic)
	}
	return fmt.Sprintf("Generate a very simple, bold, black-and-white line drawing of '%s'. The style must be extremely minimalist, suitable for a person to easily replicate by hand on a blackboard using chalk. Use only essential, thick lines and avoid all shading, complex textures, and fine details. Add clear, simple, uppercase labels for each key element. The final output should be a clean, high-contrast image.", topic)
}
