// internal/generators/story-maker/models.go
package storymaker

type Input struct {
	Language    string `json:"language"`
	Topic       string `json:"topic"`
	AgeGroup    string `json:"ageGroup"`
	StoryType   string `json:"storyType"`
	StoryLength string `json:"storyLength"`
	Subject     string `json:"subject"`
	State       string `json:"state"`
}

// Metadata echoes the request fields as sent, without defaults.
type Metadata struct {
	Language    string `json:"language"`
	Topic       string `json:"topic"`
	AgeGroup    string `json:"ageGroup"`
	StoryType   string `json:"storyType"`
	StoryLength string `json:"storyLength"`
	Subject     string `json:"subject"`
	State       string `json:"state"`
	GeneratedAt string `json:"generatedAt"`
	IsDemo      bool   `json:"isDemo,omitempty"`
}

type Output struct {
	Success  bool     `json:"success"`
	Story    string   `json:"story"`
	Metadata Metadata `json:"metadata"`
}

type DemoInput struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
	Topic    string `json:"topic"`
	AgeGroup string `json:"ageGroup"`
}
