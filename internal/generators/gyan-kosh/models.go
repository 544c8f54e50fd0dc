// internal/generators/gyan-kosh/models.go
package gyankosh

type Style string

const (
	StyleBasic    Style = "basic"
	StyleDetailed Style = "detailed"
	StyleAnalogy  Style = "analogy"
	StyleStory    Style = "story"
)

type Input struct {
	Question        string `json:"question"`
	ExplanationType string `json:"explanationType"`
	AgeGroup        string `json:"ageGroup"`
	Language        string `json:"language"`
	Subject         string `json:"subject"`
}

type Output struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer"`
}

type RecentOutput struct {
	Success   bool     `json:"success"`
	Questions []string `json:"questions"`
}
