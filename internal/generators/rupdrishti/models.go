// internal/generators/rupdrishti/models.go
package rupdrishti

type Style string

const (
	StyleBlackboard Style = "blackboard"
	StyleGrid       Style = "grid"
)

type Input struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

// Output carries ASCII art when IsText, otherwise an image URI or data: URL.
type Output struct {
	Success bool   `json:"success"`
	IsText  bool   `json:"isText"`
	Content string `json:"content"`
}
