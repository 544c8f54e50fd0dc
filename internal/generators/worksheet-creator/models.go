// internal/generators/worksheet-creator/models.go
package worksheetcreator

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Input is decoded from a JSON body or from multipart form fields.
type Input struct {
	ImageURL string `json:"imageUrl"`
	Grades   []int  `json:"grades"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Format   string `json:"format"`
}

type Question struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	WordBank []string `json:"wordBank,omitempty"`
	Answer   string   `json:"answer,omitempty"`
}

// Section is the worksheet for one grade. Structured sections carry
// Questions, degraded ones RawContent, markdown ones Markdown and HTML.
type Section struct {
	Grade      int        `json:"grade"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions,omitempty"`
	RawContent string     `json:"rawContent,omitempty"`
	Markdown   string     `json:"markdown,omitempty"`
	HTML       string     `json:"html,omitempty"`
}

type Metadata struct {
	Grades      []int  `json:"grades"`
	Subject     string `json:"subject,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Language    string `json:"language,omitempty"`
	Format      Format `json:"format"`
	GeneratedAt string `json:"generatedAt"`
}

type Output struct {
	Success    bool      `json:"success"`
	Worksheets []Section `json:"worksheets"`
	Worksheet  string    `json:"worksheet,omitempty"`
	Metadata   Metadata  `json:"metadata"`
}
