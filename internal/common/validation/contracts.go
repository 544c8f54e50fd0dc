// internal/common/validation/contracts.go
package validation

// QuestionTypes are the worksheet question kinds a provider may return.
var QuestionTypes = []interface{}{"mcq", "fillblank", "shortanswer", "matching"}

// WorksheetContract is the JSON shape of a single graded worksheet section.
var WorksheetContract = MustContract("worksheet", map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{"type": "string"},
		"grade": map[string]interface{}{"type": "integer"},
		"questions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"question": map[string]interface{}{"type": "string"},
					"type": map[string]interface{}{
						"type": "string",
						"enum": QuestionTypes,
					},
					"options": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"wordBank": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"answer": map[string]interface{}{"type": "string"},
				},
				"required": []interface{}{"question", "type"},
			},
		},
	},
	"required": []interface{}{"title", "questions"},
})
