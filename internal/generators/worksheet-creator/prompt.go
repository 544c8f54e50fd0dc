// internal/generators/worksheet-creator/prompt.go
package worksheetcreator

import (
	"fmt"
	"strings"
)

// Activity names the markdown activity for a grade.
func Activity(grade int) string {
	switch grade {
	case 1:
		return "Match the Following"
	case 2:
		return "Fill in the Blanks"
	case 3:
		return "Multiple Choice Questions"
	default:
		return "Short Answer Questions"
	}
}

// SectionTitle is used when the provider did not supply a usable title.
func SectionTitle(topic string, grade int) string {
	if topic == "" {
		return fmt.Sprintf("Worksheet - Grade %d", grade)
	}
	return fmt.Sprintf("%s - Grade %d", topic, grade)
}

// BuildJSONPrompt asks for one grade's worksheet as a JSON object.
func BuildJSONPrompt(grade int, subject, topic, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this image of a textbook page. The topic is %q for subject %q.\n\n", topic, subject)
	fmt.Fprintf(&b, "Generate a differentiated worksheet for Grade %d students in a multi-grade classroom in rural India. Write the worksheet in %s.\n\n", grade, language)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Create questions appropriate for Grade %d level\n", grade)
	b.WriteString("- Use simple, clear language\n")
	b.WriteString("- Include different types of questions based on grade level:\n")
	b.WriteString("  * For grades 1-3: Matching, coloring, simple fill-in-the-blanks with word bank\n")
	b.WriteString("  * For grades 4-5: Fill-in-the-blanks, short answer questions, simple problem solving\n")
	b.WriteString("  * For grades 6-8: Critical thinking questions, application-based problems\n")
	b.WriteString("- Make it suitable for copying on a blackboard (no complex diagrams)\n")
	b.WriteString("- Include 5-7 questions\n")
	b.WriteString("- Format the output as JSON with this structure:\n")
	fmt.Fprintf(&b, `{
  "title": "Worksheet title",
  "grade": %d,
  "questions": [
    {
      "question": "Question text",
      "type": "mcq|fillblank|shortanswer|matching",
      "options": ["option1", "option2"] (for MCQ),
      "wordBank": ["word1", "word2"] (for fill-in-the-blanks),
      "answer": "correct answer"
    }
  ]
}`, grade)
	return b.String()
}

// BuildMarkdownPrompt asks for one grade's worksheet as a Markdown document.
func BuildMarkdownPrompt(grade int, subject, topic, language string) string {
	heading := topic
	if heading == "" {
		heading = "<topic>"
	}

	var b strings.Builder
	b.WriteString("You are an expert Indian educator. Generate a well-formatted worksheet in Markdown format based on the provided image.\n\n")
	fmt.Fprintf(&b, "The worksheet must be in **%s**.\n\n", language)
	if topic != "" || subject != "" {
		fmt.Fprintf(&b, "The topic is %q for subject %q.\n\n", topic, subject)
	}
	b.WriteString("Create the following activities based on the image content:\n")
	fmt.Fprintf(&b, "- Grade %d: a %s activity\n\n", grade, strings.ToLower(Activity(grade)))
	b.WriteString("**Formatting Rules:**\n")
	b.WriteString("- Use Markdown for all formatting.\n")
	fmt.Fprintf(&b, "- Use a main heading for the worksheet topic ('# Worksheet: %s').\n", heading)
	fmt.Fprintf(&b, "- Use a subheading for the grade's section ('## Grade %d: %s').\n", grade, Activity(grade))
	b.WriteString("- Each question and its corresponding answer option(s) must be on a new line.\n")
	b.WriteString("- Do not include the answers in the questions. Provide a separate 'Answer Key' section at the end.\n")
	return b.String()
}
