package questiongen

import (
	"fmt"
	"strings"
)

// typeGuidance tells the model how each question type must be shaped.
var typeGuidance = map[TypeID]string{
	TypeMultipleChoice: `"multiple_choice": exactly 4 "options" (strings); "correctAnswer" is the 0-based index of the right option.`,
	TypeTrueFalse:      `"true_false": "options" is ["True", "False"]; "correctAnswer" is 0 for True or 1 for False.`,
	TypeMatching:       `"matching": "options" is a list of {"text": left item, "match": right item} pairs, right items shuffled; "correctAnswer" lists, for each left item in order, the index of its right item.`,
}

const envelopeExample = `{
  "questions": [
    {
      "type": "multiple_choice",
      "text": "Which planet is closest to the Sun?",
      "options": ["Venus", "Mercury", "Earth", "Mars"],
      "correctAnswer": 1,
      "explanation": "Mercury orbits closest to the Sun."
    }
  ]
}`

// BuildPrompt renders the model prompt for req and its planned target.
func BuildPrompt(req GenerationRequest, target Distribution) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create %d quiz questions.\n\n", target.Total())
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(req.Topic))
	fmt.Fprintf(&b, "Category: %s\n", strings.TrimSpace(req.Category))
	fmt.Fprintf(&b, "Complexity: %s\n", req.Complexity)
	if instr := strings.TrimSpace(req.Instructions); instr != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", instr)
	}

	b.WriteString("\nQuestion types (exact counts, no other types):\n")
	for _, tc := range target {
		fmt.Fprintf(&b, "- %s: %d\n", tc.Type, tc.Count)
	}

	b.WriteString("\nFormat rules:\n")
	for _, tc := range target {
		if g, ok := typeGuidance[tc.Type]; ok {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	b.WriteString("- Every question has a short \"explanation\" of the correct answer.\n")
	fmt.Fprintf(&b, "- Pitch the wording and depth at a %s level.\n", req.Complexity)

	b.WriteString("\nRespond with only a JSON object of this shape, with no commentary and no trailing commas:\n")
	b.WriteString(envelopeExample)
	b.WriteString("\n")

	return b.String()
}
