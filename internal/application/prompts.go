package application

import (
	"fmt"
	"strings"
)

const userReplyTemplate = `
The following is a customer review for a business. Write a short, polite reply from the business.

Instructions:
- If the review is positive, thank the customer and highlight something they enjoyed.
- If the review is mixed, thank them, mention the positive, and politely address any concerns.
- If the review is negative, apologize and express willingness to improve.
- Always sign off with: "We hope to serve you better in the future!"

Review: %q (User gave %d star(s))

Reply:
`

const adminSummaryTemplate = `Given this customer feedback: %q
1. Write a one-sentence summary of the feedback.
2. Suggest a recommended action for the business to improve or follow up.

Format your response in this JSON:
{
    "summary": "<summary sentence>",
    "recommended_actions": "<single main suggestion>"
}
`

func userReplyPrompt(rating int, review string) string {
	return fmt.Sprintf(userReplyTemplate, review, rating)
}

func adminSummaryPrompt(review string) string {
	return fmt.Sprintf(adminSummaryTemplate, review)
}

func starSummaryPrompt(rating int, reviews []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "These are customer reviews with a rating of %d star(s):\n", rating)
	for _, r := range reviews {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteByte('\n')
	}
	b.WriteString("Summarize the most common themes in these reviews, " +
		"and suggest the main business action to address this group. " +
		"List 2-3 main customer sentiments, and end with one concrete step for the business.")
	return b.String()
}

// extractJSONObject returns the substring from the first '{' to the last '}'.
// Model output often wraps JSON in prose or code fences.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
