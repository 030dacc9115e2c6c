package insights

import (
	"fmt"
	"strings"
)

// ParseRecommendations scans the model's free-text reply for recommendation
// records. A record is a run of "Type:", "Title:", "Description:", "Impact:"
// and "Priority:" lines; a new "Type:" line closes the record in progress.
// Text that yields no records returns an empty slice, not an error.
func ParseRecommendations(text string) []Recommendation {
	var (
		recommendations []Recommendation
		current         Recommendation
		empty           Recommendation
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case strings.Contains(line, "Type:"):
			if current != empty {
				recommendations = append(recommendations, current)
			}
			current = Recommendation{Type: afterTag(line, "Type:")}
		case strings.Contains(line, "Title:"):
			current.Title = afterTag(line, "Title:")
		case strings.Contains(line, "Description:"):
			current.Description = afterTag(line, "Description:")
		case strings.Contains(line, "Impact:"):
			current.Impact = afterTag(line, "Impact:")
		case strings.Contains(line, "Priority:"):
			current.Priority = afterTag(line, "Priority:")
		}
	}
	if current != empty {
		recommendations = append(recommendations, current)
	}

	return recommendations
}

func afterTag(line, tag string) string {
	_, after, _ := strings.Cut(line, tag)
	return strings.TrimSpace(after)
}

// FallbackRecommendations is the fixed list substituted when the remote call
// fails or its reply contains no parseable records.
func FallbackRecommendations() []Recommendation {
	return []Recommendation{
		{
			Type:        "savings",
			Title:       "Review Subscription Services",
			Description: "Audit all recurring subscriptions and cancel unused services.",
			Impact:      "Potential monthly savings: $200-500",
			Priority:    "high",
		},
		{
			Type:        "efficiency",
			Title:       "Implement Spending Limits",
			Description: "Set category-specific spending limits to better control expenses.",
			Impact:      "Improved budget adherence",
			Priority:    "medium",
		},
		{
			Type:        "policy",
			Title:       "Standardize Approval Process",
			Description: "Create clear approval workflows for different expense categories.",
			Impact:      "Faster processing and better compliance",
			Priority:    "medium",
		},
	}
}

// fallbackChatReply is the canned assistant answer used when the model is
// unreachable. It still quotes whatever batch numbers are on hand.
func fallbackChatReply(message string, chatCtx ChatContext) string {
	topCategory := "your top category"
	if len(chatCtx.Categories) > 0 {
		topCategory = chatCtx.Categories[0].Name
	}

	usage := 0.0
	if chatCtx.Budget > 0 {
		usage = chatCtx.CurrentSpend / chatCtx.Budget * 100
	}

	return fmt.Sprintf(
		"I understand you're asking about %q. Based on your current spending data "+
			"(Total: $%.2f, Budget: $%.2f), you are using %.1f%% of your monthly budget, "+
			"and your top spending category is %s. Consider reviewing those expenses to optimize your budget.",
		message, chatCtx.CurrentSpend, chatCtx.Budget, usage, topCategory)
}
