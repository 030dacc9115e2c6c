package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dicefinance/expense-dashboard/internal/pipeline"
)

// sampleTransactionLimit bounds how many transactions are quoted verbatim in
// the analysis prompt.
const sampleTransactionLimit = 10

// buildAnalysisPrompt renders the batch into the structured-text prompt the
// recommendation parser expects answers to.
func buildAnalysisPrompt(analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) string {
	var b strings.Builder

	b.WriteString("Analyze the following CSV financial data and provide 4-5 actionable insights and recommendations:\n\n")

	b.WriteString("Analytics Summary:\n")
	fmt.Fprintf(&b, "- Total Spend: $%.2f\n", analytics.TotalSpend)
	fmt.Fprintf(&b, "- Transaction Count: %d\n", analytics.TransactionCount)
	fmt.Fprintf(&b, "- Average Transaction: $%.2f\n", analytics.AvgTransactionAmount)
	fmt.Fprintf(&b, "- Date Range: %s to %s\n\n", orNA(analytics.DateRange.Start), orNA(analytics.DateRange.End))

	b.WriteString("Category Breakdown:\n")
	if len(analytics.Categories) == 0 {
		b.WriteString("No categories found\n")
	}
	for _, cat := range analytics.Categories {
		fmt.Fprintf(&b, "- %s: $%.2f (%.1f%%)\n", cat.Name, cat.Amount, cat.Percentage)
	}
	b.WriteString("\nDepartment Breakdown:\n")
	if len(analytics.Departments) == 0 {
		b.WriteString("No departments found\n")
	}
	for _, dept := range analytics.Departments {
		fmt.Fprintf(&b, "- %s: $%.2f (%.1f%%)\n", dept.Name, dept.Amount, dept.Percentage)
	}

	b.WriteString("\nSample Transactions:\n")
	if len(transactions) == 0 {
		b.WriteString("No transactions found\n")
	}
	for i, t := range transactions {
		if i >= sampleTransactionLimit {
			break
		}
		fmt.Fprintf(&b, "%s | %s | %s | $%.2f | %s (%s)\n",
			t.Date, t.Category, t.Description, math.Abs(t.Amount), t.Employee, t.Department)
	}

	b.WriteString("\nProvide insights in this format:\n")
	b.WriteString("- Type: savings/policy/efficiency/alert/insight\n")
	b.WriteString("- Title: Brief insight title\n")
	b.WriteString("- Description: Detailed explanation with specific data points\n")
	b.WriteString("- Impact: Expected benefit or impact with potential savings\n")
	b.WriteString("- Priority: high/medium/low\n\n")

	b.WriteString("Focus on:\n")
	b.WriteString("1. Cost optimization opportunities\n")
	b.WriteString("2. Spending pattern anomalies\n")
	b.WriteString("3. Department/category efficiency\n")
	b.WriteString("4. Policy compliance issues\n")
	b.WriteString("5. Budget management recommendations\n\n")
	b.WriteString("Use specific numbers from the data in your recommendations. Don't use *** in responses.\n")

	return b.String()
}

// buildChatPrompt wraps a user question with the current batch context.
func buildChatPrompt(message string, chatCtx ChatContext) string {
	contextJSON, err := json.MarshalIndent(chatCtx, "", "  ")
	if err != nil {
		contextJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are an AI financial assistant for DICE Finance. Help the user with their spending questions.\n\n")
	fmt.Fprintf(&b, "Context: %s\n", contextJSON)
	fmt.Fprintf(&b, "User Question: %s\n\n", message)

	if chatCtx.HasCSVData {
		fmt.Fprintf(&b, "IMPORTANT: The user has uploaded CSV data with %d transactions.\n", chatCtx.CSVTransactionCount)
		b.WriteString("You can reference specific transactions from the CSV upload when relevant.\n\n")
	}

	b.WriteString("Provide a helpful, concise response about spending, budgeting, or expense management.\n")
	b.WriteString("Use specific numbers and data from the context when possible.\n")
	b.WriteString("Don't use *** in responses.\n")

	return b.String()
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
