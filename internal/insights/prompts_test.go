package insights

import (
	"strings"
	"testing"

	"github.com/dicefinance/expense-dashboard/internal/pipeline"
)

func sampleAnalytics() pipeline.AnalyticsSnapshot {
	start, end := "2024-01-14", "2024-01-15"
	return pipeline.AnalyticsSnapshot{
		TotalSpend:           194.97,
		MonthlyBudget:        292.455,
		TransactionCount:     3,
		AvgTransactionAmount: 64.99,
		Categories: []pipeline.CategoryBucket{
			{Name: "Meals & Entertainment", Amount: 125.50, Percentage: 64.4},
			{Name: "Office Supplies", Amount: 45.67, Percentage: 23.4},
		},
		Departments: []pipeline.DepartmentBucket{
			{Name: "Sales", Amount: 149.30, Percentage: 76.6},
		},
		DateRange: pipeline.DateRange{Start: &start, End: &end},
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	transactions := []pipeline.Transaction{
		{Date: "2024-01-14", Category: "Meals & Entertainment", Description: "Client Lunch",
			Amount: -125.50, Employee: "Sarah Johnson", Department: "Sales"},
	}

	prompt := buildAnalysisPrompt(sampleAnalytics(), transactions)

	for _, want := range []string{
		"- Total Spend: $194.97",
		"- Transaction Count: 3",
		"- Date Range: 2024-01-14 to 2024-01-15",
		"- Meals & Entertainment: $125.50 (64.4%)",
		"- Sales: $149.30 (76.6%)",
		"2024-01-14 | Meals & Entertainment | Client Lunch | $125.50 | Sarah Johnson (Sales)",
		"- Type: savings/policy/efficiency/alert/insight",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildAnalysisPrompt_EmptyBatch(t *testing.T) {
	prompt := buildAnalysisPrompt(pipeline.AnalyticsSnapshot{}, nil)

	for _, want := range []string{
		"- Date Range: N/A to N/A",
		"No categories found",
		"No departments found",
		"No transactions found",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildAnalysisPrompt_LimitsSampleTransactions(t *testing.T) {
	transactions := make([]pipeline.Transaction, 25)
	for i := range transactions {
		transactions[i] = pipeline.Transaction{
			Date: "2024-01-01", Category: "A", Description: "tx",
			Amount: -1, Employee: "E", Department: "D",
		}
	}

	prompt := buildAnalysisPrompt(sampleAnalytics(), transactions)
	if got := strings.Count(prompt, "2024-01-01 | A |"); got != sampleTransactionLimit {
		t.Errorf("prompt quotes %d transactions, want %d", got, sampleTransactionLimit)
	}
}

func TestBuildChatPrompt(t *testing.T) {
	chatCtx := ChatContext{
		CurrentSpend:        1600.70,
		Budget:              2401.05,
		HasCSVData:          true,
		CSVTransactionCount: 8,
	}

	prompt := buildChatPrompt("how much did travel cost?", chatCtx)

	if !strings.Contains(prompt, "User Question: how much did travel cost?") {
		t.Error("prompt missing the user question")
	}
	if !strings.Contains(prompt, "uploaded CSV data with 8 transactions") {
		t.Error("prompt missing the CSV context note")
	}
	if !strings.Contains(prompt, `"currentSpend": 1600.7`) {
		t.Error("prompt missing the serialized context")
	}
}

func TestBuildChatPrompt_NoBatch(t *testing.T) {
	prompt := buildChatPrompt("hello", ChatContext{})
	if strings.Contains(prompt, "IMPORTANT:") {
		t.Error("prompt should not mention CSV data when none is loaded")
	}
}
