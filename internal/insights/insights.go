// Package insights is the boundary adapter toward the remote model that
// turns a transaction batch into free-text spending recommendations and chat
// replies. It always produces a usable result: when the remote call fails or
// returns nothing parseable, a fixed fallback is substituted.
package insights

import (
	"context"

	"github.com/dicefinance/expense-dashboard/internal/pipeline"
)

// Recommendation is one structured insight scanned out of the model's reply.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Priority    string `json:"priority"`
}

// ChatContext is the batch summary handed to the assistant with each message.
type ChatContext struct {
	CurrentSpend         float64                     `json:"currentSpend"`
	Budget               float64                     `json:"budget"`
	Categories           []pipeline.CategoryBucket   `json:"categories"`
	Departments          []pipeline.DepartmentBucket `json:"departments"`
	TransactionCount     int                         `json:"transactionCount"`
	AvgTransactionAmount float64                     `json:"avgTransactionAmount"`
	HasCSVData           bool                        `json:"hasCsvData"`
	CSVTransactionCount  int                         `json:"csvTransactionCount"`
}

// Generator produces recommendations and chat replies for a batch. Neither
// method fails: implementations substitute fallback content on error, so
// display surfaces always have something to show.
type Generator interface {
	AnalyzeBatch(ctx context.Context, analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) []Recommendation
	Chat(ctx context.Context, message string, chatCtx ChatContext) string
}
