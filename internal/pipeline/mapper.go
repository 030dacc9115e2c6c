package pipeline

import (
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// Column-name synonyms per logical field, resolved first-match. New synonyms
// are additions to these tables, not new branching code.
var (
	dateColumns        = []string{"date", "transaction_date", "created_at", "timestamp"}
	descriptionColumns = []string{"description", "details", "memo", "note", "reference"}
	categoryColumns    = []string{"category", "type", "classification", "class"}
	amountColumns      = []string{"amount", "value", "cost", "price", "expense", "debit"}
	merchantColumns    = []string{"merchant", "vendor", "store", "company", "supplier"}
	employeeColumns    = []string{"employee", "user", "name", "staff", "person"}
	departmentColumns  = []string{"department", "team", "division", "unit", "branch"}
	statusColumns      = []string{"status", "approval_status", "state"}
)

// resolveField returns the first non-blank value among the candidate column
// keys, or the fallback when none match.
func resolveField(row RawRow, candidates []string, fallback string) string {
	for _, key := range candidates {
		if v := cleanString(row[key]); v != "" {
			return v
		}
	}
	return fallback
}

// ConvertToTransactions maps parsed CSV rows into normalized transactions.
//
// Every amount is coerced to -abs(amount): all rows in this dataset are
// expenses regardless of their original sign. Rows whose coerced amount is
// exactly zero are excluded so they never pollute percentage and average
// computations. Each transaction gets an ID unique within the batch.
//
// An empty row set maps to an empty batch; only nil input is an error.
func ConvertToTransactions(rows []RawRow) ([]Transaction, error) {
	if rows == nil {
		return nil, errors.New("ConvertToTransactions: no parsed rows provided")
	}

	transactions := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		amount, err := strconv.ParseFloat(resolveField(row, amountColumns, "0"), 64)
		if err != nil {
			amount = 0
		}
		amount = -math.Abs(amount)
		if amount == 0 {
			continue
		}

		transactions = append(transactions, Transaction{
			ID:          uuid.NewString(),
			Date:        NormalizeDate(resolveField(row, dateColumns, "")),
			Description: resolveField(row, descriptionColumns, "Transaction"),
			Category:    resolveField(row, categoryColumns, "Other"),
			Amount:      amount,
			Merchant:    resolveField(row, merchantColumns, "Unknown"),
			Employee:    resolveField(row, employeeColumns, "Unknown"),
			Department:  resolveField(row, departmentColumns, "General"),
			Status:      NormalizeStatus(resolveField(row, statusColumns, "")),
			Source:      SourceCSVUpload,
		})
	}

	return transactions, nil
}
