// Package pipeline implements the CSV ingestion and analytics core: raw CSV
// text is lexed and parsed into a tabular structure, mapped into normalized
// transactions, and aggregated into an analytics snapshot. Parsing and
// aggregation are synchronous and pure; row-level anomalies are dropped or
// defaulted rather than raised as errors.
package pipeline

// ImportCSV runs the full ingestion pipeline for one uploaded file:
// validate → parse → map → aggregate. The caller reads the file content
// beforehand; read failures are its concern, not the pipeline's.
func ImportCSV(file *FileInfo, content string) (*ImportResult, error) {
	if err := ValidateCSVFile(file); err != nil {
		return nil, err
	}

	table, err := ParseCSV(content)
	if err != nil {
		return nil, err
	}

	transactions, err := ConvertToTransactions(table.Rows)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Transactions: transactions,
		Analytics:    CalculateAnalytics(transactions),
		DroppedRows:  len(table.Rows) - len(transactions),
	}, nil
}
