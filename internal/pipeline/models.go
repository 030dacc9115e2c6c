package pipeline

// Transaction is one normalized expense produced from a CSV import. The
// mapper forces every amount negative (this dataset only tracks spend), so
// Amount is always <= 0 and never exactly zero.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // calendar date, YYYY-MM-DD
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Merchant    string  `json:"merchant"`
	Employee    string  `json:"employee"`
	Department  string  `json:"department"`
	Status      string  `json:"status"`
	Source      string  `json:"source"`
}

// SourceCSVUpload tags transactions that came in through a CSV import.
const SourceCSVUpload = "csv_upload"

// Closed status vocabulary. Anything else normalizes to StatusPending.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// RawRow maps canonicalized header keys to trimmed field values. It only
// exists between table parsing and transaction mapping.
type RawRow map[string]string

// RawTable is the output of ParseCSV: the original header cells plus one
// RawRow per kept data line.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// CategoryBucket is one slice of the category rollup.
type CategoryBucket struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// DepartmentBucket is one slice of the department rollup.
type DepartmentBucket struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// MonthlyPoint is one calendar-month bucket of the trend series.
type MonthlyPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// DateRange spans the parseable transaction dates of a batch. Both ends are
// nil when no transaction carries a parseable date.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// AnalyticsSnapshot is the aggregate view over one transaction batch. It is
// always derived from scratch by CalculateAnalytics and replaced wholesale;
// there are no partial updates.
type AnalyticsSnapshot struct {
	TotalSpend           float64            `json:"totalSpend"`
	MonthlyBudget        float64            `json:"monthlyBudget"`
	Categories           []CategoryBucket   `json:"categories"`
	Departments          []DepartmentBucket `json:"departments"`
	MonthlyTrend         []MonthlyPoint     `json:"monthlyTrend"`
	TransactionCount     int                `json:"transactionCount"`
	AvgTransactionAmount float64            `json:"avgTransactionAmount"`
	MaxTransaction       float64            `json:"maxTransaction"`
	DateRange            DateRange          `json:"dateRange"`
}

// ImportResult is the artifact of one successful CSV import.
type ImportResult struct {
	Transactions []Transaction     `json:"transactions"`
	Analytics    AnalyticsSnapshot `json:"analytics"`
	// DroppedRows counts parsed rows excluded because their coerced amount
	// was exactly zero.
	DroppedRows int `json:"droppedRows"`
}
