package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// exportHeader is the canonical column set for sample and export documents.
const exportHeader = "date,description,category,amount,merchant,employee,department,status"

// SampleCSV returns the fixed template document offered to users as a
// download and reused as fixture data in tests.
func SampleCSV() string {
	return exportHeader + "\n" +
		"2024-01-15,Office Supplies - Staples,Office Supplies,45.67,Staples Inc.,John Smith,Marketing,approved\n" +
		"2024-01-14,Client Lunch - Downtown Restaurant,Meals & Entertainment,125.50,Downtown Restaurant,Sarah Johnson,Sales,pending\n" +
		"2024-01-14,Uber Ride to Client Meeting,Transportation,23.80,Uber,Mike Chen,Sales,approved\n" +
		"2024-01-13,Software License - Adobe Creative Suite,Software,89.99,Adobe Inc.,Lisa Wang,Design,approved\n" +
		"2024-01-12,Hotel Stay - Business Trip,Travel,245.00,Marriott Hotel,David Rodriguez,Operations,approved\n" +
		"2024-01-12,Flight - Business Trip,Travel,450.75,American Airlines,David Rodriguez,Operations,approved\n" +
		"2024-01-11,Team Building Event,Meals & Entertainment,320.00,Escape Room Co.,Jennifer Lee,HR,pending\n" +
		"2024-01-10,Office Equipment - Monitor,Equipment,299.99,Best Buy,Tom Wilson,IT,approved"
}

// ExportCSV renders a batch back into the canonical eight-column form.
// Amounts are written as absolute values, matching the upload convention.
func ExportCSV(transactions []Transaction) string {
	var b strings.Builder
	b.WriteString(exportHeader + "\n")
	for _, t := range transactions {
		fmt.Fprintf(&b, "%s,%s,%s,%.2f,%s,%s,%s,%s\n",
			t.Date, t.Description, t.Category, math.Abs(t.Amount),
			t.Merchant, t.Employee, t.Department, t.Status)
	}
	return b.String()
}
