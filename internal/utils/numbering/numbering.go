// Package numbering formats the human-facing document codes. The formats are
// load-bearing for downstream consumers and must not change:
// TRX-{year}-{seq:04d}, JE-{year}-{seq:04d}, TPL-{seq:03d}.
package numbering

import "fmt"

// Sequence kinds stored in the code_sequences table.
const (
	KindTransaction = "TRANSACTION"
	KindJournal     = "JOURNAL"
	KindTemplate    = "TEMPLATE"
)

// TransactionPrefix starts every transaction code.
const TransactionPrefix = "TRX-"

// TransactionCode formats a yearly transaction code, e.g. TRX-2025-0001.
func TransactionCode(year int, seq int64) string {
	return fmt.Sprintf("TRX-%d-%04d", year, seq)
}

// JournalCode formats a yearly journal entry code, e.g. JE-2025-0001.
func JournalCode(year int, seq int64) string {
	return fmt.Sprintf("JE-%d-%04d", year, seq)
}

// TemplateCode formats a template code, e.g. TPL-001. Template numbering is
// global, not per year.
func TemplateCode(seq int64) string {
	return fmt.Sprintf("TPL-%03d", seq)
}
