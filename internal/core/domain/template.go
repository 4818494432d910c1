package domain

// TemplateCategory groups journal templates by business intent.
type TemplateCategory string

const (
	CategoryRevenue  TemplateCategory = "REVENUE"
	CategoryExpense  TemplateCategory = "EXPENSE"
	CategoryPayment  TemplateCategory = "PAYMENT"
	CategoryReceipt  TemplateCategory = "RECEIPT"
	CategoryTransfer TemplateCategory = "TRANSFER"
)

// CashFlowClass classifies a template for cash-flow reporting.
type CashFlowClass string

const (
	Operating CashFlowClass = "OPERATING"
	Investing CashFlowClass = "INVESTING"
	Financing CashFlowClass = "FINANCING"
)

// TemplateLine is one debit or credit pattern within a template. Its formula
// is a plain-text expression over the single variable `amount`.
type TemplateLine struct {
	TemplateLineID string    `json:"templateLineID"` // Primary Key (UUID)
	TemplateID     string    `json:"templateID"`     // FK -> Template.TemplateID
	AccountID      string    `json:"accountID"`      // FK -> Account.AccountID
	Side           EntrySide `json:"side"`           // DEBIT or CREDIT
	Formula        string    `json:"formula"`        // e.g. "amount", "amount * 0.11", "amount / 1.11"
	LineOrder      int       `json:"lineOrder"`      // 1-based position within the template
}

// Template is a reusable pattern of journal lines driven by one input amount.
// Once referenced by a transaction it is immutable: edits produce a new
// template id (copy-on-write) so historical postings stay reproducible.
type Template struct {
	TemplateID    string           `json:"templateID"`    // Primary Key (UUID)
	Code          string           `json:"code"`          // e.g. "TPL-001", sequence-allocated
	Name          string           `json:"name"`          // User-defined name
	Category      TemplateCategory `json:"category"`      // REVENUE, EXPENSE, PAYMENT, RECEIPT, TRANSFER
	CashFlowClass CashFlowClass    `json:"cashFlowClass"` // OPERATING, INVESTING, FINANCING
	IsActive      bool             `json:"isActive"`      // Deactivated templates cannot drive new drafts
	UsageCount    int64            `json:"usageCount"`    // Number of transactions created from this template
	Lines         []TemplateLine   `json:"lines"`         // Ordered by LineOrder
	AuditFields
}

// IsUsed reports whether the template has ever driven a transaction, which
// freezes it for direct edits.
func (t *Template) IsUsed() bool {
	return t.UsageCount > 0
}
