package dto

import (
	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TemplateLineRequest defines one debit/credit pattern of a template.
type TemplateLineRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Side      string `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Formula   string `json:"formula" binding:"required"`
}

// CreateTemplateRequest defines the payload for creating a template.
type CreateTemplateRequest struct {
	Name          string                `json:"name" binding:"required"`
	Category      string                `json:"category" binding:"required,oneof=REVENUE EXPENSE PAYMENT RECEIPT TRANSFER"`
	CashFlowClass string                `json:"cashFlowClass" binding:"required,oneof=OPERATING INVESTING FINANCING"`
	Lines         []TemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateTemplateRequest defines an edit to a template. When the template has
// already driven a posted transaction the edit is applied copy-on-write and a
// new template id is returned.
type UpdateTemplateRequest struct {
	Name          *string               `json:"name"`
	Category      *string               `json:"category" binding:"omitempty,oneof=REVENUE EXPENSE PAYMENT RECEIPT TRANSFER"`
	CashFlowClass *string               `json:"cashFlowClass" binding:"omitempty,oneof=OPERATING INVESTING FINANCING"`
	Lines         []TemplateLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// PreviewTemplateRequest asks for a dry-run evaluation of a template.
type PreviewTemplateRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PreviewLine is one evaluated template line without persistence.
type PreviewLine struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PreviewTemplateResponse is the dry-run result shown before posting.
type PreviewTemplateResponse struct {
	Lines       []PreviewLine   `json:"lines"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balanced    bool            `json:"balanced"`
}

// TemplateLineResponse defines the data returned for a template line.
type TemplateLineResponse struct {
	AccountID string `json:"accountID"`
	Side      string `json:"side"`
	Formula   string `json:"formula"`
	LineOrder int    `json:"lineOrder"`
}

// TemplateResponse defines the data returned for a template.
type TemplateResponse struct {
	TemplateID    string                 `json:"templateID"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Category      string                 `json:"category"`
	CashFlowClass string                 `json:"cashFlowClass"`
	IsActive      bool                   `json:"isActive"`
	UsageCount    int64                  `json:"usageCount"`
	Lines         []TemplateLineResponse `json:"lines"`
}

// ToTemplateResponse converts a domain.Template to TemplateResponse.
func ToTemplateResponse(t *domain.Template) TemplateResponse {
	lines := make([]TemplateLineResponse, len(t.Lines))
	for i, line := range t.Lines {
		lines[i] = TemplateLineResponse{
			AccountID: line.AccountID,
			Side:      string(line.Side),
			Formula:   line.Formula,
			LineOrder: line.LineOrder,
		}
	}
	return TemplateResponse{
		TemplateID:    t.TemplateID,
		Code:          t.Code,
		Name:          t.Name,
		Category:      string(t.Category),
		CashFlowClass: string(t.CashFlowClass),
		IsActive:      t.IsActive,
		UsageCount:    t.UsageCount,
		Lines:         lines,
	}
}

// ToTemplateResponses converts a slice of domain.Template.
func ToTemplateResponses(templates []domain.Template) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses
}
