package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	service         portssvc.PostingSvc

	cashAccountID    string
	revenueAccountID string
	vatAccountID     string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewPostingService(suite.mockJournalRepo)

	suite.cashAccountID = uuid.NewString()
	suite.revenueAccountID = uuid.NewString()
	suite.vatAccountID = uuid.NewString()
}

func (suite *PostingServiceTestSuite) simpleSaleTemplate() *domain.Template {
	templateID := uuid.NewString()
	return &domain.Template{
		TemplateID: templateID,
		Code:       "TPL-001",
		Name:       "Cash Sale",
		Category:   domain.CategoryRevenue,
		IsActive:   true,
		Lines: []domain.TemplateLine{
			{TemplateLineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.cashAccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
			{TemplateLineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.revenueAccountID, Side: domain.Credit, Formula: "amount", LineOrder: 2},
		},
	}
}

func (suite *PostingServiceTestSuite) vatSaleTemplate() *domain.Template {
	templateID := uuid.NewString()
	return &domain.Template{
		TemplateID: templateID,
		Code:       "TPL-002",
		Name:       "Cash Sale with VAT",
		Category:   domain.CategoryRevenue,
		IsActive:   true,
		Lines: []domain.TemplateLine{
			{TemplateLineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.cashAccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
			{TemplateLineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.revenueAccountID, Side: domain.Credit, Formula: "amount / 1.11", LineOrder: 2},
			{TemplateLineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.vatAccountID, Side: domain.Credit, Formula: "amount - amount / 1.11", LineOrder: 3},
		},
	}
}

func (suite *PostingServiceTestSuite) TestBuildLines_SimpleSale() {
	lines, err := suite.service.BuildLines(suite.simpleSaleTemplate(), decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Require().Len(lines, 2)
	suite.Equal(suite.cashAccountID, lines[0].AccountID)
	suite.Equal(domain.Debit, lines[0].Side)
	suite.True(lines[0].Amount.Equal(decimal.NewFromInt(100)), "debit was %s", lines[0].Amount)
	suite.Equal(suite.revenueAccountID, lines[1].AccountID)
	suite.Equal(domain.Credit, lines[1].Side)
	suite.True(lines[1].Amount.Equal(decimal.NewFromInt(100)), "credit was %s", lines[1].Amount)
}

func (suite *PostingServiceTestSuite) TestBuildLines_VatSplit() {
	lines, err := suite.service.BuildLines(suite.vatSaleTemplate(), decimal.NewFromInt(111))

	suite.Require().NoError(err)
	suite.Require().Len(lines, 3)
	suite.True(lines[0].Amount.Equal(decimal.NewFromInt(111)), "cash debit was %s", lines[0].Amount)
	suite.True(lines[1].Amount.Equal(decimal.NewFromInt(100)), "revenue credit was %s", lines[1].Amount)
	suite.True(lines[2].Amount.Equal(decimal.NewFromInt(11)), "vat credit was %s", lines[2].Amount)
}

func (suite *PostingServiceTestSuite) TestBuildLines_Unbalanced() {
	template := suite.simpleSaleTemplate()
	template.Lines[1].Formula = "amount * 0.5"

	lines, err := suite.service.BuildLines(template, decimal.NewFromInt(100))

	suite.Require().ErrorIs(err, apperrors.ErrUnbalancedPosting)
	suite.Nil(lines)
}

func (suite *PostingServiceTestSuite) TestBuildLines_NegativeLine() {
	template := suite.simpleSaleTemplate()
	template.Lines[1].Formula = "amount - 200"

	lines, err := suite.service.BuildLines(template, decimal.NewFromInt(100))

	suite.Require().ErrorIs(err, apperrors.ErrNegativeLineAmount)
	suite.Nil(lines)
}

func (suite *PostingServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	actor := uuid.NewString()
	template := suite.simpleSaleTemplate()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Code:          "TRX-2025-0001",
		TemplateID:    template.TemplateID,
		Date:          time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(100),
		Description:   "March cash sale",
		Status:        domain.StatusDraft,
	}

	suite.mockJournalRepo.On("PostEntry", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusPosted && t.PostedAt != nil && t.PostedBy == actor
	}), mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.TransactionID == txn.TransactionID && e.IsBalanced() && !e.IsReversal && len(e.Lines) == 2
	}), mock.MatchedBy(func(a domain.AuditEvent) bool {
		return a.FromStatus == domain.StatusDraft && a.ToStatus == domain.StatusPosted && a.Actor == actor
	})).Return(&domain.JournalEntry{EntryID: uuid.NewString(), Code: "JE-2025-0001"}, nil).Once()

	entry, err := suite.service.Post(ctx, txn, template, actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-2025-0001", entry.Code)
	suite.Equal(domain.StatusPosted, txn.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_AlreadyPosted() {
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.StatusPosted,
		Amount:        decimal.NewFromInt(100),
	}

	entry, err := suite.service.Post(context.Background(), txn, suite.simpleSaleTemplate(), "poster")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_FlipsSidesKeepsAmounts() {
	ctx := context.Background()
	actor := uuid.NewString()
	txnID := uuid.NewString()
	originalID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: txnID,
		Status:        domain.StatusPosted,
		Amount:        decimal.NewFromInt(111),
	}
	original := domain.JournalEntry{
		EntryID:       originalID,
		Code:          "JE-2025-0007",
		TransactionID: txnID,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.cashAccountID, Side: domain.Debit, Amount: decimal.NewFromInt(111), LineOrder: 1},
			{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.revenueAccountID, Side: domain.Credit, Amount: decimal.NewFromInt(100), LineOrder: 2},
			{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.vatAccountID, Side: domain.Credit, Amount: decimal.NewFromInt(11), LineOrder: 3},
		},
	}

	suite.mockJournalRepo.On("FindEntriesByTransactionID", ctx, txnID).
		Return([]domain.JournalEntry{original}, nil).Once()

	var captured domain.JournalEntry
	suite.mockJournalRepo.On("VoidWithReversal", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusVoid && t.VoidReason == "duplicate entry" && t.VoidedBy == actor
	}), mock.MatchedBy(func(e domain.JournalEntry) bool {
		captured = e
		return e.IsReversal && e.ReversedEntryID != nil && *e.ReversedEntryID == originalID
	}), mock.MatchedBy(func(a domain.AuditEvent) bool {
		return a.FromStatus == domain.StatusPosted && a.ToStatus == domain.StatusVoid && a.Reason == "duplicate entry"
	})).Return(&domain.JournalEntry{EntryID: uuid.NewString(), Code: "JE-2025-0008", IsReversal: true}, nil).Once()

	entry, err := suite.service.Reverse(ctx, txn, "duplicate entry", actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.StatusVoid, txn.Status)

	suite.Require().Len(captured.Lines, 3)
	for i, line := range captured.Lines {
		suite.Equal(original.Lines[i].AccountID, line.AccountID)
		suite.Equal(original.Lines[i].Side.Opposite(), line.Side)
		suite.True(original.Lines[i].Amount.Equal(line.Amount))
	}
	suite.True(captured.IsBalanced())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverse_MissingReason() {
	txn := &domain.Transaction{TransactionID: uuid.NewString(), Status: domain.StatusPosted}

	entry, err := suite.service.Reverse(context.Background(), txn, "   ", "actor")

	suite.Require().ErrorIs(err, apperrors.ErrMissingReason)
	suite.Nil(entry)
}

func (suite *PostingServiceTestSuite) TestReverse_NotPosted() {
	txn := &domain.Transaction{TransactionID: uuid.NewString(), Status: domain.StatusDraft}

	entry, err := suite.service.Reverse(context.Background(), txn, "typo", "actor")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(entry)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
