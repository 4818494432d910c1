package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/handlers"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListAuditEvents(ctx context.Context, transactionID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}
func (m *MockTransactionService) ListJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}
func (m *MockTransactionService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockTransactionService) CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) PostTransaction(ctx context.Context, transactionID string, actor string) (*domain.Transaction, *domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID, actor)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	var entry *domain.JournalEntry
	if args.Get(1) != nil {
		entry = args.Get(1).(*domain.JournalEntry)
	}
	return txn, entry, args.Error(2)
}
func (m *MockTransactionService) VoidTransaction(ctx context.Context, transactionID string, reason string, actor string) (*domain.Transaction, *domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID, reason, actor)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	var entry *domain.JournalEntry
	if args.Get(1) != nil {
		entry = args.Get(1).(*domain.JournalEntry)
	}
	return txn, entry, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockTransactionService *MockTransactionService
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.ActorMiddleware())

	suite.mockTransactionService = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockTransactionService)
}

func (suite *TransactionHandlerTestSuite) draftTransaction() *domain.Transaction {
	now := time.Now()
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		Code:            "TRX-2026-0001",
		TemplateID:      uuid.NewString(),
		Date:            now,
		Amount:          decimal.NewFromInt(111),
		SourceAccountID: uuid.NewString(),
		Description:     "Cash sale",
		Status:          domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "alice",
			LastUpdatedAt: now,
			LastUpdatedBy: "alice",
		},
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	expected := suite.draftTransaction()
	body := dto.CreateTransactionRequest{
		TemplateID:      expected.TemplateID,
		Date:            expected.Date,
		Amount:          expected.Amount,
		SourceAccountID: expected.SourceAccountID,
		Description:     expected.Description,
	}

	suite.mockTransactionService.On("CreateDraft",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return req.TemplateID == body.TemplateID && req.Amount.Equal(body.Amount)
		}),
		"alice",
	).Return(expected, nil).Once()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "alice")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal("TRX-2026-0001", resp.Code)
	suite.Equal(string(domain.StatusDraft), resp.Status)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingFields() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader([]byte(`{"amount": 100}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateDraft")
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_Success() {
	txn := suite.draftTransaction()
	now := time.Now()
	txn.Status = domain.StatusPosted
	txn.PostedAt = &now
	txn.PostedBy = "bob"

	entry := &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		Code:          "JE-2026-0001",
		TransactionID: txn.TransactionID,
		EntryDate:     now,
		Description:   txn.Description,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), AccountID: uuid.NewString(), Side: domain.Debit, Amount: decimal.NewFromInt(111), LineOrder: 1},
			{LineID: uuid.NewString(), AccountID: uuid.NewString(), Side: domain.Credit, Amount: decimal.NewFromInt(111), LineOrder: 2},
		},
	}

	suite.mockTransactionService.On("PostTransaction", mock.Anything, txn.TransactionID, "bob").
		Return(txn, entry, nil).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/post", txn.TransactionID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("X-Actor", "bob")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Transaction dto.TransactionResponse  `json:"transaction"`
		Entry       *dto.JournalEntryResponse `json:"entry"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusPosted), resp.Transaction.Status)
	suite.Require().NotNil(resp.Entry)
	suite.Equal("JE-2026-0001", resp.Entry.Code)
	suite.Len(resp.Entry.Lines, 2)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_AlreadyPosted() {
	transactionID := uuid.NewString()
	suite.mockTransactionService.On("PostTransaction", mock.Anything, transactionID, "system").
		Return(nil, nil, fmt.Errorf("transaction is POSTED: %w", apperrors.ErrInvalidTransition)).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/post", transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestVoidTransaction_Success() {
	txn := suite.draftTransaction()
	now := time.Now()
	txn.Status = domain.StatusVoid
	txn.VoidedAt = &now
	txn.VoidedBy = "carol"
	txn.VoidReason = "duplicate entry"

	suite.mockTransactionService.On("VoidTransaction", mock.Anything, txn.TransactionID, "duplicate entry", "carol").
		Return(txn, nil, nil).Once()

	payload, _ := json.Marshal(dto.VoidTransactionRequest{Reason: "duplicate entry"})
	url := fmt.Sprintf("/api/v1/transactions/%s/void", txn.TransactionID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "carol")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Transaction dto.TransactionResponse  `json:"transaction"`
		Entry       *dto.JournalEntryResponse `json:"entry"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusVoid), resp.Transaction.Status)
	suite.Nil(resp.Entry)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestVoidTransaction_MissingReason() {
	transactionID := uuid.NewString()
	suite.mockTransactionService.On("VoidTransaction", mock.Anything, transactionID, "", "system").
		Return(nil, nil, apperrors.ErrMissingReason).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/void", transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	transactionID := uuid.NewString()
	suite.mockTransactionService.On("GetTransactionByID", mock.Anything, transactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/"+transactionID, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_StatusFilter() {
	expected := []domain.Transaction{*suite.draftTransaction()}
	suite.mockTransactionService.On("ListTransactions",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Status == "DRAFT" && p.Limit == 10
		}),
	).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions?status=DRAFT&limit=10", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
