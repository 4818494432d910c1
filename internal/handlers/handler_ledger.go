package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for ledger reads: balances, statements
// and the trial balance.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers routes related to the ledger.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/accounts/:accountID/balance", h.getBalance)
		ledger.GET("/accounts/:accountID/statement", h.getStatement)
		ledger.GET("/trial-balance", h.getTrialBalance)
	}
}

// parseTimeQuery parses an RFC 3339 query parameter, returning fallback when
// the parameter is absent.
func parseTimeQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter, expected RFC 3339 timestamp"})
		return time.Time{}, false
	}
	return t, true
}

// getBalance godoc
// @Summary Get an account's running balance
// @Description Computes the account's normal-balance-signed cumulative total up to and including asOf. Defaults to now.
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance cutoff (RFC 3339)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf parameter"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /ledger/accounts/{accountID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	asOf, ok := parseTimeQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	balance, err := h.ledgerService.RunningBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to compute balance", slog.String("accountID", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		AsOf:      asOf,
		Balance:   balance,
	})
}

// getStatement godoc
// @Summary Get an account statement
// @Description Returns the account's movements within [from, to] with a running balance per row and the opening balance carried in.
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string true "Range start (RFC 3339)"
// @Param   to query string false "Range end (RFC 3339), defaults to now"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid range parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build statement"
// @Router /ledger/accounts/{accountID}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	if c.Query("from") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required from parameter"})
		return
	}
	from, ok := parseTimeQuery(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to", time.Now())
	if !ok {
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	opening, lines, err := h.ledgerService.Statement(c.Request.Context(), accountID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to build statement", slog.String("accountID", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build statement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.StatementResponse{
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          dto.ToStatementLineResponses(lines),
	})
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Aggregates every account's debit and credit activity up to asOf. Accounts with no activity appear with zero totals.
// @Tags ledger
// @Produce  json
// @Param   asOf query string false "Cutoff (RFC 3339), defaults to now"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf parameter"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Router /ledger/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseTimeQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	rows, err := h.ledgerService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{
		AsOf: asOf,
		Rows: dto.ToTrialBalanceRowResponses(rows),
	})
}
