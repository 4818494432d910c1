package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/google/uuid"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) *accountService {
	return &accountService{accountRepo: repo}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	normalBalance, err := domain.NormalBalanceFor(accountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	// The normal balance is derived from the type; a caller-supplied value is
	// only accepted when it agrees.
	if req.NormalBalance != "" && domain.EntrySide(req.NormalBalance) != normalBalance {
		return nil, fmt.Errorf("%w: account type %s has normal balance %s, got %s",
			apperrors.ErrValidation, accountType, normalBalance, req.NormalBalance)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code '%s' is already taken", apperrors.ErrDuplicate, req.Code)
	}

	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrInvalidHierarchy, req.ParentAccountID)
			}
			logger.Error("Failed to find parent account", slog.String("error", err.Error()), slog.String("parent_account_id", req.ParentAccountID))
			return nil, err
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent account %s is inactive", apperrors.ErrValidation, parent.Code)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		NormalBalance:   normalBalance,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by code", slog.String("error", err.Error()), slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to find accounts by IDs", slog.String("error", err.Error()), slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The parent must exist even if it has no children.
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	children, err := s.accountRepo.ListChildren(ctx, accountID)
	if err != nil {
		logger.Error("Failed to list child accounts", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list child accounts: %w", err)
	}
	if children == nil {
		return []domain.Account{}, nil
	}
	return children, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ValidateHierarchy walks the whole chart and rejects dangling parents and
// parent cycles. Creation keeps the tree valid, so this is a consistency
// check for externally seeded data.
func (s *accountService) ValidateHierarchy(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		logger.Error("Failed to load chart of accounts", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load chart of accounts: %w", err)
	}

	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}

	for _, a := range accounts {
		if a.ParentAccountID == "" {
			continue
		}
		if _, ok := byID[a.ParentAccountID]; !ok {
			return fmt.Errorf("%w: account %s references missing parent %s", apperrors.ErrInvalidHierarchy, a.Code, a.ParentAccountID)
		}

		// Walk up; any path longer than the account count is a cycle.
		seen := map[string]bool{a.AccountID: true}
		current := a
		for current.ParentAccountID != "" {
			parent, ok := byID[current.ParentAccountID]
			if !ok {
				break
			}
			if seen[parent.AccountID] {
				return fmt.Errorf("%w: cycle through account %s", apperrors.ErrInvalidHierarchy, parent.Code)
			}
			seen[parent.AccountID] = true
			current = parent
		}
	}

	return nil
}
