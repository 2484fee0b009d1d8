package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic_crm_backend/internal/analytics"
	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/config"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionValidation = errors.New("transaction data validation error")
	ErrPackageNotFound       = errors.New("procedure package not found")
	ErrPackageValidation     = errors.New("procedure package data validation error")
)

type SaveTransactionRequest struct {
	Type          models.TransactionType   `json:"type" binding:"required"`
	Category      string                   `json:"category"`
	Description   string                   `json:"description" binding:"required"`
	Value         float64                  `json:"value"`
	Date          string                   `json:"date" binding:"required"`
	Status        models.TransactionStatus `json:"status"`
	PaymentMethod *models.PaymentMethod    `json:"payment_method"`
	ClientID      *string                  `json:"client_id"`
}

type SavePackageRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Sessions     int     `json:"sessions"`
	Installments int     `json:"installments"`
}

type FinanceService interface {
	ListTransactions(tab string) ([]models.Transaction, error)
	SaveTransaction(ctx context.Context, transactionID string, req SaveTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	Summary() (analytics.Finance, error)

	ListPackages() []models.ProcedurePackage
	SavePackage(ctx context.Context, packageID string, req SavePackageRequest) (*models.ProcedurePackage, error)
	DeletePackage(ctx context.Context, packageID string) error
}

type financeService struct {
	state    *appstate.State
	business config.BusinessConfig
}

func NewFinanceService(state *appstate.State, business config.BusinessConfig) FinanceService {
	return &financeService{state: state, business: business}
}

func (s *financeService) ListTransactions(tab string) ([]models.Transaction, error) {
	if tab == "" {
		tab = analytics.TabFlow
	}
	if !analytics.IsLedgerTab(tab) {
		return nil, fmt.Errorf("%w: unknown tab %q", ErrTransactionValidation, tab)
	}
	return analytics.LedgerTab(s.state.Transactions.All(), tab), nil
}

func (s *financeService) SaveTransaction(ctx context.Context, transactionID string, req SaveTransactionRequest) (*models.Transaction, error) {
	if req.Type != models.TransactionIncome && req.Type != models.TransactionExpense {
		return nil, fmt.Errorf("%w: type must be INCOME or EXPENSE", ErrTransactionValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrTransactionValidation)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("%w: value cannot be negative", ErrTransactionValidation)
	}
	if !validDate(req.Date) {
		return nil, ErrDateFormat
	}
	if req.Status == "" {
		req.Status = models.TransactionPending
	}
	if req.Status != models.TransactionPending && req.Status != models.TransactionPaid {
		return nil, fmt.Errorf("%w: status must be PENDING or PAID", ErrTransactionValidation)
	}
	if req.PaymentMethod != nil && !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrTransactionValidation, *req.PaymentMethod)
	}
	if req.ClientID != nil && strings.TrimSpace(*req.ClientID) == "" {
		req.ClientID = nil
	}

	saved, err := s.state.Transactions.Save(ctx, models.Transaction{
		ID:            transactionID,
		Type:          req.Type,
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		Value:         req.Value,
		Date:          req.Date,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		ClientID:      req.ClientID,
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *financeService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if _, ok := s.state.Transactions.Get(transactionID); !ok {
		return ErrTransactionNotFound
	}
	if err := s.state.Transactions.Delete(ctx, transactionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	return nil
}

// Summary totals the ledger. Net margin and average ticket come only from configuration.
func (s *financeService) Summary() (analytics.Finance, error) {
	margin, err := s.business.NetMarginValue()
	if err != nil {
		return analytics.Finance{}, err
	}
	ticket, err := s.business.AverageTicketValue()
	if err != nil {
		return analytics.Finance{}, err
	}
	return analytics.FinanceSummary(s.state.Transactions.All(), margin, ticket), nil
}

func (s *financeService) ListPackages() []models.ProcedurePackage {
	return s.state.Packages.All()
}

func (s *financeService) SavePackage(ctx context.Context, packageID string, req SavePackageRequest) (*models.ProcedurePackage, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrPackageValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrPackageValidation)
	}
	if req.Sessions <= 0 {
		req.Sessions = 1
	}
	if req.Installments <= 0 {
		req.Installments = 1
	}
	saved, err := s.state.Packages.Save(ctx, models.ProcedurePackage{
		ID:           packageID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		Sessions:     req.Sessions,
		Installments: req.Installments,
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *financeService) DeletePackage(ctx context.Context, packageID string) error {
	if _, ok := s.state.Packages.Get(packageID); !ok {
		return ErrPackageNotFound
	}
	if err := s.state.Packages.Delete(ctx, packageID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	return nil
}
