package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/pkg/utils"
)

var (
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrSupplierValidation = errors.New("supplier data validation error")
)

type SaveSupplierRequest struct {
	Name          string                  `json:"name" binding:"required"`
	Category      models.SupplierCategory `json:"category"`
	ContactPerson string                  `json:"contact_person"`
	Phone         string                  `json:"phone"`
	Email         string                  `json:"email"`
	Rating        float64                 `json:"rating"`
	LastOrder     *string                 `json:"last_order"`
}

type SupplierFilter struct {
	Search   string // name or contact person, case-insensitive
	Category models.SupplierCategory
}

type SupplierService interface {
	ListSuppliers(filter SupplierFilter) []models.Supplier
	SaveSupplier(ctx context.Context, supplierID string, req SaveSupplierRequest) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, supplierID string) error
}

type supplierService struct {
	state *appstate.State
}

func NewSupplierService(state *appstate.State) SupplierService {
	return &supplierService{state: state}
}

func (s *supplierService) ListSuppliers(filter SupplierFilter) []models.Supplier {
	search := strings.TrimSpace(filter.Search)
	return s.state.Suppliers.Filter(func(sp models.Supplier) bool {
		if filter.Category != "" && sp.Category != filter.Category {
			return false
		}
		return search == "" || utils.ContainsFold(sp.Name, search) || utils.ContainsFold(sp.ContactPerson, search)
	})
}

func (s *supplierService) SaveSupplier(ctx context.Context, supplierID string, req SaveSupplierRequest) (*models.Supplier, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrSupplierValidation)
	}
	if req.Category == "" {
		req.Category = models.SupplierOther
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrSupplierValidation, req.Category)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrSupplierValidation)
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrSupplierValidation)
	}
	if req.LastOrder != nil && *req.LastOrder != "" && !validDate(*req.LastOrder) {
		return nil, ErrDateFormat
	}

	saved, err := s.state.Suppliers.Save(ctx, models.Supplier{
		ID:            supplierID,
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         req.Phone,
		Email:         strings.TrimSpace(req.Email),
		Rating:        req.Rating,
		LastOrder:     utils.NewNullString(derefString(req.LastOrder)),
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, supplierID string) error {
	if _, ok := s.state.Suppliers.Get(supplierID); !ok {
		return ErrSupplierNotFound
	}
	if err := s.state.Suppliers.Delete(ctx, supplierID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		return err
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
