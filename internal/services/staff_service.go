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
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrStaffValidation = errors.New("staff data validation error")
	ErrEmailExists     = errors.New("email already exists")
)

const minPasswordLength = 8

type SaveStaffRequest struct {
	Name      string          `json:"name" binding:"required"`
	Email     string          `json:"email" binding:"required"`
	Role      models.UserRole `json:"role"`
	Avatar    string          `json:"avatar"`
	Active    *bool           `json:"active"`
	Specialty string          `json:"specialty"`
	// Password is only stored by the postgres backend; empty keeps the current one.
	Password string `json:"password"`
}

type StaffService interface {
	ListStaff() []models.User
	SaveStaff(ctx context.Context, staffID string, req SaveStaffRequest) (*models.User, error)
	DeleteStaff(ctx context.Context, staffID string) error
}

type staffService struct {
	state *appstate.State
}

func NewStaffService(state *appstate.State) StaffService {
	return &staffService{state: state}
}

func (s *staffService) ListStaff() []models.User {
	return s.state.Staff.All()
}

func (s *staffService) SaveStaff(ctx context.Context, staffID string, req SaveStaffRequest) (*models.User, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrStaffValidation)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrStaffValidation)
	}
	if req.Role == "" {
		req.Role = models.RoleAttendant
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrStaffValidation, req.Role)
	}
	for _, other := range s.state.Staff.All() {
		if other.ID != staffID && strings.EqualFold(other.Email, email) {
			return nil, ErrEmailExists
		}
	}

	user := models.User{
		ID:        staffID,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Role:      req.Role,
		Avatar:    req.Avatar,
		Active:    true,
		Specialty: strings.TrimSpace(req.Specialty),
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must have at least %d characters", ErrStaffValidation, minPasswordLength)
		}
		hashed, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	saved, err := s.state.Staff.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	saved.PasswordHash = ""
	return &saved, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, staffID string) error {
	if _, ok := s.state.Staff.Get(staffID); !ok {
		return ErrStaffNotFound
	}
	if err := s.state.Staff.Delete(ctx, staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	return nil
}
