package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

var ErrAppearanceValidation = errors.New("appearance colours must be #RRGGBB")

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type AppearanceService interface {
	GetAppearance(ctx context.Context) (*models.Appearance, error)
	SaveAppearance(ctx context.Context, appearance models.Appearance) (*models.Appearance, error)
	ResetAppearance(ctx context.Context) (*models.Appearance, error)
}

type appearanceService struct {
	repo repositories.SettingRepository
}

func NewAppearanceService(repo repositories.SettingRepository) AppearanceService {
	return &appearanceService{repo: repo}
}

// GetAppearance returns the defaults until colours are saved.
func (s *appearanceService) GetAppearance(ctx context.Context) (*models.Appearance, error) {
	appearance, err := s.repo.GetAppearance(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		def := models.DefaultAppearance()
		return &def, nil
	}
	return appearance, err
}

func (s *appearanceService) SaveAppearance(ctx context.Context, appearance models.Appearance) (*models.Appearance, error) {
	if !hexColor.MatchString(appearance.PrimaryColor) || !hexColor.MatchString(appearance.SecondaryColor) {
		return nil, ErrAppearanceValidation
	}
	appearance.PrimaryColor = strings.ToLower(appearance.PrimaryColor)
	appearance.SecondaryColor = strings.ToLower(appearance.SecondaryColor)
	if err := s.repo.SaveAppearance(ctx, appearance); err != nil {
		return nil, err
	}
	return &appearance, nil
}

func (s *appearanceService) ResetAppearance(ctx context.Context) (*models.Appearance, error) {
	return s.SaveAppearance(ctx, models.DefaultAppearance())
}
