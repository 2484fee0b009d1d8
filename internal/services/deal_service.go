package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic_crm_backend/internal/analytics"
	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

var (
	ErrDealNotFound   = errors.New("deal not found")
	ErrDealValidation = errors.New("deal data validation error")
)

type SaveDealRequest struct {
	Title             string           `json:"title" binding:"required"`
	ClientID          string           `json:"client_id"`
	Value             float64          `json:"value"`
	StageID           string           `json:"stage_id"`
	ExpectedCloseDate string           `json:"expected_close_date"`
	Label             models.DealLabel `json:"label"`
}

type DealService interface {
	Board() []analytics.StageColumn
	ListDeals() []models.Deal
	SaveDeal(ctx context.Context, dealID string, req SaveDealRequest) (*models.Deal, error)
	MoveDeal(ctx context.Context, dealID, stageID string) (*models.Deal, error)
	DeleteDeal(ctx context.Context, dealID string) error
}

type dealService struct {
	state *appstate.State
}

func NewDealService(state *appstate.State) DealService {
	return &dealService{state: state}
}

func (s *dealService) Board() []analytics.StageColumn {
	return analytics.FunnelBoard(s.state.Deals.All())
}

func (s *dealService) ListDeals() []models.Deal {
	return s.state.Deals.All()
}

func (s *dealService) SaveDeal(ctx context.Context, dealID string, req SaveDealRequest) (*models.Deal, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrDealValidation)
	}
	if req.StageID == "" {
		req.StageID = models.DefaultFunnelStageID
	}
	if !models.IsFunnelStage(req.StageID) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrDealValidation, req.StageID)
	}
	if req.Label == "" {
		req.Label = models.DealLabelNew
	}
	if !req.Label.Valid() {
		return nil, fmt.Errorf("%w: unknown label %q", ErrDealValidation, req.Label)
	}
	if req.ExpectedCloseDate != "" && !validDate(req.ExpectedCloseDate) {
		return nil, ErrDateFormat
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("%w: value cannot be negative", ErrDealValidation)
	}

	saved, err := s.state.Deals.Save(ctx, models.Deal{
		ID:                dealID,
		Title:             strings.TrimSpace(req.Title),
		ClientID:          req.ClientID,
		Value:             req.Value,
		StageID:           req.StageID,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Label:             req.Label,
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// MoveDeal changes only the pipeline stage of a deal.
func (s *dealService) MoveDeal(ctx context.Context, dealID, stageID string) (*models.Deal, error) {
	if !models.IsFunnelStage(stageID) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrDealValidation, stageID)
	}
	updated, err := s.state.Deals.Update(ctx, dealID, func(d *models.Deal) error {
		d.StageID = stageID
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *dealService) DeleteDeal(ctx context.Context, dealID string) error {
	if _, ok := s.state.Deals.Get(dealID); !ok {
		return ErrDealNotFound
	}
	if err := s.state.Deals.Delete(ctx, dealID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	return nil
}
