package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_crm_backend/internal/models"
)

// DealRepository persists sales-pipeline cards.
type DealRepository interface {
	Gateway[models.Deal]
}

type dealRepository struct {
	db SQLExecutor
}

// NewDealRepository creates a new instance of DealRepository.
func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) GetAll(ctx context.Context) ([]models.Deal, error) {
	query := `SELECT id, title, client_id, value, stage_id, expected_close_date, label FROM deals ORDER BY expected_close_date`
	deals, err := queryAll(ctx, r.db, query, func(s scanner) (models.Deal, error) {
		var d models.Deal
		var label string
		err := s.Scan(&d.ID, &d.Title, &d.ClientID, &d.Value, &d.StageID, &d.ExpectedCloseDate, &label)
		d.Label = models.DealLabel(label)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting deals: %w", err)
	}
	return deals, nil
}

func (r *dealRepository) Upsert(ctx context.Context, d models.Deal) error {
	query := `INSERT INTO deals (id, title, client_id, value, stage_id, expected_close_date, label)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET
	              title = EXCLUDED.title, client_id = EXCLUDED.client_id, value = EXCLUDED.value,
	              stage_id = EXCLUDED.stage_id, expected_close_date = EXCLUDED.expected_close_date,
	              label = EXCLUDED.label`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Title, d.ClientID, d.Value, d.StageID, d.ExpectedCloseDate, string(d.Label))
	if err != nil {
		return wrapWriteError(err, "upserting deal "+d.ID)
	}
	return nil
}

func (r *dealRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "deals", id)
}
