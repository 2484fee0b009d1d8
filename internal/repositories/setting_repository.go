package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clinic_crm_backend/internal/models"
)

const appearanceKey = "appearance"

// SettingRepository stores clinic-wide settings as JSON documents keyed by name.
type SettingRepository interface {
	GetAppearance(ctx context.Context) (*models.Appearance, error)
	SaveAppearance(ctx context.Context, appearance models.Appearance) error
}

type settingRepository struct {
	db SQLExecutor
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *sql.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetAppearance returns ErrNotFound when no colours were ever saved.
func (r *settingRepository) GetAppearance(ctx context.Context) (*models.Appearance, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = $1`, appearanceKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting appearance: %v", ErrDatabaseError, err)
	}
	var appearance models.Appearance
	if err := json.Unmarshal(raw, &appearance); err != nil {
		return nil, fmt.Errorf("%w: decoding appearance: %v", ErrDatabaseError, err)
	}
	return &appearance, nil
}

func (r *settingRepository) SaveAppearance(ctx context.Context, appearance models.Appearance) error {
	raw, err := json.Marshal(appearance)
	if err != nil {
		return fmt.Errorf("%w: encoding appearance: %v", ErrDatabaseError, err)
	}
	query := `INSERT INTO app_settings (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, appearanceKey, string(raw)); err != nil {
		return wrapWriteError(err, "saving appearance")
	}
	return nil
}
