package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

const (
	settingsTable = "app_settings"
	appearanceKey = "appearance"
)

// Settings implements repositories.SettingRepository on a key/value table.
type Settings struct {
	client *Client
}

func NewSettings(client *Client) *Settings {
	return &Settings{client: client}
}

var _ repositories.SettingRepository = (*Settings)(nil)

type settingRow struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (s *Settings) GetAppearance(ctx context.Context) (*models.Appearance, error) {
	var rows []settingRow
	resp, err := s.client.http.R().
		SetContext(ctx).
		SetQueryParam("select", "key,value").
		SetQueryParam("key", "eq."+appearanceKey).
		SetResult(&rows).
		SetError(&apiError{}).
		Get("/rest/v1/" + settingsTable)
	if err := checkResponse(resp, err, "getting appearance"); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	var appearance models.Appearance
	if err := json.Unmarshal(rows[0].Value, &appearance); err != nil {
		return nil, fmt.Errorf("%w: decoding appearance: %v", repositories.ErrDatabaseError, err)
	}
	return &appearance, nil
}

func (s *Settings) SaveAppearance(ctx context.Context, appearance models.Appearance) error {
	raw, err := json.Marshal(appearance)
	if err != nil {
		return fmt.Errorf("%w: encoding appearance: %v", repositories.ErrDatabaseError, err)
	}
	resp, err := s.client.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetQueryParam("on_conflict", "key").
		SetBody([]settingRow{{Key: appearanceKey, Value: raw}}).
		SetError(&apiError{}).
		Post("/rest/v1/" + settingsTable)
	return checkResponse(resp, err, "saving appearance")
}
