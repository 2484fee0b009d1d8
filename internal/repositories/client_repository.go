package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clinic_crm_backend/internal/models"

	"github.com/lib/pq"
)

// ClientRepository persists patients. Clinical history travels as a JSONB document.
type ClientRepository interface {
	Gateway[models.Client]
}

type clientRepository struct {
	db SQLExecutor
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, cpf, birth_date, phone, email, address, clinical_notes, clinical_history,
	lgpd_consent, lgpd_timestamp, status, source, tags, last_procedure, total_spent, photo_url`

func (r *clientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`
	clients, err := queryAll(ctx, r.db, query, scanClient)
	if err != nil {
		return nil, fmt.Errorf("getting clients: %w", err)
	}
	return clients, nil
}

// Upsert inserts the client or fully replaces the row with the same id.
func (r *clientRepository) Upsert(ctx context.Context, client models.Client) error {
	history := client.ClinicalHistory
	if history == nil {
		history = []models.ClinicalRecord{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("%w: encoding clinical history: %v", ErrDatabaseError, err)
	}
	tags := client.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `INSERT INTO clients (` + clientColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          ON CONFLICT (id) DO UPDATE SET
	              name = EXCLUDED.name, cpf = EXCLUDED.cpf, birth_date = EXCLUDED.birth_date,
	              phone = EXCLUDED.phone, email = EXCLUDED.email, address = EXCLUDED.address,
	              clinical_notes = EXCLUDED.clinical_notes, clinical_history = EXCLUDED.clinical_history,
	              lgpd_consent = EXCLUDED.lgpd_consent, lgpd_timestamp = EXCLUDED.lgpd_timestamp,
	              status = EXCLUDED.status, source = EXCLUDED.source, tags = EXCLUDED.tags,
	              last_procedure = EXCLUDED.last_procedure, total_spent = EXCLUDED.total_spent,
	              photo_url = EXCLUDED.photo_url, updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.CPF, client.BirthDate, client.Phone, client.Email, client.Address,
		client.ClinicalNotes, string(historyJSON), client.LGPDConsent, client.LGPDTimestamp,
		string(client.Status), string(client.Source), pq.Array(tags), client.LastProcedure,
		client.TotalSpent, client.PhotoURL,
	)
	if err != nil {
		return wrapWriteError(err, "upserting client "+client.ID)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "clients", id)
}

func scanClient(s scanner) (models.Client, error) {
	var c models.Client
	var historyJSON []byte
	var status, source string
	var tags pq.StringArray
	err := s.Scan(
		&c.ID, &c.Name, &c.CPF, &c.BirthDate, &c.Phone, &c.Email, &c.Address, &c.ClinicalNotes,
		&historyJSON, &c.LGPDConsent, &c.LGPDTimestamp, &status, &source, &tags,
		&c.LastProcedure, &c.TotalSpent, &c.PhotoURL,
	)
	if err != nil {
		return c, err
	}
	c.Status = models.ClientStatus(status)
	c.Source = models.LeadSource(source)
	c.Tags = []string(tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.ClinicalHistory = []models.ClinicalRecord{}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &c.ClinicalHistory); err != nil {
			return c, fmt.Errorf("decoding clinical history of client %s: %v", c.ID, err)
		}
	}
	return c, nil
}
