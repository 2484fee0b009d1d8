package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_crm_backend/internal/models"
)

// TransactionRepository persists the finance ledger.
type TransactionRepository interface {
	Gateway[models.Transaction]
}

type transactionRepository struct {
	db SQLExecutor
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// GetAll returns the ledger newest first, matching the order new rows are shown in.
func (r *transactionRepository) GetAll(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT id, type, category, description, value, date, status, payment_method, client_id
	          FROM transactions ORDER BY date DESC, created_at DESC`
	transactions, err := queryAll(ctx, r.db, query, func(s scanner) (models.Transaction, error) {
		var t models.Transaction
		var txType, status string
		var method sql.NullString
		err := s.Scan(&t.ID, &txType, &t.Category, &t.Description, &t.Value, &t.Date, &status, &method, &t.ClientID)
		t.Type = models.TransactionType(txType)
		t.Status = models.TransactionStatus(status)
		if method.Valid && method.String != "" {
			pm := models.PaymentMethod(method.String)
			t.PaymentMethod = &pm
		}
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Upsert(ctx context.Context, t models.Transaction) error {
	var method *string
	if t.PaymentMethod != nil {
		m := string(*t.PaymentMethod)
		method = &m
	}
	query := `INSERT INTO transactions (id, type, category, description, value, date, status, payment_method, client_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (id) DO UPDATE SET
	              type = EXCLUDED.type, category = EXCLUDED.category, description = EXCLUDED.description,
	              value = EXCLUDED.value, date = EXCLUDED.date, status = EXCLUDED.status,
	              payment_method = EXCLUDED.payment_method, client_id = EXCLUDED.client_id`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, string(t.Type), t.Category, t.Description, t.Value, t.Date, string(t.Status), method, t.ClientID)
	if err != nil {
		return wrapWriteError(err, "upserting transaction "+t.ID)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "transactions", id)
}
