package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_crm_backend/internal/models"
)

// SupplierRepository persists the supplier directory.
type SupplierRepository interface {
	Gateway[models.Supplier]
}

type supplierRepository struct {
	db SQLExecutor
}

// NewSupplierRepository creates a new instance of SupplierRepository.
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetAll(ctx context.Context) ([]models.Supplier, error) {
	query := `SELECT id, name, category, contact_person, phone, email, rating, last_order FROM suppliers ORDER BY name`
	suppliers, err := queryAll(ctx, r.db, query, func(s scanner) (models.Supplier, error) {
		var sp models.Supplier
		var category string
		err := s.Scan(&sp.ID, &sp.Name, &category, &sp.ContactPerson, &sp.Phone, &sp.Email, &sp.Rating, &sp.LastOrder)
		sp.Category = models.SupplierCategory(category)
		return sp, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) Upsert(ctx context.Context, sp models.Supplier) error {
	query := `INSERT INTO suppliers (id, name, category, contact_person, phone, email, rating, last_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET
	              name = EXCLUDED.name, category = EXCLUDED.category, contact_person = EXCLUDED.contact_person,
	              phone = EXCLUDED.phone, email = EXCLUDED.email, rating = EXCLUDED.rating,
	              last_order = EXCLUDED.last_order`
	_, err := r.db.ExecContext(ctx, query,
		sp.ID, sp.Name, string(sp.Category), sp.ContactPerson, sp.Phone, sp.Email, sp.Rating, sp.LastOrder)
	if err != nil {
		return wrapWriteError(err, "upserting supplier "+sp.ID)
	}
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "suppliers", id)
}
