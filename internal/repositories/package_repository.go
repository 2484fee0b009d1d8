package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_crm_backend/internal/models"
)

// PackageRepository persists procedure packages (the clinic price list).
type PackageRepository interface {
	Gateway[models.ProcedurePackage]
}

type packageRepository struct {
	db SQLExecutor
}

// NewPackageRepository creates a new instance of PackageRepository.
func NewPackageRepository(db *sql.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetAll(ctx context.Context) ([]models.ProcedurePackage, error) {
	query := `SELECT id, name, description, price, sessions, installments FROM procedure_packages ORDER BY name`
	packages, err := queryAll(ctx, r.db, query, func(s scanner) (models.ProcedurePackage, error) {
		var p models.ProcedurePackage
		err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Sessions, &p.Installments)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting procedure packages: %w", err)
	}
	return packages, nil
}

func (r *packageRepository) Upsert(ctx context.Context, p models.ProcedurePackage) error {
	query := `INSERT INTO procedure_packages (id, name, description, price, sessions, installments)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET
	              name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
	              sessions = EXCLUDED.sessions, installments = EXCLUDED.installments`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Sessions, p.Installments)
	if err != nil {
		return wrapWriteError(err, "upserting procedure package "+p.ID)
	}
	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "procedure_packages", id)
}
