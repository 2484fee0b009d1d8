package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clinic_crm_backend/internal/models"
)

// StaffRepository persists staff members. Staff and login profiles share the users table.
type StaffRepository interface {
	Gateway[models.User]
}

type staffRepository struct {
	db SQLExecutor
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

const userColumns = `id, name, email, role, avatar, active, specialty`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	var role string
	err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Avatar, &u.Active, &u.Specialty)
	u.Role = models.UserRole(role)
	return u, err
}

func (r *staffRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`
	staff, err := queryAll(ctx, r.db, query, scanUser)
	if err != nil {
		return nil, fmt.Errorf("getting staff: %w", err)
	}
	return staff, nil
}

// Upsert replaces the staff row. An empty PasswordHash keeps the stored one so that
// profile edits never wipe credentials.
func (r *staffRepository) Upsert(ctx context.Context, u models.User) error {
	query := `INSERT INTO users (id, name, email, role, avatar, active, specialty, password_hash)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET
	              name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
	              avatar = EXCLUDED.avatar, active = EXCLUDED.active, specialty = EXCLUDED.specialty,
	              password_hash = COALESCE(NULLIF(EXCLUDED.password_hash, ''), users.password_hash),
	              updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, strings.ToLower(u.Email), string(u.Role), u.Avatar, u.Active, u.Specialty, u.PasswordHash)
	if err != nil {
		return wrapWriteError(err, "upserting staff member "+u.ID)
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "users", id)
}
