package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_crm_backend/internal/models"
)

// AppointmentRepository persists calendar entries.
type AppointmentRepository interface {
	Gateway[models.Appointment]
}

type appointmentRepository struct {
	db SQLExecutor
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	query := `SELECT id, client_id, professional_id, procedure, date, time, status, reminder_sent
	          FROM appointments ORDER BY date, time`
	appointments, err := queryAll(ctx, r.db, query, func(s scanner) (models.Appointment, error) {
		var a models.Appointment
		var status string
		err := s.Scan(&a.ID, &a.ClientID, &a.ProfessionalID, &a.Procedure, &a.Date, &a.Time, &status, &a.ReminderSent)
		a.Status = models.AppointmentStatus(status)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Upsert(ctx context.Context, a models.Appointment) error {
	query := `INSERT INTO appointments (id, client_id, professional_id, procedure, date, time, status, reminder_sent)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET
	              client_id = EXCLUDED.client_id, professional_id = EXCLUDED.professional_id,
	              procedure = EXCLUDED.procedure, date = EXCLUDED.date, time = EXCLUDED.time,
	              status = EXCLUDED.status, reminder_sent = EXCLUDED.reminder_sent, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ClientID, a.ProfessionalID, a.Procedure, a.Date, a.Time, string(a.Status), a.ReminderSent)
	if err != nil {
		return wrapWriteError(err, "upserting appointment "+a.ID)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "appointments", id)
}
