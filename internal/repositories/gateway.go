package repositories

import (
	"context"
	"database/sql"

	"clinic_crm_backend/internal/models"
)

// Gateway is the persistence contract every entity collection is loaded and saved through.
// Upsert fully replaces the record with the same id or inserts it; Delete is a hard delete.
type Gateway[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

// Gateways bundles the per-entity gateways the application state is loaded from.
type Gateways struct {
	Clients      Gateway[models.Client]
	Appointments Gateway[models.Appointment]
	Transactions Gateway[models.Transaction]
	Packages     Gateway[models.ProcedurePackage]
	Deals        Gateway[models.Deal]
	Suppliers    Gateway[models.Supplier]
	Staff        Gateway[models.User]
}

// NewPostgresGateways binds every entity collection to its PostgreSQL table.
func NewPostgresGateways(db *sql.DB) Gateways {
	return Gateways{
		Clients:      NewClientRepository(db),
		Appointments: NewAppointmentRepository(db),
		Transactions: NewTransactionRepository(db),
		Packages:     NewPackageRepository(db),
		Deals:        NewDealRepository(db),
		Suppliers:    NewSupplierRepository(db),
		Staff:        NewStaffRepository(db),
	}
}
