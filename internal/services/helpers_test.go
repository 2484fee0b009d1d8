package services

import (
	"context"
	"sync"
	"time"

	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

type memGateway[T any] struct {
	mu        sync.Mutex
	rows      []T
	upserts   []T
	deletes   []string
	upsertErr error
	deleteErr error
	// upsertDelay stretches Upsert to widen windows between concurrent writers.
	upsertDelay time.Duration
}

func (g *memGateway[T]) GetAll(context.Context) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]T(nil), g.rows...), nil
}

func (g *memGateway[T]) Upsert(_ context.Context, item T) error {
	if g.upsertDelay > 0 {
		time.Sleep(g.upsertDelay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.upsertErr != nil {
		return g.upsertErr
	}
	g.upserts = append(g.upserts, item)
	return nil
}

func (g *memGateway[T]) Delete(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletes = append(g.deletes, id)
	return nil
}

type fakeBackend struct {
	clients      *memGateway[models.Client]
	appointments *memGateway[models.Appointment]
	transactions *memGateway[models.Transaction]
	packages     *memGateway[models.ProcedurePackage]
	deals        *memGateway[models.Deal]
	suppliers    *memGateway[models.Supplier]
	staff        *memGateway[models.User]
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clients:      &memGateway[models.Client]{},
		appointments: &memGateway[models.Appointment]{},
		transactions: &memGateway[models.Transaction]{},
		packages:     &memGateway[models.ProcedurePackage]{},
		deals:        &memGateway[models.Deal]{},
		suppliers:    &memGateway[models.Supplier]{},
		staff:        &memGateway[models.User]{},
	}
}

func (b *fakeBackend) gateways() repositories.Gateways {
	return repositories.Gateways{
		Clients:      b.clients,
		Appointments: b.appointments,
		Transactions: b.transactions,
		Packages:     b.packages,
		Deals:        b.deals,
		Suppliers:    b.suppliers,
		Staff:        b.staff,
	}
}

// loadedState returns a state already loaded from the backend's rows.
func (b *fakeBackend) loadedState() *appstate.State {
	state := appstate.New(b.gateways())
	if err := state.Load(context.Background()); err != nil {
		panic(err)
	}
	return state
}

var testLoc = time.FixedZone("BRT", -3*60*60)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
