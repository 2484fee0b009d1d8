package appstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memGateway is an in-memory repositories.Gateway used to observe what the state persists.
type memGateway[T any] struct {
	mu        sync.Mutex
	rows      []T
	upserts   []T
	deletes   []string
	getErr    error
	upsertErr error
	deleteErr error
}

func (g *memGateway[T]) GetAll(context.Context) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return nil, g.getErr
	}
	return append([]T(nil), g.rows...), nil
}

func (g *memGateway[T]) Upsert(_ context.Context, item T) error {
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

type testGateways struct {
	clients      *memGateway[models.Client]
	appointments *memGateway[models.Appointment]
	transactions *memGateway[models.Transaction]
	packages     *memGateway[models.ProcedurePackage]
	deals        *memGateway[models.Deal]
	suppliers    *memGateway[models.Supplier]
	staff        *memGateway[models.User]
}

func newTestState() (*State, *testGateways) {
	tg := &testGateways{
		clients:      &memGateway[models.Client]{},
		appointments: &memGateway[models.Appointment]{},
		transactions: &memGateway[models.Transaction]{},
		packages:     &memGateway[models.ProcedurePackage]{},
		deals:        &memGateway[models.Deal]{},
		suppliers:    &memGateway[models.Supplier]{},
		staff:        &memGateway[models.User]{},
	}
	state := New(repositories.Gateways{
		Clients:      tg.clients,
		Appointments: tg.appointments,
		Transactions: tg.transactions,
		Packages:     tg.packages,
		Deals:        tg.deals,
		Suppliers:    tg.suppliers,
		Staff:        tg.staff,
	})
	return state, tg
}

func TestSave_NewRecordGetsIDAndIsRetrievable(t *testing.T) {
	state, tg := newTestState()
	ctx := context.Background()

	saved, err := state.Clients.Save(ctx, models.Client{Name: "Ana Souza", Status: models.ClientStatusLead})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, ok := state.Clients.Get(saved.ID)
	require.True(t, ok)
	assert.Equal(t, "Ana Souza", got.Name)
	require.Len(t, tg.clients.upserts, 1)
	assert.Equal(t, saved.ID, tg.clients.upserts[0].ID)
}

func TestSave_EditPreservesIDAndReplacesRecord(t *testing.T) {
	state, _ := newTestState()
	ctx := context.Background()

	first, err := state.Clients.Save(ctx, models.Client{Name: "Ana", Phone: "11999990000", Tags: []string{"vip"}})
	require.NoError(t, err)

	edited, err := state.Clients.Save(ctx, models.Client{ID: first.ID, Name: "Ana Lima"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, edited.ID)

	all := state.Clients.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Ana Lima", all[0].Name)
	assert.Empty(t, all[0].Phone, "save is a full replacement, not a merge")
	assert.Empty(t, all[0].Tags)
}

func TestSave_FailureLeavesStateUnchanged(t *testing.T) {
	state, tg := newTestState()
	ctx := context.Background()

	existing, err := state.Deals.Save(ctx, models.Deal{Title: "Harmonização", StageID: "new"})
	require.NoError(t, err)

	tg.deals.upsertErr = repositories.ErrDatabaseError
	_, err = state.Deals.Save(ctx, models.Deal{ID: existing.ID, Title: "Changed", StageID: "closed"})
	require.ErrorIs(t, err, repositories.ErrDatabaseError)
	_, err = state.Deals.Save(ctx, models.Deal{Title: "Another"})
	require.Error(t, err)

	all := state.Deals.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Harmonização", all[0].Title)
	assert.Equal(t, "new", all[0].StageID)
}

func TestSave_TransactionsArePrepended(t *testing.T) {
	state, _ := newTestState()
	ctx := context.Background()

	_, err := state.Transactions.Save(ctx, models.Transaction{Description: "first"})
	require.NoError(t, err)
	_, err = state.Transactions.Save(ctx, models.Transaction{Description: "second"})
	require.NoError(t, err)

	all := state.Transactions.All()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Description)
	assert.Equal(t, "first", all[1].Description)
}

func TestDelete(t *testing.T) {
	state, tg := newTestState()
	ctx := context.Background()

	s, err := state.Suppliers.Save(ctx, models.Supplier{Name: "Allergan"})
	require.NoError(t, err)

	tg.suppliers.deleteErr = repositories.ErrDatabaseError
	require.Error(t, state.Suppliers.Delete(ctx, s.ID))
	assert.Equal(t, 1, state.Suppliers.Len())

	tg.suppliers.deleteErr = nil
	require.NoError(t, state.Suppliers.Delete(ctx, s.ID))
	assert.Equal(t, 0, state.Suppliers.Len())
	assert.Equal(t, []string{s.ID}, tg.suppliers.deletes)
}

func TestUpdate(t *testing.T) {
	state, _ := newTestState()
	ctx := context.Background()

	a, err := state.Appointments.Save(ctx, models.Appointment{ClientID: "c1", Date: "2024-06-10", Time: "09:00"})
	require.NoError(t, err)

	updated, err := state.Appointments.Update(ctx, a.ID, func(app *models.Appointment) error {
		app.Time = "14:30"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "14:30", updated.Time)

	got, _ := state.Appointments.Get(a.ID)
	assert.Equal(t, "14:30", got.Time)

	_, err = state.Appointments.Update(ctx, "missing", func(*models.Appointment) error { return nil })
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdate_ConcurrentMutationsAreNotLost(t *testing.T) {
	state, tg := newTestState()
	ctx := context.Background()

	c, err := state.Clients.Save(ctx, models.Client{Name: "Ana"})
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := state.Clients.Update(ctx, c.ID, func(cl *models.Client) error {
				cl.Tags = append(cl.Tags, "x")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := state.Clients.Get(c.ID)
	assert.Len(t, got.Tags, writers)
	assert.Len(t, tg.clients.upserts, writers+1)
}

func TestAll_ReturnsCopies(t *testing.T) {
	state, _ := newTestState()
	ctx := context.Background()

	c, err := state.Clients.Save(ctx, models.Client{Name: "Bia", Tags: []string{"botox"}})
	require.NoError(t, err)

	all := state.Clients.All()
	all[0].Tags[0] = "mutated"

	got, _ := state.Clients.Get(c.ID)
	assert.Equal(t, []string{"botox"}, got.Tags)
}

func TestEnsureLoaded(t *testing.T) {
	state, tg := newTestState()
	ctx := context.Background()

	tg.clients.rows = []models.Client{{ID: "c1", Name: "Ana"}}
	tg.deals.rows = []models.Deal{{ID: "d1", Title: "Bioestimulador"}}
	tg.appointments.getErr = errors.New("connection refused")

	_, err := state.EnsureLoaded(ctx)
	require.Error(t, err)
	assert.False(t, state.Loaded())
	assert.Equal(t, 0, state.Clients.Len(), "partial loads are never installed")

	tg.appointments.getErr = nil
	loadedAt, err := state.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.False(t, loadedAt.IsZero())
	assert.True(t, state.Loaded())
	assert.Equal(t, 1, state.Clients.Len())
	assert.Equal(t, 1, state.Deals.Len())

	tg.clients.rows = nil
	again, err := state.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Equal(t, loadedAt, again)
	assert.Equal(t, 1, state.Clients.Len(), "second call does not reload")
}
