// Package appstate holds the session-wide entity collections that every view
// reads from and persists through.
package appstate

import (
	"context"
	"sync"
	"time"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"

	"golang.org/x/sync/errgroup"
)

type State struct {
	Clients      *Collection[models.Client]
	Appointments *Collection[models.Appointment]
	Transactions *Collection[models.Transaction]
	Packages     *Collection[models.ProcedurePackage]
	Deals        *Collection[models.Deal]
	Suppliers    *Collection[models.Supplier]
	Staff        *Collection[models.User]

	loadMu   sync.Mutex
	loadedAt time.Time
	now      func() time.Time
}

func New(gw repositories.Gateways) *State {
	return &State{
		Clients: NewCollection("clients", gw.Clients,
			func(c models.Client) string { return c.ID },
			func(c *models.Client, id string) { c.ID = id },
			WithClone(models.Client.Clone)),
		Appointments: NewCollection("appointments", gw.Appointments,
			func(a models.Appointment) string { return a.ID },
			func(a *models.Appointment, id string) { a.ID = id }),
		Transactions: NewCollection("transactions", gw.Transactions,
			func(t models.Transaction) string { return t.ID },
			func(t *models.Transaction, id string) { t.ID = id },
			WithPrepend[models.Transaction]()),
		Packages: NewCollection("procedure_packages", gw.Packages,
			func(p models.ProcedurePackage) string { return p.ID },
			func(p *models.ProcedurePackage, id string) { p.ID = id }),
		Deals: NewCollection("deals", gw.Deals,
			func(d models.Deal) string { return d.ID },
			func(d *models.Deal, id string) { d.ID = id }),
		Suppliers: NewCollection("suppliers", gw.Suppliers,
			func(s models.Supplier) string { return s.ID },
			func(s *models.Supplier, id string) { s.ID = id }),
		Staff: NewCollection("staff", gw.Staff,
			func(u models.User) string { return u.ID },
			func(u *models.User, id string) { u.ID = id },
			WithClone(withoutPasswordHash)),
		now: time.Now,
	}
}

type fetcher interface {
	fetch(ctx context.Context) (func(), error)
}

// Load fetches every collection concurrently and installs the results only
// when all of them succeeded.
func (s *State) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

func (s *State) load(ctx context.Context) error {
	sources := []fetcher{s.Clients, s.Appointments, s.Transactions, s.Packages, s.Deals, s.Suppliers, s.Staff}
	commits := make([]func(), len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			commit, err := src.fetch(gctx)
			if err != nil {
				return err
			}
			commits[i] = commit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, commit := range commits {
		commit()
	}
	s.loadedAt = s.now()
	return nil
}

// EnsureLoaded performs the session load once. A failed load leaves the state
// unloaded so the next call tries again.
func (s *State) EnsureLoaded(ctx context.Context) (time.Time, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if !s.loadedAt.IsZero() {
		return s.loadedAt, nil
	}
	if err := s.load(ctx); err != nil {
		return time.Time{}, err
	}
	return s.loadedAt, nil
}

// Loaded reports whether a session load has completed.
func (s *State) Loaded() bool {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return !s.loadedAt.IsZero()
}

// Password hashes are written through to the gateway but never kept in memory.
func withoutPasswordHash(u models.User) models.User {
	u.PasswordHash = ""
	return u
}
