package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic_crm_backend/internal/appstate"
)

var ErrBackendUnavailable = errors.New("could not load clinic data from the backend")

// SessionInfo reports what the one-time session load brought in.
type SessionInfo struct {
	LoadedAt time.Time      `json:"loaded_at"`
	Counts   map[string]int `json:"counts"`
}

type SessionService interface {
	Bootstrap(ctx context.Context) (*SessionInfo, error)
	Loaded() bool
}

type sessionService struct {
	state *appstate.State
}

func NewSessionService(state *appstate.State) SessionService {
	return &sessionService{state: state}
}

// Bootstrap loads every collection the first time it is called and afterwards
// only reports the existing load. A failed load can be retried.
func (s *sessionService) Bootstrap(ctx context.Context) (*SessionInfo, error) {
	loadedAt, err := s.state.EnsureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return &SessionInfo{
		LoadedAt: loadedAt,
		Counts: map[string]int{
			s.state.Clients.Name():      s.state.Clients.Len(),
			s.state.Appointments.Name(): s.state.Appointments.Len(),
			s.state.Transactions.Name(): s.state.Transactions.Len(),
			s.state.Packages.Name():     s.state.Packages.Len(),
			s.state.Deals.Name():        s.state.Deals.Len(),
			s.state.Suppliers.Name():    s.state.Suppliers.Len(),
			s.state.Staff.Name():        s.state.Staff.Len(),
		},
	}, nil
}

func (s *sessionService) Loaded() bool {
	return s.state.Loaded()
}
