package services

import (
	"context"
	"testing"

	"clinic_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSaveStaff_HashesPasswordOnlyOnTheWay(t *testing.T) {
	backend := newFakeBackend()
	svc := NewStaffService(backend.loadedState())

	user, err := svc.SaveStaff(context.Background(), "", SaveStaffRequest{Name: "Carla", Email: "Carla@Clinic.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "carla@clinic.com", user.Email)
	assert.Equal(t, models.RoleAttendant, user.Role)
	assert.True(t, user.Active)
	assert.Empty(t, user.PasswordHash)

	require.Len(t, backend.staff.upserts, 1)
	stored := backend.staff.upserts[0].PasswordHash
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("segredo123")))

	for _, u := range svc.ListStaff() {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestSaveStaff_Validation(t *testing.T) {
	backend := newFakeBackend()
	backend.staff.rows = []models.User{{ID: "u1", Name: "Ana", Email: "ana@clinic.com", Role: models.RoleAdmin, Active: true}}
	svc := NewStaffService(backend.loadedState())

	_, err := svc.SaveStaff(context.Background(), "", SaveStaffRequest{Name: "Outra", Email: "ANA@clinic.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.SaveStaff(context.Background(), "", SaveStaffRequest{Name: "B", Email: "b@clinic.com", Role: "OWNER"})
	assert.ErrorIs(t, err, ErrStaffValidation)

	_, err = svc.SaveStaff(context.Background(), "", SaveStaffRequest{Name: "B", Email: "b@clinic.com", Password: "curta"})
	assert.ErrorIs(t, err, ErrStaffValidation)

	inactive := false
	user, err := svc.SaveStaff(context.Background(), "u1", SaveStaffRequest{Name: "Ana", Email: "ana@clinic.com", Role: models.RoleAdmin, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, user.Active)
}

func TestDeleteStaff(t *testing.T) {
	backend := newFakeBackend()
	backend.staff.rows = []models.User{{ID: "u1", Name: "Ana"}}
	svc := NewStaffService(backend.loadedState())

	require.NoError(t, svc.DeleteStaff(context.Background(), "u1"))
	assert.ErrorIs(t, svc.DeleteStaff(context.Background(), "u1"), ErrStaffNotFound)
}
