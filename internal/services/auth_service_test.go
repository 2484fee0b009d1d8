package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthRepo struct {
	user *models.User
	hash string
	err  error
}

func (r *stubAuthRepo) FindUserByEmail(_ context.Context, email string) (*models.User, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	if r.user == nil || r.user.Email != email {
		return nil, "", repositories.ErrNotFound
	}
	u := *r.user
	return &u, r.hash, nil
}

func (r *stubAuthRepo) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.user == nil || r.user.ID != id {
		return nil, repositories.ErrNotFound
	}
	u := *r.user
	return &u, nil
}

func newTestIssuer(t *testing.T) *utils.TokenIssuer {
	t.Helper()
	issuer, err := utils.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestLoginUser_PasswordBackend(t *testing.T) {
	hash, err := HashPassword("segredo123")
	require.NoError(t, err)
	repo := &stubAuthRepo{user: &models.User{ID: "u1", Name: "Ana", Email: "ana@clinic.com", Role: models.RoleAdmin, Active: true}, hash: hash}
	issuer := newTestIssuer(t)
	svc := NewAuthService(NewPasswordAuthenticator(repo), repo, issuer)

	resp, err := svc.LoginUser(context.Background(), LoginRequest{Email: " ANA@clinic.com ", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := issuer.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = svc.LoginUser(context.Background(), LoginRequest{Email: "ana@clinic.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.LoginUser(context.Background(), LoginRequest{Email: "nobody@clinic.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_InactiveRejected(t *testing.T) {
	hash, err := HashPassword("segredo123")
	require.NoError(t, err)
	repo := &stubAuthRepo{user: &models.User{ID: "u1", Email: "ana@clinic.com", Role: models.RoleAdmin}, hash: hash}
	svc := NewAuthService(NewPasswordAuthenticator(repo), repo, newTestIssuer(t))

	_, err = svc.LoginUser(context.Background(), LoginRequest{Email: "ana@clinic.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

type stubAuthenticator struct {
	id, email string
}

func (a stubAuthenticator) SignIn(context.Context, string, string) (string, string, error) {
	return a.id, a.email, nil
}

func TestGetUserProfile_FallbackWhenMissing(t *testing.T) {
	svc := NewAuthService(stubAuthenticator{id: "auth-1", email: "maria@clinic.com"}, &stubAuthRepo{}, newTestIssuer(t))

	resp, err := svc.LoginUser(context.Background(), LoginRequest{Email: "maria@clinic.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "maria", resp.User.Name)
	assert.Equal(t, models.RoleAttendant, resp.User.Role)
	assert.Equal(t, "https://ui-avatars.com/api/?name=maria%40clinic.com", resp.User.Avatar)
}

func TestGetUserProfile_BackendError(t *testing.T) {
	svc := NewAuthService(stubAuthenticator{}, &stubAuthRepo{err: errors.New("down")}, newTestIssuer(t))
	_, err := svc.GetUserProfile(context.Background(), "u1", "a@b.com")
	assert.Error(t, err)
}
