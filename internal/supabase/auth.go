package supabase

import (
	"context"
	"fmt"
	"net/http"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

const profilesTable = "profiles"

// Auth signs users in through GoTrue and reads their profile rows.
type Auth struct {
	client *Client
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn verifies the credentials and returns the auth user's id and email.
func (a *Auth) SignIn(ctx context.Context, email, password string) (string, string, error) {
	var token tokenResponse
	resp, err := a.client.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetHeader("Content-Type", "application/json").
		SetBody(passwordGrant{Email: email, Password: password}).
		SetResult(&token).
		SetError(&apiError{}).
		Post("/auth/v1/token")
	if err == nil && (resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized) {
		return "", "", repositories.ErrInvalidCredentials
	}
	if err := checkResponse(resp, err, "signing in"); err != nil {
		return "", "", err
	}
	if token.User.ID == "" {
		return "", "", fmt.Errorf("%w: sign-in response carried no user", repositories.ErrDatabaseError)
	}
	return token.User.ID, token.User.Email, nil
}

// FindUserByID reads the profile row of an auth user.
func (a *Auth) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	var rows []models.User
	resp, err := a.client.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("id", "eq."+userID).
		SetResult(&rows).
		SetError(&apiError{}).
		Get("/rest/v1/" + profilesTable)
	if err := checkResponse(resp, err, "getting profile "+userID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &rows[0], nil
}

// NewStaffTable exposes the profiles table as the staff gateway.
func NewStaffTable(client *Client) *Table[models.User] {
	return NewTable(client, profilesTable, "name.asc", func(u models.User) string { return u.ID })
}
