package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Authenticator verifies credentials against the backend and returns the auth identity.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (userID, userEmail string, err error)
}

// ProfileFinder reads the staff profile attached to an auth identity.
type ProfileFinder interface {
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
}

// --- AuthService Interface ---
type AuthService interface {
	LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID, email string) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	authenticator Authenticator
	profiles      ProfileFinder
	tokens        *utils.TokenIssuer
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authenticator Authenticator, profiles ProfileFinder, tokens *utils.TokenIssuer) AuthService {
	return &authService{authenticator: authenticator, profiles: profiles, tokens: tokens}
}

// LoginUser signs in, resolves the profile and issues an access token.
func (s *authService) LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	userID, authEmail, err := s.authenticator.SignIn(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) || errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if authEmail == "" {
		authEmail = email
	}

	user, err := s.GetUserProfile(ctx, userID, authEmail)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &AuthResponse{User: user, AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// GetUserProfile returns the stored profile, or a basic profile derived from the
// auth identity when none exists.
func (s *authService) GetUserProfile(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.profiles.FindUserByID(ctx, userID)
	if err == nil {
		if user.Email == "" {
			user.Email = email
		}
		if user.Role == "" {
			user.Role = models.RoleAttendant
		}
		if user.Avatar == "" {
			user.Avatar = avatarURL(user.Email)
		}
		user.PasswordHash = ""
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}

	utils.LogWarn(err, "AuthService: profile not found, using auth identity")
	return fallbackProfile(userID, email), nil
}

func fallbackProfile(userID, email string) *models.User {
	name := "Usuário"
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		name = local
	}
	return &models.User{
		ID:     userID,
		Name:   name,
		Email:  email,
		Role:   models.RoleAttendant,
		Active: true,
		Avatar: avatarURL(email),
	}
}

func avatarURL(email string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(email)
}

// HashPassword hashes a staff password for the postgres backend.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// passwordAuthenticator checks bcrypt hashes stored in the users table.
type passwordAuthenticator struct {
	authRepo repositories.AuthRepository
}

// NewPasswordAuthenticator authenticates against the local users table.
func NewPasswordAuthenticator(authRepo repositories.AuthRepository) Authenticator {
	return &passwordAuthenticator{authRepo: authRepo}
}

func (a *passwordAuthenticator) SignIn(ctx context.Context, email, password string) (string, string, error) {
	user, storedHashedPassword, err := a.authRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if storedHashedPassword == "" {
		return "", "", repositories.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHashedPassword), []byte(password)); err != nil {
		return "", "", repositories.ErrInvalidCredentials
	}
	return user.ID, user.Email, nil
}
