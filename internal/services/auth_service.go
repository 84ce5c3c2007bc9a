package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/pkg/jwt"
)

// UserStore is the persistence surface the auth service depends on
type UserStore interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// TokenPair is the credential set issued on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult bundles the authenticated account with its tokens
type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// AuthService handles login and token refresh for admin accounts
type AuthService struct {
	users  UserStore
	tokens *jwt.Service
	logger *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords return the same sentinel so callers cannot probe for
// registered addresses.
func (s *AuthService) Login(req *models.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(models.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")

	return &LoginResult{User: user, Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The account is
// reloaded so role and status changes take effect at rotation.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
