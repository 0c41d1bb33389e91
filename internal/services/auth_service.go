package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/validation"
)

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	client    api.API
	sessions  *SessionStore
	validator *validation.Validator
	now       func() time.Time
}

// NewAuthService creates a new AuthService instance
func NewAuthService(client api.API, sessions *SessionStore) AuthService {
	return &authServiceImpl{
		client:    client,
		sessions:  sessions,
		validator: validation.NewValidator(),
		now:       time.Now,
	}
}

// Login authenticates against the server and stores the returned token
func (a *authServiceImpl) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	username = a.validator.TrimAndValidateString(username)
	if !a.validator.IsNonEmptyString(username) || password == "" {
		return nil, errors.NewValidationError("username and password are required", nil)
	}

	result, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	session := domain.Session{
		Token:    result.Token,
		Username: result.Username,
		SavedAt:  a.now(),
	}
	if session.Username == "" {
		session.Username = username
	}
	if err := a.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	logging.Debugf("logged in as %s", session.Username)
	return &session, nil
}

// Logout forgets the stored token. The server keeps no session to end.
func (a *authServiceImpl) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

// Current describes the stored session. Claims are read without verifying
// the signature since only the server holds the key.
func (a *authServiceImpl) Current(ctx context.Context) (*CurrentUser, error) {
	session, err := a.sessions.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsValid() {
		return nil, errors.NewUnauthorizedError("session")
	}

	user := &CurrentUser{
		Username: session.Username,
		SavedAt:  session.SavedAt,
		Admin:    session.IsAdmin(),
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.Token, claims); err != nil {
		logging.Debugf("token is not a readable JWT: %v", err)
		return user, nil
	}
	if sub, ok := claims["sub"].(string); ok {
		user.Subject = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt := time.Unix(int64(exp), 0)
		user.ExpiresAt = &expiresAt
	}
	return user, nil
}

// RequireAdmin fails unless the stored session belongs to the admin account
func (a *authServiceImpl) RequireAdmin(ctx context.Context) error {
	session, err := a.sessions.Session(ctx)
	if err != nil {
		return err
	}
	if session == nil || !session.IsValid() {
		return errors.NewUnauthorizedError("session")
	}
	if !session.IsAdmin() {
		return errors.NewPermissionError("admin operations", session.Username)
	}
	return nil
}
