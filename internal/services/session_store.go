package services

import (
	"context"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/repository/sqlite"
)

// SessionStore keeps the credential in the local database. It satisfies
// api.CredentialStore so the client reads the token from the same row the
// login command writes.
type SessionStore struct {
	repo   sqlite.Repository
	mapper *domain.SessionMapper
}

// NewSessionStore creates a session store over repo
func NewSessionStore(repo sqlite.Repository) *SessionStore {
	return &SessionStore{
		repo:   repo,
		mapper: domain.NewSessionMapper(),
	}
}

// Token returns the stored token, or "" when nobody is logged in
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil || session == nil {
		return "", err
	}
	return session.Token, nil
}

// Session returns the stored session, or nil when nobody is logged in
func (s *SessionStore) Session(ctx context.Context) (*domain.Session, error) {
	row, err := s.repo.GetSession(ctx)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	session := s.mapper.FromDatabase(*row)
	return &session, nil
}

// Save replaces the stored session
func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	row := s.mapper.ToDatabase(session)
	return s.repo.SaveSession(ctx, &row)
}

// Clear forgets the stored session
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.repo.ClearSession(ctx)
}
