package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanban-todo/internal/api"
	"kanban-todo/internal/api/apitest"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/repository/sqlite"
)

type testEnv struct {
	srv      *apitest.Server
	repo     sqlite.Repository
	sessions *SessionStore
	client   *api.Client
}

// setupEnv starts a fake server and an in-memory store with no session.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	sessions := NewSessionStore(repo)
	return &testEnv{
		srv:      srv,
		repo:     repo,
		sessions: sessions,
		client:   api.New(srv.URL, sessions),
	}
}

// loggedIn stores a valid token for username.
func (e *testEnv) loggedIn(t *testing.T, username string) *testEnv {
	t.Helper()
	err := e.sessions.Save(context.Background(), domain.Session{
		Token:    e.srv.IssueToken(username),
		Username: username,
		SavedAt:  time.Now(),
	})
	require.NoError(t, err)
	return e
}

func (e *testEnv) countRequests(method, path string) int {
	n := 0
	for _, r := range e.srv.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func seedTodo(e *testEnv, title string, status domain.TodoStatus, order int) domain.Todo {
	return e.srv.SeedTodo(domain.Todo{
		Title:     title,
		Status:    status,
		Priority:  domain.PriorityMedium,
		SortOrder: order,
	})
}

func ids(todos []domain.Todo) []int64 {
	out := make([]int64, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}
