package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanban-todo/internal/api"
	"kanban-todo/internal/api/apitest"
	"kanban-todo/internal/config"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/repository/sqlite"
	"kanban-todo/internal/services"
)

// testEnv runs commands against a fake server and an in-memory store.
type testEnv struct {
	srv      *apitest.Server
	repo     sqlite.Repository
	sessions *services.SessionStore
	client   *api.Client
	cfg      *config.Config
	app      *App
	out      *bytes.Buffer
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { timeNow = orig })

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Database.Dir = t.TempDir()

	sessions := services.NewSessionStore(repo)
	env := &testEnv{
		srv:      srv,
		repo:     repo,
		sessions: sessions,
		client:   api.New(srv.URL, sessions),
		cfg:      cfg,
		out:      &bytes.Buffer{},
	}
	env.rebuild()
	return env
}

// rebuild wires a fresh app after env.cfg changed.
func (e *testEnv) rebuild() {
	container := services.NewServiceContainer(e.cfg, e.repo, e.client, e.sessions)
	e.app = NewApp(container, e.cfg)
	e.input("")
}

// input sets what prompts will read.
func (e *testEnv) input(s string) {
	e.app.SetIO(strings.NewReader(s), e.out)
}

// loggedIn stores a valid token for username.
func (e *testEnv) loggedIn(t *testing.T, username string) *testEnv {
	t.Helper()
	err := e.sessions.Save(context.Background(), domain.Session{
		Token:    e.srv.IssueToken(username),
		Username: username,
		SavedAt:  timeNow(),
	})
	require.NoError(t, err)
	return e
}

// output returns and clears what commands printed.
func (e *testEnv) output() string {
	s := e.out.String()
	e.out.Reset()
	return s
}

func (e *testEnv) seedTodo(title string, status domain.TodoStatus, order int) domain.Todo {
	return e.srv.SeedTodo(domain.Todo{
		Title:     title,
		Status:    status,
		Priority:  domain.PriorityMedium,
		SortOrder: order,
	})
}

func (e *testEnv) todo(t *testing.T, id int64) domain.Todo {
	t.Helper()
	for _, td := range e.srv.Todos() {
		if td.ID == id {
			return td
		}
	}
	t.Fatalf("todo %d not on server", id)
	return domain.Todo{}
}
