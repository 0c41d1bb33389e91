package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
)

const maxErrorBody = 4096

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client talks JSON to the remote API. Requests carry the stored bearer
// token; a 401 clears it. Nothing is retried.
type Client struct {
	baseURL string
	creds   CredentialStore
	http    *http.Client
}

var _ API = (*Client)(nil)

// New creates a client for baseURL. creds may be nil for anonymous use.
func New(baseURL string, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", body, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		if msg == "" {
			msg = "login failed"
		}
		return nil, errors.NewRemoteError("/login", resp.StatusCode, msg)
	}

	var out LoginResult
	if err := decode(resp.Body, "/login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/allTodos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, input TodoInput) (*domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPost, "/createTodo", input, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) EditTodo(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/editTodo/%d", id), patchBody(patch), &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/deleteTodo/%d", id), nil, nil)
}

func (c *Client) ReorderTodos(ctx context.Context, items []domain.SortOrderUpdate) error {
	body := struct {
		Items []domain.SortOrderUpdate `json:"items"`
	}{Items: items}
	return c.do(ctx, http.MethodPut, "/reorderTodos", body, nil)
}

func (c *Client) ListAssignees(ctx context.Context) ([]domain.Assignee, error) {
	var assignees []domain.Assignee
	if err := c.do(ctx, http.MethodGet, "/allAssignees", nil, &assignees); err != nil {
		return nil, err
	}
	return assignees, nil
}

func (c *Client) CreateAssignee(ctx context.Context, name, color string) (*domain.Assignee, error) {
	var a domain.Assignee
	body := map[string]string{"name": name, "color": color}
	if err := c.do(ctx, http.MethodPost, "/createAssignee", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) EditAssignee(ctx context.Context, id int64, name string) (*domain.Assignee, error) {
	var a domain.Assignee
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/editAssignee/%d", id), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAssignee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/deleteAssignee/%d", id), nil, nil)
}

func (c *Client) ExportData(ctx context.Context) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/exportData", nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) ImportData(ctx context.Context, doc json.RawMessage) error {
	return c.do(ctx, http.MethodPost, "/importData", doc, nil)
}

func (c *Client) ImportTodos(ctx context.Context, todos []json.RawMessage) (*ImportTodosResult, error) {
	body := domain.TodoImportFile{Todos: todos}
	var out ImportTodosResult
	if err := c.do(ctx, http.MethodPost, "/importTodos", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends an authenticated request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body, true)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearCredential(ctx, path)
		return errors.NewUnauthorizedError(path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewRemoteError(path, resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		return nil
	}
	return decode(resp.Body, path, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, auth bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewInvalidInputError("request body", path, err.Error())
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.NewNetworkError(path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if auth && c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	fields := log.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"duration": time.Since(start).Round(time.Millisecond),
	}

	if err != nil {
		logging.WithFields(fields).WithError(err).Debug("api request failed")
		if ctxErr := req.Context().Err(); stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError(req.URL.Path, ctxErr.Error())
		}
		return nil, errors.NewNetworkError(req.URL.Path, err)
	}

	fields["status"] = resp.StatusCode
	logging.WithFields(fields).Debug("api request")
	return resp, nil
}

func (c *Client) clearCredential(ctx context.Context, path string) {
	if c.creds == nil {
		return
	}
	if err := c.creds.Clear(ctx); err != nil {
		logging.WithFields(log.Fields{"path": path}).WithError(err).Warn("could not clear credential after 401")
	}
}

func decode(r io.Reader, path string, out interface{}) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return errors.WrapError(err, errors.ErrorTypeRemote, fmt.Sprintf("invalid response from %s", path)).
			WithContext("path", path)
	}
	return nil
}

// errorMessage pulls the server's message out of an error body. JSON bodies
// use "error" or "message"; anything else is returned as trimmed text.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
