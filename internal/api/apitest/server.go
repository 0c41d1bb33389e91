// Package apitest runs an in-memory kanban API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"kanban-todo/internal/domain"
)

// Secret signs the tokens issued by the fake server.
var Secret = []byte("apitest-secret")

// Request is one call seen by the server.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// Server is a fake remote API backed by maps. All exported knobs are safe
// to set before requests are made; use the methods afterwards.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]string
	tokens     map[string]string
	todos      map[int64]*domain.Todo
	assignees  map[int64]*domain.Assignee
	nextTodo   int64
	nextAssign int64
	failTitles map[string]bool
	requests   []Request
}

// NewServer starts a server with one "admin"/"admin" account.
func NewServer() *Server {
	s := &Server{
		users:      map[string]string{domain.AdminUsername: "admin"},
		tokens:     make(map[string]string),
		todos:      make(map[int64]*domain.Todo),
		assignees:  make(map[int64]*domain.Assignee),
		failTitles: make(map[string]bool),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)

	e.POST("/login", s.login)
	e.GET("/allAssignees", s.listAssignees)

	authed := e.Group("", s.requireToken)
	authed.GET("/allTodos", s.listTodos)
	authed.POST("/createTodo", s.createTodo)
	authed.PUT("/editTodo/:id", s.editTodo)
	authed.DELETE("/deleteTodo/:id", s.deleteTodo)
	authed.PUT("/reorderTodos", s.reorderTodos)
	authed.POST("/createAssignee", s.createAssignee)
	authed.PUT("/editAssignee/:id", s.editAssignee)
	authed.DELETE("/deleteAssignee/:id", s.deleteAssignee)
	authed.GET("/exportData", s.exportData)
	authed.POST("/importData", s.importData)
	authed.POST("/importTodos", s.importTodos)

	s.Server = httptest.NewServer(e)
	return s
}

// AddUser registers an account.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken returns a valid token for username without calling /login.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}

// ExpireTokens makes every issued token answer 401.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// FailCreate makes /createTodo answer 500 for the title.
func (s *Server) FailCreate(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTitles[title] = true
}

// SeedAssignee stores an assignee and returns it with its ID.
func (s *Server) SeedAssignee(name, color string) domain.Assignee {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAssign++
	a := &domain.Assignee{ID: s.nextAssign, Name: name, Color: color}
	s.assignees[a.ID] = a
	return *a
}

// SeedTodo stores a todo as given, assigning an ID.
func (s *Server) SeedTodo(t domain.Todo) domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTodo++
	t.ID = s.nextTodo
	s.todos[t.ID] = &t
	return s.withAssigneeLocked(t)
}

// Todos returns the stored todos ordered by status then sort order.
func (s *Server) Todos() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todosLocked()
}

// Assignees returns the stored assignees ordered by ID.
func (s *Server) Assignees() []domain.Assignee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assigneesLocked()
}

// Requests returns every recorded call.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent call.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = readAll(req)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			ContentType:   req.Header.Get(echo.HeaderContentType),
			Body:          string(body),
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
		}

		parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
		token, err := parser.Parse(raw, func(*jwt.Token) (interface{}, error) { return Secret, nil })
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}

		s.mu.Lock()
		_, known := s.tokens[raw]
		s.mu.Unlock()
		if !known {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
		}
		return next(c)
	}
}

func (s *Server) issueLocked(username string) string {
	claims := jwt.MapClaims{
		"sub": username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
		// distinguishes tokens issued within the same second
		"jti": strconv.Itoa(len(s.tokens) + 1),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret)
	if err != nil {
		panic(err)
	}
	s.tokens[signed] = username
	return signed
}

func (s *Server) login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.users[body.Username]; !ok || pw != body.Password {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": s.issueLocked(body.Username), "username": body.Username})
}

func (s *Server) listTodos(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Todos())
}

func (s *Server) createTodo(c echo.Context) error {
	var body struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Status      domain.TodoStatus   `json:"status"`
		Priority    domain.TodoPriority `json:"priority"`
		AssigneeID  *int64              `json:"assigneeId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTitles[body.Title] {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create todo"})
	}
	todo := s.createLocked(domain.Todo{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
	})
	return c.JSON(http.StatusCreated, todo)
}

func (s *Server) createLocked(t domain.Todo) domain.Todo {
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	maxOrder := -1
	for _, existing := range s.todos {
		if existing.Status == t.Status && existing.SortOrder > maxOrder {
			maxOrder = existing.SortOrder
		}
	}
	s.nextTodo++
	t.ID = s.nextTodo
	t.SortOrder = maxOrder + 1
	t.Assignee = nil
	s.todos[t.ID] = &t
	return s.withAssigneeLocked(t)
}

func (s *Server) editTodo(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	todo, ok := s.todos[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
	}
	for key, raw := range fields {
		switch key {
		case "title":
			_ = json.Unmarshal(raw, &todo.Title)
		case "description":
			_ = json.Unmarshal(raw, &todo.Description)
		case "status":
			_ = json.Unmarshal(raw, &todo.Status)
		case "priority":
			_ = json.Unmarshal(raw, &todo.Priority)
		case "assigneeId":
			todo.AssigneeID = nil
			_ = json.Unmarshal(raw, &todo.AssigneeID)
		}
	}
	return c.JSON(http.StatusOK, s.withAssigneeLocked(*todo))
}

func (s *Server) deleteTodo(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
	}
	delete(s.todos, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (s *Server) reorderTodos(c echo.Context) error {
	var body struct {
		Items []domain.SortOrderUpdate `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range body.Items {
		if todo, ok := s.todos[item.ID]; ok {
			todo.SortOrder = item.SortOrder
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": len(body.Items)})
}

func (s *Server) listAssignees(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Assignees())
}

func (s *Server) createAssignee(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAssign++
	a := &domain.Assignee{ID: s.nextAssign, Name: body.Name, Color: body.Color}
	s.assignees[a.ID] = a
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) editAssignee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignees[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "assignee not found"})
	}
	a.Name = body.Name
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAssignee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignees[id]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "assignee not found"})
	}
	delete(s.assignees, id)
	for _, t := range s.todos {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) exportData(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{
		"assignees": s.assigneesLocked(),
		"todos":     s.todosLocked(),
	})
}

func (s *Server) importData(c echo.Context) error {
	var body struct {
		Assignees []domain.Assignee `json:"assignees"`
		Todos     []domain.Todo     `json:"todos"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid backup"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignees = make(map[int64]*domain.Assignee)
	s.todos = make(map[int64]*domain.Todo)
	s.nextAssign, s.nextTodo = 0, 0
	for i := range body.Assignees {
		a := body.Assignees[i]
		s.assignees[a.ID] = &a
		if a.ID > s.nextAssign {
			s.nextAssign = a.ID
		}
	}
	for i := range body.Todos {
		t := body.Todos[i]
		t.Assignee = nil
		s.todos[t.ID] = &t
		if t.ID > s.nextTodo {
			s.nextTodo = t.ID
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "restored"})
}

func (s *Server) importTodos(c echo.Context) error {
	var body struct {
		Todos []domain.Todo `json:"todos"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid file"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := 0
	for _, t := range body.Todos {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		s.createLocked(domain.Todo{
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			AssigneeID:  t.AssigneeID,
		})
		created++
	}
	return c.JSON(http.StatusOK, echo.Map{"created": created})
}

func (s *Server) withAssigneeLocked(t domain.Todo) domain.Todo {
	t.Assignee = nil
	if t.AssigneeID != nil {
		if a, ok := s.assignees[*t.AssigneeID]; ok {
			copied := *a
			t.Assignee = &copied
		}
	}
	return t
}

func (s *Server) todosLocked() []domain.Todo {
	out := make([]domain.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, s.withAssigneeLocked(*t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) assigneesLocked() []domain.Assignee {
	out := make([]domain.Assignee, 0, len(s.assignees))
	for _, a := range s.assignees {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func readAll(req *http.Request) ([]byte, error) {
	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, err
}
