package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/validation"
)

// Column order of the row editor and of pasted spreadsheet rows
const (
	colTitle = iota
	colDescription
	colStatus
	colPriority
	colAssignee
)

// importServiceImpl implements the ImportService interface
type importServiceImpl struct {
	client      api.API
	concurrency int
	validator   *validation.ImportValidator
	todos       *validation.TodoValidator
}

// NewImportService creates a new ImportService; concurrency bounds the
// number of create requests in flight.
func NewImportService(client api.API, concurrency int) ImportService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &importServiceImpl{
		client:      client,
		concurrency: concurrency,
		validator:   validation.NewImportValidator(),
		todos:       validation.NewTodoValidator(),
	}
}

// ParseRows reads tab- or comma-separated rows in editor column order:
// title, description, status, priority, assignee. A leading header row is
// skipped. Assignees may be given by name or ID.
func (s *importServiceImpl) ParseRows(r io.Reader, assignees []domain.Assignee) ([]domain.ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot read rows: %v", err), err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot read rows: %v", err), err)
	}

	var rows []domain.ImportRow
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		row, err := s.parseRecord(rec, assignees)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("line %d: %s", i+1, errors.GetUserMessage(err)), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *importServiceImpl) parseRecord(rec []string, assignees []domain.Assignee) (domain.ImportRow, error) {
	row := domain.NewImportRow()
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	row.Title = field(colTitle)
	row.Description = field(colDescription)

	if v := field(colStatus); v != "" {
		status, err := s.todos.ParseStatus(v)
		if err != nil {
			return row, err
		}
		row.Status = status
	}
	if v := field(colPriority); v != "" {
		priority, err := s.todos.ParsePriority(v)
		if err != nil {
			return row, err
		}
		row.Priority = priority
	}
	if v := field(colAssignee); v != "" {
		id, err := resolveAssignee(v, assignees)
		if err != nil {
			return row, err
		}
		row.AssigneeID = &id
	}
	return row, nil
}

// SubmitRows creates every titled row concurrently. Failed rows are counted,
// not retried, and successful ones are not rolled back.
func (s *importServiceImpl) SubmitRows(ctx context.Context, rows []domain.ImportRow) (*domain.ImportResult, error) {
	valid, err := s.validator.SubmittableRows(rows)
	if err != nil {
		return nil, invalid(err, "no rows to import")
	}

	var (
		mu       sync.Mutex
		failed   int
		firstErr error
		created  = make([]*domain.Todo, len(valid))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, row := range valid {
		g.Go(func() error {
			todo, err := s.client.CreateTodo(gctx, api.TodoInput{
				Title:       row.Title,
				Description: strings.TrimSpace(row.Description),
				Status:      row.Status,
				Priority:    row.Priority,
				AssigneeID:  row.AssigneeID,
			})
			if err != nil {
				logging.Debugf("import row %q failed: %v", row.Title, err)
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			created[i] = todo
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.ImportResult{Submitted: len(valid), Failed: failed}
	for _, todo := range created {
		if todo != nil {
			result.Created = append(result.Created, *todo)
		}
	}

	if failed > 0 {
		return result, partialFailure(firstErr, failed, len(valid))
	}
	return result, nil
}

// CheckTodosFile parses a {"todos": [...]} document and counts the records
// that have a title. Nothing is sent.
func (s *importServiceImpl) CheckTodosFile(r io.Reader) (*domain.TodoImportFile, int, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, errors.NewValidationError("invalid file: not a JSON object", err)
	}
	todosRaw, ok := raw["todos"]
	if !ok {
		return nil, 0, errors.NewValidationError("invalid file: expected a JSON object with a todos array", nil)
	}

	var file domain.TodoImportFile
	if err := json.Unmarshal(todosRaw, &file.Todos); err != nil || file.Todos == nil {
		return nil, 0, errors.NewValidationError("invalid file: todos must be an array", err)
	}

	count := 0
	for _, rec := range file.Todos {
		var t struct {
			Title interface{} `json:"title"`
		}
		if json.Unmarshal(rec, &t) != nil {
			continue
		}
		if title, ok := t.Title.(string); ok && title != "" {
			count++
		}
	}
	if count == 0 {
		return nil, 0, errors.NewValidationError("no importable todos in file", nil)
	}
	return &file, count, nil
}

// ImportTodosFile posts a checked file to the server
func (s *importServiceImpl) ImportTodosFile(ctx context.Context, file *domain.TodoImportFile) (*api.ImportTodosResult, error) {
	if file == nil || len(file.Todos) == 0 {
		return nil, errors.NewValidationError("no importable todos in file", nil)
	}
	return s.client.ImportTodos(ctx, file.Todos)
}

// partialFailure reports the failed count; an expired session still reads
// as one.
func partialFailure(first error, failed, total int) error {
	message := fmt.Sprintf("%d of %d rows failed", failed, total)
	errorType := errors.ErrorTypeRemote
	if errors.IsErrorType(first, errors.ErrorTypeUnauthorized) {
		errorType = errors.ErrorTypeUnauthorized
	}
	wrapped := errors.WrapError(first, errorType, message)
	wrapped.Code = "PARTIAL_IMPORT"
	return wrapped.WithContext("failed", failed).WithContext("total", total)
}

// detectDelimiter picks tab when any line is tab-separated; a pasted sheet
// may start with a title-only row.
func detectDelimiter(data []byte) rune {
	if bytes.IndexByte(data, '\t') >= 0 {
		return '\t'
	}
	return ','
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	h := strings.ToLower(strings.TrimSpace(rec[0]))
	return h == "title" || h == "タイトル"
}

func resolveAssignee(v string, assignees []domain.Assignee) (int64, error) {
	for _, a := range assignees {
		if strings.EqualFold(a.Name, v) {
			return a.ID, nil
		}
	}
	if id, err := strconv.ParseInt(v, 10, 64); err == nil {
		for _, a := range assignees {
			if a.ID == id {
				return id, nil
			}
		}
	}
	return 0, errors.NewNotFoundError("assignee", v)
}
