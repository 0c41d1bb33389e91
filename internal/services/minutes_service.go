package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
)

const minutesRule = "========================================"

// minutesServiceImpl implements the MinutesService interface
type minutesServiceImpl struct {
	client     api.API
	dateFormat string
}

// NewMinutesService creates a MinutesService that prints dates with dateFormat
func NewMinutesService(client api.API, dateFormat string) MinutesService {
	if dateFormat == "" {
		dateFormat = "2006/1/2"
	}
	return &minutesServiceImpl{client: client, dateFormat: dateFormat}
}

// Render produces the minutes: a dated header, then every column with its
// numbered todos, then the optional memo.
func (s *minutesServiceImpl) Render(ctx context.Context, opts MinutesOptions) (string, error) {
	todos, err := s.client.ListTodos(ctx)
	if err != nil {
		return "", err
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	lines := []string{
		minutesRule,
		"  議事録 - " + date.Format(s.dateFormat),
		minutesRule,
		"",
	}

	for _, status := range domain.Statuses {
		column := columnTodos(todos, status, opts.Filter)
		lines = append(lines, fmt.Sprintf("--- %s (%d) ---", status.Label(), len(column)))
		if len(column) == 0 {
			lines = append(lines, "  (なし)")
		}
		for i, todo := range column {
			assignee := ""
			if todo.Assignee != nil {
				assignee = "[" + todo.Assignee.Name + "]"
			}
			lines = append(lines, fmt.Sprintf("  %d. (%s) %s %s", i+1, todo.Priority.Label(), todo.Title, assignee))
			if todo.Description != "" {
				lines = append(lines, "     "+todo.Description)
			}
		}
		lines = append(lines, "")
	}

	if memo := strings.TrimSpace(opts.Memo); memo != "" {
		lines = append(lines, "--- その他共有 ---", memo, "")
	}

	return strings.Join(lines, "\n"), nil
}

// FileName returns the download name used for the minutes of date
func (s *minutesServiceImpl) FileName(date time.Time) string {
	return "kanban_" + strings.ReplaceAll(date.Format(s.dateFormat), "/", "-") + ".txt"
}
