package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
)

// backupServiceImpl implements the BackupService interface
type backupServiceImpl struct {
	client api.API
}

// NewBackupService creates a new BackupService instance
func NewBackupService(client api.API) BackupService {
	return &backupServiceImpl{client: client}
}

// Backup writes the server's export, indented by two spaces
func (s *backupServiceImpl) Backup(ctx context.Context, w io.Writer) error {
	doc, err := s.client.ExportData(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return errors.WrapError(err, errors.ErrorTypeRemote, "server returned an invalid export")
	}
	buf.WriteByte('\n')

	if _, err := buf.WriteTo(w); err != nil {
		return errors.WrapError(err, errors.ErrorTypeInvalidInput, "cannot write backup")
	}
	return nil
}

// CheckBackup parses a backup document; both assignees and todos must be present
func (s *backupServiceImpl) CheckBackup(r io.Reader) (*domain.Backup, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.NewValidationError("invalid backup file: not a JSON object", err)
	}

	var backup domain.Backup
	for key, dst := range map[string]*[]json.RawMessage{
		"assignees": &backup.Assignees,
		"todos":     &backup.Todos,
	} {
		value, ok := raw[key]
		if !ok {
			return nil, errors.NewValidationError("invalid backup file: missing "+key, nil)
		}
		if err := json.Unmarshal(value, dst); err != nil || *dst == nil {
			return nil, errors.NewValidationError("invalid backup file: "+key+" must be an array", err)
		}
	}
	return &backup, nil
}

// Restore replaces all board data on the server
func (s *backupServiceImpl) Restore(ctx context.Context, backup *domain.Backup) error {
	if backup == nil {
		return errors.NewValidationError("invalid backup file", nil)
	}
	doc, err := json.Marshal(backup)
	if err != nil {
		return errors.NewValidationError("invalid backup file", err)
	}
	if err := s.client.ImportData(ctx, doc); err != nil {
		return err
	}
	logging.Debugf("restored %d assignees and %d todos", len(backup.Assignees), len(backup.Todos))
	return nil
}

// FileName returns the default backup file name for date
func (s *backupServiceImpl) FileName(date time.Time) string {
	return "kanban_backup_" + date.Format("2006-01-02") + ".json"
}
