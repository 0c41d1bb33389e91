package cli

import (
	"context"
	"os"

	"kanban-todo/internal/services"
)

// BackupCommand writes the server's export document to a file
type BackupCommand struct {
	app          *App
	auth         services.AuthService
	backups      services.BackupService
	errorHandler *ErrorHandler
}

// NewBackupCommand creates a new backup command handler
func NewBackupCommand(app *App) *BackupCommand {
	return &BackupCommand{
		app:          app,
		auth:         app.services.AuthService,
		backups:      app.services.BackupService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the backup command. An empty path uses the dated default
// file name; "-" writes to standard output.
func (c *BackupCommand) Execute(ctx context.Context, path string) error {
	if err := c.auth.RequireAdmin(ctx); err != nil {
		return c.errorHandler.Handle("back up", err)
	}

	if path == "-" {
		if err := c.backups.Backup(ctx, c.app.out); err != nil {
			return c.errorHandler.Handle("back up", err)
		}
		return nil
	}

	if path == "" {
		path = c.backups.FileName(timeNow())
	}
	f, err := os.Create(path)
	if err != nil {
		return c.errorHandler.Handle("back up", err)
	}
	if err := c.backups.Backup(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return c.errorHandler.Handle("back up", err)
	}
	if err := f.Close(); err != nil {
		return c.errorHandler.Handle("back up", err)
	}
	c.app.printf("Backup written to %s\n", path)
	return nil
}

// RestoreCommand replaces all server data with a backup file
type RestoreCommand struct {
	app          *App
	auth         services.AuthService
	backups      services.BackupService
	errorHandler *ErrorHandler
}

// NewRestoreCommand creates a new restore command handler
func NewRestoreCommand(app *App) *RestoreCommand {
	return &RestoreCommand{
		app:          app,
		auth:         app.services.AuthService,
		backups:      app.services.BackupService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the restore command
func (c *RestoreCommand) Execute(ctx context.Context, path string, yes bool) error {
	if err := c.auth.RequireAdmin(ctx); err != nil {
		return c.errorHandler.Handle("restore", err)
	}

	in, err := openInput(c.app, path)
	if err != nil {
		return c.errorHandler.Handle("restore", err)
	}
	defer in.Close()

	backup, err := c.backups.CheckBackup(in)
	if err != nil {
		return c.errorHandler.Handle("restore", err)
	}
	c.app.printf("Backup contains %s and %s.\n",
		formatCount(len(backup.Assignees), "assignee"), formatCount(len(backup.Todos), "todo"))
	if !yes && !c.app.confirm("All current data will be replaced. Continue?") {
		c.app.println("Cancelled")
		return nil
	}

	if err := c.backups.Restore(ctx, backup); err != nil {
		return c.errorHandler.Handle("restore", err)
	}
	c.app.println("Restore complete")
	return nil
}
