package services

import (
	"kanban-todo/internal/api"
	"kanban-todo/internal/config"
	"kanban-todo/internal/repository/sqlite"
)

// NewServiceContainer wires every service to one API client and local store
func NewServiceContainer(cfg *config.Config, repo sqlite.Repository, client api.API, sessions *SessionStore) *ServiceContainer {
	return &ServiceContainer{
		AuthService:     NewAuthService(client, sessions),
		BoardService:    NewBoardService(client),
		AssigneeService: NewAssigneeService(client),
		ImportService:   NewImportService(client, cfg.Import.Concurrency),
		BackupService:   NewBackupService(client),
		MinutesService:  NewMinutesService(client, cfg.Display.DateFormat),
		PlanService:     NewPlanService(repo, client, cfg.GetLayoutMode()),
	}
}
