package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
)

func TestAssigneeService_CreateUsesPalette(t *testing.T) {
	env := setupEnv(t).loggedIn(t, "admin")
	service := NewAssigneeService(env.client)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		a, err := service.Create(ctx, " Person ")
		require.NoError(t, err)
		assert.Equal(t, "Person", a.Name)
		assert.Equal(t, domain.AssigneePalette[i%len(domain.AssigneePalette)], a.Color)
	}

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 9)
}

func TestAssigneeService_Validation(t *testing.T) {
	env := setupEnv(t).loggedIn(t, "admin")
	service := NewAssigneeService(env.client)
	ctx := context.Background()

	_, err := service.Create(ctx, "  ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, "name is required", errors.GetUserMessage(err))

	_, err = service.Rename(ctx, 1, "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	err = service.Delete(ctx, 0)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	assert.Zero(t, env.countRequests(http.MethodPost, "/createAssignee"))
}

func TestAssigneeService_RenameAndDelete(t *testing.T) {
	env := setupEnv(t).loggedIn(t, "admin")
	service := NewAssigneeService(env.client)
	ctx := context.Background()

	aki := env.srv.SeedAssignee("Aki", "#3B82F6")
	todo := env.srv.SeedTodo(domain.Todo{Title: "x", Status: domain.StatusTodo, Priority: domain.PriorityLow, AssigneeID: &aki.ID})

	renamed, err := service.Rename(ctx, aki.ID, " Akira ")
	require.NoError(t, err)
	assert.Equal(t, "Akira", renamed.Name)
	assert.Equal(t, "#3B82F6", renamed.Color)

	require.NoError(t, service.Delete(ctx, aki.ID))
	assert.Empty(t, env.srv.Assignees())
	assert.Nil(t, env.srv.Todos()[0].AssigneeID, "todo %d is unassigned", todo.ID)

	err = service.Delete(ctx, aki.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeRemote))
}
