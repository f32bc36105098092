package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametask/internal/domain"
	"gametask/internal/testutil"
)

func TestTodo_CreateKeepsTaskListInSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "todo@gametask.com")
	taskID := f.taskWithTodos(t, p.ID, time.Now().Add(time.Hour), 0)

	var ids []string
	for i := 0; i < 3; i++ {
		td, err := f.todos.Create(ctx, p.ID, TodoInput{TaskID: taskID, Name: "Test Todo", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, taskID, td.TaskID)
		ids = append(ids, td.ID)
	}
	task, err := f.tasks.Get(ctx, p.ID, taskID)
	require.NoError(t, err)
	assert.Equal(t, ids, task.TodoIDs())

	require.NoError(t, f.todos.Delete(ctx, p.ID, ids[0]))
	task, err = f.tasks.Get(ctx, p.ID, taskID)
	require.NoError(t, err)
	assert.Equal(t, ids[1:], task.TodoIDs())
	assert.Equal(t, int64(len(task.Todos)), testutil.CountTodos(t, f.db, taskID))
}

func TestTodo_CreateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "todoerr@gametask.com")
	taskID := f.taskWithTodos(t, p.ID, time.Now().Add(time.Hour), 0)

	_, err := f.todos.Create(ctx, p.ID, TodoInput{Name: "no task"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.todos.Create(ctx, p.ID, TodoInput{TaskID: taskID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.todos.Create(ctx, p.ID, TodoInput{TaskID: "5e533d45b8511c3e7aefa666", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	inactive := false
	_, err = f.tasks.Update(ctx, p.ID, TaskUpdate{ID: taskID, Active: &inactive})
	require.NoError(t, err)
	_, err = f.todos.Create(ctx, p.ID, TodoInput{TaskID: taskID, Name: "late"})
	assert.ErrorIs(t, err, domain.ErrTaskInactive)
}

func TestTodo_GetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "tgud@gametask.com")
	other := f.register(t, "tgud2@gametask.com")
	taskID := f.taskWithTodos(t, p.ID, time.Now().Add(time.Hour), 1)
	task, err := f.tasks.Get(ctx, p.ID, taskID)
	require.NoError(t, err)
	todoID := task.Todos[0].ID

	got, err := f.todos.Get(ctx, p.ID, todoID)
	require.NoError(t, err)
	assert.Equal(t, "todo", got.Name)

	_, err = f.todos.Get(ctx, other.ID, todoID)
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)
	_, err = f.todos.Get(ctx, p.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	upd, err := f.todos.Update(ctx, p.ID, TodoUpdate{ID: todoID, Name: strp("renamed"), Description: strp("more")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Name)
	assert.Equal(t, "more", upd.Description)

	assert.ErrorIs(t, f.todos.Delete(ctx, other.ID, todoID), domain.ErrTodoNotFound)
	require.NoError(t, f.todos.Delete(ctx, p.ID, todoID))
	assert.ErrorIs(t, f.todos.Delete(ctx, p.ID, todoID), domain.ErrTodoNotFound)
}
