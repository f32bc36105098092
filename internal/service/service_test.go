package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gametask/internal/repo"
	"gametask/internal/testutil"
	"gametask/pkg/utils"
)

func init() { utils.PasswordCost = bcrypt.MinCost }

type fixture struct {
	db     *gorm.DB
	store  *repo.Store
	users  *UserService
	tasks  *TaskService
	todos  *TodoService
	friend *FriendService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repo.NewStore(db)
	profiles := NewProfileCache(nil, 0, nil)
	return &fixture{
		db:     db,
		store:  store,
		users:  NewUserService(store, profiles),
		tasks:  NewTaskService(store, profiles),
		todos:  NewTodoService(store),
		friend: NewFriendService(store, profiles),
	}
}

func (f *fixture) register(t *testing.T, email string) *Profile {
	t.Helper()
	p, err := f.users.Register(context.Background(), RegisterInput{
		Name: "Player " + email, Email: email, Password: "secret", Birthday: "10/11/1995",
	})
	require.NoError(t, err)
	return p
}

// taskWithTodos 建一个任务并挂上 n 个子项
func (f *fixture) taskWithTodos(t *testing.T, owner string, due time.Time, n int) string {
	t.Helper()
	ctx := context.Background()
	task, err := f.tasks.Create(ctx, owner, TaskInput{Name: "task", DueDate: due.Format(time.RFC3339)})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := f.todos.Create(ctx, owner, TodoInput{TaskID: task.ID, Name: "todo"})
		require.NoError(t, err)
	}
	return task.ID
}
