package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametask/internal/domain"
	"gametask/internal/repo"
	"gametask/internal/testutil"
)

func newUser(t *testing.T, s *repo.Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: email, Email: email, PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, s.Users().Create(context.Background(), u))
	require.Len(t, u.ID, 24)
	return u
}

func TestUserRepo_AddExperience(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	u := newUser(t, s, "exp@gametask.com")

	got, err := s.Users().AddExperience(ctx, u.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Exp)
	got, err = s.Users().AddExperience(ctx, u.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Exp)

	missing, err := s.Users().AddExperience(ctx, "5e533d45b8511c3e7aefa666", 10)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := s.Users().ResetExperience(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	again, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Exp)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	s := testutil.NewStore(t)
	newUser(t, s, "dup@gametask.com")
	err := s.Users().Create(context.Background(), &domain.User{Name: "b", Email: "dup@gametask.com", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, repo.IsDupKey(err))
	assert.False(t, repo.IsDupKey(nil))
	assert.False(t, repo.IsDupKey(errors.New("connection reset")))
}

func TestFriendRepo_LinkIsSymmetricAndIdempotent(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	a := newUser(t, s, "a@gametask.com")
	b := newUser(t, s, "b@gametask.com")

	require.NoError(t, s.Friends().Link(ctx, a.ID, b.ID))
	require.NoError(t, s.Friends().Link(ctx, b.ID, a.ID))

	ids, err := s.Friends().IDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids)
	ids, err = s.Friends().IDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids)

	removed, err := s.Friends().Unlink(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Friends().Unlink(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTaskRepo_TodosFollowForeignKey(t *testing.T) {
	db := testutil.NewDB(t)
	s := repo.NewStore(db)
	ctx := context.Background()
	u := newUser(t, s, "owner@gametask.com")
	task := &domain.Task{OwnerID: u.ID, Name: "t", DueDate: time.Now().Add(time.Hour), Active: true}
	require.NoError(t, s.Tasks().Create(ctx, task))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Todos().Create(ctx, &domain.Todo{TaskID: task.ID, Name: "td"}))
	}

	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Todos, 3)
	assert.Equal(t, int64(3), testutil.CountTodos(t, db, task.ID))

	require.NoError(t, s.Todos().DeleteByOwner(ctx, u.ID))
	got, err = s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Todos)
}

func TestTaskRepo_TodosInCreationOrder(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	u := newUser(t, s, "order@gametask.com")
	task := &domain.Task{OwnerID: u.ID, Name: "t", DueDate: time.Now().Add(time.Hour), Active: true}
	require.NoError(t, s.Tasks().Create(ctx, task))

	// id 的字典序与创建顺序相反
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"ffffffffffffffffffffffff", "888888888888888888888888", "000000000000000000000001"}
	for i, id := range ids {
		td := &domain.Todo{ID: id, TaskID: task.ID, Name: "td", CreatedAt: t0.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.Todos().Create(ctx, td))
	}

	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, got.TodoIDs())
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	u := newUser(t, s, "tx@gametask.com")

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().AddExperience(ctx, u.ID, 100); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Exp)
}
