package domain

import "context"

// 约定：FindBy* 查不到时返回 (nil, nil)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// AddExperience 原子累加并返回更新后的用户；用户不存在返回 (nil, nil)
	AddExperience(ctx context.Context, id string, delta int64) (*User, error)
	ResetExperience(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	// FindByID 连同 Todos 一起加载
	FindByID(ctx context.Context, id string) (*Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type TodoRepository interface {
	Create(ctx context.Context, t *Todo) error
	FindByID(ctx context.Context, id string) (*Todo, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByTask(ctx context.Context, taskID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type FriendRepository interface {
	// Link 双向写入，已存在则忽略
	Link(ctx context.Context, a, b string) error
	// Unlink 双向删除，返回是否删到了东西
	Unlink(ctx context.Context, a, b string) (bool, error)
	IDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, userID string) ([]User, error)
	DeleteAll(ctx context.Context, userID string) error
}

// Store 聚合各仓储；Transaction 内拿到的 Store 全部走同一事务
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Todos() TodoRepository
	Friends() FriendRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
