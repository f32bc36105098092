package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"gametask/internal/domain"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository     { return NewUserRepo(s.db) }
func (s *Store) Tasks() domain.TaskRepository     { return NewTaskRepo(s.db) }
func (s *Store) Todos() domain.TodoRepository     { return NewTodoRepo(s.db) }
func (s *Store) Friends() domain.FriendRepository { return NewFriendRepo(s.db) }

func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(domain.Models()...) }

// IsDupKey 唯一约束冲突
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	// 不依赖 gorm.ErrDuplicatedKey（需要 TranslateError）
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
