// Package testutil 测试用的内存 SQLite 仓储
package testutil

import (
	"testing"

	"gorm.io/gorm"

	"gametask/internal/core/database"
	"gametask/internal/domain"
	"gametask/internal/repo"
	"gametask/pkg/utils"
)

// NewDB 每次调用一个独立的内存库
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + utils.NewID() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		tb.Fatalf("automigrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewStore(tb testing.TB) *repo.Store { return repo.NewStore(NewDB(tb)) }

// CountTodos 任务下实际存在的子项行数
func CountTodos(tb testing.TB, db *gorm.DB, taskID string) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(&domain.Todo{}).Where("task_id = ?", taskID).Count(&n).Error; err != nil {
		tb.Fatalf("count todos: %v", err)
	}
	return n
}

// AreFriends a 一侧是否存在指向 b 的好友行
func AreFriends(tb testing.TB, db *gorm.DB, a, b string) bool {
	tb.Helper()
	var n int64
	err := db.Model(&domain.Friendship{}).Where("user_id = ? AND friend_id = ?", a, b).Count(&n).Error
	if err != nil {
		tb.Fatalf("count friendships: %v", err)
	}
	return n > 0
}
