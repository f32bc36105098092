package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gametask/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

// 子项按创建时间排序，同一时刻再按 id
func todosInOrder(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Omit("Todos").Create(t).Error
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).Preload("Todos", todosInOrder).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var ts []domain.Task
	err := r.db.WithContext(ctx).Preload("Todos", todosInOrder).
		Where("owner_id = ?", ownerID).Order("created_at, id").Find(&ts).Error
	return ts, err
}

func (r *TaskRepo) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("owner_id = ?", ownerID).Order("created_at, id").Pluck("id", &ids).Error
	return ids, err
}

func (r *TaskRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(fields).Error
}

func (r *TaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	return res.RowsAffected > 0, res.Error
}

func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Task{}).Error
}
