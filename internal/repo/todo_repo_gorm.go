package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gametask/internal/domain"
)

type TodoRepo struct{ db *gorm.DB }

func NewTodoRepo(db *gorm.DB) *TodoRepo { return &TodoRepo{db: db} }

func (r *TodoRepo) Create(ctx context.Context, t *domain.Todo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TodoRepo) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	var t domain.Todo
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Todo{}).Where("id = ?", id).Updates(fields).Error
}

func (r *TodoRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Todo{})
	return res.RowsAffected > 0, res.Error
}

func (r *TodoRepo) DeleteByTask(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&domain.Todo{}).Error
}

func (r *TodoRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	owned := r.db.Model(&domain.Task{}).Select("id").Where("owner_id = ?", ownerID)
	return r.db.WithContext(ctx).Where("task_id IN (?)", owned).Delete(&domain.Todo{}).Error
}
