package service

import (
	"context"
	"strings"
	"time"

	"gametask/internal/domain"
	"gametask/pkg/utils"
)

type TaskInput struct {
	Name        string
	Description string
	DueDate     string
}

type TaskUpdate struct {
	ID          string
	Name        *string
	Description *string
	DueDate     *string
	Active      *bool
}

type TaskService struct {
	store    domain.Store
	profiles *ProfileCache
}

func NewTaskService(store domain.Store, profiles *ProfileCache) *TaskService {
	return &TaskService{store: store, profiles: profiles}
}

func parseDue(raw string) (time.Time, error) {
	d, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.Invalid(err)
	}
	return d, nil
}

// ownedTask 不存在或不属于 owner 都按 Task not found 处理
func ownedTask(ctx context.Context, s domain.Store, owner, id string) (*domain.Task, error) {
	t, err := s.Tasks().FindByID(ctx, strings.ToLower(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if t == nil || t.OwnerID != owner {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, owner string, in TaskInput) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation
	}
	due, err := parseDue(in.DueDate)
	if err != nil {
		return nil, err
	}
	t := &domain.Task{
		OwnerID:     owner,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		DueDate:     due,
		Active:      true,
		Todos:       []domain.Todo{},
	}
	err = s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, owner)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		return tx.Tasks().Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.profiles.Evict(ctx, owner)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, owner, id string) (*domain.Task, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return ownedTask(ctx, s.store, owner, id)
}

func (s *TaskService) List(ctx context.Context, owner string) ([]domain.Task, error) {
	return s.store.Tasks().ListByOwner(ctx, owner)
}

func (s *TaskService) Update(ctx context.Context, owner string, in TaskUpdate) (*domain.Task, error) {
	if err := requireID(in.ID); err != nil {
		return nil, err
	}
	var out *domain.Task
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		t, err := ownedTask(ctx, tx, owner, in.ID)
		if err != nil {
			return err
		}
		fields := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrValidation
			}
			fields["name"] = name
		}
		if in.Description != nil {
			fields["description"] = strings.TrimSpace(*in.Description)
		}
		if in.DueDate != nil {
			due, err := parseDue(*in.DueDate)
			if err != nil {
				return err
			}
			fields["due_date"] = due
		}
		if in.Active != nil {
			fields["active"] = *in.Active
		}
		if len(fields) > 0 {
			if err := tx.Tasks().Update(ctx, t.ID, fields); err != nil {
				return err
			}
		}
		out, err = tx.Tasks().FindByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 同一事务内删掉子项，任务随之离开主人的任务列表
func (s *TaskService) Delete(ctx context.Context, owner, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		t, err := ownedTask(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		if err := tx.Todos().DeleteByTask(ctx, t.ID); err != nil {
			return err
		}
		_, err = tx.Tasks().Delete(ctx, t.ID)
		return err
	})
	if err != nil {
		return err
	}
	s.profiles.Evict(ctx, owner)
	return nil
}
