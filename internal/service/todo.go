package service

import (
	"context"
	"strings"

	"gametask/internal/domain"
)

type TodoInput struct {
	TaskID      string
	Name        string
	Description string
}

type TodoUpdate struct {
	ID          string
	Name        *string
	Description *string
}

// TodoService 子项归属通过父任务的 owner 判断
type TodoService struct {
	store domain.Store
}

func NewTodoService(store domain.Store) *TodoService { return &TodoService{store: store} }

func ownedTodo(ctx context.Context, s domain.Store, owner, id string) (*domain.Todo, error) {
	td, err := s.Todos().FindByID(ctx, strings.ToLower(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if td == nil {
		return nil, domain.ErrTodoNotFound
	}
	if _, err := ownedTask(ctx, s, owner, td.TaskID); err != nil {
		if domainErr, ok := domain.AsError(err); ok && domainErr.Kind == domain.KindNotFound {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return td, nil
}

func (s *TodoService) Create(ctx context.Context, owner string, in TodoInput) (*domain.Todo, error) {
	if err := requireID(in.TaskID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrValidation
	}
	var td *domain.Todo
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		t, err := ownedTask(ctx, tx, owner, in.TaskID)
		if err != nil {
			return err
		}
		if !t.Active {
			return domain.ErrTaskInactive
		}
		td = &domain.Todo{TaskID: t.ID, Name: name, Description: strings.TrimSpace(in.Description)}
		return tx.Todos().Create(ctx, td)
	})
	if err != nil {
		return nil, err
	}
	return td, nil
}

func (s *TodoService) Get(ctx context.Context, owner, id string) (*domain.Todo, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return ownedTodo(ctx, s.store, owner, id)
}

func (s *TodoService) Update(ctx context.Context, owner string, in TodoUpdate) (*domain.Todo, error) {
	if err := requireID(in.ID); err != nil {
		return nil, err
	}
	var out *domain.Todo
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		td, err := ownedTodo(ctx, tx, owner, in.ID)
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
		if len(fields) > 0 {
			if err := tx.Todos().Update(ctx, td.ID, fields); err != nil {
				return err
			}
		}
		out, err = tx.Todos().FindByID(ctx, td.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TodoService) Delete(ctx context.Context, owner, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx domain.Store) error {
		td, err := ownedTodo(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		_, err = tx.Todos().Delete(ctx, td.ID)
		return err
	})
}
