package service

import (
	"context"
	"strings"
	"time"

	"gametask/internal/domain"
	"gametask/internal/repo"
	"gametask/pkg/utils"
)

type UserService struct {
	store    domain.Store
	profiles *ProfileCache
	now      func() time.Time
}

func NewUserService(store domain.Store, profiles *ProfileCache) *UserService {
	return &UserService{store: store, profiles: profiles, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Birthday string
}

// UpdateInput nil 表示不修改
type UpdateInput struct {
	Name        *string
	Email       *string
	Birthday    *string
	Password    *string
	OldPassword *string
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// parseBirthday 无法解析是校验错误，晚于今天是 Invalid birthday
func (s *UserService) parseBirthday(raw string) (time.Time, error) {
	b, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.Invalid(err)
	}
	if b.After(clock(s.now)()) {
		return time.Time{}, domain.ErrInvalidBirthday
	}
	return b, nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}
	birthday, err := s.parseBirthday(in.Birthday)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Birthday:     birthday,
		Role:         domain.RoleUser,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		// 并发注册同一邮箱
		if repo.IsDupKey(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return s.Profile(ctx, u.ID)
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrValidation
	}
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.Profile(ctx, u.ID)
}

func (s *UserService) Profile(ctx context.Context, id string) (*Profile, error) {
	return s.profiles.Load(ctx, id, func(ctx context.Context) (*Profile, error) {
		return loadProfile(ctx, s.store, id)
	})
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*Profile, error) {
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}

		fields := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrValidation
			}
			fields["name"] = name
		}
		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			if email == "" {
				return domain.ErrValidation
			}
			if email != u.Email {
				other, err := tx.Users().FindByEmail(ctx, email)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.ErrEmailTaken
				}
				fields["email"] = email
			}
		}
		if in.Birthday != nil {
			b, err := s.parseBirthday(*in.Birthday)
			if err != nil {
				return err
			}
			fields["birthday"] = b
		}
		switch {
		case in.OldPassword != nil:
			if !utils.CheckPassword(*in.OldPassword, u.PasswordHash) {
				return domain.ErrPasswordMismatch
			}
			if in.Password == nil || *in.Password == "" {
				return domain.ErrValidation
			}
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			fields["password_hash"] = hash
		case in.Password != nil:
			return domain.ErrValidation
		}

		if len(fields) == 0 {
			return nil
		}
		if err := tx.Users().Update(ctx, id, fields); err != nil {
			if repo.IsDupKey(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.profiles.Evict(ctx, id)
	return s.Profile(ctx, id)
}

// Delete 级联删除名下 todo、task 以及双向好友关系
func (s *UserService) Delete(ctx context.Context, id string) error {
	var friends []string
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if friends, err = tx.Friends().IDs(ctx, id); err != nil {
			return err
		}
		if err := tx.Todos().DeleteByOwner(ctx, id); err != nil {
			return err
		}
		if err := tx.Tasks().DeleteByOwner(ctx, id); err != nil {
			return err
		}
		if err := tx.Friends().DeleteAll(ctx, id); err != nil {
			return err
		}
		_, err = tx.Users().Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.profiles.Evict(ctx, append(friends, id)...)
	return nil
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Users().List(ctx, offset, limit, q)
}

// ResetExperience 管理端显式清零
func (s *UserService) ResetExperience(ctx context.Context, id string) (*Profile, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	ok, err := s.store.Users().ResetExperience(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	s.profiles.Evict(ctx, id)
	return s.Profile(ctx, id)
}
