package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"gametask/internal/core/cache"
	"gametask/internal/domain"
	"gametask/pkg/utils"
)

// Profile 对外的身份投影，不含密码
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Birthday  time.Time `json:"birthday"`
	Exp       int64     `json:"exp"`
	Role      string    `json:"role"`
	Tasks     []string  `json:"tasks"`
	Friends   []string  `json:"friend_list"`
	CreatedAt time.Time `json:"createdAt"`
}

func loadProfile(ctx context.Context, s domain.Store, id string) (*Profile, error) {
	u, err := s.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	tasks, err := s.Tasks().IDsByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	friends, err := s.Friends().IDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Birthday:  u.Birthday,
		Exp:       u.Exp,
		Role:      u.Role,
		Tasks:     tasks,
		Friends:   friends,
		CreatedAt: u.CreatedAt,
	}, nil
}

// ProfileCache 身份投影的 redis 缓存；nil 或未配置时直接回源
type ProfileCache struct {
	c   *cache.Cache
	ttl time.Duration
	log *zap.Logger
}

func NewProfileCache(c *cache.Cache, ttl time.Duration, l *zap.Logger) *ProfileCache {
	if l == nil {
		l = zap.NewNop()
	}
	return &ProfileCache{c: c, ttl: ttl, log: l}
}

func profileKey(id string) string { return "user:" + id }

func (p *ProfileCache) Load(ctx context.Context, id string, load func(context.Context) (*Profile, error)) (*Profile, error) {
	if p == nil || p.c == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(p.c, ctx, profileKey(id), p.ttl, load)
}

// Put 写入刚提交的投影，覆盖并发回源可能写回的旧值
func (p *ProfileCache) Put(ctx context.Context, pr *Profile) {
	if p == nil || p.c == nil || pr == nil {
		return
	}
	if err := cache.SetJSON(p.c, ctx, profileKey(pr.ID), p.ttl, pr); err != nil {
		p.log.Warn("profile cache put failed", zap.String("id", pr.ID), zap.Error(err))
		p.Evict(ctx, pr.ID)
	}
}

func (p *ProfileCache) Evict(ctx context.Context, ids ...string) {
	if p == nil || p.c == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, profileKey(id))
	}
	if err := p.c.Del(ctx, keys...); err != nil {
		p.log.Warn("profile cache evict failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func requireID(id string) error {
	if !utils.IsValidID(strings.TrimSpace(id)) {
		return domain.ErrValidation
	}
	return nil
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
