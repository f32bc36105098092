package service

import (
	"context"
	"strings"

	"gametask/internal/domain"
)

type FriendView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

// FriendService 好友关系总是双向读写，同一事务内完成
type FriendService struct {
	store    domain.Store
	profiles *ProfileCache
}

func NewFriendService(store domain.Store, profiles *ProfileCache) *FriendService {
	return &FriendService{store: store, profiles: profiles}
}

func (s *FriendService) checkPair(uid, friendID string) error {
	if err := requireID(friendID); err != nil {
		return err
	}
	if strings.EqualFold(uid, strings.TrimSpace(friendID)) {
		return domain.ErrValidation
	}
	return nil
}

func bothExist(ctx context.Context, tx domain.Store, a, b string) error {
	for _, id := range []string{a, b} {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
	}
	return nil
}

func (s *FriendService) Add(ctx context.Context, uid, friendID string) error {
	if err := s.checkPair(uid, friendID); err != nil {
		return err
	}
	friendID = strings.ToLower(strings.TrimSpace(friendID))
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		if err := bothExist(ctx, tx, friendID, uid); err != nil {
			return err
		}
		return tx.Friends().Link(ctx, uid, friendID)
	})
	if err != nil {
		return err
	}
	s.profiles.Evict(ctx, uid, friendID)
	return nil
}

func (s *FriendService) Remove(ctx context.Context, uid, friendID string) error {
	if err := s.checkPair(uid, friendID); err != nil {
		return err
	}
	friendID = strings.ToLower(strings.TrimSpace(friendID))
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		if err := bothExist(ctx, tx, friendID, uid); err != nil {
			return err
		}
		removed, err := tx.Friends().Unlink(ctx, uid, friendID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.ErrNotFriends
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.profiles.Evict(ctx, uid, friendID)
	return nil
}

func (s *FriendService) List(ctx context.Context, uid string) ([]FriendView, error) {
	us, err := s.store.Friends().List(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]FriendView, 0, len(us))
	for _, u := range us {
		out = append(out, FriendView{ID: u.ID, Name: u.Name, Email: u.Email, Exp: u.Exp})
	}
	return out, nil
}
