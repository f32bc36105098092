package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gametask/internal/domain"
)

type FriendRepo struct{ db *gorm.DB }

func NewFriendRepo(db *gorm.DB) *FriendRepo { return &FriendRepo{db: db} }

func (r *FriendRepo) Link(ctx context.Context, a, b string) error {
	rows := []domain.Friendship{{UserID: a, FriendID: b}, {UserID: b, FriendID: a}}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *FriendRepo) Unlink(ctx context.Context, a, b string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&domain.Friendship{})
	return res.RowsAffected > 0, res.Error
}

func (r *FriendRepo) IDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Friendship{}).
		Where("user_id = ?", userID).Order("created_at, friend_id").Pluck("friend_id", &ids).Error
	return ids, err
}

func (r *FriendRepo) List(ctx context.Context, userID string) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.name, users.id").
		Find(&us).Error
	return us, err
}

func (r *FriendRepo) DeleteAll(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Delete(&domain.Friendship{}).Error
}
