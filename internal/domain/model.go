package domain

import (
	"time"

	"gorm.io/gorm"

	"gametask/pkg/utils"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 即身份（identity）；Exp 只由计分和管理端重置修改
type User struct {
	ID           string    `gorm:"primaryKey;type:char(24)" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Birthday     time.Time `json:"birthday"`
	Exp          int64     `gorm:"not null;default:0" json:"exp"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	Tasks        []Task    `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return nil
}

type Task struct {
	ID          string    `gorm:"primaryKey;type:char(24)"`
	OwnerID     string    `gorm:"index;type:char(24);not null"`
	Name        string    `gorm:"size:128;not null"`
	Description string    `gorm:"size:1024"`
	DueDate     time.Time `gorm:"index"`
	Active      bool      `gorm:"not null"`
	Todos       []Todo    `gorm:"foreignKey:TaskID"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	return nil
}

// TodoIDs 按创建顺序返回子项 ID
func (t *Task) TodoIDs() []string {
	ids := make([]string, 0, len(t.Todos))
	for _, td := range t.Todos {
		ids = append(ids, td.ID)
	}
	return ids
}

// Late 截止时间早于 now 即视为逾期；未设置截止时间永不逾期
func (t *Task) Late(now time.Time) bool {
	return !t.DueDate.IsZero() && t.DueDate.Before(now)
}

type Todo struct {
	ID          string    `gorm:"primaryKey;type:char(24)"`
	TaskID      string    `gorm:"index;type:char(24);not null"`
	Name        string    `gorm:"size:128;not null"`
	Description string    `gorm:"size:1024"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Todo) TableName() string { return "todos" }

func (t *Todo) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	return nil
}

// Friendship 单向一行；好友关系总是成对写入
type Friendship struct {
	UserID    string    `gorm:"primaryKey;type:char(24)"`
	FriendID  string    `gorm:"primaryKey;type:char(24)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Friendship) TableName() string { return "friendships" }

// Models 自动迁移用
func Models() []any {
	return []any{&User{}, &Task{}, &Todo{}, &Friendship{}}
}
