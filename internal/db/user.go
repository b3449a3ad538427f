package db

import "time"

// Role 描述账号的能力等级。
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// ParseRole 解析角色字符串，未知值返回 false。
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleAuthor, RoleReader:
		return Role(raw), true
	}
	return "", false
}

// CanManageBlog reports whether the role may run author-only operations.
func (r Role) CanManageBlog() bool {
	return r == RoleAdmin
}

// User 定义了用户模型
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"size:64;uniqueIndex;not null"`
	Password  string    `gorm:"not null" json:"-"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Role      Role      `gorm:"size:16;not null;default:reader"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
