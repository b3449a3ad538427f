package db

import "time"

// PostStatus 文章状态，只允许 draft -> published。
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Post 定义了文章模型
// PostHistory 只保留上一版正文，每次编辑覆盖。
type Post struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Subtitle    string     `gorm:"size:300"`
	Content     string     `gorm:"type:text;not null"`
	UserID      uint       `gorm:"index;not null"`
	Status      PostStatus `gorm:"size:16;not null;default:draft;index"`
	Views       uint64     `gorm:"not null;default:0"`
	Likes       uint64     `gorm:"not null;default:0"`
	Dislikes    uint64     `gorm:"not null;default:0"`
	PostHistory *string    `gorm:"type:text"`
	CreatedAt   time.Time
	ModifiedAt  *time.Time
	PublishedAt *time.Time
}

// IsPublished 判断文章是否已发布。
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}
