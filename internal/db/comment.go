package db

import "time"

// Comment 记录文章评论。
// CommentUser 是评论者自填的展示名，并不关联 User。
type Comment struct {
	ID          uint      `gorm:"primaryKey"`
	PostID      uint      `gorm:"index;not null"`
	Post        *Post     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Text        string    `gorm:"type:text;not null"`
	CommentUser string    `gorm:"size:100;not null"`
	CreatedAt   time.Time `gorm:"index"`
}
