package service

import (
	"fmt"
	"time"

	"github.com/cuteblog/internal/db"
	"gorm.io/gorm"
)

// CommentInput 评论表单。CommentUser 为自由填写的展示名。
type CommentInput struct {
	Text        string `form:"comment" validate:"required,max=5000"`
	CommentUser string `form:"commenter" validate:"required,max=100"`
}

// EngagementService 处理评论与点赞/点踩计数。计数不按用户去重。
type EngagementService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(gdb *gorm.DB) *EngagementService {
	return &EngagementService{db: gdb, now: utcNow}
}

// AddComment 为已存在的文章新增评论。
func (s *EngagementService) AddComment(postID uint, input CommentInput) (*db.Comment, error) {
	input.Text = sanitizeText(input.Text)
	input.CommentUser = sanitizeText(input.CommentUser)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:      postID,
		Text:        input.Text,
		CommentUser: input.CommentUser,
		CreatedAt:   s.now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findPost(tx, postID); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Like 点赞数加一。
func (s *EngagementService) Like(postID uint) (*db.Post, error) {
	return s.bump(postID, "likes")
}

// Dislike 点踩数加一。
func (s *EngagementService) Dislike(postID uint) (*db.Post, error) {
	return s.bump(postID, "dislikes")
}

func (s *EngagementService) bump(postID uint, column string) (*db.Post, error) {
	var post *db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := incrementCounter(tx, postID, column); err != nil {
			return err
		}
		var err error
		post, err = findPost(tx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func listComments(tx *gorm.DB, postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := tx.Where("post_id = ?", postID).
		Order("created_at desc, id desc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
