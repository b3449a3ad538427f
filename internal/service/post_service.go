package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cuteblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPostNotPublished = errors.New("post not found or not published")
)

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string `form:"title" validate:"required,max=200"`
	Subtitle string `form:"subtitle" validate:"max=300"`
	Content  string `form:"content" validate:"required"`
}

// PostSummary 作者首页使用，附带评论数量。
type PostSummary struct {
	db.Post
	CommentCount int64
}

// PostView 阅读页所需的全部数据。
type PostView struct {
	Post         db.Post
	Comments     []db.Comment
	CommentCount int64
	Owner        *db.User
}

// PostRevision 当前正文与唯一保留的上一版正文。
type PostRevision struct {
	Post     db.Post
	Current  string
	Previous string
	HasPrior bool
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Create 新建草稿，状态显式写为 draft。
func (s *PostService) Create(userID uint, input PostInput) (*db.Post, error) {
	input = normalizePostInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		Content:   input.Content,
		UserID:    userID,
		Status:    db.StatusDraft,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Get fetches a post by id without side effects.
func (s *PostService) Get(id uint) (*db.Post, error) {
	return findPost(s.db, id)
}

// Update 两阶段更新：先把当前正文写入 PostHistory，再覆盖标题、副标题与正文。
// 两步在同一事务内完成。
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	input = normalizePostInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var updated db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findPost(tx, id)
		if err != nil {
			return err
		}

		modifiedAt := s.now()
		previous := existing.Content
		if err := tx.Model(&db.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
			"post_history": previous,
			"modified_at":  modifiedAt,
		}).Error; err != nil {
			return fmt.Errorf("save post history: %w", err)
		}

		if err := tx.Model(&db.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":       input.Title,
			"subtitle":    input.Subtitle,
			"content":     input.Content,
			"modified_at": modifiedAt,
		}).Error; err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		reloaded, err := findPost(tx, id)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Publish 将草稿发布；已发布的文章保持原发布时间不变。
func (s *PostService) Publish(id uint) (*db.Post, error) {
	result := s.db.Model(&db.Post{}).
		Where("id = ? AND status = ?", id, db.StatusDraft).
		Updates(map[string]interface{}{
			"status":       db.StatusPublished,
			"published_at": s.now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("publish post: %w", result.Error)
	}

	return findPost(s.db, id)
}

// Delete 无条件删除文章。
func (s *PostService) Delete(id uint) error {
	result := s.db.Delete(&db.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePublished 只删除已发布的文章。
func (s *PostService) DeletePublished(id uint) error {
	result := s.db.Where("status = ?", db.StatusPublished).Delete(&db.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete published post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotPublished
	}
	return nil
}

// View 读取文章、评论与作者，并把浏览量加一。每次调用都会计数。
func (s *PostService) View(id uint) (*PostView, error) {
	var view PostView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := incrementCounter(tx, id, "views"); err != nil {
			return err
		}

		post, err := findPost(tx, id)
		if err != nil {
			return err
		}
		view.Post = *post

		comments, err := listComments(tx, id)
		if err != nil {
			return err
		}
		view.Comments = comments
		view.CommentCount = int64(len(comments))

		var owner db.User
		if err := tx.First(&owner, post.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load post owner: %w", err)
			}
		} else {
			view.Owner = &owner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// History 返回当前正文与上一版正文。
func (s *PostService) History(id uint) (*PostRevision, error) {
	post, err := findPost(s.db, id)
	if err != nil {
		return nil, err
	}
	revision := &PostRevision{Post: *post, Current: post.Content}
	if post.PostHistory != nil {
		revision.Previous = *post.PostHistory
		revision.HasPrior = true
	}
	return revision, nil
}

// ListWithCommentCounts 列出全部文章及其评论数，按创建时间倒序。
func (s *PostService) ListWithCommentCounts() ([]PostSummary, error) {
	var posts []db.Post
	if err := s.db.Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	type countRow struct {
		PostID uint
		Total  int64
	}
	var rows []countRow
	if err := s.db.Model(&db.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, PostSummary{Post: post, CommentCount: counts[post.ID]})
	}
	return summaries, nil
}

// ListPublished 返回已发布文章，最新发布在前。
func (s *PostService) ListPublished() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("status = ?", db.StatusPublished).
		Order("published_at desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func normalizePostInput(input PostInput) PostInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Subtitle = strings.TrimSpace(input.Subtitle)
	if strings.TrimSpace(input.Content) == "" {
		input.Content = ""
	}
	return input
}

func findPost(tx *gorm.DB, id uint) (*db.Post, error) {
	var post db.Post
	if err := tx.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

func incrementCounter(tx *gorm.DB, id uint, column string) error {
	result := tx.Model(&db.Post{}).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Count returns the number of stored posts in any status.
func (s *PostService) Count() (int64, error) {
	var total int64
	if err := s.db.Model(&db.Post{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}
