package service

import (
	"errors"
	"fmt"

	"github.com/cuteblog/internal/db"
	"gorm.io/gorm"
)

// SettingsInput 用于更新博客设置，三项均为必填。
type SettingsInput struct {
	Title    string `form:"title" validate:"required,max=200"`
	Subtitle string `form:"subtitle" validate:"required,max=300"`
	Author   string `form:"author" validate:"required,max=100"`
}

// SettingsService 提供博客设置的读取与更新能力。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService。
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

// Get 读取唯一的设置行，缺失时按默认值补齐。
func (s *SettingsService) Get() (*db.Setting, error) {
	var row db.Setting
	err := s.db.First(&row, db.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.EnsureSettings(s.db); err != nil {
			return nil, err
		}
		err = s.db.First(&row, db.SettingsRowID).Error
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &row, nil
}

// Update 校验并保存博客设置。
func (s *SettingsService) Update(input SettingsInput) (*db.Setting, error) {
	input.Title = sanitizeText(input.Title)
	input.Subtitle = sanitizeText(input.Subtitle)
	input.Author = sanitizeText(input.Author)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if _, err := s.Get(); err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Setting{}).Where("id = ?", db.SettingsRowID).Updates(map[string]interface{}{
		"title":    input.Title,
		"subtitle": input.Subtitle,
		"author":   input.Author,
	}).Error; err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.Get()
}
