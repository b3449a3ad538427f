package db

import (
	"fmt"

	"gorm.io/gorm"
)

// SettingsRowID 是唯一设置行的主键。
const SettingsRowID = 1

const (
	DefaultBlogTitle    = "CuteBlog"
	DefaultBlogSubtitle = "Small stories, told gently"
	DefaultBlogAuthor   = "Admin"
)

// Setting 存储博客级别的标题、副标题与作者，整张表只有一行。
type Setting struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"size:200;not null"`
	Subtitle string `gorm:"size:300;not null"`
	Author   string `gorm:"size:100;not null"`
}

// TableName 自定义表名以保持命名一致。
func (Setting) TableName() string {
	return "settings"
}

// EnsureSettings 若设置行不存在则按默认值创建。
func EnsureSettings(gdb *gorm.DB) error {
	defaults := Setting{
		ID:       SettingsRowID,
		Title:    DefaultBlogTitle,
		Subtitle: DefaultBlogSubtitle,
		Author:   DefaultBlogAuthor,
	}
	var row Setting
	if err := gdb.Where(Setting{ID: SettingsRowID}).Attrs(defaults).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("ensure settings row: %w", err)
	}
	return nil
}
