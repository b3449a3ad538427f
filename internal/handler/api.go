package handler

import (
	"time"

	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	auth       *service.AuthService
	posts      *service.PostService
	engagement *service.EngagementService
	settings   *service.SettingsService
}

const blogSettingsContextKey = "__blog_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, creds *service.Credentials) *API {
	return &API{
		auth:       service.NewAuthService(gdb, creds),
		posts:      service.NewPostService(gdb),
		engagement: service.NewEngagementService(gdb),
		settings:   service.NewSettingsService(gdb),
	}
}

// Auth exposes the account service for bootstrap tasks such as admin seeding.
func (a *API) Auth() *service.AuthService {
	return a.auth
}

func (a *API) blogSettings(c *gin.Context) db.Setting {
	if cached, exists := c.Get(blogSettingsContextKey); exists {
		if settings, ok := cached.(db.Setting); ok {
			return settings
		}
	}

	fallback := db.Setting{
		ID:       db.SettingsRowID,
		Title:    db.DefaultBlogTitle,
		Subtitle: db.DefaultBlogSubtitle,
		Author:   db.DefaultBlogAuthor,
	}
	settings, err := a.settings.Get()
	if err != nil {
		c.Error(err)
		return fallback
	}

	c.Set(blogSettingsContextKey, *settings)
	return *settings
}

// renderHTML 渲染模板时自动附加博客设置、当前登录用户与年份。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["blog"]; !exists {
		payload["blog"] = a.blogSettings(c)
	}
	if _, exists := payload["currentUser"]; !exists {
		if user, ok := currentSessionUser(c); ok {
			payload["currentUser"] = user
		}
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().UTC().Year()
	}

	c.HTML(status, template, payload)
}
