package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cuteblog/internal/config"
	"github.com/cuteblog/internal/handler"
	"github.com/cuteblog/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) (*gin.Engine, error) {
	r := gin.Default()

	// 加载内嵌模板并添加自定义函数
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(web.Templates, "template/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(handler.SecurityHeaders(), handler.RequestID())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store), handler.SlidingSession())

	// 静态文件服务
	r.Static("/css", filepath.Join(cfg.StaticDir, "css"))
	r.Static("/scripts", filepath.Join(cfg.StaticDir, "scripts"))
	r.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))

	// 注册与登录各自独立计数
	registerLimiter := handler.NewRateLimiter(cfg.AuthRateWindow, cfg.AuthRateMax, handler.RateLimitMessage)
	loginLimiter := handler.NewRateLimiter(cfg.AuthRateWindow, cfg.AuthRateMax, handler.RateLimitMessage)

	// 读者路由
	r.GET("/", api.ShowMainPage)
	r.GET("/about", api.ShowAbout)
	r.GET("/register", api.ShowRegister)
	r.POST("/register-process", registerLimiter.Middleware(), api.RegisterProcess)
	r.GET("/login", api.ShowLogin)
	r.POST("/login-process", loginLimiter.Middleware(), api.LoginProcess)
	r.GET("/DashBoard", handler.AuthRequired(), api.ShowDashboard)
	r.GET("/view-post/:postid", api.ViewPost)
	r.POST("/like-post", api.LikePost)
	r.POST("/dislike-post", api.DislikePost)
	r.POST("/add-comments", api.AddComment)

	// 作者路由
	author := r.Group("/author")
	{
		author.GET("/", handler.AuthRequired(), api.AdminRequired(), api.ShowAuthorHome)
		author.GET("/author-home", handler.AuthRequired(), api.AdminRequired(), api.ShowAuthorHome)

		admin := author.Group("")
		admin.Use(api.AdminRequired())
		{
			admin.GET("/create-post", api.ShowCreatePost)
			admin.POST("/create-post-process", api.CreatePostProcess)
			admin.POST("/edit-post", api.EditPost)
			admin.POST("/update-post", api.UpdatePost)
			admin.POST("/publish-post/:postId", api.PublishPost)
			admin.POST("/delete-post", api.DeletePost)
			admin.POST("/delete-publishedpost", api.DeletePublishedPost)
			admin.POST("/version-history", api.VersionHistory)
			admin.GET("/author-settings", api.ShowAuthorSettings)
			admin.POST("/update-settings", api.UpdateSettings)
		}
	}

	// 读者与作者共用的路由
	common := r.Group("/common")
	{
		common.GET("/logout", api.Logout)
		common.GET("/AccessDenied", api.ShowAccessDenied)

		account := common.Group("")
		account.Use(handler.AuthRequired())
		{
			account.GET("/user-profile", api.ShowUserProfile)
			account.POST("/user-settings", api.UpdateUserSettings)
			account.POST("/process-delete", api.ProcessDelete)
		}
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

func formatTime(value interface{}) string {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format("2 Jan 2006 15:04 UTC")
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatTime(*v)
	default:
		return ""
	}
}
