package handler

import (
	"errors"
	"net/http"

	"github.com/cuteblog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginPath = "/login"

// SlidingSession 每次带会话的请求都会重新下发 cookie，过期时间随活动顺延。
func SlidingSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(sessionUserIDKey).(uint); ok && id != 0 {
			session.Set(sessionUserIDKey, id)
			if err := session.Save(); err != nil {
				c.Error(err)
			}
		}
		c.Next()
	}
}

// AuthRequired 未登录时跳转到登录页。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentSessionUser(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 只放行具备管理权限的账号，角色以数据库中的最新值为准。
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUser, ok := currentSessionUser(c)
		if !ok {
			a.denyAccess(c)
			return
		}

		user, err := a.auth.GetUser(sessionUser.ID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				if err := destroySession(c); err != nil {
					c.Error(err)
				}
				a.denyAccess(c)
				return
			}
			a.renderServerError(c, "access", err)
			c.Abort()
			return
		}

		if !user.Role.CanManageBlog() {
			a.denyAccess(c)
			return
		}
		c.Next()
	}
}

func (a *API) denyAccess(c *gin.Context) {
	a.renderHTML(c, http.StatusForbidden, "access_denied.html", gin.H{
		"title": "Access denied",
	})
	c.Abort()
}

// ShowAccessDenied renders the standalone access denied page.
func (a *API) ShowAccessDenied(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "access_denied.html", gin.H{
		"title": "Access denied",
	})
}
