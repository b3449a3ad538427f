package handler

import (
	"github.com/cuteblog/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionEmailKey    = "email"
	sessionRoleKey     = "role"
)

// SessionUser is the identity carried in the signed session cookie.
type SessionUser struct {
	ID       uint
	Username string
	Email    string
	Role     db.Role
}

func currentSessionUser(c *gin.Context) (SessionUser, bool) {
	session := sessions.Default(c)
	id, ok := session.Get(sessionUserIDKey).(uint)
	if !ok || id == 0 {
		return SessionUser{}, false
	}

	user := SessionUser{ID: id}
	user.Username, _ = session.Get(sessionUsernameKey).(string)
	user.Email, _ = session.Get(sessionEmailKey).(string)
	if role, ok := session.Get(sessionRoleKey).(string); ok {
		user.Role = db.Role(role)
	}
	return user, true
}

func startSession(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	session.Set(sessionEmailKey, user.Email)
	session.Set(sessionRoleKey, string(user.Role))
	return session.Save()
}

// destroySession 清空会话并让浏览器立即丢弃 cookie；没有会话时同样安全。
func destroySession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
