package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowUserProfile renders the account page of the session user.
func (a *API) ShowUserProfile(c *gin.Context) {
	user, ok := a.loadSessionAccount(c)
	if !ok {
		return
	}

	a.renderHTML(c, http.StatusOK, "user_profile.html", gin.H{
		"title":   "Your profile",
		"account": user,
		"form":    service.AccountInput{Username: user.Username, Email: user.Email},
	})
}

// UpdateUserSettings 修改用户名与邮箱，冲突或不合法时返回 400。
func (a *API) UpdateUserSettings(c *gin.Context) {
	user, ok := a.loadSessionAccount(c)
	if !ok {
		return
	}

	var input service.AccountInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid account form.")
		return
	}

	updated, err := a.auth.UpdateAccount(user.ID, input)
	if err != nil {
		fields, isValidation := validationFields(err)
		switch {
		case isValidation:
		case errors.Is(err, service.ErrUsernameTaken):
			fields = map[string]string{"username": "Username already taken"}
		case errors.Is(err, service.ErrEmailTaken):
			fields = map[string]string{"email": "Email already registered"}
		default:
			a.renderServerError(c, "account", err)
			return
		}
		a.renderHTML(c, http.StatusBadRequest, "user_profile.html", gin.H{
			"title":   "Your profile",
			"account": user,
			"errors":  fields,
			"form":    input,
		})
		return
	}

	if err := startSession(c, updated); err != nil {
		a.renderServerError(c, "account", err)
		return
	}
	c.Redirect(http.StatusFound, "/common/user-profile")
}

// ProcessDelete 删除账号后销毁会话。
func (a *API) ProcessDelete(c *gin.Context) {
	user, ok := a.loadSessionAccount(c)
	if !ok {
		return
	}

	if err := a.auth.DeleteAccount(user.ID); err != nil && !errors.Is(err, service.ErrUserNotFound) {
		a.renderServerError(c, "account", err)
		return
	}
	if err := destroySession(c); err != nil {
		a.renderServerError(c, "account", err)
		return
	}

	log.Printf("[account] deleted user %d", user.ID)
	a.renderHTML(c, http.StatusOK, "confirmation.html", gin.H{
		"title":       "Account deleted",
		"messages":    []string{"Goodbye!", "User account deleted successfully."},
		"currentUser": nil,
	})
}

// loadSessionAccount 读取会话对应的账号；账号已不存在时清理会话并跳转登录。
func (a *API) loadSessionAccount(c *gin.Context) (*db.User, bool) {
	sessionUser, ok := currentSessionUser(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		return nil, false
	}

	user, err := a.auth.GetUser(sessionUser.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			if err := destroySession(c); err != nil {
				c.Error(err)
			}
			c.Redirect(http.StatusFound, loginPath)
			return nil, false
		}
		a.renderServerError(c, "account", err)
		return nil, false
	}
	return user, true
}
