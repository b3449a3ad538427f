package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowRegister renders the registration form.
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
	})
}

// RegisterProcess 创建账号；用户名已存在时原样返回表单，不修改任何数据。
func (a *API) RegisterProcess(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid registration form.")
		return
	}

	form := gin.H{"username": input.Username, "email": input.Email}
	user, err := a.auth.Register(input)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
				"title":  "Register",
				"errors": fields,
				"form":   form,
			})
			return
		}
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
				"title":         "Register",
				"usernameError": "Username already taken",
				"form":          form,
			})
		case errors.Is(err, service.ErrEmailTaken):
			a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
				"title":      "Register",
				"emailError": "Email already registered",
				"form":       form,
			})
		default:
			a.renderServerError(c, "auth", err)
		}
		return
	}

	log.Printf("[auth] registered user %d (%s)", user.ID, user.Role)
	a.renderHTML(c, http.StatusOK, "confirmation.html", gin.H{
		"title":    "Registration complete",
		"messages": []string{"Success!", "Your account has been created.", "You can now log in."},
	})
}

// ShowLogin renders the login form.
func (a *API) ShowLogin(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Login",
	})
}

// LoginProcess 按用户名或邮箱登录，失败时不区分账号是否存在。
func (a *API) LoginProcess(c *gin.Context) {
	identifier := c.PostForm("input")
	password := c.PostForm("password")

	user, err := a.auth.Login(identifier, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			a.renderHTML(c, http.StatusUnauthorized, "confirmation.html", gin.H{
				"title":    "Login failed",
				"messages": []string{"Failure", "Login unsuccessful.", "Incorrect credentials, please try again."},
			})
			return
		}
		a.renderServerError(c, "auth", err)
		return
	}

	if err := startSession(c, user); err != nil {
		a.renderServerError(c, "auth", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "confirmation.html", gin.H{
		"title":       "Logged in",
		"messages":    []string{"Success!", "You are now logged in."},
		"currentUser": SessionUser{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role},
	})
}

// Logout 销毁会话后回到登录页。
func (a *API) Logout(c *gin.Context) {
	if err := destroySession(c); err != nil {
		c.Error(err)
	}
	c.Redirect(http.StatusFound, loginPath)
}
