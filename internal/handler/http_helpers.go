package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
)

const genericErrorMessage = "Something went wrong. Please try again later."

func parseUintParam(c *gin.Context, key string) (uint, error) {
	return parseUint(c.Param(key), key)
}

func parseUintForm(c *gin.Context, key string) (uint, error) {
	return parseUint(c.PostForm(key), key)
}

func parseUint(raw, key string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func (a *API) renderNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "The page you are looking for does not exist."
	}
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"title":   "Not found",
		"message": message,
	})
}

func (a *API) renderBadRequest(c *gin.Context, message string) {
	a.renderHTML(c, http.StatusBadRequest, "error.html", gin.H{
		"title":   "Bad request",
		"message": message,
	})
}

// renderServerError 记录原始错误，页面只展示通用提示。
func (a *API) renderServerError(c *gin.Context, scope string, err error) {
	log.Printf("[%s] request %s failed: %v", scope, requestID(c), err)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Error",
		"message": genericErrorMessage,
	})
}

// handlePostError 把文章相关的服务层错误映射为页面响应。
func (a *API) handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		a.renderNotFound(c, "Post not found.")
	case errors.Is(err, service.ErrPostNotPublished):
		a.renderNotFound(c, "Post not found or not published.")
	default:
		a.renderServerError(c, "post", err)
	}
}

func validationFields(err error) (map[string]string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// NotFound renders the fallback page for unknown routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderNotFound(c, "")
}
