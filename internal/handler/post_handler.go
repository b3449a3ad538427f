package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
)

const authorHomePath = "/author/author-home"

// ShowAuthorHome 列出所有文章（含草稿）及评论数。
func (a *API) ShowAuthorHome(c *gin.Context) {
	summaries, err := a.posts.ListWithCommentCounts()
	if err != nil {
		a.renderServerError(c, "post", err)
		return
	}

	drafts := make([]service.PostSummary, 0, len(summaries))
	published := make([]service.PostSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary.IsPublished() {
			published = append(published, summary)
		} else {
			drafts = append(drafts, summary)
		}
	}

	a.renderHTML(c, http.StatusOK, "author_home.html", gin.H{
		"title":     "Author home",
		"drafts":    drafts,
		"published": published,
	})
}

// ShowCreatePost renders an empty post form.
func (a *API) ShowCreatePost(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "create_post.html", gin.H{
		"title": "New post",
	})
}

// CreatePostProcess stores a new draft owned by the session user.
func (a *API) CreatePostProcess(c *gin.Context) {
	user, ok := currentSessionUser(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	var input service.PostInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid post form.")
		return
	}

	post, err := a.posts.Create(user.ID, input)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			a.renderHTML(c, http.StatusBadRequest, "create_post.html", gin.H{
				"title":  "New post",
				"errors": fields,
				"form":   input,
			})
			return
		}
		a.renderServerError(c, "post", err)
		return
	}

	log.Printf("[post] user %d created draft %d", user.ID, post.ID)
	c.Redirect(http.StatusFound, authorHomePath)
}

// EditPost 只读取文章供编辑，不产生修改。
func (a *API) EditPost(c *gin.Context) {
	id, err := parseUintForm(c, "postid_for")
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "edit_post.html", gin.H{
		"title":  "Edit post",
		"postID": post.ID,
		"post":   post,
		"form":   service.PostInput{Title: post.Title, Subtitle: post.Subtitle, Content: post.Content},
	})
}

// UpdatePost 保存修改，上一版正文进入历史字段。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintForm(c, "postId")
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	var input service.PostInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid post form.")
		return
	}

	if _, err := a.posts.Update(id, input); err != nil {
		if fields, ok := validationFields(err); ok {
			a.renderHTML(c, http.StatusBadRequest, "edit_post.html", gin.H{
				"title":  "Edit post",
				"postID": id,
				"errors": fields,
				"form":   input,
			})
			return
		}
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authorHomePath)
}

// PublishPost moves a draft to published.
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "postId")
	if err != nil {
		a.renderNotFound(c, "Post not found.")
		return
	}

	if _, err := a.posts.Publish(id); err != nil {
		a.handlePostError(c, err)
		return
	}

	log.Printf("[post] published post %d", id)
	c.Redirect(http.StatusFound, authorHomePath)
}

// DeletePost removes a post regardless of its status.
func (a *API) DeletePost(c *gin.Context) {
	a.deletePost(c, "postid", a.posts.Delete)
}

// DeletePublishedPost removes a post only when it is published.
func (a *API) DeletePublishedPost(c *gin.Context) {
	a.deletePost(c, "_postid", a.posts.DeletePublished)
}

func (a *API) deletePost(c *gin.Context, field string, remove func(uint) error) {
	id, err := parseUintForm(c, field)
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	if err := remove(id); err != nil {
		a.handlePostError(c, err)
		return
	}

	log.Printf("[post] deleted post %d", id)
	c.Redirect(http.StatusFound, authorHomePath)
}

// VersionHistory 并排展示当前正文与上一版正文。
func (a *API) VersionHistory(c *gin.Context) {
	id, err := parseUintForm(c, "postid_")
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	revision, err := a.posts.History(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "version_history.html", gin.H{
		"title":    fmt.Sprintf("History of %s", revision.Post.Title),
		"revision": revision,
	})
}

// ShowAuthorSettings renders the blog settings form.
func (a *API) ShowAuthorSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		a.renderServerError(c, "settings", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "author_settings.html", gin.H{
		"title": "Blog settings",
		"form":  service.SettingsInput{Title: settings.Title, Subtitle: settings.Subtitle, Author: settings.Author},
	})
}

// UpdateSettings 三项均为必填，校验失败时带错误重新渲染。
func (a *API) UpdateSettings(c *gin.Context) {
	var input service.SettingsInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid settings form.")
		return
	}

	if _, err := a.settings.Update(input); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			a.renderHTML(c, http.StatusBadRequest, "author_settings.html", gin.H{
				"title":  "Blog settings",
				"errors": verr.Fields,
				"form":   input,
			})
			return
		}
		a.renderServerError(c, "settings", err)
		return
	}

	c.Redirect(http.StatusFound, "/author/author-settings")
}
