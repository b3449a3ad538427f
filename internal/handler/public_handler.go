package handler

import (
	"fmt"
	"net/http"

	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowMainPage renders the landing page with the latest published posts.
func (a *API) ShowMainPage(c *gin.Context) {
	posts, err := a.posts.ListPublished()
	if err != nil {
		a.renderServerError(c, "post", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "mainpage.html", gin.H{
		"title": "Welcome",
		"posts": posts,
	})
}

// ShowAbout renders the about page.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "About the developer",
	})
}

// ShowDashboard 登录后的读者首页：已发布文章按发布时间倒序。
func (a *API) ShowDashboard(c *gin.Context) {
	posts, err := a.posts.ListPublished()
	if err != nil {
		a.renderServerError(c, "post", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title": "Dashboard",
		"posts": posts,
	})
}

// ViewPost 每次打开都会让浏览量加一。
func (a *API) ViewPost(c *gin.Context) {
	id, err := parseUintParam(c, "postid")
	if err != nil {
		a.renderNotFound(c, "Post not found.")
		return
	}

	view, err := a.posts.View(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	content, err := renderMarkdown(view.Post.Content)
	if err != nil {
		a.renderServerError(c, "post", err)
		return
	}

	data := gin.H{
		"title":        view.Post.Title,
		"post":         view.Post,
		"content":      content,
		"comments":     view.Comments,
		"commentCount": view.CommentCount,
	}
	if view.Owner != nil {
		data["owner"] = view.Owner.Username
	}
	a.renderHTML(c, http.StatusOK, "view_post.html", data)
}

// LikePost 点赞不按用户去重。
func (a *API) LikePost(c *gin.Context) {
	a.bumpCounter(c, "postLikeId", a.engagement.Like)
}

// DislikePost 点踩同样不去重。
func (a *API) DislikePost(c *gin.Context) {
	a.bumpCounter(c, "postdisLikeId", a.engagement.Dislike)
}

func (a *API) bumpCounter(c *gin.Context, field string, bump func(uint) (*db.Post, error)) {
	id, err := parseUintForm(c, field)
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	if _, err := bump(id); err != nil {
		a.handlePostError(c, err)
		return
	}
	c.Redirect(http.StatusFound, viewPostPath(id))
}

// AddComment 评论者名称为自由文本，不与账号绑定。
func (a *API) AddComment(c *gin.Context) {
	id, err := parseUintForm(c, "pstid")
	if err != nil {
		a.renderBadRequest(c, "Invalid post id.")
		return
	}

	var input service.CommentInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderBadRequest(c, "Invalid comment form.")
		return
	}

	if _, err := a.engagement.AddComment(id, input); err != nil {
		if fields, ok := validationFields(err); ok {
			message := fields["comment"]
			if message == "" {
				message = fields["commenter"]
			}
			a.renderBadRequest(c, message)
			return
		}
		a.handlePostError(c, err)
		return
	}
	c.Redirect(http.StatusFound, viewPostPath(id))
}

func viewPostPath(id uint) string {
	return fmt.Sprintf("/view-post/%d", id)
}
