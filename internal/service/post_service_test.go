package service

import (
	"testing"
	"time"

	"github.com/cuteblog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, svc *PostService, title string) *db.Post {
	t.Helper()
	post, err := svc.Create(1, PostInput{Title: title, Subtitle: "S", Content: "C"})
	require.NoError(t, err)
	return post
}

func TestPostService_CreateIsExplicitDraft(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	svc.now = fixedClock(created)

	post := createTestPost(t, svc, "T")
	assert.Equal(t, db.StatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Nil(t, post.PostHistory)

	stored, err := svc.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusDraft, stored.Status)
	assert.True(t, stored.CreatedAt.Equal(created))
	assert.Zero(t, stored.Views)
}

func TestPostService_CreateValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)

	_, err := svc.Create(1, PostInput{Title: "  ", Content: "body"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title cannot be empty", verr.Field("title"))

	_, err = svc.Create(1, PostInput{Title: "T", Content: "\n  "})
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field("content"))
}

func TestPostService_UpdateKeepsOnlyPreviousRevision(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	post, err := svc.Create(1, PostInput{Title: "T", Content: "v1"})
	require.NoError(t, err)

	modified := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = fixedClock(modified)

	first, err := svc.Update(post.ID, PostInput{Title: "T2", Subtitle: "S2", Content: "v2"})
	require.NoError(t, err)
	require.NotNil(t, first.PostHistory)
	assert.Equal(t, "v1", *first.PostHistory)
	assert.Equal(t, "v2", first.Content)
	assert.Equal(t, "T2", first.Title)
	require.NotNil(t, first.ModifiedAt)
	assert.True(t, first.ModifiedAt.Equal(modified))

	second, err := svc.Update(post.ID, PostInput{Title: "T3", Content: "v3"})
	require.NoError(t, err)
	require.NotNil(t, second.PostHistory)
	assert.Equal(t, "v2", *second.PostHistory)
	assert.Equal(t, "v3", second.Content)

	revision, err := svc.History(post.ID)
	require.NoError(t, err)
	assert.True(t, revision.HasPrior)
	assert.Equal(t, "v2", revision.Previous)
	assert.Equal(t, "v3", revision.Current)
}

func TestPostService_UpdateUnknownPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)

	_, err := svc.Update(42, PostInput{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.History(42)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_PublishIsOneWay(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	post := createTestPost(t, svc, "T")

	firstPublish := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(firstPublish)
	published, err := svc.Publish(post.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(firstPublish))

	svc.now = fixedClock(firstPublish.Add(48 * time.Hour))
	again, err := svc.Publish(post.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(firstPublish))
}

func TestPostService_PublishUnknownDoesNotCreateRow(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)

	_, err := svc.Publish(99)
	assert.ErrorIs(t, err, ErrPostNotFound)

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestPostService_DeleteThenViewIsNotFound(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	post := createTestPost(t, svc, "T")

	require.NoError(t, svc.Delete(post.ID))
	_, err := svc.View(post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(post.ID), ErrPostNotFound)
}

func TestPostService_DeletePublishedRequiresPublished(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	draft := createTestPost(t, svc, "draft")

	assert.ErrorIs(t, svc.DeletePublished(draft.ID), ErrPostNotPublished)
	_, err := svc.Get(draft.ID)
	require.NoError(t, err)

	_, err = svc.Publish(draft.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeletePublished(draft.ID))
	_, err = svc.Get(draft.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_ViewIncrementsEveryTime(t *testing.T) {
	gdb := setupServiceTestDB(t)
	auth := NewAuthService(gdb, testCredentials())
	owner, err := auth.Register(RegisterInput{Username: "alice", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	svc := NewPostService(gdb)
	post, err := svc.Create(owner.ID, PostInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	const n = 5
	var last *PostView
	for i := 0; i < n; i++ {
		last, err = svc.View(post.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(n), last.Post.Views)
	require.NotNil(t, last.Owner)
	assert.Equal(t, "alice", last.Owner.Username)

	stored, err := svc.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(n), stored.Views)
}

func TestPostService_ViewIncludesComments(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	engagement := NewEngagementService(gdb)
	post := createTestPost(t, svc, "T")

	engagement.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err := engagement.AddComment(post.ID, CommentInput{Text: "first", CommentUser: "bob"})
	require.NoError(t, err)
	engagement.now = fixedClock(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	_, err = engagement.AddComment(post.ID, CommentInput{Text: "second", CommentUser: "carol"})
	require.NoError(t, err)

	view, err := svc.View(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.CommentCount)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, "second", view.Comments[0].Text)
	assert.Nil(t, view.Owner)
}

func TestPostService_ListWithCommentCountsAndPublished(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	engagement := NewEngagementService(gdb)

	older := createTestPost(t, svc, "older")
	newer := createTestPost(t, svc, "newer")
	_, err := engagement.AddComment(older.ID, CommentInput{Text: "hi", CommentUser: "bob"})
	require.NoError(t, err)

	summaries, err := svc.ListWithCommentCounts()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	counts := map[uint]int64{}
	for _, s := range summaries {
		counts[s.ID] = s.CommentCount
	}
	assert.Equal(t, int64(1), counts[older.ID])
	assert.Equal(t, int64(0), counts[newer.ID])

	svc.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err = svc.Publish(newer.ID)
	require.NoError(t, err)
	svc.now = fixedClock(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err = svc.Publish(older.ID)
	require.NoError(t, err)

	published, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, older.ID, published[0].ID)
}
