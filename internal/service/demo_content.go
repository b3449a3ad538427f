package service

import "fmt"

type demoPost struct {
	input    PostInput
	publish  bool
	comments []CommentInput
}

var demoPosts = []demoPost{
	{
		input: PostInput{
			Title:    "Hello, CuteBlog",
			Subtitle: "A first post to say hi",
			Content:  "Welcome to **CuteBlog**!\n\nThis blog keeps things small: write a draft, publish it, and let readers leave a comment or two.",
		},
		publish: true,
		comments: []CommentInput{
			{Text: "What a lovely little blog.", CommentUser: "Mochi"},
			{Text: "Looking forward to the next post!", CommentUser: "Bean"},
		},
	},
	{
		input: PostInput{
			Title:    "Writing with Markdown",
			Subtitle: "Headings, lists and links",
			Content:  "## Lists\n\n- drafts stay private\n- published posts are public\n\n## Links\n\nPlain links like https://example.com become clickable.",
		},
		publish: true,
	},
	{
		input: PostInput{
			Title:    "An unfinished thought",
			Subtitle: "Still a draft",
			Content:  "This one is not ready yet.",
		},
	},
}

// SeedDemoContent 仅在没有任何文章时写入示例文章与评论，返回新建的文章数。
func SeedDemoContent(posts *PostService, engagement *EngagementService, ownerID uint) (int, error) {
	total, err := posts.Count()
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}

	created := 0
	for _, demo := range demoPosts {
		post, err := posts.Create(ownerID, demo.input)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", demo.input.Title, err)
		}
		created++

		if demo.publish {
			if _, err := posts.Publish(post.ID); err != nil {
				return created, fmt.Errorf("publish %q: %w", demo.input.Title, err)
			}
		}
		for _, comment := range demo.comments {
			if _, err := engagement.AddComment(post.ID, comment); err != nil {
				return created, fmt.Errorf("comment on %q: %w", demo.input.Title, err)
			}
		}
	}
	return created, nil
}
