package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/server-craftsman/manage-post/internal/models"
)

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, pathID("posts", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPostsByUser uses the store's ad hoc per-user endpoint.
func (c *Client) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	path := "/posts/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	var created models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReplacePost sends the entire record; updateDate must already be set
// by the caller.
func (c *Client) ReplacePost(ctx context.Context, p models.Post) (*models.Post, error) {
	var updated models.Post
	if err := c.do(ctx, http.MethodPut, pathID("posts", p.ID), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("posts", id), nil, nil)
}
