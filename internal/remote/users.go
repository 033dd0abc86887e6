package remote

import (
	"context"
	"net/http"

	"github.com/server-craftsman/manage-post/internal/models"
)

// ListUsers fetches the whole user collection. The store has no
// filtered lookup, so login and the email uniqueness check both go
// through this.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, pathID("users", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	var created models.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReplaceUser sends the entire record. The store has no partial patch.
func (c *Client) ReplaceUser(ctx context.Context, u models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, pathID("users", u.ID), u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("users", id), nil, nil)
}
