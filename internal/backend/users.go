package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/codebookhq/codebook/internal/domain"
)

// GetUser fetches the authenticated user's own profile. Requires both
// a token and a cached user id; fails with ErrUnauthenticated before
// any network call otherwise.
func (c *Client) GetUser(ctx context.Context, browserID string) (domain.User, error) {
	sess := c.store.Get(browserID)
	var user domain.User
	err := c.do(ctx, call{
		browserID:   browserID,
		method:      http.MethodGet,
		path:        fmt.Sprintf("/600/users/%d", sess.UserID),
		out:         &user,
		requireAuth: true,
		requireUser: true,
	})
	return user, err
}

// AdminGetAllUsers lists every account through the backend's open
// mirror route.
func (c *Client) AdminGetAllUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/users",
		out:    &users,
	})
	return users, err
}

// AdminDeleteUser removes an account by id via the open mirror route.
func (c *Client) AdminDeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/users/%d", userID),
	})
}
