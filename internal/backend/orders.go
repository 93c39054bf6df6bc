package backend

import (
	"context"
	"net/http"

	"github.com/guonaihong/gout"
	"github.com/spf13/cast"

	"github.com/codebookhq/codebook/internal/domain"
)

// CreateOrder persists a purchase built from a cart snapshot. The
// amount and quantity are derived here so they can never drift from
// the submitted item list.
func (c *Client) CreateOrder(ctx context.Context, browserID string, cartList []domain.CartItem, total float64, user domain.User) (domain.Order, error) {
	order := domain.Order{
		CartList:   cartList,
		AmountPaid: total,
		Quantity:   len(cartList),
		User: domain.OrderUser{
			Name:  user.Name,
			Email: user.Email,
			ID:    user.ID,
		},
	}
	var created domain.Order
	err := c.do(ctx, call{
		browserID:   browserID,
		method:      http.MethodPost,
		path:        "/660/orders",
		body:        order,
		out:         &created,
		requireAuth: true,
	})
	return created, err
}

// GetUserOrders returns the authenticated user's own order history.
func (c *Client) GetUserOrders(ctx context.Context, browserID string) ([]domain.Order, error) {
	sess := c.store.Get(browserID)
	var orders []domain.Order
	err := c.do(ctx, call{
		browserID:   browserID,
		method:      http.MethodGet,
		path:        "/660/orders",
		query:       gout.H{"user.id": cast.ToString(sess.UserID)},
		out:         &orders,
		requireAuth: true,
		requireUser: true,
	})
	return orders, err
}

// AdminGetAllOrders lists every order. The token is attached when
// present; the mirror route tolerates its absence.
func (c *Client) AdminGetAllOrders(ctx context.Context, browserID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, call{
		browserID:    browserID,
		method:       http.MethodGet,
		path:         "/api/orders",
		out:          &orders,
		attachBearer: true,
	})
	return orders, err
}
