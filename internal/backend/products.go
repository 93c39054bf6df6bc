package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/domain"
)

// GetProductList returns the catalog, optionally filtered by a name
// substring. Public: no session involved.
func (c *Client) GetProductList(ctx context.Context, searchTerm string) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/444/products",
		query:  gout.H{"name_like": strings.TrimSpace(searchTerm)},
		out:    &products,
	})
	return products, err
}

// GetProduct fetches one catalog item by id. Public.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/444/products/%d", id),
		out:    &product,
	})
	return product, err
}

// GetFeaturedList returns the curated landing-page selection. Public.
func (c *Client) GetFeaturedList(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/444/featured_products",
		out:    &products,
	})
	return products, err
}

// AdminGetAllProducts lists the full catalog through the open mirror
// route (reviews included).
func (c *Client) AdminGetAllProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/products",
		out:    &products,
	})
	return products, err
}

// CreateProduct persists a new catalog item. The mirror route accepts
// the request with or without a bearer; the token is attached when the
// browser has one.
func (c *Client) CreateProduct(ctx context.Context, browserID string, p domain.Product) (domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Product{}, errors.WithStack(&ValidationError{Fields: []string{"name"}})
	}
	var created domain.Product
	err := c.do(ctx, call{
		browserID:    browserID,
		method:       http.MethodPost,
		path:         "/api/products",
		body:         p,
		out:          &created,
		attachBearer: true,
	})
	return created, err
}

// UpdateProduct replaces a catalog item wholesale.
func (c *Client) UpdateProduct(ctx context.Context, browserID string, id int64, p domain.Product) (domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Product{}, errors.WithStack(&ValidationError{Fields: []string{"name"}})
	}
	var updated domain.Product
	err := c.do(ctx, call{
		browserID:    browserID,
		method:       http.MethodPut,
		path:         fmt.Sprintf("/api/products/%d", id),
		body:         p,
		out:          &updated,
		attachBearer: true,
	})
	return updated, err
}

// DeleteProduct removes a catalog item through the open mirror route.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/products/%d", id),
	})
}
