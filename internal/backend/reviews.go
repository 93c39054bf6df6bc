package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/pkg/common"
	"github.com/codebookhq/codebook/pkg/metrics"
)

// reviewsPatch rewrites a product's whole review collection. The
// backend has no per-review endpoint, so append and delete are both
// read-modify-write cycles; two concurrent writers can lose an entry,
// a limitation inherited from the upstream contract.
type reviewsPatch struct {
	Reviews []domain.Review `json:"reviews"`
}

// AdminReview is a review joined with the product it belongs to, for
// the back-office listing.
type AdminReview struct {
	domain.Review
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
}

// AddReview appends a review to a product on behalf of the current
// session and returns the updated product. Prior reviews keep their
// order and content.
func (c *Client) AddReview(ctx context.Context, browserID string, productID int64, rating int, comment string) (domain.Product, error) {
	sess := c.store.Get(browserID)
	if !sess.Authenticated() {
		return domain.Product{}, errors.WithStack(ErrUnauthenticated)
	}
	if rating < 1 || rating > 5 {
		return domain.Product{}, errors.WithStack(&ValidationError{Fields: []string{"rating"}})
	}

	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	review := domain.Review{
		ID:       common.UUIDint64(),
		UserID:   sess.UserID,
		UserName: sess.Name,
		Rating:   rating,
		Comment:  comment,
		Date:     time.Now().Format(time.RFC3339),
	}
	updated := append(append([]domain.Review{}, product.Reviews...), review)

	result, err := c.patchReviews(ctx, browserID, productID, updated)
	if err != nil {
		return domain.Product{}, err
	}
	metrics.CounterInc(metrics.MetricReviewCreated)
	return result, nil
}

// DeleteReview removes exactly the matching review, preserving the
// relative order of the rest, and returns the updated product.
func (c *Client) DeleteReview(ctx context.Context, browserID string, productID, reviewID int64) (domain.Product, error) {
	sess := c.store.Get(browserID)
	if !sess.Authenticated() {
		return domain.Product{}, errors.WithStack(ErrUnauthenticated)
	}

	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	remaining := make([]domain.Review, 0, len(product.Reviews))
	found := false
	for _, r := range product.Reviews {
		if r.ID == reviewID && !found {
			found = true
			continue
		}
		remaining = append(remaining, r)
	}
	if !found {
		return domain.Product{}, errors.WithStack(ErrNotFound)
	}

	return c.patchReviews(ctx, browserID, productID, remaining)
}

func (c *Client) patchReviews(ctx context.Context, browserID string, productID int64, reviews []domain.Review) (domain.Product, error) {
	var updated domain.Product
	err := c.do(ctx, call{
		browserID:   browserID,
		method:      http.MethodPatch,
		path:        fmt.Sprintf("/660/products/%d", productID),
		body:        reviewsPatch{Reviews: reviews},
		out:         &updated,
		requireAuth: true,
	})
	return updated, err
}

// AdminGetAllReviews flattens every product's reviews for the back
// office, tagging each with its product.
func (c *Client) AdminGetAllReviews(ctx context.Context) ([]AdminReview, error) {
	products, err := c.AdminGetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	var all []AdminReview
	for _, p := range products {
		for _, r := range p.Reviews {
			all = append(all, AdminReview{Review: r, ProductID: p.ID, ProductName: p.Name})
		}
	}
	return all, nil
}
