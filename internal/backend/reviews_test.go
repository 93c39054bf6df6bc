package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebookhq/codebook/internal/domain"
)

// reviewBackend fakes the product endpoints used by the review cycle:
// a public read and an authenticated PATCH rewriting the review list.
type reviewBackend struct {
	mu      sync.Mutex
	product domain.Product
	patches int
}

func (b *reviewBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/444/products/10", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.product)
	})
	mux.HandleFunc("/660/products/10", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var patch struct {
			Reviews []domain.Review `json:"reviews"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.patches++
		b.product.Reviews = patch.Reviews
		_ = json.NewEncoder(w).Encode(b.product)
	})
	return mux
}

func newReviewFixture(t *testing.T, reviews []domain.Review) (*Client, *reviewBackend) {
	t.Helper()
	fake := &reviewBackend{product: domain.Product{ID: 10, Name: "Eloquent Go", Reviews: reviews}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := newTestStore(t)
	require.NoError(t, store.Set("bid-1", domain.Session{Token: "tok", UserID: 7, Name: "Neo"}))
	return NewClient(srv.URL, 5*time.Second, store), fake
}

func TestAddReviewAppendsPreservingOrder(t *testing.T) {
	r1 := domain.Review{ID: 1, UserID: 2, UserName: "A", Rating: 4, Comment: "good"}
	r2 := domain.Review{ID: 2, UserID: 3, UserName: "B", Rating: 2, Comment: "meh"}
	client, fake := newReviewFixture(t, []domain.Review{r1, r2})

	updated, err := client.AddReview(context.Background(), "bid-1", 10, 5, "brilliant")
	require.NoError(t, err)

	require.Len(t, updated.Reviews, 3)
	assert.Equal(t, r1, updated.Reviews[0])
	assert.Equal(t, r2, updated.Reviews[1])

	added := updated.Reviews[2]
	assert.NotZero(t, added.ID)
	assert.Equal(t, int64(7), added.UserID)
	assert.Equal(t, "Neo", added.UserName)
	assert.Equal(t, 5, added.Rating)
	assert.Equal(t, "brilliant", added.Comment)
	assert.False(t, added.ParsedDate().IsZero())
	assert.Equal(t, 1, fake.patches)
}

func TestAddReviewValidatesRating(t *testing.T) {
	client, fake := newReviewFixture(t, nil)

	for _, rating := range []int{0, -1, 6} {
		_, err := client.AddReview(context.Background(), "bid-1", 10, rating, "x")
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "rating %d", rating)
		assert.Equal(t, []string{"rating"}, vErr.Fields)
	}
	assert.Zero(t, fake.patches)
}

func TestAddReviewRequiresSession(t *testing.T) {
	client, fake := newReviewFixture(t, nil)
	client.Store().Clear("bid-1")

	_, err := client.AddReview(context.Background(), "bid-1", 10, 5, "x")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.Zero(t, fake.patches)
}

func TestDeleteReviewRemovesExactlyOne(t *testing.T) {
	r1 := domain.Review{ID: 1, Rating: 4}
	r2 := domain.Review{ID: 2, Rating: 3}
	r3 := domain.Review{ID: 3, Rating: 5}
	client, _ := newReviewFixture(t, []domain.Review{r1, r2, r3})

	updated, err := client.DeleteReview(context.Background(), "bid-1", 10, 2)
	require.NoError(t, err)

	require.Len(t, updated.Reviews, 2)
	assert.Equal(t, int64(1), updated.Reviews[0].ID)
	assert.Equal(t, int64(3), updated.Reviews[1].ID)
}

func TestDeleteReviewUnknownID(t *testing.T) {
	client, fake := newReviewFixture(t, []domain.Review{{ID: 1}})

	_, err := client.DeleteReview(context.Background(), "bid-1", 10, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
	// nothing was written upstream
	assert.Zero(t, fake.patches)
}

func TestAdminGetAllReviewsFlattens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.Product{
			{ID: 1, Name: "First", Reviews: []domain.Review{{ID: 10, Rating: 5}}},
			{ID: 2, Name: "Second"},
			{ID: 3, Name: "Third", Reviews: []domain.Review{{ID: 11, Rating: 1}, {ID: 12, Rating: 2}}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second, newTestStore(t))

	all, err := client.AdminGetAllReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "First", all[0].ProductName)
	assert.Equal(t, int64(3), all[1].ProductID)
	assert.Equal(t, int64(12), all[2].ID)
}
