package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := newTestStore(t)
	return NewClient(srv.URL, 5*time.Second, store), store
}

func login(t *testing.T, store *session.Store, browserID string, sess domain.Session) {
	t.Helper()
	require.NoError(t, store.Set(browserID, sess))
}

func TestAuthedCallWithoutTokenIssuesNoRequest(t *testing.T) {
	var hits int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))

	_, err := client.GetUser(context.Background(), "bid-1")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.Zero(t, atomic.LoadInt64(&hits))

	_, err = client.GetUserOrders(context.Background(), "bid-1")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.Zero(t, atomic.LoadInt64(&hits))
}

func TestRejectedTokenClearsSession(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	login(t, store, "bid-1", domain.Session{Token: "stale", UserID: 5, Role: "admin", Name: "Admin"})

	_, err := client.GetUser(context.Background(), "bid-1")
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	// the whole record is gone: token, user id, role and name
	assert.Equal(t, domain.Session{}, store.Get("bid-1"))
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(domain.User{ID: 5, Name: "Neo"})
	}))
	login(t, store, "bid-1", domain.Session{Token: "tok-abc", UserID: 5})

	user, err := client.GetUser(context.Background(), "bid-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, "Neo", user.Name)
}

func TestNonOKStatusBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.GetProduct(context.Background(), 99)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestNetworkFailure(t *testing.T) {
	store := newTestStore(t)
	client := NewClient("http://127.0.0.1:1", time.Second, store)

	_, err := client.GetProductList(context.Background(), "")
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestLoginWritesSessionOnSuccess(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.AuthResponse{
			AccessToken: "tok-xyz",
			User:        domain.User{ID: 12, Name: "Trinity", Email: "t@zion.io", Role: "admin"},
		})
	}))

	user, err := client.Login(context.Background(), "bid-1", domain.Credentials{Email: "t@zion.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), user.ID)

	sess := store.Get("bid-1")
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok-xyz", sess.Token)
	assert.Equal(t, int64(12), sess.UserID)
	assert.Equal(t, "admin", sess.Role)
	assert.Equal(t, "Trinity", sess.Name)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
	}))
	login(t, store, "bid-1", domain.Session{Token: "existing", UserID: 3})

	_, err := client.Login(context.Background(), "bid-1", domain.Credentials{Email: "x", Password: "y"})
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.Status)

	// a failed credential exchange must not clear the current session
	assert.Equal(t, "existing", store.Get("bid-1").Token)
}

func TestLoginThenGetUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.AuthResponse{
			AccessToken: "tok",
			User:        domain.User{ID: 4, Name: "Morpheus", Email: "m@zion.io"},
		})
	})
	mux.HandleFunc("/600/users/4", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.User{ID: 4, Name: "Morpheus", Email: "m@zion.io"})
	})
	client, store := newTestClient(t, mux)

	_, err := client.Login(context.Background(), "bid-1", domain.Credentials{Email: "m@zion.io", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, store.Get("bid-1").Authenticated())

	user, err := client.GetUser(context.Background(), "bid-1")
	require.NoError(t, err)
	assert.Equal(t, "Morpheus", user.Name)
}

func TestLogoutClearsSessionWithoutNetwork(t *testing.T) {
	var hits int64
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	login(t, store, "bid-1", domain.Session{Token: "tok", UserID: 1})

	client.Logout("bid-1")
	client.Logout("bid-1") // idempotent

	assert.Equal(t, domain.Session{}, store.Get("bid-1"))
	assert.Zero(t, atomic.LoadInt64(&hits))
}

func TestCreateOrderBody(t *testing.T) {
	var got domain.Order
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/660/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got.ID = 1001
		_ = json.NewEncoder(w).Encode(got)
	}))
	login(t, store, "bid-1", domain.Session{Token: "tok", UserID: 8})

	cartList := []domain.CartItem{
		{ProductID: 1, Name: "a", Price: 10},
		{ProductID: 2, Name: "b", Price: 15.5},
	}
	user := domain.User{ID: 8, Name: "Tank", Email: "tank@zion.io"}

	order, err := client.CreateOrder(context.Background(), "bid-1", cartList, 25.5, user)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), order.ID)
	assert.Equal(t, 25.5, got.AmountPaid)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, cartList, got.CartList)
	assert.Equal(t, domain.OrderUser{Name: "Tank", Email: "tank@zion.io", ID: 8}, got.User)
}

func TestGetUserOrdersQuery(t *testing.T) {
	var gotQuery string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("user.id")
		_ = json.NewEncoder(w).Encode([]domain.Order{{ID: 1}})
	}))
	login(t, store, "bid-1", domain.Session{Token: "tok", UserID: 42})

	orders, err := client.GetUserOrders(context.Background(), "bid-1")
	require.NoError(t, err)
	assert.Equal(t, "42", gotQuery)
	assert.Len(t, orders, 1)
}

func TestProductSearchQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/444/products", r.URL.Path)
		gotQuery = r.URL.Query().Get("name_like")
		_ = json.NewEncoder(w).Encode([]domain.Product{{ID: 1, Name: "Go Basics"}})
	}))

	products, err := client.GetProductList(context.Background(), "  Go ")
	require.NoError(t, err)
	assert.Equal(t, "Go", gotQuery)
	require.Len(t, products, 1)
}
