package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/codebookhq/codebook/internal/domain"
)

type fakeSessions map[string]domain.Session

func (f fakeSessions) Get(browserID string) domain.Session { return f[browserID] }

type fakeVerifier struct {
	user  domain.User
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeVerifier) GetUser(ctx context.Context, browserID string) (domain.User, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.user, f.err
}

func TestCheckWithoutSession(t *testing.T) {
	verifier := &fakeVerifier{}
	g := New(fakeSessions{}, verifier)

	assert.Equal(t, DeniedNoSession, g.Check(context.Background(), "unknown"))
	assert.Zero(t, atomic.LoadInt32(&verifier.calls))
}

func TestCheckCachedAdminSkipsVerification(t *testing.T) {
	sessions := fakeSessions{
		"by-role": {Token: "tok", UserID: 1, Role: "admin"},
		"by-name": {Token: "tok", UserID: 2, Name: "Admin"},
	}
	verifier := &fakeVerifier{err: errors.New("backend down")}
	g := New(sessions, verifier)

	assert.Equal(t, Allowed, g.Check(context.Background(), "by-role"))
	assert.Equal(t, Allowed, g.Check(context.Background(), "by-name"))
	assert.Zero(t, atomic.LoadInt32(&verifier.calls))
}

func TestCheckVerifiesNonCachedRole(t *testing.T) {
	sessions := fakeSessions{"bid": {Token: "tok", UserID: 3, Name: "Neo"}}

	verifier := &fakeVerifier{user: domain.User{ID: 3, Name: "Neo", Role: "admin"}}
	g := New(sessions, verifier)
	assert.Equal(t, Allowed, g.Check(context.Background(), "bid"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&verifier.calls))

	verifier = &fakeVerifier{user: domain.User{ID: 3, Name: "Neo", Role: "customer"}}
	g = New(sessions, verifier)
	assert.Equal(t, Denied, g.Check(context.Background(), "bid"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&verifier.calls))
}

func TestCheckFailsClosedOnError(t *testing.T) {
	sessions := fakeSessions{"bid": {Token: "tok", UserID: 3}}
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	g := New(sessions, verifier)

	assert.Equal(t, Denied, g.Check(context.Background(), "bid"))
}

func TestConcurrentChecksShareOneVerification(t *testing.T) {
	sessions := fakeSessions{"bid": {Token: "tok", UserID: 3}}
	verifier := &fakeVerifier{
		user:  domain.User{ID: 3, Role: "admin"},
		delay: 50 * time.Millisecond,
	}
	g := New(sessions, verifier)

	var wg sync.WaitGroup
	results := make([]Decision, 8)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Check(context.Background(), "bid")
		}(i)
	}
	wg.Wait()

	for _, d := range results {
		assert.Equal(t, Allowed, d)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&verifier.calls))
}
