package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/pkg/metrics"
)

// Login exchanges credentials for a token and profile. On a 2xx reply
// carrying a token the session store is populated; any failure leaves
// the store untouched and returns an AuthError.
func (c *Client) Login(ctx context.Context, browserID string, cred domain.Credentials) (domain.User, error) {
	return c.authenticate(ctx, browserID, "/login", cred)
}

// Register creates an account and logs it in, with the same session
// semantics as Login.
func (c *Client) Register(ctx context.Context, browserID string, reg domain.Registration) (domain.User, error) {
	return c.authenticate(ctx, browserID, "/register", reg)
}

func (c *Client) authenticate(ctx context.Context, browserID, path string, body interface{}) (domain.User, error) {
	var resp domain.AuthResponse
	err := c.do(ctx, call{
		browserID: browserID,
		method:    http.MethodPost,
		path:      path,
		body:      body,
		out:       &resp,
	})
	if err != nil {
		metrics.CounterInc(metrics.MetricLoginFailure)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return domain.User{}, &AuthError{Status: apiErr.Status, Message: apiErr.Message}
		}
		return domain.User{}, err
	}

	if resp.AccessToken == "" || resp.User.ID == 0 {
		// The backend accepted the request but issued no credential;
		// surface the profile without touching the session store.
		zap.S().Warnf("auth: %s succeeded without access token", path)
		return resp.User, nil
	}
	if browserID == "" {
		// Back-office provisioning: the account is created without
		// adopting its credential.
		return resp.User, nil
	}

	sess := domain.Session{
		Token:  resp.AccessToken,
		UserID: resp.User.ID,
		Role:   resp.User.Role,
		Name:   resp.User.Name,
	}
	if err := c.store.Set(browserID, sess); err != nil {
		return domain.User{}, errors.Wrap(err, "persist session")
	}
	metrics.CounterInc(metrics.MetricLoginSuccess)
	return resp.User, nil
}

// Logout clears the session unconditionally. Idempotent; no network
// effect, the upstream token is simply forgotten.
func (c *Client) Logout(browserID string) {
	c.store.Clear(browserID)
}
