package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/internal/session"
	"github.com/codebookhq/codebook/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the typed access layer for the upstream REST backend. All
// operations go through one request policy (do): read the session
// store, attach the bearer token, surface non-2xx as typed errors, and
// clear the session on a rejected credential.
type Client struct {
	baseURL string
	timeout time.Duration
	store   *session.Store
}

func NewClient(baseURL string, timeout time.Duration, store *session.Store) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: baseURL, timeout: timeout, store: store}
}

// Store exposes the session store for collaborators that share it.
func (c *Client) Store() *session.Store {
	return c.store
}

// call describes one upstream request under the uniform policy.
type call struct {
	browserID string
	method    string
	path      string
	query     gout.H
	body      interface{}
	out       interface{}

	// requireAuth fails with ErrUnauthenticated before any network
	// traffic when the session has no token. requireUser additionally
	// demands a cached user id.
	requireAuth bool
	requireUser bool
	// attachBearer adds the token when present without requiring one
	// (the backend's open mirror endpoints accept either).
	attachBearer bool
}

func (c *Client) flow(method, url string) *dataflow.DataFlow {
	switch method {
	case http.MethodPost:
		return gout.POST(url)
	case http.MethodPut:
		return gout.PUT(url)
	case http.MethodPatch:
		return gout.PATCH(url)
	case http.MethodDelete:
		return gout.DELETE(url)
	default:
		return gout.GET(url)
	}
}

// do runs one request under the uniform policy: preflight session
// check, single token capture, typed status mapping, session clear on
// 401, verbatim body decode on 2xx.
func (c *Client) do(ctx context.Context, p call) error {
	var sess domain.Session
	if p.requireAuth || p.attachBearer {
		sess = c.store.Get(p.browserID)
	}
	if p.requireAuth {
		if sess.Token == "" || (p.requireUser && sess.UserID == 0) {
			return errors.WithStack(ErrUnauthenticated)
		}
	}

	headers := gout.H{"Content-Type": "application/json"}
	if sess.Token != "" {
		headers["Authorization"] = "Bearer " + sess.Token
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	df := c.flow(p.method, c.baseURL+p.path).
		WithContext(tctx).
		SetHeader(headers)
	if len(p.query) > 0 {
		df = df.SetQuery(p.query)
	}
	if p.body != nil {
		df = df.SetJSON(p.body)
	}

	var (
		code int
		raw  []byte
	)
	metrics.CounterInc(metrics.MetricBackendCall)
	if err := df.BindBody(&raw).Code(&code).Do(); err != nil {
		metrics.CounterInc(metrics.MetricBackendError)
		zap.S().Warnf("backend %s %s failed: %s", p.method, p.path, err)
		return &NetworkError{Err: err}
	}

	if code == http.StatusUnauthorized {
		metrics.CounterInc(metrics.MetricBackendError)
		if sess.Token != "" {
			// Stale or rejected credential: wipe the session so the UI
			// can rely on "store empty" meaning "must re-login".
			c.store.Clear(p.browserID)
		}
		return &APIError{Status: code, Message: http.StatusText(code)}
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		metrics.CounterInc(metrics.MetricBackendError)
		return &APIError{Status: code, Message: http.StatusText(code)}
	}

	if p.out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, p.out); err != nil {
			return errors.Wrapf(err, "decode %s %s response", p.method, p.path)
		}
	}
	return nil
}
