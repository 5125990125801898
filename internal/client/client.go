// internal/client/client.go
//
// Submission client for the consultations API.
//
// Context
// -------
// A Client is constructed explicitly with the service base URL and handed to
// whatever front end needs it (cmd/consult, tests, other Go services).  It
// speaks the {success, data, error} envelope and turns every failure into
// the taxonomy in errors.go.
//
// Submit is the one-call path used by forms: validate the controller, then
// POST a new record or PUT an existing one depending on the draft id.  The
// draft is never modified and nothing is retried; a failed call leaves the
// caller free to resubmit.
//
// Notes
// -----
//   - Create goes to /api/public/consultations when built WithPublic,
//     everything else to /api/consultations with the bearer token.
//   - JSON uses goccy/go-json.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/form"
)

const (
	managePath = "/api/consultations"
	publicPath = "/api/public/consultations"
	verifyPath = "/api/auth/verify"

	maxBody = 1 << 20
)

// Client issues consultation requests against one service.
type Client struct {
	base   *url.URL
	http   *http.Client
	log    *zap.Logger
	token  string
	public bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.  The default has a 15 s timeout.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger attaches a logger.  The default discards.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithToken sets the management bearer token.
func WithToken(tok string) Option { return func(c *Client) { c.token = tok } }

// WithPublic sends creates to the public collection.
func WithPublic() Option { return func(c *Client) { c.public = true } }

// New parses baseURL and applies opts.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q needs http or https scheme", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Submit validates ctrl and persists its draft.
func (c *Client) Submit(ctx context.Context, ctrl *form.Controller) (*consultation.Record, error) {
	return form.Submit(ctx, ctrl, c)
}

// Send implements form.Sender: create for a new draft, update otherwise.
func (c *Client) Send(ctx context.Context, d form.Draft) (*consultation.Record, error) {
	p, err := Normalize(d)
	if err != nil {
		return nil, err
	}
	if d.ID > 0 {
		return c.Update(ctx, d.ID, patchFrom(p))
	}
	return c.Create(ctx, p)
}

// Create posts p to the collection.
func (c *Client) Create(ctx context.Context, p consultation.Payload) (*consultation.Record, error) {
	path := managePath
	if c.public {
		path = publicPath
	}
	return call[*consultation.Record](ctx, c, http.MethodPost, path, p)
}

// Update puts a partial or full replacement to the record path.
func (c *Client) Update(ctx context.Context, id int64, p consultation.Patch) (*consultation.Record, error) {
	return call[*consultation.Record](ctx, c, http.MethodPut, recordPath(id), p)
}

// SetStatus is Update with only status and an optional note.
func (c *Client) SetStatus(ctx context.Context, id int64, st consultation.Status, note string) (*consultation.Record, error) {
	return c.Update(ctx, id, consultation.Patch{Status: &st, Message: consultation.Opt(note)})
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, id int64) (*consultation.Record, error) {
	return call[*consultation.Record](ctx, c, http.MethodGet, recordPath(id), nil)
}

// List fetches every record, newest first.
func (c *Client) List(ctx context.Context) ([]consultation.Record, error) {
	return call[[]consultation.Record](ctx, c, http.MethodGet, managePath, nil)
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, recordPath(id), nil)
	return err
}

// Verify checks the configured token against /api/auth/verify and returns
// the principal the service assigned.
func (c *Client) Verify(ctx context.Context) (string, error) {
	id, err := call[struct {
		Principal string `json:"principal"`
	}](ctx, c, http.MethodGet, verifyPath, nil)
	return id.Principal, err
}

func recordPath(id int64) string { return managePath + "/" + strconv.FormatInt(id, 10) }

// call performs one request and decodes the envelope's data into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("client: encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rd)
	if err != nil {
		return zero, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cerr := classify(err)
		c.log.Warn("consultation request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(cerr))
		return zero, cerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return zero, classify(err)
	}
	c.log.Debug("consultation request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	var env consultation.Envelope[json.RawMessage]
	decErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		return zero, newAPIError(resp.StatusCode, env.Error)
	}
	if decErr != nil {
		return zero, fmt.Errorf("client: decode envelope: %w", decErr)
	}
	if !env.Success {
		return zero, newAPIError(resp.StatusCode, env.Error)
	}
	if len(env.Data) == 0 {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("client: decode data: %w", err)
	}
	return out, nil
}
