// Package hdfs implements a small WebHDFS gateway client covering the three
// operations the load stage needs: MKDIRS, CREATE (with overwrite), and
// GETFILESTATUS. Requests carry a fixed user identity (user.name); the
// gateway performs no further authentication.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Mkdirs, Upload, Status).
//   - Handle transient gateway failures with exponential backoff.
//   - Respect context cancellation during requests and backoff waits.
//   - Surface HDFS RemoteException bodies as typed errors so callers can
//     tell "directory already exists" apart from real failures instead of
//     swallowing everything.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package hdfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// Config configures the WebHDFS client.
//
// Zero values are given sensible defaults:
//   - Timeout:        30s
//   - MaxRetries:     0 (only the initial attempt)
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// BaseURL is the gateway root, e.g. "http://namenode:9870".
	BaseURL string

	// User is sent as user.name on every request.
	User string

	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int

	// InitialBackoff is the base backoff duration for the first retry.
	// Each subsequent retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// Transport is an optional custom RoundTripper for tests.
	Transport http.RoundTripper
}

// Client talks to one WebHDFS gateway.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	user           string
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults for zero values.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("hdfs: BaseURL is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("hdfs: User is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			// CREATE uses a two-step redirect dance; handle it explicitly.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL:        cfg.BaseURL,
		user:           cfg.User,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}, nil
}

// RemoteException is the error body WebHDFS returns for failed operations.
type RemoteException struct {
	Exception     string `json:"exception"`
	JavaClassName string `json:"javaClassName"`
	Message       string `json:"message"`
}

func (e *RemoteException) Error() string {
	return fmt.Sprintf("hdfs: remote %s: %s", e.Exception, e.Message)
}

// AlreadyExists reports whether the exception signals a pre-existing file or
// directory, the one remote failure the load stage treats as steady state.
func (e *RemoteException) AlreadyExists() bool {
	return e.Exception == "FileAlreadyExistsException"
}

// UploadError wraps a failed file upload. Unlike directory creation, upload
// failures are fatal to the load stage.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("hdfs: upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// FileStatus is the subset of WebHDFS GETFILESTATUS this pipeline reads.
type FileStatus struct {
	Length int64  `json:"length"`
	Type   string `json:"type"`
}

// Mkdirs creates dir and any missing parents. WebHDFS MKDIRS is idempotent,
// so an existing directory returns success; failures come back as
// *RemoteException when the gateway said why.
func (c *Client) Mkdirs(ctx context.Context, dir string) error {
	resp, err := c.do(ctx, http.MethodPut, c.opURL(dir, "MKDIRS", nil), nil)
	if err != nil {
		return fmt.Errorf("hdfs: mkdirs %s: %w", dir, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}
	var body struct {
		Boolean bool `json:"boolean"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("hdfs: mkdirs %s: decode response: %w", dir, err)
	}
	if !body.Boolean {
		return fmt.Errorf("hdfs: mkdirs %s: gateway returned false", dir)
	}
	return nil
}

// Upload writes data to p, overwriting any existing object. It performs the
// standard WebHDFS two-step: CREATE against the gateway, then a second PUT of
// the bytes to the datanode location the gateway redirects to. On failure the
// returned error is always a *UploadError.
func (c *Client) Upload(ctx context.Context, p string, data []byte) error {
	q := url.Values{"overwrite": {"true"}}
	resp, err := c.do(ctx, http.MethodPut, c.opURL(p, "CREATE", q), nil)
	if err != nil {
		return &UploadError{Path: p, Err: err}
	}

	location := resp.Header.Get("Location")
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTemporaryRedirect:
		if location == "" {
			return &UploadError{Path: p, Err: fmt.Errorf("create redirect without Location")}
		}
	case http.StatusCreated:
		// Gateways fronting the datanode may accept the write directly.
		return nil
	default:
		return &UploadError{Path: p, Err: c.decodeErrorStatus(resp.StatusCode, nil)}
	}

	dataResp, err := c.do(ctx, http.MethodPut, location, data)
	if err != nil {
		return &UploadError{Path: p, Err: err}
	}
	defer dataResp.Body.Close()

	if dataResp.StatusCode != http.StatusCreated {
		return &UploadError{Path: p, Err: c.decodeError(dataResp)}
	}
	return nil
}

// Status returns the file status of p, including its length in bytes.
func (c *Client) Status(ctx context.Context, p string) (FileStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, c.opURL(p, "GETFILESTATUS", nil), nil)
	if err != nil {
		return FileStatus{}, fmt.Errorf("hdfs: status %s: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FileStatus{}, c.decodeError(resp)
	}
	var body struct {
		FileStatus FileStatus `json:"FileStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return FileStatus{}, fmt.Errorf("hdfs: status %s: decode response: %w", p, err)
	}
	return body.FileStatus, nil
}

// Dir returns the parent directory of an HDFS path.
func Dir(p string) string { return path.Dir(p) }

// opURL builds the WebHDFS URL for op on p with the standing user identity.
func (c *Client) opURL(p, op string, extra url.Values) string {
	q := url.Values{}
	q.Set("op", op)
	q.Set("user.name", c.user)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + "/webhdfs/v1" + p + "?" + q.Encode()
}

// do sends one request with retry and backoff on transient failures (network
// errors, 5xx, 429). Redirects are returned to the caller, not followed.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (*http.Response, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/octet-stream")
			req.ContentLength = int64(len(body))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("retryable status %d from %s %s", resp.StatusCode, method, rawURL)
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}

		backoff := backoffDuration(c.initialBackoff, attempt, c.maxBackoff)
		if err := sleepWithContext(ctx, c.sleep, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// decodeError turns a non-success response into an error, preferring the
// typed RemoteException body when the gateway provided one.
func (c *Client) decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return c.decodeErrorStatus(resp.StatusCode, b)
}

func (c *Client) decodeErrorStatus(status int, body []byte) error {
	if len(body) > 0 {
		var wrapper struct {
			RemoteException *RemoteException `json:"RemoteException"`
		}
		if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.RemoteException != nil {
			return wrapper.RemoteException
		}
	}
	return fmt.Errorf("hdfs: unexpected status %d (%s)", status, strconv.Quote(string(body)))
}

// isRetryableStatus reports whether the given HTTP status code should trigger
// a retry. This is intentionally conservative: 5xx and 429 are treated as
// transient; everything else is considered final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff duration for the given
// attempt number (0-based retry index), clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

// sleepWithContext sleeps for d using the provided sleep function, but aborts
// early if ctx is canceled.
func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
