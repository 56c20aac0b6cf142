package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/brainscan-go/internal/infra/buildinfo"
	"github.com/yndnr/brainscan-go/internal/infra/tlsroots"
	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
	"github.com/yndnr/brainscan-go/internal/telemetry/metric"
	"github.com/yndnr/brainscan-go/internal/telemetry/tracer"
)

// Defaults for a new client.
const (
	DefaultBaseURL       = "http://127.0.0.1:5000"
	DefaultTimeout       = 30 * time.Second
	DefaultRedirectDelay = time.Second
)

// Credentials is the session the client authenticates with.
type Credentials interface {
	Credential() string
	Invalidate(ctx context.Context) error
}

// Notifier surfaces user-facing messages.
type Notifier interface {
	Error(message string)
}

// Redirector moves the user to another view after a delay.
type Redirector interface {
	RedirectAfter(path string, delay time.Duration)
}

// HTTPClient provides HTTP communication with the backend.
type HTTPClient struct {
	baseURL       string
	client        *http.Client
	creds         Credentials
	notifier      Notifier
	redirector    Redirector
	redirectDelay time.Duration
	limiter       *rate.Limiter
	metrics       *metric.Registry
	log           logger.Logger
	caFile        string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithCredentials sets the session whose credential is sent.
func WithCredentials(creds Credentials) Option {
	return func(c *HTTPClient) {
		c.creds = creds
	}
}

// WithNotifier sets where failure notices go.
func WithNotifier(n Notifier) Option {
	return func(c *HTTPClient) {
		c.notifier = n
	}
}

// WithRedirector sets who handles the redirect after a rejected credential.
func WithRedirector(r Redirector, delay time.Duration) Option {
	return func(c *HTTPClient) {
		c.redirector = r
		if delay > 0 {
			c.redirectDelay = delay
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *HTTPClient) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithMetrics records every round-trip in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *HTTPClient) {
		c.metrics = reg
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// WithCAFile trusts the certificates in path in addition to the system roots.
func WithCAFile(path string) Option {
	return func(c *HTTPClient) {
		c.caFile = path
	}
}

// NewHTTPClient creates a client for the backend at server.
func NewHTTPClient(server string, opts ...Option) (*HTTPClient, error) {
	baseURL := strings.TrimRight(server, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &HTTPClient{
		baseURL:       baseURL,
		client:        &http.Client{Timeout: DefaultTimeout},
		redirectDelay: DefaultRedirectDelay,
		log:           logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	tlsCfg, err := tlsroots.ClientConfig(c.caFile)
	if err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}
	if tlsCfg != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		c.client.Transport = transport
	}
	return c, nil
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// HeatmapURL returns the address of a heatmap image served by the backend.
func (c *HTTPClient) HeatmapURL(rel string) string {
	return c.baseURL + "/static/" + strings.TrimLeft(rel, "/")
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// PostJSON performs a POST request with a JSON body.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body)
}

// PutJSON performs a PUT request with a JSON body.
func (c *HTTPClient) PutJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request. body may be nil.
func (c *HTTPClient) Delete(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodDelete, path, body)
}

// Upload posts r as a multipart file under field.
func (c *HTTPClient) Upload(ctx context.Context, path, field, filename string, r io.Reader) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
}

// Download streams the response body of a GET into w. progress, when not
// nil, receives the bytes written so far and the expected total (-1 when
// unknown).
func (c *HTTPClient) Download(ctx context.Context, path string, w io.Writer, progress func(written, total int64)) (int64, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode >= 400 {
		return 0, c.Decode(resp, nil)
	}
	defer resp.Body.Close()

	dst := w
	if progress != nil {
		dst = &progressWriter{w: w, total: resp.ContentLength, report: progress}
	}
	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, transportError(err)
	}
	return n, nil
}

// Decode reads a response into target and closes the body. Failed
// responses become an *APIError that has already been reported to the
// notifier; a rejected credential also ends the session.
func (c *HTTPClient) Decode(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		apiErr := statusError(resp.StatusCode, body)
		ctx := context.Background()
		if resp.Request != nil {
			ctx = resp.Request.Context()
		}
		c.fail(ctx, apiErr)
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if body == nil {
		return c.do(ctx, method, path, nil, "")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(data), "application/json")
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	ctx, span := tracer.StartSpan(ctx, method+" "+metric.Route(path))
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			apiErr := transportError(err)
			span.RecordError(apiErr)
			c.fail(ctx, apiErr)
			return nil, apiErr
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(req, span.ID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveRequest(method, path, status, elapsed)
	}
	span.SetAttribute("status", status)
	logger.L(ctx).Debug("api request", "method", method, "path", path, "status", status, "elapsed", elapsed)

	if err != nil {
		apiErr := transportError(err)
		span.RecordError(apiErr)
		c.fail(ctx, apiErr)
		return nil, apiErr
	}
	return resp, nil
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	if c.creds != nil {
		if credential := c.creds.Credential(); credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set(tracer.HeaderRequestID, requestID)
}

func (c *HTTPClient) fail(ctx context.Context, apiErr *APIError) {
	if apiErr.Unauthorized() && c.creds != nil {
		if err := c.creds.Invalidate(context.WithoutCancel(ctx)); err != nil {
			c.log.Warn("clear rejected credential failed", "error", err)
		}
		if c.redirector != nil {
			c.redirector.RedirectAfter("/", c.redirectDelay)
		}
	}
	if c.notifier != nil {
		c.notifier.Error(apiErr.Message)
	}
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}

// probe hits /status without notifying; the monitor reports on its own.
func (c *HTTPClient) probe(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(req, tracer.NewID())

	start := time.Now()
	resp, err := c.client.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveRequest(http.MethodGet, "/status", status, time.Since(start))
	}
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}
