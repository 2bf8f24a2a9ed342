package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/metrics"
)

// maxBodySize caps how much of a backend response is read.
const maxBodySize = 4 << 20

// Session is the part of the session context the gateway needs.
type Session interface {
	Token() (string, bool)
	Invalidate()
}

// Request describes one backend call. Endpoint is a stable label for
// metrics and logs; it defaults to Method and Path.
type Request struct {
	Method   string
	Path     string
	Body     any
	Endpoint string
}

// Client sends authenticated requests to the backend REST API. Each call is
// attempted exactly once.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient returns an http.Client traced with otelhttp. insecureTLS
// accepts the self-signed certificate of a development backend.
func NewHTTPClient(timeout time.Duration, insecureTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // development backend only
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Do sends req with the session's bearer token, if any, and decodes a 2xx
// body into out when out is non-nil. A 401 invalidates sess before the error
// is returned. Failures are *Error values wrapping the models error kinds.
func (c *Client) Do(ctx context.Context, sess Session, req Request, out any) error {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Method + " " + req.Path
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if sess != nil {
		if token, ok := sess.Token(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("Backend request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return &Error{Err: fmt.Errorf("%w: %v", models.ErrNetwork, err)}
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug("Backend response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		sess.Invalidate()
	}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(respBody),
			Body:    respBody,
			Err:     classify(resp.StatusCode),
		}
	}

	if readErr != nil {
		return &Error{Status: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", models.ErrNetwork, readErr)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrUnexpectedShape, endpoint, err)
	}
	return nil
}
