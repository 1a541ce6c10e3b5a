// Package paypal posts NVP requests to the PayPal API.
package paypal

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/application/gateway"
	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/constants"
	"github.com/membergate/membergate/internal/shared/logger"
)

const (
	LiveEndpoint    = "https://api-3t.paypal.com/nvp"
	SandboxEndpoint = "https://api-3t.sandbox.paypal.com/nvp"

	defaultTimeout = 45 * time.Second
	// NVP replies are short key/value strings.
	maxResponseSize = 64 << 10
)

// RequestObserver records the latency and result of each call.
type RequestObserver interface {
	ObserveGatewayRequest(method, result string, elapsed time.Duration)
}

// Client implements gateway.NVPTransport over HTTPS.
type Client struct {
	httpClient *http.Client
	endpoint   string
	insecure   bool
	observer   RequestObserver
	logger     logger.Interface
}

var _ gateway.NVPTransport = (*Client)(nil)

// NewClient builds a client for the endpoint matching the sandbox flag,
// unless cfg.PayPal.Endpoint overrides it.
func NewClient(cfg config.GatewayConfig, observer RequestObserver, logger logger.Interface) *Client {
	endpoint := cfg.PayPal.Endpoint
	if endpoint == "" {
		endpoint = LiveEndpoint
		if cfg.Sandbox {
			endpoint = SandboxEndpoint
		}
	}

	timeout := cfg.PayPal.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// NVP is served over HTTP/1.1.
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	if cfg.PayPal.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in, logged
		logger.Warnw("paypal TLS certificate verification is disabled",
			"endpoint", endpoint,
			"setting", "gateway.paypal.insecure_skip_verify",
		)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		endpoint:   endpoint,
		insecure:   cfg.PayPal.InsecureSkipVerify,
		observer:   observer,
		logger:     logger,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Post sends fields form-encoded and parses the body of the reply. Non-200
// replies are returned with whatever fields could be parsed.
func (c *Client) Post(ctx context.Context, fields url.Values) (*gateway.NVPResponse, error) {
	method := fields.Get("METHOD")
	start := time.Now()

	if c.insecure {
		c.logger.Warnw("sending paypal request without TLS verification", "method", method, "endpoint", c.endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build paypal request: %w", err)
	}
	req.Header.Set("Content-Type", constants.ContentTypeForm)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "transport_error", start)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.observe(method, "transport_error", start)
		return nil, fmt.Errorf("failed to read paypal response: %w", err)
	}

	parsed, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		c.logger.Debugw("paypal response was not fully parseable", "error", err, "status", resp.StatusCode)
	}

	result := &gateway.NVPResponse{StatusCode: resp.StatusCode, Fields: parsed}
	switch {
	case resp.StatusCode != http.StatusOK:
		c.observe(method, "http_"+fmt.Sprint(resp.StatusCode), start)
	case result.IsFailure():
		c.observe(method, "failure", start)
	default:
		c.observe(method, "ok", start)
	}
	return result, nil
}

func (c *Client) observe(method, result string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveGatewayRequest(method, result, time.Since(start))
	}
}
