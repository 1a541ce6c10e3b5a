package paypal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/logger"
)

type observed struct {
	method string
	result string
}

type observerStub struct {
	calls []observed
}

func (o *observerStub) ObserveGatewayRequest(method, result string, _ time.Duration) {
	o.calls = append(o.calls, observed{method, result})
}

func TestNewClient_Endpoint(t *testing.T) {
	log := logger.NewNop()

	live := NewClient(config.GatewayConfig{}, nil, log)
	assert.Equal(t, LiveEndpoint, live.Endpoint())

	sandbox := NewClient(config.GatewayConfig{Sandbox: true}, nil, log)
	assert.Equal(t, SandboxEndpoint, sandbox.Endpoint())

	override := NewClient(config.GatewayConfig{Sandbox: true, PayPal: config.PayPalConfig{Endpoint: "https://nvp.internal"}}, nil, log)
	assert.Equal(t, "https://nvp.internal", override.Endpoint())
}

func TestNewClient_VerifiesTLSByDefault(t *testing.T) {
	c := NewClient(config.GatewayConfig{}, nil, logger.NewNop())
	transport := c.httpClient.Transport.(*http.Transport)
	if transport.TLSClientConfig != nil {
		assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
	}
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}

func TestClient_PostParsesReply(t *testing.T) {
	var received url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		received, _ = url.ParseQuery(string(body))
		_, _ = io.WriteString(w, "PROFILEID=I%2dABC&ACK=Success&VERSION=124")
	}))
	defer srv.Close()

	obs := &observerStub{}
	c := NewClient(config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL}}, obs, logger.NewNop())

	resp, err := c.Post(context.Background(), url.Values{"METHOD": {"UpdateRecurringPaymentsProfile"}, "PROFILEID": {"I-ABC"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "I-ABC", resp.Fields.Get("PROFILEID"))
	assert.Equal(t, "Success", resp.Fields.Get("ACK"))
	assert.Equal(t, "I-ABC", received.Get("PROFILEID"))
	assert.Equal(t, []observed{{"UpdateRecurringPaymentsProfile", "ok"}}, obs.calls)
}

func TestClient_PostFailureReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ACK=Failure&L_ERRORCODE0=10527&L_LONGMESSAGE0=Invalid%20card")
	}))
	defer srv.Close()

	obs := &observerStub{}
	c := NewClient(config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL}}, obs, logger.NewNop())

	resp, err := c.Post(context.Background(), url.Values{"METHOD": {"X"}})
	require.NoError(t, err)
	assert.True(t, resp.IsFailure())
	assert.Equal(t, "10527: Invalid card", resp.ErrorMessage())
	assert.Equal(t, "failure", obs.calls[0].result)
}

func TestClient_PostNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL}}, nil, logger.NewNop())
	resp, err := c.Post(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestClient_PostTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL, Timeout: 20 * time.Millisecond}}
	c := NewClient(cfg, nil, logger.NewNop())

	_, err := c.Post(context.Background(), url.Values{})
	require.Error(t, err)
}

func TestClient_InsecureOptIn(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ACK=Success")
	}))
	defer srv.Close()

	strict := NewClient(config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL}}, nil, logger.NewNop())
	_, err := strict.Post(context.Background(), url.Values{})
	require.Error(t, err, "self-signed certificate must be rejected by default")

	insecure := NewClient(config.GatewayConfig{PayPal: config.PayPalConfig{Endpoint: srv.URL, InsecureSkipVerify: true}}, nil, logger.NewNop())
	resp, err := insecure.Post(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, "Success", resp.Fields.Get("ACK"))
}
