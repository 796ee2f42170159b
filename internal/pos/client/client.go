package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pushsport/pos/pkg/logger"
)

const defaultRequestTimeout = 10 * time.Second

// Config holds the settings shared by the retail backend clients.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// newRestyClient builds a resty client for the retail backend with an
// OpenTelemetry-instrumented transport.
func newRestyClient(cfg Config) *resty.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	rc := resty.New()
	rc.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	if cfg.APIKey != "" {
		rc.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	logger.Logger.Info().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", timeout).
		Msg("Retail backend client initialized")

	return rc
}

// envelope mirrors the retail backend's standard response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
