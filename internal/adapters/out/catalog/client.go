// Package catalog implements ports.CatalogClient over the catalog service REST API.
//
// Every product read is one breaker-guarded call made of up to MaxRetries+1 attempts.
// Each attempt has its own timeout. Transport errors, timeouts, 429 and 5xx answers
// are retried with exponential backoff; 404 and malformed answers are not. The breaker
// only counts upstream failures, so unknown or inactive products never open it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "catalog"

// Config tunes the resilience policy of the client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	RetryInterval   time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// productDTO is the catalog representation of a product.
type productDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cfg        Config
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

var _ ports.CatalogClient = (*Client)(nil)

// NewClient builds a client. A nil httpClient gets a default one whose transport is
// traced with otelhttp; m may be nil.
func NewClient(cfg Config, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errs.NewValueIsRequiredError("catalog base URL")
	}
	baseURL, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("catalog base URL", fmt.Errorf("%q is not an absolute URL", raw))
	}
	if cfg.Timeout <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("catalog timeout", fmt.Errorf("%s is not positive", cfg.Timeout))
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 1
	}

	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	logger = logger.With("component", "CatalogClient")
	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    serviceName,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// FetchProduct reads the current snapshot of a product.
func (c *Client) FetchProduct(ctx context.Context, productID int64) (ports.ProductSnapshot, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchWithRetry(ctx, productID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.CatalogCall(metrics.CatalogOutcomeRejected)
			return ports.ProductSnapshot{}, errs.NewUpstreamFailureError(serviceName, err)
		}
		return ports.ProductSnapshot{}, err
	}
	return result.(ports.ProductSnapshot), nil
}

// CheckAvailability reads the product and reports whether quantity can be ordered.
func (c *Client) CheckAvailability(ctx context.Context, productID int64, quantity int) error {
	product, err := c.FetchProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		c.metrics.CatalogCall(metrics.CatalogOutcomeUnavailable)
		return errs.NewObjectIsUnavailableError("product", productID, "inactive")
	}
	if product.StockQuantity < quantity {
		c.metrics.CatalogCall(metrics.CatalogOutcomeUnavailable)
		return errs.NewObjectIsUnavailableErrorWithCause("product", productID, "insufficient-stock",
			fmt.Errorf("available %d, requested %d", product.StockQuantity, quantity))
	}
	return nil
}

func (c *Client) fetchWithRetry(ctx context.Context, productID int64) (ports.ProductSnapshot, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryInterval
	policy.MaxElapsedTime = 0

	var snapshot ports.ProductSnapshot
	operation := func() error {
		var err error
		snapshot, err = c.fetchOnce(ctx, productID)
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.metrics.CatalogCall(metrics.CatalogOutcomeRetry)
		c.logger.Warn("retrying catalog request", "productId", productID, "wait", wait, "error", err)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.cfg.MaxRetries), ctx), notify)
	if err != nil {
		if errors.Is(err, errs.ErrUpstreamFailure) {
			c.metrics.CatalogCall(metrics.CatalogOutcomeFailure)
		}
		return ports.ProductSnapshot{}, err
	}
	return snapshot, nil
}

// fetchOnce performs a single attempt. Errors wrapped in backoff.Permanent end the retry loop.
func (c *Client) fetchOnce(ctx context.Context, productID int64) (ports.ProductSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProductSnapshot{}, backoff.Permanent(err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.productURL(productID), nil)
	if err != nil {
		return ports.ProductSnapshot{}, backoff.Permanent(errs.NewUpstreamFailureError(serviceName, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ports.ProductSnapshot{}, backoff.Permanent(ctx.Err())
		}
		return ports.ProductSnapshot{}, errs.NewUpstreamFailureError(serviceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		var dto productDTO
		if decodeErr := json.NewDecoder(resp.Body).Decode(&dto); decodeErr != nil {
			return ports.ProductSnapshot{}, backoff.Permanent(errs.NewUpstreamFailureError(serviceName,
				fmt.Errorf("decode product %d: %w", productID, decodeErr)))
		}
		c.metrics.CatalogCall(metrics.CatalogOutcomeOK)
		return ports.ProductSnapshot{
			ID:            productID,
			Name:          dto.Name,
			Price:         dto.Price,
			StockQuantity: dto.StockQuantity,
			IsActive:      dto.IsActive,
		}, nil
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.CatalogCall(metrics.CatalogOutcomeNotFound)
		return ports.ProductSnapshot{}, backoff.Permanent(errs.NewObjectNotFoundError("product", productID))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return ports.ProductSnapshot{}, errs.NewUpstreamFailureError(serviceName,
			fmt.Errorf("GET product %d: %s", productID, resp.Status))
	default:
		return ports.ProductSnapshot{}, backoff.Permanent(errs.NewUpstreamFailureError(serviceName,
			fmt.Errorf("GET product %d: unexpected status %s", productID, resp.Status)))
	}
}

func (c *Client) productURL(productID int64) string {
	return c.baseURL.JoinPath("api", "v1", "products", strconv.FormatInt(productID, 10)).String()
}

// countsAsHealthy tells the breaker which results say nothing bad about the catalog.
func countsAsHealthy(err error) bool {
	return err == nil || !errors.Is(err, errs.ErrUpstreamFailure)
}
