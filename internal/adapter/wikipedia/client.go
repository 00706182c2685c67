// Package wikipedia fetches and parses the source page listing city
// monthly mean temperatures, one table per continent.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultPageURL is the production source page.
const DefaultPageURL = "https://en.wikipedia.org/wiki/List_of_cities_by_average_temperature"

// DefaultUserAgent identifies the scraper per the API etiquette rules.
const DefaultUserAgent = "city-temp-map/1.0 (+https://github.com/couchcryptid/city-temp-map)"

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// BackoffConfig controls retry behaviour for page fetches.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client downloads the source page. Transient failures are retried
// with exponential backoff behind a circuit breaker.
type Client struct {
	pageURL    string
	userAgent  string
	httpClient *http.Client
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a page client. Empty pageURL and userAgent fall
// back to the defaults.
func NewClient(pageURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "wikipedia",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		pageURL:   pageURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		logger:  logger,
	}
}

// FetchPage downloads the page HTML.
func (c *Client) FetchPage(ctx context.Context) ([]byte, error) {
	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			return c.fetchOnce(ctx)
		})
		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		// Client errors other than 429 won't heal on retry.
		if errors.Is(err, errUnexpected) {
			return nil, fmt.Errorf("fetch page: %w", err)
		}

		if attempt >= c.backoff.MaxRetries {
			return nil, fmt.Errorf("fetch page: %w", err)
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		c.logger.Warn("page fetch failed, retrying",
			"attempt", attempt+1,
			"max_retries", c.backoff.MaxRetries,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func (c *Client) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= 500:
		return nil, errServerError
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
