package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// Fetcher returns the current weather for the configured location.
// It must be safe to call again on every tick.
type Fetcher interface {
	Fetch(ctx context.Context) (Observation, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the OpenWeatherMap current weather API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[Observation]
	apiKey    string
	city      string
	country   string
	userAgent string
	log       logrus.FieldLogger
}

const (
	DefaultEndpoint  = "https://api.openweathermap.org"
	currentPath      = "/data/2.5/weather"
	defaultUserAgent = "wallweather/0.1"
	requestTimeout   = 10 * time.Second

	// The breaker opens after this many consecutive failures and lets a single
	// request through once RetryAfter has passed.
	breakerTrip       = 3
	defaultRetryAfter = 30 * time.Second
)

// Options configure a Client.
type Options struct {
	Endpoint string // empty uses DefaultEndpoint
	APIKey   string
	City     string
	Country  string
	Logger   logrus.FieldLogger

	// RetryAfter is how long an open breaker fails fast before the next call
	// reaches the API again. It must be shorter than the poll interval so a
	// degraded controller retries on every tick. Zero uses 30s.
	RetryAfter time.Duration
}

// NewClient builds a Client for one location.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("api key is empty")
	}
	if strings.TrimSpace(opts.City) == "" {
		return nil, fmt.Errorf("city is empty")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		apiKey:    strings.TrimSpace(opts.APIKey),
		city:      strings.TrimSpace(opts.City),
		country:   strings.TrimSpace(opts.Country),
		userAgent: defaultUserAgent,
		log:       logger,
	}
	retryAfter := opts.RetryAfter
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	c.breaker = gobreaker.NewCircuitBreaker[Observation](gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 1,
		Timeout:     retryAfter,
		// Cancellation is the caller giving up, not the API failing.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("weather circuit breaker changed state")
		},
	})
	return c, nil
}

// Fetch retrieves the current weather for the client's location.
func (c *Client) Fetch(ctx context.Context) (Observation, error) {
	if c == nil {
		return Observation{}, fmt.Errorf("client is nil")
	}
	obs, err := c.breaker.Execute(func() (Observation, error) {
		return c.fetchCurrent(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Observation{}, &FetchError{Kind: KindCircuitOpen, Err: err}
	}
	return obs, err
}

func (c *Client) fetchCurrent(ctx context.Context) (Observation, error) {
	var payload CurrentResponse
	if err := c.doURL(ctx, c.currentURL(), &payload); err != nil {
		return Observation{}, err
	}
	return payload.observation()
}

func (c *Client) currentURL() *url.URL {
	query := c.city
	if c.country != "" {
		query += "," + c.country
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)
	return &url.URL{Path: currentPath, RawQuery: values.Encode()}
}

func (c *Client) doURL(ctx context.Context, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the api key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return &FetchError{Kind: KindNetwork, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &FetchError{Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FetchError{Kind: KindDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
