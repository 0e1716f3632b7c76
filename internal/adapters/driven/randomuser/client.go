package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RemoteContactSource = (*Client)(nil)

// userAgent identifies agenda to the service.
const userAgent = "agenda (+https://github.com/custodia-labs/agenda)"

// Config configures a Client.
type Config struct {
	// BaseURL is the service root; defaults to domain.DefaultAPIBaseURL.
	BaseURL string

	// Timeout bounds one request. Zero means no timeout.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client fetches random users over HTTP.
type Client struct {
	endpoint *url.URL
	timeout  time.Duration
	http     *http.Client
	limiter  *RateLimiter
}

// NewClient creates a new random-user client.
func NewClient(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = domain.DefaultAPIBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: api base url %q", domain.ErrInvalidInput, base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		endpoint: u.ResolveReference(&url.URL{Path: "api/"}),
		timeout:  cfg.Timeout,
		http:     httpClient,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// response mirrors the subset of the API payload agenda uses.
type response struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Picture struct {
			Large     string `json:"large"`
			Medium    string `json:"medium"`
			Thumbnail string `json:"thumbnail"`
		} `json:"picture"`
	} `json:"results"`
}

// FetchUsers requests count users. Transport failures and non-2xx
// statuses are domain.ErrNetwork; malformed payloads are domain.ErrDecode.
func (c *Client) FetchUsers(ctx context.Context, count int) ([]domain.RemoteUser, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limiter: %w", domain.ErrNetwork, err)
	}

	endpoint := *c.endpoint
	endpoint.RawQuery = url.Values{"results": {strconv.Itoa(count)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("GET %s", endpoint.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimited(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrNetwork, resp.Status)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: reading response: %w", domain.ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	users := make([]domain.RemoteUser, 0, len(payload.Results))
	for _, r := range payload.Results {
		users = append(users, domain.RemoteUser{
			FirstName:       r.Name.First,
			LastName:        r.Name.Last,
			Email:           r.Email,
			Phone:           r.Phone,
			LargePictureURL: r.Picture.Large,
		})
	}
	logger.Debug("decoded %d users", len(users))
	return users, nil
}
