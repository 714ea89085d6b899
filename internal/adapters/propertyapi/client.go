// Package propertyapi is an HTTP client for the read-only property endpoints.
package propertyapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"eiendom_showcase/internal/adapters/observability"
	"eiendom_showcase/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for base (e.g. http://localhost:8080). rps <= 0 means 20.
func New(base string, rps int) (*Client, error) {
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	if err := c.get(ctx, "list", c.base+"/properties", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	var out domain.Property
	if err := c.get(ctx, "detail", c.base+"/properties/"+url.PathEscape(id), &out); err != nil {
		return domain.Property{}, err
	}
	return out, nil
}

// ---- Internals ----

// ErrNotFound matches domain.ErrNotFound with errors.Is.
var ErrNotFound = fmt.Errorf("propertyapi: %w", domain.ErrNotFound)

// get performs a single GET with client-side rate limiting and decodes a 200 body into out.
// There are no retries: a failure is reported to the caller as is.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "eiendom-showcase/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("property_api", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("property_api", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return nil

	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound

	default:
		// the API only ever sends {"error": "..."}; surface it for the logs
		var body struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(b, &body) == nil && body.Error != "" {
			return fmt.Errorf("property api %d: %s", resp.StatusCode, body.Error)
		}
		return fmt.Errorf("property api %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// IsNotFound reports whether err means the property does not exist.
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
