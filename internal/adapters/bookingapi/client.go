// Package bookingapi is the HTTP client for the third-party hotel data source.
package bookingapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"admas_hotel/internal/adapters/observability"
	"admas_hotel/internal/domain"
)

type Client struct {
	base string
	host string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
	cb   *gobreaker.CircuitBreaker
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		host: u.Host,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "hotel-api",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
		}),
	}, nil
}

// ---- Public API (tries the current endpoint first, falls back to the legacy one) ----

// GetHotelDetails returns the raw hotel-details payload for a stay query.
func (c *Client) GetHotelDetails(ctx context.Context, hotelID string, q domain.StayQuery) (map[string]any, error) {
	v := url.Values{}
	v.Set("hotel_id", hotelID)
	if q.CheckIn != "" {
		v.Set("arrival_date", q.CheckIn)
	}
	if q.CheckOut != "" {
		v.Set("departure_date", q.CheckOut)
	}
	if q.Adults > 0 {
		v.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.Currency != "" {
		v.Set("currency_code", q.Currency)
	}
	if q.Locale != "" {
		v.Set("languagecode", q.Locale)
	}
	candidates := []string{
		c.base + "/hotels/getHotelDetails?" + v.Encode(), // preferred
		c.base + "/v1/hotels/data?" + v.Encode(),         // legacy
	}
	var out map[string]any
	return out, c.getFirst(ctx, candidates, &out)
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("hotel api: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("hotel api: %w", domain.ErrUnauthorized)
	ErrForbidden    = fmt.Errorf("hotel api: %w", domain.ErrForbidden)
)

// clientErr carries 4xx outcomes through the breaker without counting as failures.
type clientErr struct{ err error }

func (c *Client) getFirst(ctx context.Context, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.guarded(ctx, u, out); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err // non-404: stop early
		}
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("no candidate URL succeeded")
}

func (c *Client) guarded(ctx context.Context, u string, out any) error {
	start := time.Now()
	res, err := c.cb.Execute(func() (interface{}, error) {
		err := c.get(ctx, u, out)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
			return clientErr{err}, nil
		}
		return nil, err
	})
	if ce, ok := res.(clientErr); ok {
		err = ce.err
	}
	observability.ObserveExternal("hotel-api", endpointLabel(u), statusLabel(err), time.Since(start))
	return err
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("x-rapidapi-key", c.key)
		req.Header.Set("x-rapidapi-host", c.host)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "admas-hotel/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode hotel payload: %w", err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func endpointLabel(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "/hotels/"); i >= 0 {
		return u[i:]
	}
	if i := strings.Index(u, "/v1/"); i >= 0 {
		return u[i:]
	}
	return "other"
}

func statusLabel(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% crypto/rand jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
