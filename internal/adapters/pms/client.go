package pms

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

	"github.com/rs/zerolog/log"

	"pms_sync/internal/adapters/observability"
	"pms_sync/internal/domain"
)

// defaultRetryAfter is assumed when a 429 response carries no Retry-After.
const defaultRetryAfter = 2 * time.Second

type Client struct {
	base       string
	hc         *http.Client
	key        string
	limiter    domain.Limiter
	retryMax   int
	backoffCap int
}

func New(base, key string, limiter domain.Limiter, retryMax, backoffCap int) (*Client, error) {
	if limiter == nil {
		return nil, fmt.Errorf("limiter is required")
	}
	if retryMax <= 0 {
		retryMax = 10
	}
	if backoffCap <= 0 {
		backoffCap = 30
	}
	return &Client{
		base:       strings.TrimRight(base, "/"),
		hc:         &http.Client{Timeout: 10 * time.Second},
		key:        key,
		limiter:    limiter,
		retryMax:   retryMax,
		backoffCap: backoffCap,
	}, nil
}

// ---- Public API ----

func (c *Client) ListBookingIDs(ctx context.Context, updatedAfter time.Time) ([]int64, error) {
	q := url.Values{}
	if !updatedAfter.IsZero() {
		q.Set("updated_at.gt", updatedAfter.UTC().Format(time.RFC3339))
	}

	var payload map[string]any
	err := c.withRetry(ctx, "/bookings", func(ctx context.Context, attempt int) error {
		payload = nil
		return c.get(ctx, "/bookings", "/bookings", q, attempt, &payload)
	})
	if err != nil {
		return nil, err
	}

	raw, ok := payload["data"].([]any)
	if !ok {
		return nil, domain.ErrNoData
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, ok := asInt64(v)
		if !ok {
			return nil, &domain.InvalidDataError{Endpoint: "/bookings", Field: "data"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	const endpoint = "/bookings/{id}"
	data, err := c.fetch(ctx, fmt.Sprintf("/bookings/%d", id), endpoint, bookingRequired)
	if err != nil {
		return domain.Booking{}, err
	}
	return mapBooking(endpoint, data)
}

func (c *Client) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	const endpoint = "/rooms/{id}"
	data, err := c.fetch(ctx, fmt.Sprintf("/rooms/%d", id), endpoint, roomRequired)
	if err != nil {
		return domain.Room{}, err
	}
	return mapRoom(endpoint, data)
}

func (c *Client) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	const endpoint = "/room-types/{id}"
	data, err := c.fetch(ctx, fmt.Sprintf("/room-types/%d", id), endpoint, roomTypeRequired)
	if err != nil {
		return domain.RoomType{}, err
	}
	return mapRoomType(endpoint, data)
}

func (c *Client) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	const endpoint = "/guests/{id}"
	data, err := c.fetch(ctx, fmt.Sprintf("/guests/%d", id), endpoint, guestRequired)
	if err != nil {
		return domain.Guest{}, err
	}
	return mapGuest(endpoint, data)
}

// ---- Internals ----

// fetch runs one logical GET through the retry executor and validates that
// every required field is present in the decoded payload.
func (c *Client) fetch(ctx context.Context, path, endpoint string, required []string) (map[string]any, error) {
	var data map[string]any
	err := c.withRetry(ctx, endpoint, func(ctx context.Context, attempt int) error {
		data = nil
		return c.get(ctx, path, endpoint, nil, attempt, &data)
	})
	if err != nil {
		return nil, err
	}
	for _, f := range required {
		if v, ok := data[f]; !ok || v == nil {
			return nil, &domain.InvalidDataError{Endpoint: endpoint, Field: f}
		}
	}
	return data, nil
}

// get performs a single attempt: proactive limiter hit, then the request,
// then response classification. path is the concrete URL path; endpoint is
// the route template used for limiter keys, metrics and errors.
func (c *Client) get(ctx context.Context, path, endpoint string, q url.Values, attempt int, out any) error {
	wait, err := c.limiter.Hit(ctx, endpoint)
	if err != nil {
		return &domain.TransientError{Endpoint: endpoint, Err: err}
	}
	if wait > 0 {
		observability.ObserveThrottle(endpoint, "proactive")
		return &domain.ThrottledError{Endpoint: endpoint, Wait: wait, Attempt: attempt}
	}

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pms-sync/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.TransientError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal(endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		retryAfter := retryAfterDuration(resp, defaultRetryAfter)
		wait := backoffWait(retryAfter, attempt, c.backoffCap)
		observability.ObserveThrottle(endpoint, "reactive")
		log.Warn().Str("endpoint", endpoint).Dur("wait", wait).
			Int("attempt", attempt+1).Int("max", c.retryMax).
			Msg("pms rate limit exceeded")
		return &domain.ThrottledError{Endpoint: endpoint, Wait: wait, Attempt: attempt + 1}

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(b))).Msg("pms request failed")
		return &domain.FatalError{Endpoint: endpoint, Status: resp.StatusCode}
	}
}

// backoffWait scales the server-signaled wait exponentially in the attempt
// count, capped so a long throttle cannot grow the wait without bound.
func backoffWait(retryAfter time.Duration, attempt, capFactor int) time.Duration {
	factor := 1
	for i := 0; i < attempt && factor < capFactor; i++ {
		factor <<= 1
	}
	if factor > capFactor {
		factor = capFactor
	}
	return retryAfter * time.Duration(factor)
}

// retryAfterDuration parses Retry-After (seconds or HTTP-date), falling back
// to def when absent or invalid.
func retryAfterDuration(resp *http.Response, def time.Duration) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return def
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return def
}
