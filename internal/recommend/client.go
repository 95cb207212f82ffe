package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const (
	defaultRPS   = 2.0
	defaultBurst = 4

	// error bodies are truncated to this many bytes in Error.Message
	maxMessageLen = 512
)

// Client is a rate-limited recommender client. It never retries; a failed
// call is reported to the caller, who decides whether to call again.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call. Zero leaves calls unbounded except by ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit caps outbound calls at rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the recommender at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		limiter: rate.NewLimiter(defaultRPS, defaultBurst),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommend asks the recommender to synthesize a trip. The result is not
// persisted anywhere.
//
// The recommender answers with a Trip. A body that carries an error flag or
// message is returned as an in-band *Error. An HTML/markdown recommendation
// body is rejected with domain.ErrNotImplemented.
func (c *Client) Recommend(ctx context.Context, req Request) (domain.Trip, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("recommend.Client.Recommend: marshal: %w", err)
	}

	body, err := c.do(ctx, "recommend", http.MethodPost, "/recommend", nil, payload)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("recommend.Client.Recommend: %w", err)
	}

	trip, err := decodeTrip(body)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("recommend.Client.Recommend: %w", err)
	}
	return fillDefaults(trip, req), nil
}

// ExploreResult is the recommender's general ranking.
type ExploreResult struct {
	Top3        []domain.Trip `json:"top3"`
	More        []domain.Trip `json:"more"`
	UserID      string        `json:"user_id"`
	GeneratedAt string        `json:"generated_at"`
}

// Trips returns the primary results followed by the overflow results.
func (r ExploreResult) Trips() []domain.Trip {
	out := make([]domain.Trip, 0, len(r.Top3)+len(r.More))
	out = append(out, r.Top3...)
	return append(out, r.More...)
}

// Explore fetches general recommendations.
func (c *Client) Explore(ctx context.Context, topK, moreK int) (ExploreResult, error) {
	q := url.Values{}
	q.Set("top_k", strconv.Itoa(topK))
	q.Set("more_k", strconv.Itoa(moreK))

	body, err := c.do(ctx, "explore", http.MethodGet, "/explore", q, nil)
	if err != nil {
		return ExploreResult{}, fmt.Errorf("recommend.Client.Explore: %w", err)
	}
	if err := inBandError("explore", body); err != nil {
		return ExploreResult{}, fmt.Errorf("recommend.Client.Explore: %w", err)
	}

	var res ExploreResult
	if err := json.Unmarshal(body, &res); err != nil {
		return ExploreResult{}, fmt.Errorf("recommend.Client.Explore: %w", &Error{Op: "explore", Status: http.StatusOK, Message: "malformed body", Err: err})
	}
	return res, nil
}

// do executes one rate-limited request and returns the body of a 2xx reply.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.logger.Debug("recommender request", "op", op, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("recommender unreachable", "op", op, "error", err)
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("recommender response",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("recommender error status", "op", op, "status", resp.StatusCode)
		return nil, &Error{Op: op, Status: resp.StatusCode, Message: truncate(string(body))}
	}
	return body, nil
}

// decodeTrip interprets a recommend reply.
func decodeTrip(body []byte) (domain.Trip, error) {
	if err := inBandError("recommend", body); err != nil {
		return domain.Trip{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.Trip{}, &Error{Op: "recommend", Status: http.StatusOK, Message: "malformed body", Err: err}
	}
	_, hasHTML := fields["html"]
	_, hasMarkdown := fields["markdown"]
	if hasHTML || hasMarkdown {
		return domain.Trip{}, fmt.Errorf("html/markdown recommendation body: %w", domain.ErrNotImplemented)
	}

	var trip domain.Trip
	if err := json.Unmarshal(body, &trip); err != nil {
		return domain.Trip{}, &Error{Op: "recommend", Status: http.StatusOK, Message: "malformed trip", Err: err}
	}
	return trip, nil
}

// inBandError detects a failure the recommender reported inside a 2xx body:
// {"error": true, "error_message": "..."}, {"error": "..."}, or {"detail": "..."}.
func inBandError(op string, body []byte) error {
	var env struct {
		Error        json.RawMessage `json:"error"`
		ErrorMessage *string         `json:"error_message"`
		Detail       json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		// Not an object; let the caller's own decoding report it.
		return nil
	}

	msg := ""
	failed := false
	switch raw := strings.TrimSpace(string(env.Error)); {
	case raw == "true":
		failed = true
	case strings.HasPrefix(raw, `"`):
		var s string
		if json.Unmarshal(env.Error, &s) == nil && s != "" {
			failed, msg = true, s
		}
	}
	if len(env.Detail) > 0 && string(env.Detail) != "null" {
		failed = true
		var s string
		if json.Unmarshal(env.Detail, &s) == nil {
			msg = s
		} else {
			msg = string(env.Detail)
		}
	}
	if !failed {
		return nil
	}
	if env.ErrorMessage != nil && *env.ErrorMessage != "" {
		msg = *env.ErrorMessage
	}
	if msg == "" {
		msg = "recommender reported an error"
	}
	return &Error{Op: op, Status: http.StatusOK, InBand: true, Message: truncate(msg)}
}

// fillDefaults supplies the fields a recommender may leave out.
func fillDefaults(t domain.Trip, req Request) domain.Trip {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedBy == "" {
		t.CreatedBy = req.UserID
	}
	if t.Name == "" {
		t.Name = req.Form.TripName
	}
	if t.AvgAge == "" {
		t.AvgAge = domain.AgeBand(req.Form.AvgAge)
	}
	if t.Visibility == "" {
		t.Visibility = domain.Visibility(req.Form.Visibility)
	}
	return t
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	n := maxMessageLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
