// Package httpapi implements ports.RemoteAPI over the hosted
// backend's HTTP/JSON surface: REST endpoints for the three
// collections and a functions endpoint for the AI invocations.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tendhq/tend/internal/logging"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// anonKeyHeader carries the project's anonymous API key.
const anonKeyHeader = "apikey"

// Client talks to the hosted backend. Timeouts are the caller's
// responsibility (the store and the coach bound every context).
type Client struct {
	base   string
	key    string
	http   *http.Client
	logger *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures a logger for request-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		key:    anonKey,
		http:   http.DefaultClient,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// do performs one round trip and decodes a 2xx body into out (when
// non-nil). Non-2xx statuses map onto the client error taxonomy:
// 4xx -> ValidationError, everything else -> NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set(anonKeyHeader, c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Message == "" {
			eb.Message = resp.Status
		}
		c.logger.Debug("request rejected", "op", op, "status", resp.StatusCode, "msg", eb.Message)

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return &domain.ValidationError{Field: eb.Field, Reason: eb.Message}
		}
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("server returned %s: %s", resp.Status, eb.Message)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

// FetchAll loads all three collections in one call.
func (c *Client) FetchAll(ctx context.Context) (domain.Collections, error) {
	var data domain.Collections
	if err := c.do(ctx, "fetch_all", http.MethodGet, "/rest/v1/all", nil, &data); err != nil {
		return domain.Collections{}, err
	}
	return data, nil
}

// CreateHabit creates a habit; the id comes back from the server.
func (c *Client) CreateHabit(ctx context.Context, name, routineID string) (domain.Habit, error) {
	payload := map[string]string{"name": name, "routine_id": routineID}
	var habit domain.Habit
	if err := c.do(ctx, "create_habit", http.MethodPost, "/rest/v1/habits", payload, &habit); err != nil {
		return domain.Habit{}, err
	}
	return habit, nil
}

// SetHabitCompletion upserts the completion log for (habitID, date).
func (c *Client) SetHabitCompletion(ctx context.Context, habitID string, date domain.Date, completed bool) error {
	payload := map[string]any{
		"habit_id":  habitID,
		"date":      date,
		"completed": completed,
	}
	return c.do(ctx, "set_completion", http.MethodPatch, "/rest/v1/habit_logs", payload, nil)
}

// DeleteHabit removes a habit (the server cascades its logs).
func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	return c.do(ctx, "delete_habit", http.MethodDelete, "/rest/v1/habits/"+habitID, nil, nil)
}

// DeleteRoutine removes a routine (the server cascades).
func (c *Client) DeleteRoutine(ctx context.Context, routineID string) error {
	return c.do(ctx, "delete_routine", http.MethodDelete, "/rest/v1/routines/"+routineID, nil, nil)
}

// InvokeFunction calls a hosted function. A 2xx settlement without a
// usable response surfaces as AIServiceError.
func (c *Client) InvokeFunction(ctx context.Context, name string, payload map[string]any) (ports.FunctionResult, error) {
	var res ports.FunctionResult
	if err := c.do(ctx, "invoke_"+name, http.MethodPost, "/functions/v1/"+name, payload, &res); err != nil {
		return ports.FunctionResult{}, err
	}
	if res.Response == "" {
		return ports.FunctionResult{}, &domain.AIServiceError{Fn: name}
	}
	return res, nil
}

var _ ports.RemoteAPI = (*Client)(nil)
