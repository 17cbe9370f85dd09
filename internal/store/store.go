// Package store implements the HTTP client for the external activity signup
// service. It covers the three endpoints the service exposes:
//
//	GET    /activities
//	POST   /activities/{name}/signup      (form body: email=...)
//	DELETE /activities/{name}/unregister  (form body: email=...)
//
// Structured error responses ({"detail": "..."}) surface as *APIError so the
// caller can show the server's own message; anything else comes back as a
// wrapped transport or decoding error.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"

	"github.com/vk/signupboard/internal/activity"
	"github.com/vk/signupboard/internal/ctxlog"
)

// DefaultTimeout bounds every request unless overridden via WithTimeout.
const DefaultTimeout = 10 * time.Second

// fallbackDetail is shown when a non-2xx response carries no usable detail.
const fallbackDetail = "An error occurred"

// APIError is a structured non-2xx response from the signup service.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("signup service returned %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the signup service. It is safe for concurrent use.
type Client struct {
	rc *resty.Client
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rc.SetTimeout(d)
	}
}

// New builds a Client against the given base URL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		// The unregister endpoint takes its email in a form-encoded DELETE
		// body, which resty refuses unless asked.
		SetAllowMethodDeletePayload(true)

	c := &Client{rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections held by the underlying client.
func (c *Client) Close() error {
	return c.rc.Close()
}

// errorEnvelope is the error body shape of the signup service.
type errorEnvelope struct {
	Detail string `json:"detail"`
}

// messageEnvelope is the success body shape of the mutating endpoints.
type messageEnvelope struct {
	Message string `json:"message"`
}

// List fetches the full activity roster.
func (c *Client) List(ctx context.Context) (activity.Roster, error) {
	logger := ctxlog.FromContext(ctx)

	var roster activity.Roster
	var apiErr errorEnvelope

	res, err := c.rc.R().
		SetContext(ctx).
		SetResult(&roster).
		SetError(&apiErr).
		Get("/activities")
	if err != nil {
		logger.Error("Fetching activities failed.", "error", err)
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	if res.IsError() {
		return nil, newAPIError(res.StatusCode(), apiErr.Detail)
	}
	logger.Debug("Fetched activities.", "count", len(roster))
	return roster, nil
}

// Signup registers email for the named activity and returns the server's
// confirmation message.
func (c *Client) Signup(ctx context.Context, activityName, email string) (string, error) {
	return c.mutate(ctx, "signup", activityName, email)
}

// Unregister removes email from the named activity and returns the server's
// confirmation message.
func (c *Client) Unregister(ctx context.Context, activityName, email string) (string, error) {
	return c.mutate(ctx, "unregister", activityName, email)
}

// mutate performs one of the two form-encoded roster mutations. Both share
// the request and response shape; only the HTTP method and path leaf differ.
func (c *Client) mutate(ctx context.Context, op, activityName, email string) (string, error) {
	logger := ctxlog.FromContext(ctx).With(slog.String("op", op), slog.String("activity", activityName))

	var okBody messageEnvelope
	var apiErr errorEnvelope

	req := c.rc.R().
		SetContext(ctx).
		// SetPathParam percent-encodes names like "Chess Club".
		SetPathParam("activity", activityName).
		SetFormData(map[string]string{"email": email}).
		SetResult(&okBody).
		SetError(&apiErr)

	var res *resty.Response
	var err error
	switch op {
	case "signup":
		res, err = req.Post("/activities/{activity}/signup")
	case "unregister":
		res, err = req.Delete("/activities/{activity}/unregister")
	default:
		return "", fmt.Errorf("unknown roster operation %q", op)
	}
	if err != nil {
		logger.Error("Roster mutation failed in transport.", "error", err)
		return "", fmt.Errorf("%s request: %w", op, err)
	}
	if res.IsError() {
		return "", newAPIError(res.StatusCode(), apiErr.Detail)
	}
	logger.Debug("Roster mutation succeeded.", "message", okBody.Message)
	return okBody.Message, nil
}

// newAPIError builds an APIError, substituting the generic fallback when the
// server gave no structured detail (empty body, HTML error page, etc.).
func newAPIError(status int, detail string) *APIError {
	if detail == "" {
		detail = fallbackDetail
	}
	return &APIError{StatusCode: status, Detail: detail}
}

// Detail extracts the user-facing message from any error produced by this
// package: the server's own detail for API errors, the fallback otherwise.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return fallbackDetail
}
