/*
Package api is the HTTP client for the From Metro REST endpoints.

Every call takes a context, is bounded by the client timeout, and reports failures as
*errs.CustomError: server-side errors keep the code and message from the error envelope,
transport failures map to ErrUpstreamUnavailable. Reads (GET) that fail in transport are
retried with exponential backoff; writes are sent once.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"izmetro/internal/app/station"
	"izmetro/internal/app/user"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Registration is the body of POST /users.
type Registration struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Gender      string `json:"gender"`
	Station     string `json:"station"`
	Wagon       string `json:"wagon"`
	Color       string `json:"color"`
	ColorCode   string `json:"colorCode"`
	Status      string `json:"status"`
	Timer       string `json:"timer"`
	Online      bool   `json:"online"`
	IsWaiting   bool   `json:"isWaiting"`
	IsConnected bool   `json:"isConnected"`
	Position    string `json:"position"`
	Mood        string `json:"mood"`
}

type joinStationRequest struct {
	UserID  string `json:"userId"`
	Station string `json:"station"`
}

type joinStationResponse struct {
	Success bool        `json:"success"`
	Users   []user.User `json:"users"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Defaults for retried reads.
const (
	DefaultReadRetries = 2
	DefaultRetryBase   = 200 * time.Millisecond
)

// Client talks to one API base URL, e.g. http://localhost:8080/api.
type Client struct {
	baseURL   string
	client    *http.Client
	retries   uint64
	retryBase time.Duration
	logger    zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithReadRetries sets how many times a GET is retried after a transport failure.
// Zero disables retries.
func WithReadRetries(n uint64) Option {
	return func(c *Client) { c.retries = n }
}

// WithRetryBase sets the first backoff delay; later delays double.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryBase = d
		}
	}
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		retries:   DefaultReadRetries,
		retryBase: DefaultRetryBase,
		logger:    logx.Component("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateUser registers a rider and returns the stored record with its id.
func (c *Client) CreateUser(ctx context.Context, reg Registration) (user.User, error) {
	var created user.User
	err := c.do(ctx, http.MethodPost, "/users", reg, &created)
	return created, err
}

// ListUsers fetches every user record.
func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

// UpdateUser applies a partial update to the user.
func (c *Client) UpdateUser(ctx context.Context, id string, patch user.Patch) (user.User, error) {
	var updated user.User
	err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), patch, &updated)
	return updated, err
}

// DeleteUser removes the user record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// Ping tells the server the user's client is alive.
func (c *Client) Ping(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/ping", nil, nil)
}

// WaitingRoom fetches the station aggregation of city.
func (c *Client) WaitingRoom(ctx context.Context, city string) (station.WaitingRoom, error) {
	var room station.WaitingRoom
	err := c.do(ctx, http.MethodGet, "/stations/waiting-room?city="+url.QueryEscape(city), nil, &room)
	return room, err
}

// JoinStation connects the user to the station group and returns its members.
func (c *Client) JoinStation(ctx context.Context, id, stationName string) ([]user.User, error) {
	var out joinStationResponse
	if err := c.do(ctx, http.MethodPost, "/rooms/join-station", joinStationRequest{UserID: id, Station: stationName}, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// do performs a JSON round trip, retrying GETs that could not reach the server.
func (c *Client) do(ctx context.Context, method, endpoint string, body, dst any) error {
	if method != http.MethodGet || c.retries == 0 {
		return c.roundTrip(ctx, method, endpoint, body, dst)
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBase))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.roundTrip(ctx, method, endpoint, body, dst)
		if errs.Is(err, errs.ErrUpstreamUnavailable) {
			c.logger.Debug().Int("attempt", attempt).Str("endpoint", endpoint).Msg("Read failed, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

// roundTrip performs one JSON request. A nil body sends no payload, a nil dst discards the response.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("Request failed")
		return errs.NewError(errs.ErrUpstreamUnavailable)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res.StatusCode, raw)
	}

	if dst == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// decodeError turns a non-2xx response into a CustomError, keeping the server's message.
func decodeError(status int, raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		fallback := errs.NewError(errs.ErrUnknown)
		fallback.Status = status
		return fallback
	}
	return &errs.CustomError{Code: env.Code, Message: env.Message, Status: status}
}

// IsNotFound reports whether err says the user record no longer exists.
func IsNotFound(err error) bool {
	var ce *errs.CustomError
	return errors.As(err, &ce) && ce.Status == http.StatusNotFound
}
