package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
)

// TokenSource supplies the bearer token for outgoing requests. An error is
// treated the same as having no token.
type TokenSource interface {
	Token() (string, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the job-matching backend. Every endpoint method performs
// exactly one HTTP call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zerolog.Logger
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tokens:  opts.Tokens,
		logger:  logger,
	}
}

func (c *Client) bearer() string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token()
	if err != nil {
		return ""
	}
	return token
}

// do runs one request through the normalizing interceptor. body and out may
// be nil. Any failure comes back as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return connectionError(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return connectionError(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Request got no response")
		return noResponse(err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("Request handled")

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := normalize(resp.StatusCode, snippet)
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("kind", apiErr.Kind.String()).
			Str("request_id", requestID).
			Msg("Request failed")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to decode response")
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: msgBadResponse, Err: err}
	}
	return nil
}

func idPath(format string, id int64) string {
	return strings.Replace(format, "{id}", url.PathEscape(strconv.FormatInt(id, 10)), 1)
}
