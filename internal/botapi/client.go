// Package botapi is a minimal HTTP adapter for the Telegram Bot API. It
// implements the identity.Resolver port (getChat), the sticker catalog
// fetcher (getStickerSet), and sticker delivery (sendSticker). Requests are
// paced with a client-side rate limiter so bursts of lookups stay polite.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/logging"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// DefaultHTTPTimeout bounds a single API call.
const DefaultHTTPTimeout = 30 * time.Second

// defaultRate is the steady request rate. The Bot API tolerates short
// bursts but throttles sustained traffic around 30 requests per second;
// staying well under that avoids 429 handling in the common case.
const defaultRate = 10

// Client talks to the Bot API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests and self-hosted
// gateways).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit sets the steady request rate per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Bot API client. The token is required.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.ErrTokenRequired
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: DefaultBaseURL,
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(defaultRate), 1),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the Bot API response wrapper.
type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// invoke performs one API method call with a JSON body and decodes the
// result into out (which may be nil when the result is irrelevant).
func (c *Client) invoke(ctx context.Context, method string, params any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(params)
	if err != nil {
		return errors.WrapParse("json", method, err)
	}

	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.WrapAPI(method, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("method", method).Msg("Bot API call")
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapAPI(method, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", method, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.WrapParse("json", method, err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return errors.NewAPIError(method, code, env.Description)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return errors.WrapParse("json", method, err)
		}
	}
	return nil
}
