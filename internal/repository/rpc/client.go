// Package rpc implements the remote backend boundary over HTTP. Every domain
// repository call becomes one POST to the backend's procedure endpoint with
// plain serializable arguments; structured error responses are mapped back
// into the domain taxonomy. Nothing in this package assumes in-process shared
// memory with the backend.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"dstu/internal/domain"
	"dstu/internal/metrics"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// ClientConfig holds configuration for the RPC client.
type ClientConfig struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	HTTPClient  *http.Client // optional, for tests
	Logger      *slog.Logger
}

// Client is the HTTP transport to the DSTU backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	stream  *http.Client
	logger  *slog.Logger
}

// NewClient creates a new RPC client.
func NewClient(cfg *ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	// An overall client timeout covers reading the response body, which
	// would sever a long-lived event stream mid-subscription. Stream
	// requests share the transport but carry no such deadline; their
	// lifetime is governed by the request context instead.
	streamClient := &http.Client{Transport: httpClient.Transport}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		http:    httpClient,
		stream:  streamClient,
		logger:  cfg.Logger,
	}
}

// call invokes a single remote procedure. params is marshalled as the request
// body; a non-nil result receives the decoded response body.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	start := time.Now()
	err := c.doCall(ctx, method, params, result)
	metrics.RecordRPCCall(method, time.Since(start), err)
	return err
}

func (c *Client) doCall(ctx context.Context, method string, params any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return &domain.InternalError{Message: fmt.Sprintf("encode %s params", method), Cause: err}
	}

	url := c.baseURL + "/rpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &domain.InternalError{Message: fmt.Sprintf("build %s request", method), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.InternalError{Message: fmt.Sprintf("call %s", method), Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(method, resp)
	}

	if result == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &domain.InternalError{Message: fmt.Sprintf("decode %s response", method), Cause: err}
	}
	return nil
}
