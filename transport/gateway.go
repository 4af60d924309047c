// Package transport executes the single HTTP POST each request makes to
// the payment backend. Failed posts are surfaced once and never retried;
// a caller that wants a retry issues a fresh request with a fresh order
// number.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Response carries the backend's status line and raw body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Gateway posts a JSON payload to the backend. A non-nil error signals a
// transport failure (no response at all); HTTP-level rejection is visible
// through the returned status code.
type Gateway interface {
	Post(ctx context.Context, url string, payload map[string]any) (Response, error)
}

// HTTPGateway implements Gateway over net/http with a per-call timeout
// and an optional circuit breaker. Exactly one attempt per call.
type HTTPGateway struct {
	Client  *http.Client
	Breaker *Breaker
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Post implements Gateway.
func (g HTTPGateway) Post(ctx context.Context, url string, payload map[string]any) (Response, error) {
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	if g.Breaker != nil && !g.Breaker.Allow() {
		return Response{}, ErrOpenCircuit
	}

	body, err := json.Marshal(payload)
	if err != nil {
		g.report(false)
		return Response{}, fmt.Errorf("transport: encode payload: %w", err)
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		g.report(false)
		return Response{}, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		g.report(false)
		g.Logger.Warn().Str("url", url).Err(err).Msg("backend_post_failed")
		return Response{}, fmt.Errorf("transport: post %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		g.report(false)
		return Response{}, fmt.Errorf("transport: read response: %w", err)
	}

	g.report(resp.StatusCode < 500)
	g.Logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("backend_post")
	return Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

func (g HTTPGateway) report(success bool) {
	if g.Breaker != nil {
		g.Breaker.Report(success)
	}
}
