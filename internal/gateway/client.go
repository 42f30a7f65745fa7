// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/kronos-tui/internal/logging"
)

const (
	// DefaultTimeout bounds a whole request/response exchange.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the largest response body accepted.
	MaxResponseSize = 10 * 1024 * 1024
)

// =============================================================================
// ERRORS
// =============================================================================

// GatewayError reports a failed exchange: transport failure, non-2xx status,
// oversized body, or a body that is not the expected JSON. Status is zero
// when no response was received.
type GatewayError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GatewayError) Unwrap() error { return e.Err }

// =============================================================================
// HTTP BASE
// =============================================================================

// base holds what the chat and suggestion clients share: one endpoint, one
// http.Client, one logger. No request is ever retried.
type base struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

func newBase(baseURL string) base {
	return base{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logging.Discard(),
	}
}

// do sends one request and decodes a 2xx JSON body into out (when out is
// non-nil). It returns the raw body for callers that only log it.
func (b *base) do(ctx context.Context, op, method, path string, in, out any) ([]byte, error) {
	url := b.baseURL + path
	fail := func(status int, err error) ([]byte, error) {
		return nil, &GatewayError{Op: op, URL: url, Status: status, Err: err}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fail(0, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	entry := b.log.WithFields(logrus.Fields{
		"op":         op,
		"method":     method,
		"path":       req.URL.Path,
		"request_id": requestID,
	})
	entry.Debug("gateway request")

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("gateway request failed")
		return fail(0, err)
	}
	defer resp.Body.Close()

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	})

	raw, err := readResponse(resp)
	if err != nil {
		entry.WithError(err).Warn("gateway response unreadable")
		return fail(resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.Warn("gateway response not successful")
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)))
	}
	entry.Info("gateway response")

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			entry.WithError(err).Warn("gateway response is not valid JSON")
			return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
		}
	}
	return raw, nil
}

// readResponse reads at most MaxResponseSize bytes and fails if the body is
// longer.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
