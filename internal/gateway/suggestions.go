// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jeranaias/kronos-tui/internal/model"
)

// Suggestion endpoints, relative to the base URL.
const (
	SubmitSuggestionPath = "/submit_suggestion"
	SuggestionsPath      = "/suggestions"
)

const listCacheKey = "suggestions"

// Suggestion is one item of the public suggestion box.
type Suggestion struct {
	UserName   string `json:"userName"`
	Suggestion string `json:"suggestion"`
}

var (
	// ErrEmptyUserName rejects a submission without a name.
	ErrEmptyUserName = &model.ValidationError{Field: "userName", Message: "must not be empty"}

	// ErrEmptySuggestion rejects a submission without text.
	ErrEmptySuggestion = &model.ValidationError{Field: "suggestion", Message: "must not be empty"}

	// ErrRateLimited is returned without a request when submissions come
	// faster than the configured rate.
	ErrRateLimited = errors.New("too many suggestions, try again in a minute")
)

// SuggestionClient talks to the suggestion box service.
type SuggestionClient struct {
	base
	limiter *rate.Limiter
	cache   *cache.Cache
}

// NewSuggestionClient creates a client for the service at baseURL. Fetched
// lists are cached for one minute and submissions are unlimited until
// WithRateLimit is called.
func NewSuggestionClient(baseURL string) *SuggestionClient {
	return &SuggestionClient{
		base:    newBase(baseURL),
		limiter: rate.NewLimiter(rate.Inf, 0),
		cache:   cache.New(time.Minute, 2*time.Minute),
	}
}

// WithTimeout sets the request timeout. Zero keeps the default.
func (c *SuggestionClient) WithTimeout(timeout time.Duration) *SuggestionClient {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client.
func (c *SuggestionClient) WithHTTPClient(hc *http.Client) *SuggestionClient {
	c.httpClient = hc
	return c
}

// WithLogger sets the request logger.
func (c *SuggestionClient) WithLogger(log logrus.FieldLogger) *SuggestionClient {
	if log != nil {
		c.log = log.WithField("component", "suggestion-gateway")
	}
	return c
}

// WithRateLimit allows perMinute submissions per minute with a burst of the
// same size. Zero or less disables the limit.
func (c *SuggestionClient) WithRateLimit(perMinute int) *SuggestionClient {
	if perMinute <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return c
}

// WithCacheTTL sets how long a fetched list is reused. Zero or less turns
// caching off.
func (c *SuggestionClient) WithCacheTTL(ttl time.Duration) *SuggestionClient {
	if ttl <= 0 {
		c.cache = nil
		return c
	}
	c.cache = cache.New(ttl, 2*ttl)
	return c
}

// BaseURL returns the service base URL.
func (c *SuggestionClient) BaseURL() string { return c.baseURL }

// Submit posts one suggestion. Empty fields are rejected before any request.
func (c *SuggestionClient) Submit(ctx context.Context, userName, suggestion string) error {
	userName = strings.TrimSpace(userName)
	suggestion = strings.TrimSpace(suggestion)
	if userName == "" {
		return ErrEmptyUserName
	}
	if suggestion == "" {
		return ErrEmptySuggestion
	}
	if !c.limiter.Allow() {
		return ErrRateLimited
	}

	raw, err := c.do(ctx, "submit suggestion", http.MethodPost, SubmitSuggestionPath,
		Suggestion{UserName: userName, Suggestion: suggestion}, nil)
	if err != nil {
		return err
	}
	c.log.WithField("body", strings.TrimSpace(string(raw))).Debug("suggestion submitted")

	if c.cache != nil {
		c.cache.Delete(listCacheKey)
	}
	return nil
}

// FetchAll returns every suggestion, newest as the service orders them.
func (c *SuggestionClient) FetchAll(ctx context.Context) ([]Suggestion, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(listCacheKey); ok {
			return append([]Suggestion(nil), cached.([]Suggestion)...), nil
		}
	}

	var list []Suggestion
	if _, err := c.do(ctx, "fetch suggestions", http.MethodGet, SuggestionsPath, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Suggestion{}
	}

	if c.cache != nil {
		c.cache.SetDefault(listCacheKey, list)
	}
	return append([]Suggestion(nil), list...), nil
}

// Invalidate drops any cached list.
func (c *SuggestionClient) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}
