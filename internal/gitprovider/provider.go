// Package gitprovider abstracts merge detection across git hosting platforms.
package gitprovider

import (
	"context"
	"fmt"
	"strings"
)

// Stable machine-readable error codes for provider failures.
const (
	CodePRNotFound          = "PR_NOT_FOUND"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeHTTPError           = "HTTP_ERROR"
	CodeUnexpectedError     = "UNEXPECTED_ERROR"
	CodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
)

// ProviderError is the single error type for all provider failures. Code is
// stable and machine-readable; StatusCode carries the upstream HTTP status
// when one exists, zero otherwise.
type ProviderError struct {
	Code       string
	Provider   string
	Message    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gitprovider: %s [%s, status %d]: %s", e.Provider, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gitprovider: %s [%s]: %s", e.Provider, e.Code, e.Message)
}

// Provider is a pluggable merge-detection integration for one git hosting
// platform.
type Provider interface {
	// Supports reports whether this provider recognizes the pull request
	// URL. It is a pure pattern match and never fails.
	Supports(url string) bool

	// CheckIfMerged reports whether the referenced pull request has merged.
	// Failures are returned as *ProviderError.
	CheckIfMerged(ctx context.Context, url string) (bool, error)

	// Name identifies the provider (e.g. "github").
	Name() string
}

// Registry holds the ordered list of registered providers. Lookup is
// first-match; platforms are expected to have disjoint URL patterns.
type Registry struct {
	providers []Provider
}

// NewRegistry builds a registry over the given providers, queried in order.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}

// FindProvider returns the first provider that supports the URL, or nil
// when the URL is blank or unmatched.
func (r *Registry) FindProvider(url string) Provider {
	if r == nil || strings.TrimSpace(url) == "" {
		return nil
	}
	for _, p := range r.providers {
		if p.Supports(url) {
			return p
		}
	}
	return nil
}

// GetProvider is FindProvider that fails with a typed error instead of
// returning nil.
func (r *Registry) GetProvider(url string) (Provider, error) {
	if p := r.FindProvider(url); p != nil {
		return p, nil
	}
	return nil, &ProviderError{
		Code:    CodeUnsupportedProvider,
		Message: fmt.Sprintf("no provider supports url %q", url),
	}
}
