package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is wrapped by every error of an UnconfiguredProvider.
var ErrNotConfigured = errors.New("LLM provider not configured")

// UnconfiguredProvider stands in when no usable credentials were found.
// Every call fails with ErrProviderUnavailable so the quiz pipeline degrades
// to placeholder questions instead of the process refusing to start.
type UnconfiguredProvider struct {
	reason error
}

// NewUnconfiguredProvider returns a provider that always fails with reason.
func NewUnconfiguredProvider(reason error) *UnconfiguredProvider {
	return &UnconfiguredProvider{reason: reason}
}

func (u *UnconfiguredProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: fmt.Errorf("%w: %v", ErrNotConfigured, u.reason)}
}

func (u *UnconfiguredProvider) ModelID() string {
	return "unconfigured"
}
