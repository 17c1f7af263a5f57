// Package platform connects the inspector to the host application it is
// linked into. A host package registers itself from init by setting
// NewProviderFunc; binaries pick a host by importing it for side effects.
package platform

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Root is one inspectable root of a host.
type Root struct {
	Name string
	Node any
}

// Provider is a running host.
type Provider struct {
	// Host names the host for logs and the roots listing.
	Host  string
	Roots []Root
	// Run drives the host's update cycle until ctx is done. Nil when the
	// host has no cycle of its own.
	Run func(ctx context.Context) error
	// Sync waits until writes posted so far have been applied.
	Sync func(ctx context.Context) error
}

// Options configures the host a provider starts.
type Options struct {
	// Animate asks demo hosts to keep changing their tree.
	Animate bool
	// Interval is the host's frame interval.
	Interval time.Duration
	Logger   *slog.Logger
}

// ErrUnsupported is returned when no host is linked into the binary.
var ErrUnsupported = errors.New("no inspectable host linked into this binary")

// NewProviderFunc is set by host packages via init().
// See internal/widget/inspect/host.go for the demo widget host.
var NewProviderFunc func(opts Options) (*Provider, error)

// NewProvider starts the linked host.
func NewProvider(opts Options) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}

// Start runs p's update cycle in the background. The returned function
// stops it and waits for it to exit.
func (p *Provider) Start(ctx context.Context) (stop func()) {
	if p.Run == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Wait calls Sync when the host provides one.
func (p *Provider) Wait(ctx context.Context) error {
	if p.Sync == nil {
		return nil
	}
	return p.Sync(ctx)
}
