// Package mutation applies remote attribute edits to live nodes.
package mutation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
)

// Applicator resolves a MutationRequest to a live node and forwards it to
// the node's descriptor. Requests against different nodes do not contend
// on any shared lock beyond the tracker's and registry's read locks.
type Applicator struct {
	registry *descriptor.Registry
	tracker  *identity.Tracker
	logger   *slog.Logger
}

// Option configures an Applicator.
type Option func(*Applicator)

// WithLogger sets the applicator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applicator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an applicator.
func New(registry *descriptor.Registry, tracker *identity.Tracker, opts ...Option) *Applicator {
	a := &Applicator{
		registry: registry,
		tracker:  tracker,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply validates req and hands it to the node's descriptor. It never
// returns an error: every failure is reported in the result. A request
// whose context is already done is not dispatched. Once dispatched the
// mutation is not cancellable.
func (a *Applicator) Apply(ctx context.Context, req model.MutationRequest) model.MutationResult {
	res := a.apply(ctx, req)
	if res.Applied {
		a.logger.Debug("mutation applied", "node", req.NodeID, "attr", req.Name)
	} else {
		a.logger.Debug("mutation failed", "node", req.NodeID, "attr", req.Name, "error", res.Error, "msg", res.Message)
	}
	return res
}

func (a *Applicator) apply(ctx context.Context, req model.MutationRequest) model.MutationResult {
	if err := ctx.Err(); err != nil {
		return model.Failed(fmt.Errorf("%w: %v", model.ErrCancelled, err))
	}

	node, err := a.tracker.Resolve(req.NodeID)
	if err != nil {
		return model.Failed(err)
	}
	if _, ok := node.(identity.OpaqueNode); ok {
		return model.Failed(fmt.Errorf("node %d: %w", req.NodeID, model.ErrNoDescriptor))
	}
	desc, ok := a.registry.ResolveNode(node)
	if !ok {
		return model.Failed(fmt.Errorf("node %d (%T): %w", req.NodeID, node, model.ErrNoDescriptor))
	}

	attrs, err := call(func() []model.Attribute { return desc.Attributes(node) })
	if err != nil {
		return model.Failed(fmt.Errorf("read attributes of node %d: %v: %w", req.NodeID, err, model.ErrDescriptorFailed))
	}
	var attr *model.Attribute
	for i := range attrs {
		if attrs[i].Name == req.Name {
			attr = &attrs[i]
			break
		}
	}
	if attr == nil {
		return model.Failed(fmt.Errorf("%s has no attribute %q: %w", desc.Name(), req.Name, model.ErrInvalidAttribute))
	}
	if !attr.Mutable {
		return model.Failed(fmt.Errorf("%s.%s: %w", desc.Name(), req.Name, model.ErrReadOnly))
	}

	value, err := descriptor.Check(*attr, req.Value)
	if err != nil {
		return model.Failed(err)
	}

	accepted, err := call(func() bool { return desc.SetAttribute(node, req.Name, value) })
	if err != nil {
		return model.Failed(fmt.Errorf("%s.%s: %v: %w", desc.Name(), req.Name, err, model.ErrMutatorFailed))
	}
	if !accepted {
		return model.Failed(fmt.Errorf("%s.%s: %w", desc.Name(), req.Name, model.ErrRejected))
	}
	return model.Applied()
}

func call[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(), nil
}
