// Package inspector ties the registry, identity tracker, walker and
// mutation applicator into the engine a remote console talks to.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/mutation"
	"github.com/mj1618/layout-inspector/internal/walker"
)

var (
	// ErrSnapshotInFlight is returned when a snapshot of the same root is
	// already running.
	ErrSnapshotInFlight = errors.New("snapshot of this root already in progress")
	// ErrUnknownRoot is returned for a root name that was never added.
	ErrUnknownRoot = errors.New("unknown root")
	// ErrNoRoots is returned when no root has been added.
	ErrNoRoots = errors.New("no roots added")
	// ErrRootExists is returned by AddRoot for a duplicate name.
	ErrRootExists = errors.New("root already added")
)

type root struct {
	name   string
	handle identity.Handle
	busy   atomic.Bool
}

// Inspector is safe for concurrent use.
type Inspector struct {
	registry   *descriptor.Registry
	tracker    *identity.Tracker
	walker     *walker.Walker
	applicator *mutation.Applicator
	logger     *slog.Logger

	walkCfg     walker.Config
	retireAfter int

	mu    sync.RWMutex
	roots []*root

	selMu     sync.Mutex
	selection model.NodeID
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithRegistry sets the descriptor registry. The default is the
// process-wide registry.
func WithRegistry(r *descriptor.Registry) Option {
	return func(in *Inspector) { in.registry = r }
}

// WithLogger sets the logger used by the inspector and its parts.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inspector) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithWalkerConfig sets traversal bounds.
func WithWalkerConfig(cfg walker.Config) Option {
	return func(in *Inspector) { in.walkCfg = cfg }
}

// WithRetireAfter sets how many snapshots a node may be missing from before
// its id is retired.
func WithRetireAfter(k int) Option {
	return func(in *Inspector) { in.retireAfter = k }
}

// New creates an inspector.
func New(opts ...Option) *Inspector {
	in := &Inspector{
		logger:      slog.New(slog.DiscardHandler),
		walkCfg:     walker.DefaultConfig(),
		retireAfter: identity.DefaultRetireAfter,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.registry == nil {
		in.registry = descriptor.Default()
	}
	in.tracker = identity.NewTracker(
		identity.WithRetireAfter(in.retireAfter),
		identity.WithLogger(in.logger.With("component", "identity")),
	)
	in.walker = walker.New(in.registry, in.tracker,
		walker.WithConfig(in.walkCfg),
		walker.WithLogger(in.logger.With("component", "walker")),
	)
	in.applicator = mutation.New(in.registry, in.tracker,
		mutation.WithLogger(in.logger.With("component", "mutation")),
	)
	return in
}

// Registry returns the registry the inspector resolves descriptors from.
func (in *Inspector) Registry() *descriptor.Registry { return in.registry }

// Tracker returns the inspector's identity tracker.
func (in *Inspector) Tracker() *identity.Tracker { return in.tracker }

// AddRoot makes node inspectable under name. The inspector keeps only the
// handle returned by the node's descriptor, so a root destroyed by the host
// stops resolving instead of being kept alive.
func (in *Inspector) AddRoot(name string, node any) error {
	desc, ok := in.registry.ResolveNode(node)
	if !ok {
		return fmt.Errorf("add root %q (%T): %w", name, node, model.ErrNoDescriptor)
	}
	h := desc.Identity(node)
	if h == nil {
		h = identity.Opaque(node, "root:"+name)
	}
	if _, err := identity.KeyOf(h); err != nil {
		return fmt.Errorf("add root %q: %w", name, err)
	}
	resolved, ok := identity.ResolveOf(h)
	if !ok {
		return fmt.Errorf("add root %q: %w", name, model.ErrStaleReference)
	}
	if _, opaque := resolved.(identity.OpaqueNode); opaque {
		return fmt.Errorf("add root %q: descriptor %s has no resolvable identity", name, desc.Name())
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	for _, r := range in.roots {
		if r.name == name {
			return fmt.Errorf("add root %q: %w", name, ErrRootExists)
		}
	}
	in.roots = append(in.roots, &root{name: name, handle: h})
	in.logger.Info("root added", "root", name, "type", desc.Name())
	return nil
}

// RemoveRoot stops inspecting the named root. It reports whether the root
// existed.
func (in *Inspector) RemoveRoot(name string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, r := range in.roots {
		if r.name == name {
			in.roots = append(in.roots[:i], in.roots[i+1:]...)
			return true
		}
	}
	return false
}

// Roots lists root names in the order they were added.
func (in *Inspector) Roots() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	names := make([]string, len(in.roots))
	for i, r := range in.roots {
		names[i] = r.name
	}
	return names
}

func (in *Inspector) lookup(name string) (*root, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if len(in.roots) == 0 {
		return nil, ErrNoRoots
	}
	if name == "" {
		return in.roots[0], nil
	}
	for _, r := range in.roots {
		if r.name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, name)
}

// GetSnapshot walks the named root, or the first root when name is empty.
// At most one snapshot per root runs at a time; an overlapping call fails
// with ErrSnapshotInFlight. Snapshots of different roots run in parallel.
func (in *Inspector) GetSnapshot(ctx context.Context, name string) (string, *model.Snapshot, error) {
	r, err := in.lookup(name)
	if err != nil {
		return "", nil, err
	}
	if !r.busy.CompareAndSwap(false, true) {
		return r.name, nil, fmt.Errorf("root %q: %w", r.name, ErrSnapshotInFlight)
	}
	defer r.busy.Store(false)

	node, ok := identity.ResolveOf(r.handle)
	if !ok {
		return r.name, nil, fmt.Errorf("root %q destroyed: %w", r.name, model.ErrStaleReference)
	}
	s, err := in.walker.SnapshotScope(ctx, r.name, node)
	if err != nil {
		return r.name, nil, err
	}
	return r.name, s, nil
}

// SetAttribute applies one mutation. The result reports every failure;
// see mutation.Applicator.
func (in *Inspector) SetAttribute(ctx context.Context, id model.NodeID, name string, value any) model.MutationResult {
	return in.Apply(ctx, model.MutationRequest{NodeID: id, Name: name, Value: value})
}

// SetAttributeText applies a value typed as text, as a console or shell
// sends it. The text is read with model.ParseValue; when that reading is a
// TypeMismatch, the raw text is tried as a string, so a string attribute
// can be set to 42, true or null without quoting.
func (in *Inspector) SetAttributeText(ctx context.Context, id model.NodeID, name, text string) model.MutationResult {
	v := model.ParseValue(text)
	res := in.SetAttribute(ctx, id, name, v)
	if _, isString := v.(string); res.Error == model.TypeMismatch && !isString {
		return in.SetAttribute(ctx, id, name, text)
	}
	return res
}

// Apply applies req.
func (in *Inspector) Apply(ctx context.Context, req model.MutationRequest) model.MutationResult {
	return in.applicator.Apply(ctx, req)
}

// Select marks id as the console's current selection. The selected id is
// pinned so it is not retired while the node is merely out of view; a
// previous selection is released. Selecting 0 clears the selection.
func (in *Inspector) Select(id model.NodeID) error {
	in.selMu.Lock()
	defer in.selMu.Unlock()
	if id == in.selection {
		return nil
	}
	if id != 0 {
		if err := in.tracker.Pin(id); err != nil {
			return err
		}
	}
	if in.selection != 0 {
		in.tracker.Unpin(in.selection)
	}
	in.selection = id
	return nil
}

// Selection returns the selected id, or 0.
func (in *Inspector) Selection() model.NodeID {
	in.selMu.Lock()
	defer in.selMu.Unlock()
	return in.selection
}
