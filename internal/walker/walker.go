// Package walker turns a live component tree into a model.Snapshot.
//
// The traversal is depth-first pre-order and bounded by a maximum depth and
// node count. Failures are kept local: a node whose geometry cannot be read
// is emitted with nil bounds, a node with no descriptor becomes a leaf, and
// a revisited node is cut from its parent's children with a
// StructuralCycle marker on the parent. Only cancellation aborts a
// snapshot.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
)

const (
	DefaultMaxDepth = 64
	DefaultMaxNodes = 10000
)

// Config bounds a traversal.
type Config struct {
	MaxDepth int
	MaxNodes int
	// Boundary reports nodes that are inspected on their own, such as
	// embedded trees with a separate observer. Such nodes below the root are
	// emitted shallow and listed in Snapshot.ObservableRoots.
	Boundary func(node any) bool
}

// DefaultConfig returns the default traversal bounds.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}

// Walker builds snapshots using a registry and an identity tracker. It may
// be shared across goroutines, but callers must not run two traversals of
// the same root at once.
type Walker struct {
	registry *descriptor.Registry
	tracker  *identity.Tracker
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Walker.
type Option func(*Walker)

// WithConfig replaces the traversal bounds. Non-positive limits keep their
// defaults.
func WithConfig(cfg Config) Option {
	return func(w *Walker) {
		if cfg.MaxDepth > 0 {
			w.cfg.MaxDepth = cfg.MaxDepth
		}
		if cfg.MaxNodes > 0 {
			w.cfg.MaxNodes = cfg.MaxNodes
		}
		w.cfg.Boundary = cfg.Boundary
	}
}

// WithLogger sets the walker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the capture time source.
func WithClock(now func() time.Time) Option {
	return func(w *Walker) { w.now = now }
}

// New creates a walker.
func New(registry *descriptor.Registry, tracker *identity.Tracker, opts ...Option) *Walker {
	w := &Walker{
		registry: registry,
		tracker:  tracker,
		cfg:      DefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the walker's traversal bounds.
func (w *Walker) Config() Config { return w.cfg }

// ErrNilRoot is returned when asked to snapshot a nil root.
var ErrNilRoot = errors.New("snapshot: nil root")

// Snapshot traverses root in the default scope.
func (w *Walker) Snapshot(ctx context.Context, root any) (*model.Snapshot, error) {
	return w.SnapshotScope(ctx, "", root)
}

// SnapshotScope traverses root as one tracker pass over scope. Ids of nodes
// last seen under another scope are kept, so a node moved between roots
// keeps its id. On cancellation the partial result is discarded and
// ctx.Err() is returned.
func (w *Walker) SnapshotScope(ctx context.Context, scope string, root any) (*model.Snapshot, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := w.now()
	t := &traversal{
		w:       w,
		ctx:     ctx,
		pass:    w.tracker.Begin(scope),
		visited: make(map[any]struct{}),
	}
	rootID, err := t.visit(root, 0, "0", false, true)
	if err != nil {
		t.pass.Abandon()
		w.logger.Debug("snapshot abandoned", "scope", scope, "nodes", len(t.nodes), "err", err)
		return nil, err
	}
	retired := t.pass.End()

	s := model.NewSnapshot(rootID, t.nodes)
	s.TakenAt = start.UnixMilli()
	s.ObservableRoots = t.observable
	s.Fingerprint = model.Fingerprint(s)
	w.logger.Debug("snapshot taken",
		"scope", scope, "nodes", len(t.nodes), "retired", retired,
		"elapsed", w.now().Sub(start))
	return s, nil
}

// errRevisit is returned by visit for a node already emitted in this
// traversal.
var errRevisit = errors.New("node revisited")

type traversal struct {
	w          *Walker
	ctx        context.Context
	pass       *identity.Pass
	visited    map[any]struct{}
	nodes      []model.Node
	observable []model.NodeID
}

func (t *traversal) handleFor(desc descriptor.Descriptor, node any, position string) (identity.Handle, any) {
	if desc != nil {
		h, err := guard(func() identity.Handle { return desc.Identity(node) })
		if err == nil && h != nil {
			key, kerr := identity.KeyOf(h)
			if kerr == nil {
				return h, key
			}
			err = kerr
		}
		if err != nil {
			t.w.logger.Debug("identity read failed", "type", desc.Name(), "err", err)
		}
	}
	h := identity.Opaque(node, position)
	return h, h.Key()
}

// visit emits node and its subtree and returns the node's id.
func (t *traversal) visit(node any, depth int, position string, shallow, isRoot bool) (model.NodeID, error) {
	if err := t.ctx.Err(); err != nil {
		return 0, err
	}

	desc, _ := t.w.registry.ResolveNode(node)
	h, key := t.handleFor(desc, node, position)
	if _, seen := t.visited[key]; seen {
		return 0, errRevisit
	}
	t.visited[key] = struct{}{}
	id := t.pass.Observe(h)

	idx := len(t.nodes)
	t.nodes = append(t.nodes, model.Node{ID: id})
	n := &t.nodes[idx]

	if desc == nil {
		n.Type = typeName(node)
		n.QualifiedName = n.Type
		n.Markers = append(n.Markers, model.NoDescriptor)
		if b, ok := node.(model.Bounder); ok {
			n.Bounds = t.readBounds(n, b.Bounds)
		}
		return id, nil
	}

	n.Type = desc.Name()
	n.QualifiedName = typeName(node)
	n.Bounds = t.readBounds(n, func() (model.Bounds, error) { return desc.Bounds(node) })
	if namer, ok := desc.(descriptor.Namer); ok {
		if name, err := guard(func() string { return namer.NodeName(node) }); err == nil {
			n.Name = name
		}
	}
	if tagger, ok := desc.(descriptor.Tagger); ok {
		if tags, err := guard(func() []string { return tagger.Tags(node) }); err == nil && len(tags) > 0 {
			n.Tags = append([]string(nil), tags...)
		}
	}

	if !isRoot && t.w.cfg.Boundary != nil && t.w.cfg.Boundary(node) {
		n.Shallow = true
		t.observable = append(t.observable, id)
		return id, nil
	}
	if shallow {
		n.Shallow = true
		return id, nil
	}

	attrs, err := guard(func() []model.Attribute { return desc.Attributes(node) })
	if err != nil {
		t.fail(idx, desc, "attributes", err)
	} else {
		n.Attributes = model.CloneAttributes(attrs)
	}

	children, err := guard(func() []any { return desc.Children(node) })
	if err != nil {
		t.fail(idx, desc, "children", err)
		return id, nil
	}
	if len(children) == 0 {
		return id, nil
	}

	var active any
	if ac, ok := desc.(descriptor.ActiveChilder); ok {
		if a, err := guard(func() any { return ac.ActiveChild(node) }); err == nil {
			active = a
		}
	}

	var childIDs []model.NodeID
	var activeID model.NodeID
	var markers []model.ErrorKind
	for i, child := range children {
		if child == nil {
			continue
		}
		if depth+1 > t.w.cfg.MaxDepth {
			markers = appendMarker(markers, model.DepthLimit)
			break
		}
		if len(t.nodes) >= t.w.cfg.MaxNodes {
			markers = appendMarker(markers, model.NodeLimit)
			break
		}
		isActive := active != nil && sameNode(child, active)
		childShallow := active != nil && !isActive
		cid, err := t.visit(child, depth+1, position+"/"+strconv.Itoa(i), childShallow, false)
		if errors.Is(err, errRevisit) {
			markers = appendMarker(markers, model.StructuralCycle)
			t.w.logger.Debug("structural cycle", "parent", id, "child", typeName(child))
			continue
		}
		if err != nil {
			return 0, err
		}
		childIDs = append(childIDs, cid)
		if isActive {
			activeID = cid
		}
	}

	// Recursion may have grown the slice; n is stale.
	n = &t.nodes[idx]
	n.Children = childIDs
	n.ActiveChild = activeID
	for _, m := range markers {
		n.Markers = appendMarker(n.Markers, m)
	}
	return id, nil
}

func (t *traversal) readBounds(n *model.Node, read func() (model.Bounds, error)) *model.Bounds {
	b, err := guardErr(read)
	if err != nil {
		n.Markers = appendMarker(n.Markers, model.GeometryUnavailable)
		return nil
	}
	return &b
}

func (t *traversal) fail(idx int, desc descriptor.Descriptor, what string, err error) {
	t.nodes[idx].Markers = appendMarker(t.nodes[idx].Markers, model.DescriptorFailed)
	t.w.logger.Warn("descriptor failed", "type", desc.Name(), "read", what, "err", err)
}

func appendMarker(markers []model.ErrorKind, kind model.ErrorKind) []model.ErrorKind {
	for _, m := range markers {
		if m == kind {
			return markers
		}
	}
	return append(markers, kind)
}

func typeName(node any) string {
	if node == nil {
		return "nil"
	}
	return reflect.TypeOf(node).String()
}

// sameNode reports whether a and b are the same node. Non-comparable
// values never match.
func sameNode(a, b any) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// guard calls fn, turning a panic in host code into an error.
func guard[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(), nil
}

func guardErr[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
