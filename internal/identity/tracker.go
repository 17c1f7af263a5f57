package identity

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mj1618/layout-inspector/internal/model"
)

// DefaultRetireAfter is the number of consecutive passes a node may be
// missing from before its id is retired.
const DefaultRetireAfter = 2

type entry struct {
	id       model.NodeID
	key      any
	handle   Handle
	scope    string
	lastSeen uint64
	pins     int
}

// Tracker maps handles to NodeIDs across traversal passes. Ids are
// allocated in increasing order and never handed out twice, so a retired id
// cannot alias a newer node while a remote peer still holds it.
//
// Passes are grouped by scope (one per inspected root); a node is aged only
// by passes over the scope it was last seen in.
type Tracker struct {
	mu          sync.RWMutex
	retireAfter uint64
	next        model.NodeID
	byKey       map[any]*entry
	byID        map[model.NodeID]*entry
	passes      map[string]uint64
	logger      *slog.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithRetireAfter sets how many consecutive passes a node may be missing
// before retirement. Values below 1 are ignored.
func WithRetireAfter(k int) TrackerOption {
	return func(t *Tracker) {
		if k >= 1 {
			t.retireAfter = uint64(k)
		}
	}
}

// WithLogger sets the tracker's logger.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		retireAfter: DefaultRetireAfter,
		byKey:       make(map[any]*entry),
		byID:        make(map[model.NodeID]*entry),
		passes:      make(map[string]uint64),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Pass is one traversal over a scope. It must be finished with End or
// Abandon.
type Pass struct {
	t     *Tracker
	scope string
	seq   uint64
	seen  map[model.NodeID]struct{}
	done  bool
}

// Begin starts a pass over scope.
func (t *Tracker) Begin(scope string) *Pass {
	t.mu.RLock()
	seq := t.passes[scope] + 1
	t.mu.RUnlock()
	return &Pass{t: t, scope: scope, seq: seq, seen: make(map[model.NodeID]struct{})}
}

// unkeyed stands in for the key of a handle whose Key fails. Each one is
// distinct, so such a node gets a fresh id on every pass.
type unkeyed struct{ _ byte }

// Observe returns the id for the node behind h, allocating one on first
// sight. A node seen again under a new parent or root keeps its id.
func (p *Pass) Observe(h Handle) model.NodeID {
	t := p.t
	key, err := KeyOf(h)
	if err != nil {
		t.logger.Warn("unusable handle key", "scope", p.scope, "err", err)
		key = &unkeyed{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byKey[key]
	if !ok {
		t.next++
		e = &entry{id: t.next, key: key, handle: h}
		t.byKey[key] = e
		t.byID[e.id] = e
	}
	e.scope = p.scope
	e.lastSeen = p.seq
	p.seen[e.id] = struct{}{}
	return e.id
}

// Seen reports whether id was observed during this pass.
func (p *Pass) Seen(id model.NodeID) bool {
	_, ok := p.seen[id]
	return ok
}

// End commits the pass and retires entries of its scope whose node is dead
// or has been missing for the configured number of passes. Pinned entries
// are only retired once dead. It returns the number of retired ids.
func (p *Pass) End() int {
	if p.done {
		return 0
	}
	p.done = true
	t := p.t

	t.mu.Lock()
	defer t.mu.Unlock()
	if p.seq > t.passes[p.scope] {
		t.passes[p.scope] = p.seq
	}

	retired := 0
	for _, e := range t.byID {
		if e.scope != p.scope {
			continue
		}
		if _, ok := p.seen[e.id]; ok {
			continue
		}
		_, alive := ResolveOf(e.handle)
		aged := p.seq-e.lastSeen >= t.retireAfter
		if !alive || (aged && e.pins == 0) {
			t.retireLocked(e)
			retired++
		}
	}
	if retired > 0 {
		t.logger.Debug("retired node ids", "scope", p.scope, "count", retired, "tracked", len(t.byID))
	}
	return retired
}

// Abandon discards the pass without ageing any entry. Used when a
// traversal is cancelled part-way.
func (p *Pass) Abandon() {
	p.done = true
}

func (t *Tracker) retireLocked(e *entry) {
	delete(t.byID, e.id)
	if cur, ok := t.byKey[e.key]; ok && cur == e {
		delete(t.byKey, e.key)
	}
}

// Resolve returns the live node for id. It fails with
// model.ErrStaleReference when the id was retired or its node is gone; a
// dead node's id is retired on the spot. A handle that panics while
// resolving counts as dead.
func (t *Tracker) Resolve(id model.NodeID) (any, error) {
	t.mu.RLock()
	e, ok := t.byID[id]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, model.ErrStaleReference)
	}
	node, alive := ResolveOf(e.handle)
	if !alive {
		t.mu.Lock()
		if cur, ok := t.byID[id]; ok && cur == e {
			t.retireLocked(e)
		}
		t.mu.Unlock()
		return nil, fmt.Errorf("node %d destroyed: %w", id, model.ErrStaleReference)
	}
	return node, nil
}

// Pin keeps id from being retired by age, e.g. while it is selected in a
// remote console. Pins nest.
func (t *Tracker) Pin(id model.NodeID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, model.ErrStaleReference)
	}
	e.pins++
	return nil
}

// Unpin releases one Pin of id.
func (t *Tracker) Unpin(id model.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.byID[id]; ok && e.pins > 0 {
		e.pins--
	}
}

// Tracked reports whether id is currently assigned.
func (t *Tracker) Tracked(id model.NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byID[id]
	return ok
}

// Len returns the number of tracked ids.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}
