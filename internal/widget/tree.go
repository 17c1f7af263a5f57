// Package widget is a small retained-mode widget toolkit used as an
// inspectable host. Widgets live in an identity.Arena, so a removed widget's
// slot is recycled with a new generation and stale references stop
// resolving. All widget state is guarded by its tree's lock; writes from
// other goroutines go through Tree.Post, which hands them to the tree's
// Loop when one is running.
package widget

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
)

var (
	// ErrLayoutPending is returned by Frame between a structural change and
	// the next layout pass.
	ErrLayoutPending = errors.New("layout pending")
	// ErrNotInTree is returned for widgets that were never added or have
	// been removed.
	ErrNotInTree = errors.New("widget not in tree")
	// ErrAttached is returned when adding a widget that already has a tree.
	ErrAttached = errors.New("widget already attached")
	// ErrInvalidMove is returned when moving a widget into its own subtree
	// or moving the root.
	ErrInvalidMove = errors.New("invalid move")
)

// Widget is implemented by every widget type.
type Widget interface {
	// Kind is the widget's type name.
	Kind() string
	base() *node
}

// node is the state shared by every widget.
type node struct {
	tree      atomic.Pointer[Tree]
	ref       identity.Ref
	parent    identity.Ref
	hasParent bool
	children  []identity.Ref
	frame     model.Bounds
	name      string
	tags      []string
}

func (n *node) base() *node { return n }

// Tree owns a widget hierarchy.
type Tree struct {
	mu       sync.RWMutex
	arena    identity.Arena[Widget]
	root     identity.Ref
	viewport model.Bounds
	dirty    bool
	loop     *Loop
}

// NewTree creates a tree of the given viewport size rooted at root and
// lays it out.
func NewTree(width, height int, root Widget) *Tree {
	t := &Tree{viewport: model.Bounds{Width: width, Height: height}}
	t.mu.Lock()
	t.root = t.attachLocked(root)
	t.layoutLocked()
	t.mu.Unlock()
	return t
}

func (t *Tree) attachLocked(w Widget) identity.Ref {
	n := w.base()
	n.tree.Store(t)
	n.ref = t.arena.Alloc(w)
	t.dirty = true
	return n.ref
}

func (t *Tree) get(ref identity.Ref) (*node, Widget, bool) {
	w, ok := t.arena.Get(ref)
	if !ok {
		return nil, nil, false
	}
	return w.base(), w, true
}

func (t *Tree) liveLocked(w Widget) (*node, error) {
	if w == nil {
		return nil, ErrNotInTree
	}
	n := w.base()
	if n.tree.Load() != t {
		return nil, fmt.Errorf("%s: %w", w.Kind(), ErrNotInTree)
	}
	if cur, ok := t.arena.Get(n.ref); !ok || cur != w {
		return nil, fmt.Errorf("%s: %w", w.Kind(), ErrNotInTree)
	}
	return n, nil
}

// Root returns the root widget.
func (t *Tree) Root() Widget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, w, _ := t.get(t.root)
	return w
}

// Add appends children to parent.
func (t *Tree) Add(parent Widget, children ...Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range children {
		if err := t.insertLocked(parent, -1, c); err != nil {
			return err
		}
	}
	return nil
}

// Insert adds child to parent at index; an out of range index appends.
func (t *Tree) Insert(parent Widget, index int, child Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(parent, index, child)
}

func (t *Tree) insertLocked(parent Widget, index int, child Widget) error {
	p, err := t.liveLocked(parent)
	if err != nil {
		return err
	}
	if child == nil {
		return errors.New("add: nil widget")
	}
	if child.base().tree.Load() != nil {
		return fmt.Errorf("add %s: %w", child.Kind(), ErrAttached)
	}
	ref := t.attachLocked(child)
	c := child.base()
	c.parent, c.hasParent = p.ref, true
	p.children = insertRef(p.children, index, ref)
	return nil
}

// Move reparents w under newParent, appending it. The widget keeps its
// slot, so its inspector id survives the move.
func (t *Tree) Move(w, newParent Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.liveLocked(w)
	if err != nil {
		return err
	}
	p, err := t.liveLocked(newParent)
	if err != nil {
		return err
	}
	if !n.hasParent {
		return fmt.Errorf("move root: %w", ErrInvalidMove)
	}
	for cur := p; ; {
		if cur == n {
			return fmt.Errorf("move %s into its own subtree: %w", w.Kind(), ErrInvalidMove)
		}
		if !cur.hasParent {
			break
		}
		cur, _, _ = t.get(cur.parent)
		if cur == nil {
			break
		}
	}
	if old, _, ok := t.get(n.parent); ok {
		old.children = removeRef(old.children, n.ref)
	}
	n.parent = p.ref
	p.children = append(p.children, n.ref)
	t.dirty = true
	return nil
}

// Remove detaches w and frees it and its subtree.
func (t *Tree) Remove(w Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.liveLocked(w)
	if err != nil {
		return err
	}
	if !n.hasParent {
		return fmt.Errorf("remove root: %w", ErrInvalidMove)
	}
	if p, _, ok := t.get(n.parent); ok {
		p.children = removeRef(p.children, n.ref)
	}
	t.freeLocked(n)
	t.dirty = true
	return nil
}

// Replace puts replacement where old was and frees old's subtree. The
// replacement is a new widget and gets a new inspector id even when it is
// identical to old.
func (t *Tree) Replace(old, replacement Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.liveLocked(old)
	if err != nil {
		return err
	}
	if replacement == nil || replacement.base().tree.Load() != nil {
		return fmt.Errorf("replace: %w", ErrAttached)
	}
	ref := t.attachLocked(replacement)
	r := replacement.base()
	if n.hasParent {
		p, _, _ := t.get(n.parent)
		for i, c := range p.children {
			if c == n.ref {
				p.children[i] = ref
			}
		}
		r.parent, r.hasParent = n.parent, true
	} else {
		t.root = ref
	}
	t.freeLocked(n)
	return nil
}

func (t *Tree) freeLocked(n *node) {
	for _, c := range n.children {
		if cn, _, ok := t.get(c); ok {
			t.freeLocked(cn)
		}
	}
	t.arena.Free(n.ref)
	n.children = nil
	n.tree.Store(nil)
}

// Children returns w's children in order.
func (t *Tree) Children(w Widget) []Widget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.liveLocked(w)
	if err != nil {
		return nil
	}
	out := make([]Widget, 0, len(n.children))
	for _, ref := range n.children {
		if _, c, ok := t.get(ref); ok {
			out = append(out, c)
		}
	}
	return out
}

// Parent returns w's parent, or nil for the root.
func (t *Tree) Parent(w Widget) Widget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.liveLocked(w)
	if err != nil || !n.hasParent {
		return nil
	}
	_, p, _ := t.get(n.parent)
	return p
}

// Frame returns w's frame from the last layout pass. It fails while a
// layout pass is pending.
func (t *Tree) Frame(w Widget) (model.Bounds, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, err := t.liveLocked(w)
	if err != nil {
		return model.Bounds{}, err
	}
	if t.dirty {
		return model.Bounds{}, ErrLayoutPending
	}
	return n.frame, nil
}

// Handle returns a non-owning handle for w that stops resolving once w is
// removed.
func (t *Tree) Handle(w Widget) identity.Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.arena.Handle(w.base().ref)
}

// Len returns the number of widgets in the tree.
func (t *Tree) Len() int {
	return t.arena.Len()
}

// Post runs fn as a write on the tree's update cycle: on the loop goroutine
// when a Loop is running, otherwise immediately under the tree lock
// followed by a layout pass. It reports whether fn was accepted.
func (t *Tree) Post(fn func()) bool {
	t.mu.RLock()
	loop := t.loop
	t.mu.RUnlock()
	if loop != nil {
		return loop.Do(fn)
	}
	fn()
	t.Layout()
	return true
}

// Of returns the tree w belongs to, or nil once w is removed.
func Of(w Widget) *Tree {
	return w.base().tree.Load()
}

// Name returns the widget's instance name.
func Name(w Widget) string {
	return read(w, func(n *node) string { return n.name })
}

// Tags returns the widget's tags.
func Tags(w Widget) []string {
	return read(w, func(n *node) []string { return append([]string(nil), n.tags...) })
}

// Named sets w's instance name and returns w.
func Named[W Widget](w W, name string) W {
	write(w, func() { w.base().name = name })
	return w
}

// Tagged adds tags to w and returns w.
func Tagged[W Widget](w W, tags ...string) W {
	write(w, func() { w.base().tags = append(w.base().tags, tags...) })
	return w
}

func insertRef(refs []identity.Ref, index int, ref identity.Ref) []identity.Ref {
	if index < 0 || index >= len(refs) {
		return append(refs, ref)
	}
	refs = append(refs, identity.Ref{})
	copy(refs[index+1:], refs[index:])
	refs[index] = ref
	return refs
}

func removeRef(refs []identity.Ref, ref identity.Ref) []identity.Ref {
	for i, r := range refs {
		if r == ref {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}

// read runs fn under w's tree read lock, if w is attached.
func read[T any](w Widget, fn func(*node) T) T {
	n := w.base()
	if t := n.tree.Load(); t != nil {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}
	return fn(n)
}

// write runs fn under w's tree write lock, if w is attached, and marks the
// tree for layout.
func write(w Widget, fn func()) {
	if t := w.base().tree.Load(); t != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.dirty = true
	}
	fn()
}
