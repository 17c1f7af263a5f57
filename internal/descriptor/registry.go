package descriptor

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"
	"sync"

	"github.com/mj1618/layout-inspector/internal/model"
)

type registration struct {
	desc  Descriptor
	order int
}

// Registry maps component types to their descriptors. It is safe for
// concurrent use; registration is rare and happens at startup, so a single
// mutex guards everything.
type Registry struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]registration
	ifaces  []reflect.Type
	parents map[reflect.Type]reflect.Type
	seq     int
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger logs through
// slog.Default at the time of each message.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byType:  make(map[reflect.Type]registration),
		parents: make(map[reflect.Type]reflect.Type),
		logger:  logger,
	}
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Register associates d with t. A second registration for the same type is
// rejected with model.ErrRegistrationConflict and the first one stays in
// effect.
func (r *Registry) Register(t reflect.Type, d Descriptor) error {
	if t == nil {
		return errors.New("register: nil type")
	}
	if d == nil {
		return fmt.Errorf("register %s: nil descriptor", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byType[t]; ok {
		r.log().Warn("descriptor already registered, keeping previous",
			"type", t.String(), "previous", prev.desc.Name(), "rejected", d.Name())
		return fmt.Errorf("register %s: %w", t, model.ErrRegistrationConflict)
	}
	r.seq++
	r.byType[t] = registration{desc: d, order: r.seq}
	if t.Kind() == reflect.Interface {
		r.ifaces = append(r.ifaces, t)
	}
	r.log().Debug("registered descriptor", "type", t.String(), "name", d.Name())
	return nil
}

// DeclareParent records that child specializes parent, so child resolves to
// parent's descriptor when it has none of its own. A child has at most one
// parent and declarations may not form a loop.
func (r *Registry) DeclareParent(child, parent reflect.Type) error {
	if child == nil || parent == nil {
		return errors.New("declare parent: nil type")
	}
	if child == parent {
		return fmt.Errorf("declare parent %s: type cannot be its own parent", child)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.parents[child]; ok {
		if prev == parent {
			return nil
		}
		return fmt.Errorf("declare parent %s: already has parent %s: %w", child, prev, model.ErrRegistrationConflict)
	}
	for p := parent; p != nil; p = r.parents[p] {
		if p == child {
			return fmt.Errorf("declare parent %s -> %s: hierarchy loop", child, parent)
		}
	}
	r.parents[child] = parent
	return nil
}

// Resolve returns the descriptor for t: an exact registration, else the
// nearest registered declared ancestor, else the earliest registered
// interface type that t implements.
func (r *Registry) Resolve(t reflect.Type) (Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if reg, ok := r.byType[t]; ok {
		return reg.desc, true
	}
	for p := r.parents[t]; p != nil; p = r.parents[p] {
		if reg, ok := r.byType[p]; ok {
			return reg.desc, true
		}
	}
	for _, it := range r.ifaces {
		if t.Implements(it) {
			return r.byType[it].desc, true
		}
	}
	return nil, false
}

// ResolveNode resolves the descriptor for node's dynamic type.
func (r *Registry) ResolveNode(node any) (Descriptor, bool) {
	if node == nil {
		return nil, false
	}
	return r.Resolve(reflect.TypeOf(node))
}

// Entry describes one registration for diagnostics.
type Entry struct {
	Type       string `yaml:"type"             json:"type"`
	Descriptor string `yaml:"descriptor"       json:"descriptor"`
	Parent     string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Interface  bool   `yaml:"interface"        json:"interface"`
}

// Entries lists registrations sorted by type name. Declared parents of
// types without their own registration are listed too, with the
// descriptor they resolve to.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	types := make(map[reflect.Type]struct{}, len(r.byType)+len(r.parents))
	for t := range r.byType {
		types[t] = struct{}{}
	}
	for t := range r.parents {
		types[t] = struct{}{}
	}
	r.mu.RUnlock()

	entries := make([]Entry, 0, len(types))
	for t := range types {
		e := Entry{Type: t.String(), Interface: t.Kind() == reflect.Interface}
		if d, ok := r.Resolve(t); ok {
			e.Descriptor = d.Name()
		}
		r.mu.RLock()
		if p, ok := r.parents[t]; ok {
			e.Parent = p.String()
		}
		r.mu.RUnlock()
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return entries
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Registration units call Register or RegisterFor from init.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}

// Register adds d for t to the process-wide registry.
func Register(t reflect.Type, d Descriptor) error {
	return Default().Register(t, d)
}

// RegisterFor adds d for T to the process-wide registry.
func RegisterFor[T any](d Descriptor) error {
	return Default().Register(reflect.TypeFor[T](), d)
}

// DeclareParentFor records in the process-wide registry that C resolves
// to P's descriptor when C has none of its own.
func DeclareParentFor[C, P any]() error {
	return Default().DeclareParent(reflect.TypeFor[C](), reflect.TypeFor[P]())
}

// TagBoundary returns a walker boundary matching nodes whose descriptor in r
// tags them with any of tags. It returns nil when tags is empty.
func TagBoundary(r *Registry, tags ...string) func(node any) bool {
	if len(tags) == 0 {
		return nil
	}
	return func(node any) bool {
		d, ok := r.ResolveNode(node)
		if !ok {
			return false
		}
		tagger, ok := d.(Tagger)
		if !ok {
			return false
		}
		for _, tag := range tagger.Tags(node) {
			if slices.Contains(tags, tag) {
				return true
			}
		}
		return false
	}
}
