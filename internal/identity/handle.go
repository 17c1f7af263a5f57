// Package identity assigns stable NodeIDs to live host nodes without ever
// holding a strong reference to them.
//
// A descriptor hands the tracker a Handle for every node it visits. Two
// handles with equal keys denote the same object instance; a handle that
// no longer resolves denotes a destroyed node. Two schemes are provided:
// Weak, built on the runtime's weak pointers, for hosts whose nodes are
// ordinary garbage-collected objects, and Arena, a slot/generation store
// for hosts that recycle node storage.
package identity

import (
	"errors"
	"fmt"
	"reflect"
	"weak"
)

// Handle is a non-owning back-reference to one live node.
type Handle interface {
	// Key is comparable, stable for the node's lifetime and distinct from
	// the key of every other live node.
	Key() any
	// Resolve returns the node while it is alive.
	Resolve() (any, bool)
}

type weakHandle[T any] struct {
	p weak.Pointer[T]
}

// Weak returns a handle for p that does not keep *p alive. Handles made
// from the same pointer have equal keys, even after the object is
// collected.
//
// Weak returns nil for a nil p and for zero-size types: all zero-size
// values may share one address, so they have no instance identity and the
// runtime refuses weak pointers to them. Callers fall back to Opaque, which
// keys such nodes by position.
func Weak[T any](p *T) Handle {
	if p == nil || reflect.TypeFor[T]().Size() == 0 {
		return nil
	}
	return weakHandle[T]{p: weak.Make(p)}
}

func (h weakHandle[T]) Key() any { return h.p }

func (h weakHandle[T]) Resolve() (any, bool) {
	v := h.p.Value()
	if v == nil {
		return nil, false
	}
	return v, true
}

// OpaqueNode stands in for a node that was tracked without a descriptor.
// Resolving such a node yields an OpaqueNode; it cannot be mutated.
type OpaqueNode struct {
	Type string
}

type opaqueKey struct {
	typ  reflect.Type
	addr uintptr
	pos  string
}

type opaqueHandle struct {
	key opaqueKey
	// node is set for pointers to zero-size values only; holding one
	// keeps no memory alive.
	node any
}

func (h opaqueHandle) Key() any { return h.key }

func (h opaqueHandle) Resolve() (any, bool) {
	if h.node != nil {
		return h.node, true
	}
	return OpaqueNode{Type: h.key.typ.String()}, true
}

// Opaque builds a best-effort handle for a node no descriptor claims.
// Pointer-like nodes are keyed by address; values are keyed by position,
// the caller's description of where the node sits in the tree. Address
// keys can be reused once the host frees the node, so opaque ids are only
// as stable as the host's allocator. Pointers to zero-size values are keyed
// by position too and resolve to the pointer itself. Liveness of opaque
// nodes is decided by traversal absence alone.
func Opaque(node any, position string) Handle {
	if node == nil {
		return opaqueHandle{key: opaqueKey{typ: reflect.TypeOf((*any)(nil)).Elem(), pos: position}}
	}
	v := reflect.ValueOf(node)
	k := opaqueKey{typ: v.Type()}
	switch v.Kind() {
	case reflect.Pointer:
		if v.Type().Elem().Size() == 0 {
			k.pos = position
			return opaqueHandle{key: k, node: node}
		}
		k.addr = v.Pointer()
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		k.addr = v.Pointer()
	case reflect.Slice:
		k.addr = v.Pointer()
		k.pos = fmt.Sprintf("%s#%d", position, v.Len())
	default:
		k.pos = position
	}
	return opaqueHandle{key: k}
}

// KeyOf returns h.Key(), or an error when the key panics or cannot be used
// as a map key.
func KeyOf(h Handle) (key any, err error) {
	defer func() {
		if r := recover(); r != nil {
			key, err = nil, fmt.Errorf("handle key: panic: %v", r)
		}
	}()
	key = h.Key()
	if key == nil {
		return nil, errors.New("handle key is nil")
	}
	if t := reflect.TypeOf(key); !t.Comparable() {
		return nil, fmt.Errorf("handle key of type %s is not comparable", t)
	}
	// Comparable interfaces can still hold non-comparable values; hashing
	// once surfaces that here.
	_ = map[any]struct{}{key: {}}
	return key, nil
}

// ResolveOf calls h.Resolve, reporting a panic as a dead node.
func ResolveOf(h Handle) (node any, alive bool) {
	defer func() {
		if recover() != nil {
			node, alive = nil, false
		}
	}()
	return h.Resolve()
}
