// Package descriptor lets component types opt into inspection without
// being modified. A Descriptor is registered against a type's reflect.Type
// and the walker and mutation applicator consult it for every node of that
// type.
package descriptor

import (
	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
)

// Descriptor describes how to inspect and edit one component family. It
// holds no per-node state; every method receives the node it applies to.
type Descriptor interface {
	// Name is the component family name shown as the node type.
	Name() string
	// Children returns the node's children in display order.
	Children(node any) []any
	// Attributes returns the node's declared attributes in declaration
	// order. Values should be plain data; the walker copies them into the
	// snapshot and normalizes anything else to its JSON form.
	Attributes(node any) []model.Attribute
	// SetAttribute forwards a validated value to the node. It reports
	// whether the host accepted the change. Implementations marshal the
	// write onto the host's own update cycle.
	SetAttribute(node any, name string, value any) bool
	// Identity returns a non-owning handle for the node, or nil when the
	// node has no instance identity; such nodes are keyed by position.
	Identity(node any) identity.Handle
	// Bounds reads the node's frame. An error means the geometry cannot be
	// read right now, typically because the host is mid-update.
	Bounds(node any) (model.Bounds, error)
}

// ActiveChilder is implemented by descriptors of containers that show one
// child at a time. Siblings of the active child are reported shallow.
type ActiveChilder interface {
	ActiveChild(node any) any
}

// Tagger is implemented by descriptors that attach free-form tags to nodes.
type Tagger interface {
	Tags(node any) []string
}

// Namer is implemented by descriptors that can name individual instances.
type Namer interface {
	NodeName(node any) string
}

// Funcs adapts plain functions to a Descriptor. Nil functions fall back to
// an empty child list, no attributes, a rejected mutation, no instance
// identity and the node's own Bounder implementation.
type Funcs struct {
	Family         string
	ChildrenFunc   func(node any) []any
	AttributesFunc func(node any) []model.Attribute
	SetFunc        func(node any, name string, value any) bool
	IdentityFunc   func(node any) identity.Handle
	BoundsFunc     func(node any) (model.Bounds, error)
}

func (f *Funcs) Name() string { return f.Family }

func (f *Funcs) Children(node any) []any {
	if f.ChildrenFunc == nil {
		return nil
	}
	return f.ChildrenFunc(node)
}

func (f *Funcs) Attributes(node any) []model.Attribute {
	if f.AttributesFunc == nil {
		return nil
	}
	return f.AttributesFunc(node)
}

func (f *Funcs) SetAttribute(node any, name string, value any) bool {
	if f.SetFunc == nil {
		return false
	}
	return f.SetFunc(node, name, value)
}

func (f *Funcs) Identity(node any) identity.Handle {
	if f.IdentityFunc == nil {
		return nil
	}
	return f.IdentityFunc(node)
}

func (f *Funcs) Bounds(node any) (model.Bounds, error) {
	if f.BoundsFunc != nil {
		return f.BoundsFunc(node)
	}
	if b, ok := node.(model.Bounder); ok {
		return b.Bounds()
	}
	return model.Bounds{}, model.ErrGeometryUnavailable
}
