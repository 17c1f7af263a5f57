// Package inspect makes the widget toolkit inspectable. Each widget type
// has its own file registering a descriptor with the process-wide
// registry from init, so linking this package in is all a binary needs:
//
//	import _ "github.com/mj1618/layout-inspector/internal/widget/inspect"
//
// Attribute writes are posted to the widget's tree and applied on its
// update cycle.
package inspect

import (
	"fmt"
	"math"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/identity"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

// widgetDescriptor is the descriptor shared by all widget types. Funcs
// carries the per-type attribute accessors.
type widgetDescriptor struct {
	descriptor.Funcs
}

func (*widgetDescriptor) NodeName(node any) string {
	if w, ok := node.(widget.Widget); ok {
		return widget.Name(w)
	}
	return ""
}

func (*widgetDescriptor) Tags(node any) []string {
	if w, ok := node.(widget.Widget); ok {
		return widget.Tags(w)
	}
	return nil
}

// describe builds the descriptor for family. as converts a node to the
// type the accessors work on; set returns the write to post, or nil to
// reject the value.
func describe[W any](family string, as func(any) W, attrs func(W) []model.Attribute, set func(w W, name string, value any) func()) *widgetDescriptor {
	d := &widgetDescriptor{}
	d.Family = family
	d.ChildrenFunc = children
	d.IdentityFunc = handle
	d.BoundsFunc = frame
	d.AttributesFunc = func(node any) []model.Attribute { return attrs(as(node)) }
	if set != nil {
		d.SetFunc = func(node any, name string, value any) bool {
			fn := set(as(node), name, value)
			if fn == nil {
				return false
			}
			return post(node, fn)
		}
	}
	return d
}

func cast[W any](node any) W { return node.(W) }

func children(node any) []any {
	w, ok := node.(widget.Widget)
	if !ok {
		return nil
	}
	t := widget.Of(w)
	if t == nil {
		return nil
	}
	kids := t.Children(w)
	out := make([]any, len(kids))
	for i, c := range kids {
		out[i] = c
	}
	return out
}

func handle(node any) identity.Handle {
	w, ok := node.(widget.Widget)
	if !ok {
		return identity.Opaque(node, "")
	}
	t := widget.Of(w)
	if t == nil {
		return identity.Opaque(node, "")
	}
	return t.Handle(w)
}

func frame(node any) (model.Bounds, error) {
	w, ok := node.(widget.Widget)
	if !ok {
		return model.Bounds{}, model.ErrGeometryUnavailable
	}
	t := widget.Of(w)
	if t == nil {
		return model.Bounds{}, fmt.Errorf("%s detached: %w", w.Kind(), model.ErrGeometryUnavailable)
	}
	b, err := t.Frame(w)
	if err != nil {
		return model.Bounds{}, fmt.Errorf("%w: %w", model.ErrGeometryUnavailable, err)
	}
	return b, nil
}

// post hands fn to the node's tree. It fails for removed widgets and
// stopped loops.
func post(node any, fn func()) bool {
	w, ok := node.(widget.Widget)
	if !ok {
		return false
	}
	t := widget.Of(w)
	if t == nil {
		return false
	}
	return t.Post(fn)
}

func attr(name string, typ model.AttrType, value any) model.Attribute {
	return model.Attribute{Name: name, Type: typ, Value: value, Mutable: true}
}

func enum(name, value string, options []string) model.Attribute {
	return model.Attribute{Name: name, Type: model.AttrEnum, Value: value, Mutable: true, Options: options}
}

func readOnly(a model.Attribute) model.Attribute {
	a.Mutable = false
	return a
}

// size accepts finite non-negative numbers.
func size(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
