package inspect

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

func init() {
	_ = descriptor.RegisterFor[*widget.Box](describe("Box", cast[*widget.Box], boxAttributes, setBox))
}

func boxAttributes(b *widget.Box) []model.Attribute {
	in := b.Insets()
	return []model.Attribute{
		attr("padding", model.AttrNumber, b.Padding()),
		attr("background", model.AttrColor, b.Background()),
		attr("visible", model.AttrBoolean, b.Visible()),
		attr("insets", model.AttrComposite, map[string]any{
			"top": in.Top, "right": in.Right, "bottom": in.Bottom, "left": in.Left,
		}),
	}
}

func setBox(b *widget.Box, name string, value any) func() {
	switch name {
	case "padding":
		if v, ok := size(value); ok {
			return func() { b.SetPadding(v) }
		}
	case "background":
		if v, ok := value.(string); ok {
			return func() { b.SetBackground(v) }
		}
	case "visible":
		if v, ok := value.(bool); ok {
			return func() { b.SetVisible(v) }
		}
	case "insets":
		if in, ok := insets(b.Insets(), value); ok {
			return func() { b.SetInsets(in) }
		}
	}
	return nil
}

// insets applies the edges present in value to cur. Unknown keys and
// invalid sizes reject the whole value.
func insets(cur widget.Insets, value any) (widget.Insets, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return cur, false
	}
	for k, raw := range m {
		v, ok := size(raw)
		if !ok {
			return cur, false
		}
		switch k {
		case "top":
			cur.Top = v
		case "right":
			cur.Right = v
		case "bottom":
			cur.Bottom = v
		case "left":
			cur.Left = v
		default:
			return cur, false
		}
	}
	return cur, true
}
