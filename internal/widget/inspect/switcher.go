package inspect

import (
	"math"

	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

// switcherDescriptor reports the visible page so its siblings are walked
// shallowly.
type switcherDescriptor struct {
	*widgetDescriptor
}

func (switcherDescriptor) ActiveChild(node any) any {
	s, ok := node.(*widget.Switcher)
	if !ok || widget.Of(s) == nil {
		return nil
	}
	pages := widget.Of(s).Children(s)
	if i := s.Selected(); i >= 0 && i < len(pages) {
		return pages[i]
	}
	return nil
}

func init() {
	_ = descriptor.RegisterFor[*widget.Switcher](switcherDescriptor{describe("Switcher", cast[*widget.Switcher],
		func(s *widget.Switcher) []model.Attribute {
			return []model.Attribute{attr("selected", model.AttrNumber, float64(s.Selected()))}
		},
		func(s *widget.Switcher, name string, value any) func() {
			v, ok := size(value)
			if name != "selected" || !ok || v != math.Trunc(v) {
				return nil
			}
			if t := widget.Of(s); t == nil || int(v) >= len(t.Children(s)) {
				return nil
			}
			return func() { s.SetSelected(int(v)) }
		})})
}
