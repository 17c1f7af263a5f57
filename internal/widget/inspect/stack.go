package inspect

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

func init() {
	_ = descriptor.RegisterFor[*widget.Stack](describe("Stack", cast[*widget.Stack],
		func(s *widget.Stack) []model.Attribute {
			return []model.Attribute{
				enum("axis", s.Axis(), widget.StackAxes),
				attr("gap", model.AttrNumber, s.Gap()),
			}
		},
		func(s *widget.Stack, name string, value any) func() {
			switch name {
			case "axis":
				if v, ok := value.(string); ok {
					return func() { s.SetAxis(v) }
				}
			case "gap":
				if v, ok := size(value); ok {
					return func() { s.SetGap(v) }
				}
			}
			return nil
		}))
}
