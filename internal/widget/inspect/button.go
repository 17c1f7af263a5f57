package inspect

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

// button is implemented by Button and every widget embedding it.
type button interface {
	AsButton() *widget.Button
}

func init() {
	_ = descriptor.RegisterFor[*widget.Button](describe("Button",
		func(node any) *widget.Button { return node.(button).AsButton() },
		func(b *widget.Button) []model.Attribute {
			return []model.Attribute{
				attr("label", model.AttrString, b.Label()),
				attr("enabled", model.AttrBoolean, b.Enabled()),
				enum("variant", b.Variant(), widget.ButtonVariants),
			}
		},
		func(b *widget.Button, name string, value any) func() {
			switch name {
			case "label":
				if v, ok := value.(string); ok {
					return func() { b.SetLabel(v) }
				}
			case "enabled":
				if v, ok := value.(bool); ok {
					return func() { b.SetEnabled(v) }
				}
			case "variant":
				if v, ok := value.(string); ok {
					return func() { b.SetVariant(v) }
				}
			}
			return nil
		}))
	_ = descriptor.DeclareParentFor[*widget.IconButton, *widget.Button]()
}
