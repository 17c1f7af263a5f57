package inspect

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

func init() {
	_ = descriptor.RegisterFor[*widget.Text](describe("Text", cast[*widget.Text], textAttributes, setText))
}

func textAttributes(t *widget.Text) []model.Attribute {
	return []model.Attribute{
		attr("content", model.AttrString, t.Content()),
		attr("size", model.AttrNumber, t.Size()),
		enum("align", t.Align(), widget.TextAligns),
	}
}

func setText(t *widget.Text, name string, value any) func() {
	switch name {
	case "content":
		if v, ok := value.(string); ok {
			return func() { t.SetContent(v) }
		}
	case "size":
		if v, ok := size(value); ok && v > 0 {
			return func() { t.SetSize(v) }
		}
	case "align":
		if v, ok := value.(string); ok {
			return func() { t.SetAlign(v) }
		}
	}
	return nil
}
