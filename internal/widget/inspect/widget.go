package inspect

import (
	"github.com/mj1618/layout-inspector/internal/descriptor"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/widget"
)

// Widgets without a descriptor of their own, such as application types
// embedding a toolkit widget, still show their structure and kind.
func init() {
	_ = descriptor.RegisterFor[widget.Widget](describe("Widget", cast[widget.Widget],
		func(w widget.Widget) []model.Attribute {
			return []model.Attribute{readOnly(attr("kind", model.AttrString, w.Kind()))}
		}, nil))
}
