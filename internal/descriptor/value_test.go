package descriptor

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		attr  model.Attribute
		value any
		want  any
		fails bool
	}{
		{"string", model.Attribute{Type: model.AttrString}, "hi", "hi", false},
		{"string rejects number", model.Attribute{Type: model.AttrString}, 3, nil, true},
		{"bool", model.Attribute{Type: model.AttrBoolean}, true, true, false},
		{"bool rejects string", model.Attribute{Type: model.AttrBoolean}, "true", nil, true},
		{"int", model.Attribute{Type: model.AttrNumber}, 16, 16.0, false},
		{"uint8", model.Attribute{Type: model.AttrNumber}, uint8(4), 4.0, false},
		{"float32", model.Attribute{Type: model.AttrNumber}, float32(1.5), 1.5, false},
		{"json number", model.Attribute{Type: model.AttrNumber}, json.Number("2.25"), 2.25, false},
		{"bad json number", model.Attribute{Type: model.AttrNumber}, json.Number("x"), nil, true},
		{"number rejects string", model.Attribute{Type: model.AttrNumber}, "16", nil, true},
		{"number rejects bool", model.Attribute{Type: model.AttrNumber}, true, nil, true},
		{"number rejects nil", model.Attribute{Type: model.AttrNumber}, nil, nil, true},
		{"number rejects NaN", model.Attribute{Type: model.AttrNumber}, math.NaN(), nil, true},
		{"enum member", model.Attribute{Type: model.AttrEnum, Options: []string{"row", "column"}}, "row", "row", false},
		{"enum non-member", model.Attribute{Type: model.AttrEnum, Options: []string{"row", "column"}}, "grid", nil, true},
		{"color short", model.Attribute{Type: model.AttrColor}, "#FfF", "#fff", false},
		{"color long", model.Attribute{Type: model.AttrColor}, "#336699", "#336699", false},
		{"color alpha", model.Attribute{Type: model.AttrColor}, "#336699CC", "#336699cc", false},
		{"color no hash", model.Attribute{Type: model.AttrColor}, "336699", nil, true},
		{"color bad digit", model.Attribute{Type: model.AttrColor}, "#33669g", nil, true},
		{"color bad length", model.Attribute{Type: model.AttrColor}, "#3366", nil, true},
		{"composite", model.Attribute{Type: model.AttrComposite}, map[string]any{"top": 1.0}, map[string]any{"top": 1.0}, false},
		{"composite rejects list", model.Attribute{Type: model.AttrComposite}, []any{1.0}, nil, true},
		{"unknown type", model.Attribute{Type: "matrix"}, 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.attr.Name = "attr"
			got, err := Check(tt.attr, tt.value)
			if tt.fails {
				require.Error(t, err)
				assert.Equal(t, model.TypeMismatch, model.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_CompositeIsCopied(t *testing.T) {
	in := map[string]any{"top": 1.0}
	got, err := Check(model.Attribute{Type: model.AttrComposite}, in)
	require.NoError(t, err)
	in["top"] = 2.0
	assert.Equal(t, 1.0, got.(map[string]any)["top"])
}

func TestCheck_CompositeNumbers(t *testing.T) {
	got, err := Check(model.Attribute{Type: model.AttrComposite}, map[string]any{
		"top":  json.Number("4"),
		"list": []any{json.Number("1.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"top": 4.0, "list": []any{1.5}}, got)
}
