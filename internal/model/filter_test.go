package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFilterNodes_NoFilters(t *testing.T) {
	nodes := Flatten(sampleSnapshot())
	if result := FilterNodes(nodes, nil, nil); len(result) != len(nodes) {
		t.Errorf("expected %d nodes, got %d", len(nodes), len(result))
	}
}

func TestFilterNodes_TypeFilter(t *testing.T) {
	result := FilterNodes(Flatten(sampleSnapshot()), []string{"Box"}, nil)
	if len(result) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(result))
	}
	if result[0].ID != 3 || result[1].ID != 5 {
		t.Errorf("unexpected ids: %d, %d", result[0].ID, result[1].ID)
	}
}

func TestFilterNodes_BBoxSkipsMissingGeometry(t *testing.T) {
	bbox := Bounds{X: 0, Y: 90, Width: 50, Height: 50}
	result := FilterNodes(Flatten(sampleSnapshot()), []string{"Box", "Text"}, &bbox)
	if len(result) != 2 {
		t.Fatalf("expected box 3 and text 4, got %+v", result)
	}
}

func TestFilterByText(t *testing.T) {
	nodes := Flatten(sampleSnapshot())
	tests := []struct {
		text string
		want int
	}{
		{"", 5},
		{"hello", 1},
		{"TITLE", 1},
		{"vertical", 1},
		{"box", 2},
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := FilterByText(nodes, tt.text); len(got) != tt.want {
			t.Errorf("FilterByText(%q) returned %d nodes, want %d", tt.text, len(got), tt.want)
		}
	}
}

func TestFilterByMarker(t *testing.T) {
	result := FilterByMarker(Flatten(sampleSnapshot()), GeometryUnavailable)
	if len(result) != 1 || result[0].ID != 5 {
		t.Errorf("expected node 5, got %+v", result)
	}
}

func TestBoundsIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Bounds
		want bool
	}{
		{"overlapping", Bounds{0, 0, 100, 100}, Bounds{50, 50, 100, 100}, true},
		{"adjacent_no_overlap", Bounds{0, 0, 100, 100}, Bounds{100, 0, 100, 100}, false},
		{"contained", Bounds{0, 0, 200, 200}, Bounds{50, 50, 10, 10}, true},
		{"no_overlap", Bounds{0, 0, 10, 10}, Bounds{20, 20, 10, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boundsIntersect(tt.a, tt.b); got != tt.want {
				t.Errorf("boundsIntersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseTypes(t *testing.T) {
	got := ParseTypes(" Box, ,Text ,")
	if len(got) != 2 || got[0] != "Box" || got[1] != "Text" {
		t.Errorf("expected [Box Text], got %v", got)
	}
	if ParseTypes("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"16", json.Number("16")},
		{"true", true},
		{`"16"`, "16"},
		{"#ff0000", "#ff0000"},
		{"hello world", "hello world"},
		{"1 2", "1 2"},
		{`{"top":4}`, map[string]any{"top": json.Number("4")}},
	}
	for _, tt := range tests {
		got := ParseValue(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
