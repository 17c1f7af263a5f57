package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{errors.New("plain"), KindNone},
		{ErrStaleReference, StaleReference},
		{fmt.Errorf("node 4: %w", ErrTypeMismatch), TypeMismatch},
		{fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrNoDescriptor)), NoDescriptor},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFailed(t *testing.T) {
	r := Failed(fmt.Errorf("padding: %w", ErrTypeMismatch))
	if r.Applied || r.Error != TypeMismatch {
		t.Errorf("unexpected result %+v", r)
	}
	if r := Failed(errors.New("boom")); r.Error != MutatorFailed {
		t.Errorf("untyped errors should map to MutatorFailed, got %q", r.Error)
	}
	if !Applied().Applied {
		t.Error("Applied() should report applied")
	}
}

func TestAttributeClone(t *testing.T) {
	orig := Attribute{Name: "insets", Type: AttrComposite, Value: map[string]any{"top": 1.0, "nested": []any{1.0}}}
	c := orig.Clone()
	c.Value.(map[string]any)["top"] = 2.0
	c.Value.(map[string]any)["nested"].([]any)[0] = 5.0
	if orig.Value.(map[string]any)["top"] != 1.0 {
		t.Error("clone shares map with original")
	}
	if orig.Value.(map[string]any)["nested"].([]any)[0] != 1.0 {
		t.Error("clone shares nested slice with original")
	}
}

func TestAttributeClone_HostValues(t *testing.T) {
	type insets struct {
		Top  int `json:"top"`
		Left int `json:"left"`
	}
	host := &insets{Top: 4, Left: 8}
	spans := []int{1, 2}

	ptr := Attribute{Name: "insets", Type: AttrComposite, Value: host}.Clone()
	list := Attribute{Name: "spans", Type: AttrComposite, Value: spans}.Clone()
	host.Top = 99
	spans[0] = 99

	m, ok := ptr.Value.(map[string]any)
	if !ok || m["top"] != 4.0 || m["left"] != 8.0 {
		t.Errorf("pointer value = %#v, want plain copy of {top:4 left:8}", ptr.Value)
	}
	s, ok := list.Value.([]any)
	if !ok || len(s) != 2 || s[0] != 1.0 {
		t.Errorf("slice value = %#v, want plain copy of [1 2]", list.Value)
	}

	n := Attribute{Name: "padding", Type: AttrNumber, Value: 16}.Clone()
	if n.Value != 16 {
		t.Errorf("scalar value = %#v, want unchanged 16", n.Value)
	}
}
