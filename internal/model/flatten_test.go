package model

import "testing"

func TestFlatten_Basic(t *testing.T) {
	result := Flatten(sampleSnapshot())
	if len(result) != 5 {
		t.Fatalf("expected 5 flat nodes, got %d", len(result))
	}
	if result[0].Path != "Root" {
		t.Errorf("expected path 'Root', got %q", result[0].Path)
	}
	if result[2].Path != "Root > Stack > Box" {
		t.Errorf("expected path 'Root > Stack > Box', got %q", result[2].Path)
	}
	if result[2].Depth != 2 {
		t.Errorf("expected depth 2, got %d", result[2].Depth)
	}
}

func TestFlatten_TraversalOrder(t *testing.T) {
	result := Flatten(sampleSnapshot())
	expectedIDs := []NodeID{1, 2, 3, 4, 5}
	for i, want := range expectedIDs {
		if result[i].ID != want {
			t.Errorf("node %d: expected ID %d, got %d", i, want, result[i].ID)
		}
	}
}

func TestFlatten_Nil(t *testing.T) {
	if result := Flatten(nil); len(result) != 0 {
		t.Errorf("expected 0 nodes for nil input, got %d", len(result))
	}
}

func TestFlatten_IgnoresRepeatedChildIDs(t *testing.T) {
	// A hand-built snapshot listing a node under two parents must not loop.
	s := NewSnapshot(1, []Node{
		{ID: 1, Type: "A", Children: []NodeID{2}},
		{ID: 2, Type: "B", Children: []NodeID{1}},
	})
	result := Flatten(s)
	if len(result) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(result))
	}
}

func TestParentOf(t *testing.T) {
	s := sampleSnapshot()
	p, ok := ParentOf(s, 4)
	if !ok || p != 2 {
		t.Errorf("ParentOf(4) = %d, %v; want 2, true", p, ok)
	}
	if _, ok := ParentOf(s, 1); ok {
		t.Error("root should have no parent")
	}
}

func TestSnapshot_NodeWithoutIndex(t *testing.T) {
	s := &Snapshot{Root: 1, Nodes: []Node{{ID: 1, Type: "A"}, {ID: 7, Type: "B"}}}
	if n := s.Node(7); n == nil || n.Type != "B" {
		t.Errorf("expected node 7 of type B, got %+v", n)
	}
	if n := s.Node(9); n != nil {
		t.Errorf("expected nil for unknown id, got %+v", n)
	}
}
