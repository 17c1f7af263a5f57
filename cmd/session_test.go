package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/mj1618/layout-inspector/internal/model"

	_ "github.com/mj1618/layout-inspector/internal/widget/inspect"
)

func openTestSession(t *testing.T) *session {
	t.Helper()
	sess, err := openSession(context.Background(), sessionOptions{})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func TestSession_SnapshotAndSet(t *testing.T) {
	sess := openTestSession(t)
	ctx := context.Background()

	name, before, err := sess.snapshot(ctx, "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if name != "main" {
		t.Errorf("expected root main, got %q", name)
	}

	card, err := resolveNode(before, "card")
	if err != nil {
		t.Fatalf("resolveNode: %v", err)
	}
	res := sess.inspector.SetAttribute(ctx, card.ID, "padding", model.ParseValue("16"))
	if !res.Applied {
		t.Fatalf("set padding: %s", res)
	}

	_, after, err := sess.snapshot(ctx, "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got := after.Node(card.ID)
	if got == nil {
		t.Fatal("card lost its id after the write")
	}
	if a := got.Attribute("padding"); a == nil || a.Value != float64(16) {
		t.Errorf("expected padding 16, got %+v", a)
	}
}

func TestSession_DepthOverride(t *testing.T) {
	sess, err := openSession(context.Background(), sessionOptions{maxDepth: 1})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	defer sess.Close()

	_, s, err := sess.snapshot(context.Background(), "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	card, err := resolveNode(s, "card")
	if err != nil {
		t.Fatalf("resolveNode: %v", err)
	}
	if !card.HasMarker(model.DepthLimit) || len(card.Children) != 0 {
		t.Errorf("expected card cut at depth 1, got markers %v children %v", card.Markers, card.Children)
	}
}

func TestResolveNode(t *testing.T) {
	s := model.NewSnapshot(1, []model.Node{
		{ID: 1, Type: "Stack", Name: "root", Children: []model.NodeID{2}},
		{ID: 2, Type: "Text", Name: "title"},
	})

	if n, err := resolveNode(s, "2"); err != nil || n.Name != "title" {
		t.Errorf("by id: got %v, %v", n, err)
	}
	if n, err := resolveNode(s, "root"); err != nil || n.ID != 1 {
		t.Errorf("by name: got %v, %v", n, err)
	}
	if _, err := resolveNode(s, "9"); !errors.Is(err, model.ErrStaleReference) {
		t.Errorf("expected stale reference, got %v", err)
	}
	if _, err := resolveNode(s, "missing"); err == nil {
		t.Error("expected error for unknown name")
	}
}
