package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mj1618/layout-inspector/internal/model"
	"gopkg.in/yaml.v3"
)

func sampleSnapshot() *model.Snapshot {
	s := model.NewSnapshot(1, []model.Node{
		{ID: 1, Type: "Root", Bounds: &model.Bounds{Width: 200, Height: 100}, Children: []model.NodeID{2, 4}},
		{ID: 2, Type: "Stack", Bounds: &model.Bounds{Width: 200, Height: 60}, Children: []model.NodeID{3}},
		{ID: 3, Type: "Box", Name: "card", Bounds: &model.Bounds{X: 10, Y: 10, Width: 50, Height: 20}, Attributes: []model.Attribute{
			{Name: "padding", Type: model.AttrNumber, Value: 8.0, Mutable: true},
			{Name: "background", Type: model.AttrColor, Value: "#336699", Mutable: true},
		}},
		{ID: 4, Type: "Box", Markers: []model.ErrorKind{model.GeometryUnavailable}},
	})
	s.TakenAt = 1707500000
	s.Fingerprint = "abc"
	return s
}

func TestTree_Nesting(t *testing.T) {
	root := Tree(sampleSnapshot())
	if root == nil {
		t.Fatal("expected tree")
	}
	if root.ID != 1 || len(root.Children) != 2 {
		t.Fatalf("root: got id %d with %d children", root.ID, len(root.Children))
	}
	box := root.Children[0].Children[0]
	if box.Type != "Box" || box.Attributes[0].Value != 8.0 {
		t.Errorf("box: got %+v", box)
	}
	if root.Children[1].Bounds != nil {
		t.Errorf("expected nil bounds for node 4")
	}
	if box.Children == nil {
		t.Error("leaf children should encode as an empty list")
	}
}

func TestTree_Empty(t *testing.T) {
	if Tree(&model.Snapshot{}) != nil {
		t.Error("expected nil tree for empty snapshot")
	}
}

func TestWriteJSON_WireShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewSnapshotResult("main", sampleSnapshot()), false); err != nil {
		t.Fatal(err)
	}
	if bytes.Count(buf.Bytes(), []byte("\n")) > 1 {
		t.Errorf("compact output should be single line, got:\n%s", buf.String())
	}

	var decoded struct {
		Root string `json:"root"`
		Tree struct {
			ID       int `json:"id"`
			Children []struct {
				Bounds   *map[string]int `json:"bounds"`
				Children []struct {
					Type       string           `json:"type"`
					Bounds     map[string]int   `json:"bounds"`
					Attributes []map[string]any `json:"attributes"`
				} `json:"children"`
			} `json:"children"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Root != "main" || decoded.Tree.ID != 1 {
		t.Errorf("got root %q id %d", decoded.Root, decoded.Tree.ID)
	}
	box := decoded.Tree.Children[0].Children[0]
	if box.Bounds["x"] != 10 || box.Bounds["w"] != 50 {
		t.Errorf("bounds: got %v", box.Bounds)
	}
	want := map[string]any{"name": "padding", "type": "number", "value": 8.0, "mutable": true}
	for k, v := range want {
		if box.Attributes[0][k] != v {
			t.Errorf("attribute %s: got %v, want %v", k, box.Attributes[0][k], v)
		}
	}
	if decoded.Tree.Children[1].Bounds != nil {
		t.Error("unavailable geometry should encode as null")
	}
}

func TestWriteJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"a": 1}, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("pretty output should be indented, got:\n%s", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, NewSnapshotResult("main", sampleSnapshot())); err != nil {
		t.Fatal(err)
	}
	var decoded SnapshotResult
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Tree == nil || decoded.Tree.Children[0].Children[0].Name != "card" {
		t.Errorf("unexpected decode: %+v", decoded.Tree)
	}
}

func TestCBOR_Deterministic(t *testing.T) {
	res := NewSnapshotResult("main", sampleSnapshot())
	a, err := MarshalCBOR(res)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalCBOR(NewSnapshotResult("main", sampleSnapshot()))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same snapshot should encode to identical bytes")
	}

	var decoded SnapshotResult
	if err := UnmarshalCBOR(a, &decoded); err != nil {
		t.Fatal(err)
	}
	attr := decoded.Tree.Children[0].Children[0].Attributes[0]
	if attr.Value != 8.0 {
		t.Errorf("padding: got %v (%T)", attr.Value, attr.Value)
	}
}

func TestWriteTree(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTree(&buf, NewSnapshotResult("main", sampleSnapshot())); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"main", "[1]", "Root", "├── ", "└── ", `"card"`, "padding=8", `background="#336699"`, "!GeometryUnavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestPrint_UsesOutputFormat(t *testing.T) {
	origFormat, origPretty := OutputFormat, PrettyOutput
	defer func() { OutputFormat, PrettyOutput = origFormat, origPretty }()
	OutputFormat = FormatJSON

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := Print(map[string]string{"status": "ok"})
	w.Close()
	os.Stdout = old
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if strings.TrimSpace(buf.String()) != `{"status":"ok"}` {
		t.Errorf("got %q", buf.String())
	}
}
