package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
	"github.com/mj1618/layout-inspector/internal/render"
	"gopkg.in/yaml.v3"
)

func (s *Server) registerTools() {
	// list_roots
	s.mcp.AddTool(
		mcp.NewTool("list_roots",
			mcp.WithDescription("List the inspectable roots of the host application"),
		),
		s.handleListRoots,
	)

	// get_snapshot
	s.mcp.AddTool(
		mcp.NewTool("get_snapshot",
			mcp.WithDescription("Snapshot a root's layout tree. Every node has a stable id, its type, bounds {x,y,w,h} and typed attributes; ids stay the same across snapshots while the node lives."),
			mcp.WithString("root", mcp.Description("Root name (default: first root)")),
			mcp.WithString("format", mcp.Description("Output format: yaml, json, tree (default: yaml)")),
			mcp.WithBoolean("flat", mcp.Description("Return a flat list with path breadcrumbs instead of a nested tree")),
			mcp.WithString("type", mcp.Description("With flat: only nodes of these comma-separated types")),
			mcp.WithString("text", mcp.Description("With flat: only nodes whose name or attributes contain this text")),
			mcp.WithBoolean("fresh", mcp.Description("Bypass the snapshot cache")),
		),
		s.handleGetSnapshot,
	)

	// set_attribute
	s.mcp.AddTool(
		mcp.NewTool("set_attribute",
			mcp.WithDescription("Set one attribute of a live node by id. Reports applied, or the error kind (StaleReference, InvalidAttribute, ReadOnly, TypeMismatch, Rejected, ...)."),
			mcp.WithNumber("id", mcp.Description("Node id from a snapshot"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Attribute name"), mcp.Required()),
			mcp.WithString("value", mcp.Description(`New value as JSON: 16, true, "#ff0000", {"left":4}. Text that is not JSON, or does not fit the attribute as JSON, is taken as a string.`), mcp.Required()),
		),
		s.handleSetAttribute,
	)

	// select
	s.mcp.AddTool(
		mcp.NewTool("select",
			mcp.WithDescription("Select a node. The selected id is kept alive while the node is temporarily out of the tree. Id 0 clears the selection."),
			mcp.WithNumber("id", mcp.Description("Node id"), mcp.Required()),
		),
		s.handleSelect,
	)

	// diff
	s.mcp.AddTool(
		mcp.NewTool("diff",
			mcp.WithDescription("Take a fresh snapshot and list what changed since the previous one: added, removed and changed nodes by id"),
			mcp.WithString("root", mcp.Description("Root name (default: first root)")),
		),
		s.handleDiff,
	)

	// render
	s.mcp.AddTool(
		mcp.NewTool("render",
			mcp.WithDescription("Render a root's layout as a wireframe PNG with node ids"),
			mcp.WithString("root", mcp.Description("Root name (default: first root)")),
			mcp.WithNumber("highlight", mcp.Description("Node id to highlight (default: current selection)")),
			mcp.WithNumber("scale", mcp.Description("Scale factor (default: 1)")),
			mcp.WithString("labels", mcp.Description("Labels: ids, types, none (default: ids)")),
		),
		s.handleRender,
	)

	// descriptors
	s.mcp.AddTool(
		mcp.NewTool("descriptors",
			mcp.WithDescription("List registered component descriptors"),
		),
		s.handleDescriptors,
	)
}

// toText serializes v to YAML for an MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) handleListRoots(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(map[string]any{
		"roots":     s.inspector.Roots(),
		"selection": s.inspector.Selection(),
	})), nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	root := stringParam(params, "root", "")
	format := stringParam(params, "format", "yaml")
	flat := boolParam(params, "flat", false)
	typeFilter := stringParam(params, "type", "")
	text := stringParam(params, "text", "")

	f, err := output.ParseFormat(format)
	if err != nil || f == output.FormatCBOR {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q: use yaml, json or tree", format)), nil
	}

	snap := s.cache.Snapshot
	if boolParam(params, "fresh", false) {
		snap = s.cache.Refresh
	}
	name, snapshot, err := snap(ctx, s.inspector, root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var v any
	if flat {
		nodes := model.FilterNodes(model.Flatten(snapshot), model.ParseTypes(typeFilter), nil)
		if text != "" {
			nodes = model.FilterByText(nodes, text)
		}
		v = output.FlatResult{Root: name, TS: snapshot.TakenAt, Nodes: nodes}
	} else {
		v = output.NewSnapshotResult(name, snapshot)
	}

	var buf bytes.Buffer
	if f == output.FormatJSON {
		err = output.WriteJSON(&buf, v, true)
	} else {
		err = output.WriteFormat(&buf, f, v)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleSetAttribute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	id := model.NodeID(intParam(params, "id", 0))
	name := stringParam(params, "name", "")
	value, ok := params["value"]
	if id == 0 || name == "" || !ok {
		return mcp.NewToolResultError("id, name and value are required"), nil
	}

	var res model.MutationResult
	if text, isText := value.(string); isText {
		res = s.inspector.SetAttributeText(ctx, id, name, text)
	} else {
		res = s.inspector.SetAttribute(ctx, id, name, value)
	}
	if !res.Applied {
		return mcp.NewToolResultError(toText(res)), nil
	}
	s.afterMutation(ctx)
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleSelect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := model.NodeID(intParam(request.GetArguments(), "id", 0))
	if err := s.inspector.Select(id); err != nil {
		return mcp.NewToolResultError(toText(map[string]any{
			"error":   model.KindOf(err),
			"message": err.Error(),
		})), nil
	}
	return mcp.NewToolResultText(toText(map[string]any{"selection": id})), nil
}

// DiffResult is the reply of the diff tool.
type DiffResult struct {
	Root     string         `yaml:"root"               json:"root"`
	Baseline bool           `yaml:"baseline,omitempty" json:"baseline,omitempty"` // no earlier snapshot to compare with
	Changes  []model.Change `yaml:"changes"            json:"changes"`
}

func (s *Server) handleDiff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := stringParam(request.GetArguments(), "root", "")
	name, curr, err := s.cache.Refresh(ctx, s.inspector, root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, prev := s.cache.Last(name)
	res := DiffResult{Root: name, Baseline: prev == nil, Changes: []model.Change{}}
	if prev != nil {
		res.Changes = append(res.Changes, model.DiffSnapshots(prev, curr)...)
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	root := stringParam(params, "root", "")
	labels, err := render.ParseLabelMode(stringParam(params, "labels", "ids"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, snapshot, err := s.cache.Snapshot(ctx, s.inspector, root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img := render.Wireframe(snapshot, render.Options{
		Scale:     floatParam(params, "scale", 1),
		Highlight: model.NodeID(intParam(params, "highlight", int(s.inspector.Selection()))),
		Labels:    labels,
	})
	var buf bytes.Buffer
	if err := render.PNG(&buf, img); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleDescriptors(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.inspector.Registry().Entries())), nil
}
