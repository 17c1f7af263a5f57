package output

import "github.com/mj1618/layout-inspector/internal/model"

// Element is one node of the nested wire tree sent to the console.
type Element struct {
	ID          model.NodeID      `yaml:"id"                     json:"id"`
	Type        string            `yaml:"type"                   json:"type"`
	Name        string            `yaml:"name,omitempty"         json:"name,omitempty"`
	Bounds      *model.Bounds     `yaml:"bounds"                 json:"bounds"`
	Attributes  []model.Attribute `yaml:"attributes"             json:"attributes"`
	Children    []Element         `yaml:"children"               json:"children"`
	ActiveChild model.NodeID      `yaml:"active_child,omitempty" json:"activeChild,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"         json:"tags,omitempty"`
	Markers     []model.ErrorKind `yaml:"markers,omitempty"      json:"markers,omitempty"`
	Shallow     bool              `yaml:"shallow,omitempty"      json:"shallow,omitempty"`
}

// Tree nests the flat pre-order node list of s under its root. It returns
// nil for an empty snapshot.
func Tree(s *model.Snapshot) *Element {
	root := s.Node(s.Root)
	if root == nil {
		return nil
	}
	e := buildElement(s, root, make(map[model.NodeID]bool))
	return &e
}

func buildElement(s *model.Snapshot, n *model.Node, seen map[model.NodeID]bool) Element {
	seen[n.ID] = true
	e := Element{
		ID:          n.ID,
		Type:        n.Type,
		Name:        n.Name,
		Bounds:      n.Bounds,
		Attributes:  n.Attributes,
		Children:    []Element{},
		ActiveChild: n.ActiveChild,
		Tags:        n.Tags,
		Markers:     n.Markers,
		Shallow:     n.Shallow,
	}
	if e.Attributes == nil {
		e.Attributes = []model.Attribute{}
	}
	for _, cid := range n.Children {
		if seen[cid] {
			continue
		}
		if child := s.Node(cid); child != nil {
			e.Children = append(e.Children, buildElement(s, child, seen))
		}
	}
	return e
}
