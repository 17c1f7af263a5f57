package model

// FlatNode is a snapshot node with a path breadcrumb and depth instead of
// child ids.
type FlatNode struct {
	ID         NodeID      `yaml:"id"                   json:"id"`
	Type       string      `yaml:"type"                 json:"type"`
	Name       string      `yaml:"name,omitempty"       json:"name,omitempty"`
	Bounds     *Bounds     `yaml:"bounds"               json:"bounds"`
	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Markers    []ErrorKind `yaml:"markers,omitempty"    json:"markers,omitempty"`
	Depth      int         `yaml:"depth"                json:"depth"`
	Path       string      `yaml:"path"                 json:"path"`
}

// Flatten converts a snapshot into a flat list in pre-order.
// Each node gets a path showing its location in the tree using type names
// joined with " > ".
func Flatten(s *Snapshot) []FlatNode {
	if s == nil || s.Len() == 0 {
		return nil
	}
	var result []FlatNode
	seen := make(map[NodeID]bool, s.Len())
	flattenRecursive(s, s.Root, "", 0, seen, &result)
	return result
}

func flattenRecursive(s *Snapshot, id NodeID, parentPath string, depth int, seen map[NodeID]bool, result *[]FlatNode) {
	n := s.Node(id)
	if n == nil || seen[id] {
		return
	}
	seen[id] = true

	currentPath := n.Type
	if parentPath != "" {
		currentPath = parentPath + " > " + n.Type
	}

	*result = append(*result, FlatNode{
		ID:         n.ID,
		Type:       n.Type,
		Name:       n.Name,
		Bounds:     n.Bounds,
		Attributes: n.Attributes,
		Markers:    n.Markers,
		Depth:      depth,
		Path:       currentPath,
	})

	for _, child := range n.Children {
		flattenRecursive(s, child, currentPath, depth+1, seen, result)
	}
}

// ParentOf returns the id of the node listing id as a child.
func ParentOf(s *Snapshot, id NodeID) (NodeID, bool) {
	for i := range s.Nodes {
		for _, c := range s.Nodes[i].Children {
			if c == id {
				return s.Nodes[i].ID, true
			}
		}
	}
	return 0, false
}
