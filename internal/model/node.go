package model

// NodeID identifies one live node across snapshots. Zero is never assigned.
type NodeID uint64

// Bounds is a node's frame in host coordinates.
type Bounds struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"w" json:"w"`
	Height int `yaml:"h" json:"h"`
}

// Bounder is implemented by host nodes that can report their own geometry.
// The walker uses it for nodes that have no registered descriptor.
type Bounder interface {
	Bounds() (Bounds, error)
}

// Node is one entry of a Snapshot. Children lists the ids of the nodes
// emitted under this one, in descriptor order.
type Node struct {
	ID            NodeID      `yaml:"id"                       json:"id"`
	Type          string      `yaml:"type"                     json:"type"`
	QualifiedName string      `yaml:"qualified_name,omitempty" json:"qualifiedName,omitempty"`
	Name          string      `yaml:"name,omitempty"           json:"name,omitempty"`
	Bounds        *Bounds     `yaml:"bounds"                   json:"bounds"` // nil when geometry could not be read
	Attributes    []Attribute `yaml:"attributes,omitempty"     json:"attributes,omitempty"`
	Children      []NodeID    `yaml:"children,omitempty"       json:"children,omitempty"`
	ActiveChild   NodeID      `yaml:"active_child,omitempty"   json:"activeChild,omitempty"`
	Tags          []string    `yaml:"tags,omitempty"           json:"tags,omitempty"`
	Markers       []ErrorKind `yaml:"markers,omitempty"        json:"markers,omitempty"`
	Shallow       bool        `yaml:"shallow,omitempty"        json:"shallow,omitempty"` // attributes and children were not read
}

// HasMarker reports whether the node carries the given traversal marker.
func (n *Node) HasMarker(kind ErrorKind) bool {
	for _, m := range n.Markers {
		if m == kind {
			return true
		}
	}
	return false
}

// Attribute returns the named attribute, or nil.
func (n *Node) Attribute(name string) *Attribute {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}

// Snapshot is a point-in-time copy of one component tree. Nodes are stored
// in depth-first pre-order, root first, and every id appears at most once.
// A Snapshot holds no references into the host tree.
type Snapshot struct {
	Root            NodeID   `yaml:"root"                       json:"root"`
	TakenAt         int64    `yaml:"ts"                         json:"ts"`
	Fingerprint     string   `yaml:"fingerprint,omitempty"      json:"fingerprint,omitempty"`
	Nodes           []Node   `yaml:"nodes"                      json:"nodes"`
	ObservableRoots []NodeID `yaml:"observable_roots,omitempty" json:"observableRoots,omitempty"`

	index map[NodeID]int
}

// NewSnapshot builds an indexed snapshot over nodes. The slice is owned by
// the snapshot afterwards.
func NewSnapshot(root NodeID, nodes []Node) *Snapshot {
	s := &Snapshot{Root: root, Nodes: nodes}
	s.index = make(map[NodeID]int, len(nodes))
	for i := range nodes {
		if _, dup := s.index[nodes[i].ID]; !dup {
			s.index[nodes[i].ID] = i
		}
	}
	return s
}

// Node looks up a node by id.
func (s *Snapshot) Node(id NodeID) *Node {
	if s == nil {
		return nil
	}
	if s.index != nil {
		if i, ok := s.index[id]; ok {
			return &s.Nodes[i]
		}
		return nil
	}
	// Decoded snapshots carry no index.
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Nodes)
}
