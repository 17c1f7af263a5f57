package model

import (
	"fmt"
	"time"
)

// ChangeType represents the kind of tree change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Change is a single difference between two snapshots of the same root.
type Change struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	TS      int64                `yaml:"ts"                json:"ts"`
	ID      NodeID               `yaml:"id"                json:"id"`
	Node    string               `yaml:"node,omitempty"    json:"node,omitempty"`    // type name
	Parent  NodeID               `yaml:"parent,omitempty"  json:"parent,omitempty"`  // for added: new parent
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // for changed: field diffs
}

// DiffSnapshots compares two snapshots and returns the changes.
// Nodes are matched by NodeID, which the identity tracker keeps stable
// across snapshots of a live node.
func DiffSnapshots(prev, curr *Snapshot) []Change {
	var prevNodes, currNodes []Node
	if prev != nil {
		prevNodes = prev.Nodes
	}
	if curr != nil {
		currNodes = curr.Nodes
	}

	prevMap := make(map[NodeID]*Node, len(prevNodes))
	prevParent := parentMap(prevNodes)
	for i := range prevNodes {
		prevMap[prevNodes[i].ID] = &prevNodes[i]
	}
	currMap := make(map[NodeID]*Node, len(currNodes))
	currParent := parentMap(currNodes)
	for i := range currNodes {
		currMap[currNodes[i].ID] = &currNodes[i]
	}

	var changes []Change
	now := time.Now().Unix()

	// Check for added and changed nodes
	for i := range currNodes {
		n := &currNodes[i]
		prevN, existed := prevMap[n.ID]
		if !existed {
			changes = append(changes, Change{
				Type:   ChangeAdded,
				TS:     now,
				ID:     n.ID,
				Node:   n.Type,
				Parent: currParent[n.ID],
			})
			continue
		}
		diffs := diffNodes(prevN, n)
		if prevParent[n.ID] != currParent[n.ID] {
			if diffs == nil {
				diffs = make(map[string][2]string)
			}
			diffs["parent"] = [2]string{
				fmt.Sprintf("%d", prevParent[n.ID]),
				fmt.Sprintf("%d", currParent[n.ID]),
			}
		}
		if len(diffs) > 0 {
			changes = append(changes, Change{
				Type:    ChangeChanged,
				TS:      now,
				ID:      n.ID,
				Node:    n.Type,
				Changes: diffs,
			})
		}
	}

	// Check for removed nodes
	for i := range prevNodes {
		n := &prevNodes[i]
		if _, exists := currMap[n.ID]; !exists {
			changes = append(changes, Change{
				Type: ChangeRemoved,
				TS:   now,
				ID:   n.ID,
				Node: n.Type,
			})
		}
	}

	return changes
}

func parentMap(nodes []Node) map[NodeID]NodeID {
	parents := make(map[NodeID]NodeID, len(nodes))
	for i := range nodes {
		for _, c := range nodes[i].Children {
			parents[c] = nodes[i].ID
		}
	}
	return parents
}

// diffNodes compares two nodes with the same id and returns changed fields.
// Attribute keys are prefixed with "@".
func diffNodes(prev, curr *Node) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Type != curr.Type {
		diffs["type"] = [2]string{prev.Type, curr.Type}
	}
	if prev.Name != curr.Name {
		diffs["name"] = [2]string{prev.Name, curr.Name}
	}
	if pb, cb := boundsString(prev.Bounds), boundsString(curr.Bounds); pb != cb {
		diffs["bounds"] = [2]string{pb, cb}
	}
	if pc, cc := fmt.Sprint(prev.Children), fmt.Sprint(curr.Children); pc != cc {
		diffs["children"] = [2]string{pc, cc}
	}

	for _, ca := range curr.Attributes {
		pa := prev.Attribute(ca.Name)
		if pa == nil {
			diffs["@"+ca.Name] = [2]string{"", fmt.Sprint(ca.Value)}
			continue
		}
		if pv, cv := fmt.Sprint(pa.Value), fmt.Sprint(ca.Value); pv != cv {
			diffs["@"+ca.Name] = [2]string{pv, cv}
		}
	}
	for _, pa := range prev.Attributes {
		if curr.Attribute(pa.Name) == nil {
			diffs["@"+pa.Name] = [2]string{fmt.Sprint(pa.Value), ""}
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func boundsString(b *Bounds) string {
	if b == nil {
		return "null"
	}
	return fmt.Sprintf("[%d %d %d %d]", b.X, b.Y, b.Width, b.Height)
}
