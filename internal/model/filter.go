package model

import (
	"fmt"
	"strings"
)

// FilterNodes applies filters to a flat node list, returning only matching
// nodes. It filters by type names and bounding box. Depth limits belong to
// the traversal, not here.
func FilterNodes(nodes []FlatNode, types []string, bbox *Bounds) []FlatNode {
	if len(types) == 0 && bbox == nil {
		return nodes
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	var result []FlatNode
	for _, n := range nodes {
		typeMatch := len(typeSet) == 0 || typeSet[n.Type]
		bboxMatch := bbox == nil || (n.Bounds != nil && boundsIntersect(*n.Bounds, *bbox))
		if typeMatch && bboxMatch {
			result = append(result, n)
		}
	}
	return result
}

// ParseTypes splits a comma-separated type list, dropping blanks.
func ParseTypes(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// FilterByText filters nodes to those whose type, name, or any string-like
// attribute value contains text (case-insensitive).
func FilterByText(nodes []FlatNode, text string) []FlatNode {
	if text == "" {
		return nodes
	}
	textLower := strings.ToLower(text)
	var result []FlatNode
	for _, n := range nodes {
		if textMatchesNode(n, textLower) {
			result = append(result, n)
		}
	}
	return result
}

func textMatchesNode(n FlatNode, textLower string) bool {
	if strings.Contains(strings.ToLower(n.Type), textLower) ||
		strings.Contains(strings.ToLower(n.Name), textLower) {
		return true
	}
	for _, a := range n.Attributes {
		switch a.Type {
		case AttrString, AttrEnum, AttrColor:
			if strings.Contains(strings.ToLower(fmt.Sprint(a.Value)), textLower) {
				return true
			}
		}
	}
	return false
}

// FilterByMarker keeps the nodes carrying the given marker, e.g. to list
// every StructuralCycle in a snapshot.
func FilterByMarker(nodes []FlatNode, kind ErrorKind) []FlatNode {
	var result []FlatNode
	for _, n := range nodes {
		for _, m := range n.Markers {
			if m == kind {
				result = append(result, n)
				break
			}
		}
	}
	return result
}

// boundsIntersect checks if two rectangles overlap.
func boundsIntersect(a, b Bounds) bool {
	ax1, ay1, ax2, ay2 := a.X, a.Y, a.X+a.Width, a.Y+a.Height
	bx1, by1, bx2, by2 := b.X, b.Y, b.X+b.Width, b.Y+b.Height
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}
