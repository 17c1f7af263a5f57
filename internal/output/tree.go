package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mj1618/layout-inspector/internal/model"
)

var (
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	typeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	attrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	guideStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// WriteTree renders a snapshot as an indented outline. It accepts
// SnapshotResult, *model.Snapshot or *Element; anything else is written as
// YAML.
func WriteTree(w io.Writer, v any) error {
	var root *Element
	var header string
	switch t := v.(type) {
	case SnapshotResult:
		root, header = t.Tree, t.Root
	case *SnapshotResult:
		root, header = t.Tree, t.Root
	case *model.Snapshot:
		root = Tree(t)
	case *Element:
		root = t
	default:
		return WriteYAML(w, v)
	}

	var b strings.Builder
	if header != "" {
		b.WriteString(typeStyle.Render(header))
		b.WriteString("\n")
	}
	if root != nil {
		writeElement(&b, root, "", "", true)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeElement(b *strings.Builder, e *Element, prefix, branch string, isRoot bool) {
	b.WriteString(prefix)
	b.WriteString(guideStyle.Render(branch))
	b.WriteString(elementLine(e))
	b.WriteString("\n")

	childPrefix := prefix
	if !isRoot {
		if branch == "└── " {
			childPrefix += "    "
		} else {
			childPrefix += guideStyle.Render("│   ")
		}
	}
	for i := range e.Children {
		next := "├── "
		if i == len(e.Children)-1 {
			next = "└── "
		}
		writeElement(b, &e.Children[i], childPrefix, next, false)
	}
}

func elementLine(e *Element) string {
	parts := []string{idStyle.Render(fmt.Sprintf("[%d]", e.ID)), typeStyle.Render(e.Type)}
	if e.Name != "" {
		parts = append(parts, nameStyle.Render(fmt.Sprintf("%q", e.Name)))
	}
	if e.Bounds != nil {
		parts = append(parts, fmt.Sprintf("(%d,%d %dx%d)", e.Bounds.X, e.Bounds.Y, e.Bounds.Width, e.Bounds.Height))
	}
	for _, a := range e.Attributes {
		parts = append(parts, attrStyle.Render(fmt.Sprintf("%s=%s", a.Name, formatValue(a.Value))))
	}
	if e.Shallow {
		parts = append(parts, idStyle.Render("…"))
	}
	for _, m := range e.Markers {
		parts = append(parts, markerStyle.Render("!"+string(m)))
	}
	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case float64:
		return fmt.Sprintf("%g", t)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
