package widget

import "fmt"

// Demo builds the sample tree served by `layout-inspector serve`.
func Demo() *Tree {
	root := Named(NewStack("column", 8), "root")
	t := NewTree(480, 320, root)

	title := Named(NewText("Layout Inspector", 20), "title")
	card := Tagged(Named(NewBox(8), "card"), "surface")
	toolbar := Named(NewStack("row", 4), "toolbar")
	pages := Named(NewSwitcher(), "pages")
	_ = t.Add(root, title, card, pages)

	_ = t.Add(card, toolbar)
	_ = t.Add(toolbar,
		Named(NewButton("OK"), "ok"),
		Tagged(NewButton("Cancel"), "secondary"),
		Named(NewIconButton("gear", "Settings"), "settings"),
	)
	for i := 1; i <= 3; i++ {
		_ = t.Add(pages, NewText(fmt.Sprintf("Page %d", i), 14))
	}
	t.Layout()
	return t
}

// AnimateDemo returns a tick function that cycles the demo's pages and
// recreates its status line, so consecutive snapshots see both stable and
// replaced nodes.
func AnimateDemo() func(*Tree) {
	frame := 0
	return func(t *Tree) {
		frame++
		root := t.Root()
		for _, c := range t.Children(root) {
			switch w := c.(type) {
			case *Switcher:
				if n := len(t.Children(w)); n > 0 {
					w.SetSelected(frame % n)
				}
			case *Text:
				if Name(w) == "status" {
					_ = t.Replace(w, Named(NewText(fmt.Sprintf("frame %d", frame), 12), "status"))
					return
				}
			}
		}
		_ = t.Add(root, Named(NewText(fmt.Sprintf("frame %d", frame), 12), "status"))
	}
}
