package widget

import (
	"math"

	"github.com/mj1618/layout-inspector/internal/model"
)

// Layout recomputes every frame and clears the pending flag.
func (t *Tree) Layout() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.layoutLocked()
}

func (t *Tree) layoutLocked() {
	if n, w, ok := t.get(t.root); ok {
		t.place(n, w, t.viewport)
	}
	t.dirty = false
}

func (t *Tree) place(n *node, w Widget, frame model.Bounds) {
	n.frame = frame
	inner := frame
	switch v := w.(type) {
	case *Box:
		if !v.visible {
			inner = model.Bounds{X: frame.X, Y: frame.Y}
			break
		}
		inner = model.Bounds{
			X:      frame.X + px(v.padding+v.insets.Left),
			Y:      frame.Y + px(v.padding+v.insets.Top),
			Width:  frame.Width - px(2*v.padding+v.insets.Left+v.insets.Right),
			Height: frame.Height - px(2*v.padding+v.insets.Top+v.insets.Bottom),
		}
		inner.Width, inner.Height = max(inner.Width, 0), max(inner.Height, 0)
	case *Switcher:
		for _, ref := range n.children {
			if cn, cw, ok := t.get(ref); ok {
				t.place(cn, cw, frame)
			}
		}
		return
	}

	row := false
	gap := 0
	if s, ok := w.(*Stack); ok {
		row = s.axis == "row"
		gap = px(s.gap)
	}
	x, y := inner.X, inner.Y
	for _, ref := range n.children {
		cn, cw, ok := t.get(ref)
		if !ok {
			continue
		}
		cwid, chei := t.measure(cn, cw)
		if row {
			t.place(cn, cw, model.Bounds{X: x, Y: inner.Y, Width: cwid, Height: inner.Height})
			x += cwid + gap
		} else {
			t.place(cn, cw, model.Bounds{X: inner.X, Y: y, Width: inner.Width, Height: chei})
			y += chei + gap
		}
	}
}

// measure returns a widget's natural size.
func (t *Tree) measure(n *node, w Widget) (int, int) {
	switch v := w.(type) {
	case *Text:
		return px(float64(len(v.content)) * v.size * 0.6), px(v.size * 1.4)
	case *Button:
		return len(v.label)*8 + 16, 28
	case *IconButton:
		return len(v.label)*8 + 40, 28
	case *Box:
		if !v.visible {
			return 0, 0
		}
	}

	row, gap := false, 0
	if s, ok := w.(*Stack); ok {
		row, gap = s.axis == "row", px(s.gap)
	}
	_, overlay := w.(*Switcher)

	width, height := 0, 0
	for i, ref := range n.children {
		cn, cw, ok := t.get(ref)
		if !ok {
			continue
		}
		cwid, chei := t.measure(cn, cw)
		switch {
		case overlay:
			width, height = max(width, cwid), max(height, chei)
		case row:
			width += cwid
			height = max(height, chei)
			if i > 0 {
				width += gap
			}
		default:
			height += chei
			width = max(width, cwid)
			if i > 0 {
				height += gap
			}
		}
	}
	if b, ok := w.(*Box); ok {
		width += px(2*b.padding + b.insets.Left + b.insets.Right)
		height += px(2*b.padding + b.insets.Top + b.insets.Bottom)
	}
	return width, height
}

func px(v float64) int { return int(math.Round(v)) }
