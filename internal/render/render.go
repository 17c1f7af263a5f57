// Package render draws snapshots as wireframe images, the way the console
// overlays node frames on the inspected window.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/mj1618/layout-inspector/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelMode controls what text is drawn on each node.
type LabelMode int

const (
	// LabelIDs draws "[id]" node ids.
	LabelIDs LabelMode = iota
	// LabelTypes draws "Type#id".
	LabelTypes
	// LabelNone draws frames only.
	LabelNone
)

// ParseLabelMode parses "ids", "types" or "none".
func ParseLabelMode(s string) (LabelMode, error) {
	switch s {
	case "ids", "":
		return LabelIDs, nil
	case "types":
		return LabelTypes, nil
	case "none":
		return LabelNone, nil
	}
	return LabelIDs, fmt.Errorf("unknown label mode %q (use ids, types or none)", s)
}

// Options configures Wireframe.
type Options struct {
	// Scale converts host coordinates to image pixels. Zero means 1.
	Scale float64
	// Highlight fills the frame of one node, as the console does for the
	// current selection.
	Highlight model.NodeID
	Labels    LabelMode
	// MaxWidth and MaxHeight cap the canvas; zero means 4096.
	MaxWidth, MaxHeight int
}

const defaultMaxSide = 4096

var (
	background     = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor   = color.RGBA{R: 0, G: 0, B: 0, A: 200}
	highlightColor = color.RGBA{R: 0, G: 120, B: 255, A: 60}
	frameColors    = []color.RGBA{
		{R: 220, G: 50, B: 47, A: 255},
		{R: 38, G: 139, B: 210, A: 255},
		{R: 133, G: 153, B: 0, A: 255},
		{R: 211, G: 54, B: 130, A: 255},
		{R: 181, G: 137, B: 0, A: 255},
		{R: 42, G: 161, B: 152, A: 255},
	}
)

// Wireframe draws the frame of every node with known geometry. Frames are
// coloured by depth. Nodes without geometry are skipped.
func Wireframe(s *model.Snapshot, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW <= 0 {
		maxW = defaultMaxSide
	}
	if maxH <= 0 {
		maxH = defaultMaxSide
	}

	flat := model.Flatten(s)
	w, h := 1, 1
	for _, n := range flat {
		if n.Bounds == nil {
			continue
		}
		w = max(w, int(float64(n.Bounds.X+n.Bounds.Width)*scale))
		h = max(h, int(float64(n.Bounds.Y+n.Bounds.Height)*scale))
	}
	img := image.NewRGBA(image.Rect(0, 0, min(w, maxW), min(h, maxH)))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, n := range flat {
		if n.Bounds == nil {
			continue
		}
		x1 := int(float64(n.Bounds.X) * scale)
		y1 := int(float64(n.Bounds.Y) * scale)
		x2 := x1 + int(float64(n.Bounds.Width)*scale)
		y2 := y1 + int(float64(n.Bounds.Height)*scale)

		if n.ID == opts.Highlight {
			fillRectangle(img, x1, y1, x2, y2, highlightColor)
		}
		drawRectangle(img, x1, y1, x2, y2, frameColors[n.Depth%len(frameColors)])

		var label string
		switch opts.Labels {
		case LabelIDs:
			label = fmt.Sprintf("[%d]", n.ID)
		case LabelTypes:
			label = fmt.Sprintf("%s#%d", n.Type, n.ID)
		}
		if label != "" {
			drawTextWithOutline(img, label, (x1+x2)/2, (y1+y2)/2, textColor, outlineColor)
		}
	}
	return img
}

// PNG encodes img to w.
func PNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

func clampRect(bounds image.Rectangle, x1, y1, x2, y2 int) (int, int, int, int, bool) {
	x1, y1 = max(x1, bounds.Min.X), max(y1, bounds.Min.Y)
	x2, y2 = min(x2, bounds.Max.X), min(y2, bounds.Max.Y)
	return x1, y1, x2, y2, x2 > x1 && y2 > y1
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1, y1, x2, y2, ok := clampRect(bounds, x1, y1, x2, y2)
	if !ok {
		return
	}

	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

func fillRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	x1, y1, x2, y2, ok := clampRect(img.Bounds(), x1, y1, x2, y2)
	if !ok {
		return
	}
	draw.Draw(img, image.Rect(x1, y1, x2, y2), image.NewUniform(c), image.Point{}, draw.Over)
}

// drawTextWithOutline draws text centred on (x, y) with a one pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13 glyphs are 7 pixels wide; the baseline sits 13
	// pixels below the top of the line.
	textWidth := len(text) * 7
	offsetX := x - textWidth/2
	offsetY := y + 13/2

	if !isWithinBounds(img.Bounds(), x, y) {
		return
	}

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, offsetX+dx, offsetY+dy, outlineColor)
		}
	}
	drawString(img, text, offsetX, offsetY, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
