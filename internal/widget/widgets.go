package widget

// Insets are per-edge paddings added to a Box's uniform padding.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Box is a container that pads its children.
type Box struct {
	node
	padding    float64
	background string
	visible    bool
	insets     Insets
}

// NewBox creates a visible, transparent box.
func NewBox(padding float64) *Box {
	return &Box{padding: padding, background: "#00000000", visible: true}
}

func (*Box) Kind() string { return "Box" }

func (b *Box) Padding() float64       { return read(b, func(*node) float64 { return b.padding }) }
func (b *Box) Background() string     { return read(b, func(*node) string { return b.background }) }
func (b *Box) Visible() bool          { return read(b, func(*node) bool { return b.visible }) }
func (b *Box) Insets() Insets         { return read(b, func(*node) Insets { return b.insets }) }
func (b *Box) SetPadding(v float64)   { write(b, func() { b.padding = v }) }
func (b *Box) SetBackground(c string) { write(b, func() { b.background = c }) }
func (b *Box) SetVisible(v bool)      { write(b, func() { b.visible = v }) }
func (b *Box) SetInsets(in Insets)    { write(b, func() { b.insets = in }) }

// Text is a single line of text.
type Text struct {
	node
	content string
	size    float64
	align   string
}

// Text alignments.
var TextAligns = []string{"start", "center", "end"}

// NewText creates start-aligned text of the given point size.
func NewText(content string, size float64) *Text {
	return &Text{content: content, size: size, align: "start"}
}

func (*Text) Kind() string { return "Text" }

func (t *Text) Content() string     { return read(t, func(*node) string { return t.content }) }
func (t *Text) Size() float64       { return read(t, func(*node) float64 { return t.size }) }
func (t *Text) Align() string       { return read(t, func(*node) string { return t.align }) }
func (t *Text) SetContent(s string) { write(t, func() { t.content = s }) }
func (t *Text) SetSize(v float64)   { write(t, func() { t.size = v }) }
func (t *Text) SetAlign(a string)   { write(t, func() { t.align = a }) }

// Stack lays its children out in a row or a column.
type Stack struct {
	node
	axis string
	gap  float64
}

// Stack axes.
var StackAxes = []string{"row", "column"}

// NewStack creates a stack along axis ("row" or "column").
func NewStack(axis string, gap float64) *Stack {
	return &Stack{axis: axis, gap: gap}
}

func (*Stack) Kind() string { return "Stack" }

func (s *Stack) Axis() string     { return read(s, func(*node) string { return s.axis }) }
func (s *Stack) Gap() float64     { return read(s, func(*node) float64 { return s.gap }) }
func (s *Stack) SetAxis(a string) { write(s, func() { s.axis = a }) }
func (s *Stack) SetGap(v float64) { write(s, func() { s.gap = v }) }

// Switcher shows one of its children at a time.
type Switcher struct {
	node
	selected int
}

// NewSwitcher creates a switcher showing its first child.
func NewSwitcher() *Switcher { return &Switcher{} }

func (*Switcher) Kind() string { return "Switcher" }

func (s *Switcher) Selected() int     { return read(s, func(*node) int { return s.selected }) }
func (s *Switcher) SetSelected(i int) { write(s, func() { s.selected = i }) }

// Button is a clickable label.
type Button struct {
	node
	label   string
	enabled bool
	variant string
}

// Button variants.
var ButtonVariants = []string{"primary", "secondary", "link"}

// NewButton creates an enabled primary button.
func NewButton(label string) *Button {
	return &Button{label: label, enabled: true, variant: "primary"}
}

func (*Button) Kind() string { return "Button" }

// AsButton returns the button part of b. Widgets embedding Button share it.
func (b *Button) AsButton() *Button { return b }

func (b *Button) Label() string       { return read(b, func(*node) string { return b.label }) }
func (b *Button) Enabled() bool       { return read(b, func(*node) bool { return b.enabled }) }
func (b *Button) Variant() string     { return read(b, func(*node) string { return b.variant }) }
func (b *Button) SetLabel(s string)   { write(b, func() { b.label = s }) }
func (b *Button) SetEnabled(v bool)   { write(b, func() { b.enabled = v }) }
func (b *Button) SetVariant(v string) { write(b, func() { b.variant = v }) }

// IconButton is a Button with a leading icon. It has no inspector
// descriptor of its own and is inspected as a Button.
type IconButton struct {
	Button
	icon string
}

// NewIconButton creates an icon button.
func NewIconButton(icon, label string) *IconButton {
	return &IconButton{Button: Button{label: label, enabled: true, variant: "primary"}, icon: icon}
}

func (*IconButton) Kind() string { return "IconButton" }

func (b *IconButton) Icon() string { return read(b, func(*node) string { return b.icon }) }
