package model

func bp(x, y, w, h int) *Bounds {
	return &Bounds{X: x, Y: y, Width: w, Height: h}
}

// sampleSnapshot is Root(1) > [Stack(2) > [Box(3), Text(4)], Box(5)].
func sampleSnapshot() *Snapshot {
	return NewSnapshot(1, []Node{
		{ID: 1, Type: "Root", Bounds: bp(0, 0, 400, 300), Children: []NodeID{2, 5}},
		{ID: 2, Type: "Stack", Bounds: bp(0, 0, 400, 200), Children: []NodeID{3, 4},
			Attributes: []Attribute{{Name: "axis", Type: AttrEnum, Value: "vertical", Mutable: true, Options: []string{"vertical", "horizontal"}}}},
		{ID: 3, Type: "Box", Bounds: bp(0, 0, 400, 100),
			Attributes: []Attribute{{Name: "padding", Type: AttrNumber, Value: 8.0, Mutable: true}}},
		{ID: 4, Type: "Text", Name: "title", Bounds: bp(0, 100, 400, 20),
			Attributes: []Attribute{{Name: "content", Type: AttrString, Value: "Hello World", Mutable: true}}},
		{ID: 5, Type: "Box", Bounds: nil, Markers: []ErrorKind{GeometryUnavailable}},
	})
}
