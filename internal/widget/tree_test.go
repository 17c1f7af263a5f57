package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_AddAndChildren(t *testing.T) {
	root := NewStack("column", 0)
	tr := NewTree(100, 100, root)
	a, b := NewText("a", 10), NewText("b", 10)
	require.NoError(t, tr.Add(root, a, b))
	c := NewText("c", 10)
	require.NoError(t, tr.Insert(root, 1, c))

	assert.Equal(t, []Widget{a, c, b}, tr.Children(root))
	assert.Equal(t, root, tr.Parent(a))
	assert.Nil(t, tr.Parent(root))
	assert.Equal(t, 4, tr.Len())
	assert.Same(t, tr, Of(a))

	assert.ErrorIs(t, tr.Add(root, a), ErrAttached)
	assert.ErrorIs(t, tr.Add(NewBox(0), NewText("x", 1)), ErrNotInTree)
}

func TestTree_MoveKeepsSlot(t *testing.T) {
	root := NewStack("column", 0)
	tr := NewTree(100, 100, root)
	left, right := NewBox(0), NewBox(0)
	leaf := NewText("leaf", 10)
	require.NoError(t, tr.Add(root, left, right))
	require.NoError(t, tr.Add(left, leaf))

	h := tr.Handle(leaf)
	ref := leaf.ref
	require.NoError(t, tr.Move(leaf, right))
	assert.Equal(t, ref, leaf.ref)
	assert.Empty(t, tr.Children(left))
	assert.Equal(t, []Widget{leaf}, tr.Children(right))

	got, ok := h.Resolve()
	require.True(t, ok)
	assert.Same(t, leaf, got)

	assert.ErrorIs(t, tr.Move(left, left), ErrInvalidMove)
	require.NoError(t, tr.Move(right, left))
	assert.ErrorIs(t, tr.Move(left, leaf), ErrInvalidMove)
	assert.ErrorIs(t, tr.Move(root, left), ErrInvalidMove)
}

func TestTree_RemoveFreesSubtree(t *testing.T) {
	root := NewStack("column", 0)
	tr := NewTree(100, 100, root)
	box := NewBox(4)
	inner := NewText("inner", 10)
	require.NoError(t, tr.Add(root, box))
	require.NoError(t, tr.Add(box, inner))
	hBox, hInner := tr.Handle(box), tr.Handle(inner)

	require.NoError(t, tr.Remove(box))
	assert.Equal(t, 1, tr.Len())
	_, ok := hBox.Resolve()
	assert.False(t, ok)
	_, ok = hInner.Resolve()
	assert.False(t, ok)
	assert.Nil(t, Of(box))
	assert.ErrorIs(t, tr.Remove(box), ErrNotInTree)
	assert.ErrorIs(t, tr.Remove(root), ErrInvalidMove)

	// A new widget reuses the slot with a new generation.
	again := NewBox(4)
	require.NoError(t, tr.Add(root, again))
	assert.NotEqual(t, hBox.Key(), tr.Handle(again).Key())
}

func TestTree_Replace(t *testing.T) {
	root := NewStack("column", 0)
	tr := NewTree(100, 100, root)
	a, old, c := NewText("a", 10), NewText("same", 10), NewText("c", 10)
	require.NoError(t, tr.Add(root, a, old, c))
	hOld := tr.Handle(old)

	fresh := NewText("same", 10)
	require.NoError(t, tr.Replace(old, fresh))
	assert.Equal(t, []Widget{a, fresh, c}, tr.Children(root))
	_, ok := hOld.Resolve()
	assert.False(t, ok)
	assert.NotEqual(t, hOld.Key(), tr.Handle(fresh).Key())

	newRoot := NewStack("row", 0)
	require.NoError(t, tr.Replace(root, newRoot))
	assert.Same(t, newRoot, tr.Root())
	assert.Equal(t, 1, tr.Len())
}

func TestTree_FramePendingUntilLayout(t *testing.T) {
	root := NewStack("column", 0)
	tr := NewTree(100, 100, root)
	_, err := tr.Frame(root)
	require.NoError(t, err)

	box := NewBox(0)
	require.NoError(t, tr.Add(root, box))
	_, err = tr.Frame(box)
	assert.ErrorIs(t, err, ErrLayoutPending)

	tr.Layout()
	_, err = tr.Frame(box)
	assert.NoError(t, err)

	box.SetPadding(3)
	_, err = tr.Frame(box)
	assert.ErrorIs(t, err, ErrLayoutPending)
}

func TestLayout_ColumnAndPadding(t *testing.T) {
	root := NewStack("column", 10)
	tr := NewTree(200, 200, root)
	title := NewText("Hi", 10) // 12x14
	box := NewBox(5)
	btn := NewButton("OK") // 32x28
	require.NoError(t, tr.Add(root, title, box))
	require.NoError(t, tr.Add(box, btn))
	tr.Layout()

	frame := func(w Widget) model.Bounds {
		b, err := tr.Frame(w)
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, model.Bounds{Width: 200, Height: 200}, frame(root))
	assert.Equal(t, model.Bounds{Width: 200, Height: 14}, frame(title))
	assert.Equal(t, model.Bounds{Y: 24, Width: 200, Height: 38}, frame(box))
	assert.Equal(t, model.Bounds{X: 5, Y: 29, Width: 190, Height: 28}, frame(btn))

	box.SetInsets(Insets{Left: 10})
	tr.Layout()
	assert.Equal(t, 15, frame(btn).X)
}

func TestLayout_RowAndSwitcher(t *testing.T) {
	root := NewStack("row", 4)
	tr := NewTree(300, 50, root)
	a, b := NewButton("A"), NewButton("BB") // 24 and 32 wide
	sw := NewSwitcher()
	require.NoError(t, tr.Add(root, a, b, sw))
	require.NoError(t, tr.Add(sw, NewText("one", 10), NewText("three", 10)))
	tr.Layout()

	fb, _ := tr.Frame(b)
	assert.Equal(t, model.Bounds{X: 28, Width: 32, Height: 50}, fb)
	fs, _ := tr.Frame(sw)
	for _, c := range tr.Children(sw) {
		fc, _ := tr.Frame(c)
		assert.Equal(t, fs, fc)
	}
}

func TestPost_WithoutLoop(t *testing.T) {
	box := NewBox(0)
	tr := NewTree(100, 100, box)
	assert.True(t, tr.Post(func() { box.SetPadding(4) }))
	assert.Equal(t, 4.0, box.Padding())
	_, err := tr.Frame(box)
	assert.NoError(t, err, "post without a loop lays out immediately")
}

func TestLoop_DoAndSync(t *testing.T) {
	box := NewBox(0)
	tr := NewTree(100, 100, box)
	loop := NewLoop(tr)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = loop.Run(ctx)
	}()

	for i := 1; i <= 5; i++ {
		v := float64(i)
		require.True(t, tr.Post(func() { box.SetPadding(v) }))
	}
	require.NoError(t, loop.Sync(context.Background()))
	assert.Equal(t, 5.0, box.Padding())
	_, err := tr.Frame(box)
	assert.NoError(t, err)

	cancel()
	wg.Wait()
	assert.False(t, loop.Do(func() {}))
	assert.ErrorIs(t, loop.Sync(context.Background()), ErrLoopStopped)

	// Without a running loop writes apply immediately again.
	assert.True(t, tr.Post(func() { box.SetPadding(9) }))
	assert.Equal(t, 9.0, box.Padding())
}

func TestLoop_PanicIsContained(t *testing.T) {
	box := NewBox(0)
	tr := NewTree(100, 100, box)
	loop := NewLoop(tr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	tr.Post(func() { panic("bad update") })
	tr.Post(func() { box.SetVisible(false) })
	require.NoError(t, loop.Sync(context.Background()))
	assert.False(t, box.Visible())
}

func TestLoop_Tick(t *testing.T) {
	tr := Demo()
	loop := NewLoop(tr, WithInterval(time.Millisecond), WithTick(AnimateDemo()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	require.Eventually(t, func() bool {
		for _, c := range tr.Children(tr.Root()) {
			if Name(c) == "status" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestDemo(t *testing.T) {
	tr := Demo()
	root := tr.Root()
	assert.Equal(t, "root", Name(root))
	assert.Equal(t, 11, tr.Len())

	var card Widget
	for _, c := range tr.Children(root) {
		if Name(c) == "card" {
			card = c
		}
	}
	require.NotNil(t, card)
	assert.Equal(t, []string{"surface"}, Tags(card))
	_, err := tr.Frame(card)
	assert.NoError(t, err)
}
