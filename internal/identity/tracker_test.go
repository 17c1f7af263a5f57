package identity

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	name string
}

func observeAll(t *Tracker, scope string, handles ...Handle) []model.NodeID {
	p := t.Begin(scope)
	ids := make([]model.NodeID, len(handles))
	for i, h := range handles {
		ids[i] = p.Observe(h)
	}
	p.End()
	return ids
}

func TestTracker_StableAcrossPasses(t *testing.T) {
	tr := NewTracker()
	a, b := &widget{"a"}, &widget{"b"}

	first := observeAll(tr, "root", Weak(a), Weak(b))
	second := observeAll(tr, "root", Weak(b), Weak(a))

	assert.Equal(t, first[0], second[1])
	assert.Equal(t, first[1], second[0])
	assert.NotEqual(t, first[0], first[1])
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestTracker_IdsIncreaseAndAreNeverReused(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	var arena Arena[*widget]

	r1 := arena.Alloc(&widget{"one"})
	ids := observeAll(tr, "root", arena.Handle(r1))
	require.True(t, arena.Free(r1))
	observeAll(tr, "root")
	assert.False(t, tr.Tracked(ids[0]))

	// The slot is reused but the generation differs.
	r2 := arena.Alloc(&widget{"two"})
	assert.Equal(t, r1.Slot, r2.Slot)
	next := observeAll(tr, "root", arena.Handle(r2))
	assert.Greater(t, next[0], ids[0])
}

func TestTracker_ReplacedNodeGetsNewID(t *testing.T) {
	tr := NewTracker()
	var arena Arena[*widget]

	r := arena.Alloc(&widget{"box"})
	before := observeAll(tr, "root", arena.Handle(r))

	// Destroy and recreate a structurally identical node at the same place.
	arena.Free(r)
	r = arena.Alloc(&widget{"box"})
	after := observeAll(tr, "root", arena.Handle(r))

	assert.NotEqual(t, before[0], after[0])
	_, err := tr.Resolve(before[0])
	assert.True(t, errors.Is(err, model.ErrStaleReference))
}

func TestTracker_RetireAfterMissingPasses(t *testing.T) {
	tr := NewTracker() // retire after 2
	a := &widget{"a"}
	ids := observeAll(tr, "root", Weak(a))

	observeAll(tr, "root")
	assert.True(t, tr.Tracked(ids[0]), "missing once should keep the id")

	observeAll(tr, "root")
	assert.False(t, tr.Tracked(ids[0]), "missing twice should retire the id")

	_, err := tr.Resolve(ids[0])
	assert.Equal(t, model.StaleReference, model.KindOf(err))
	runtime.KeepAlive(a)
}

func TestTracker_ScopesAgeIndependently(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	a, b := &widget{"a"}, &widget{"b"}
	idsA := observeAll(tr, "left", Weak(a))
	observeAll(tr, "right", Weak(b))
	observeAll(tr, "right", Weak(b))

	assert.True(t, tr.Tracked(idsA[0]), "passes over another root must not age this node")
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestTracker_PinSurvivesAgeButNotDeath(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	var arena Arena[*widget]
	r := arena.Alloc(&widget{"selected"})
	ids := observeAll(tr, "root", arena.Handle(r))

	require.NoError(t, tr.Pin(ids[0]))
	observeAll(tr, "root")
	observeAll(tr, "root")
	assert.True(t, tr.Tracked(ids[0]))

	node, err := tr.Resolve(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "selected", node.(*widget).name)

	arena.Free(r)
	observeAll(tr, "root")
	assert.False(t, tr.Tracked(ids[0]))
}

func TestTracker_UnpinAllowsRetirement(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	a := &widget{"a"}
	ids := observeAll(tr, "root", Weak(a))
	require.NoError(t, tr.Pin(ids[0]))
	tr.Unpin(ids[0])
	observeAll(tr, "root")
	assert.False(t, tr.Tracked(ids[0]))
	runtime.KeepAlive(a)
}

func TestTracker_PinUnknown(t *testing.T) {
	tr := NewTracker()
	err := tr.Pin(42)
	assert.Equal(t, model.StaleReference, model.KindOf(err))
}

func TestTracker_AbandonDoesNotAge(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	a := &widget{"a"}
	ids := observeAll(tr, "root", Weak(a))

	p := tr.Begin("root")
	p.Abandon()
	assert.Equal(t, 0, p.End(), "End after Abandon is a no-op")
	assert.True(t, tr.Tracked(ids[0]))
	runtime.KeepAlive(a)
}

func TestTracker_ResolveDeadRetires(t *testing.T) {
	tr := NewTracker()
	var arena Arena[*widget]
	r := arena.Alloc(&widget{"gone"})
	ids := observeAll(tr, "root", arena.Handle(r))
	arena.Free(r)

	_, err := tr.Resolve(ids[0])
	assert.Equal(t, model.StaleReference, model.KindOf(err))
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_ConcurrentObserve(t *testing.T) {
	tr := NewTracker()
	nodes := make([]*widget, 64)
	for i := range nodes {
		nodes[i] = &widget{}
	}

	var wg sync.WaitGroup
	results := make([][]model.NodeID, 4)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			p := tr.Begin("root")
			for _, n := range nodes {
				results[g] = append(results[g], p.Observe(Weak(n)))
			}
			p.End()
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(results); g++ {
		assert.Equal(t, results[0], results[g])
	}
	assert.Equal(t, len(nodes), tr.Len())
	runtime.KeepAlive(nodes)
}

func TestTracker_PanickingHandles(t *testing.T) {
	tr := NewTracker(WithRetireAfter(1))
	dying := funcHandle{
		key:     func() any { return "dying" },
		resolve: func() (any, bool) { panic("host torn down") },
	}
	ids := observeAll(tr, "root", dying)

	_, err := tr.Resolve(ids[0])
	assert.Equal(t, model.StaleReference, model.KindOf(err))
	assert.False(t, tr.Tracked(ids[0]))

	// A panicking Resolve during End retires the entry too.
	ids = observeAll(tr, "root", dying)
	assert.NotPanics(t, func() { observeAll(tr, "root") })
	assert.False(t, tr.Tracked(ids[0]))

	var bad []model.NodeID
	assert.NotPanics(t, func() {
		bad = observeAll(tr, "other", funcHandle{
			key:     func() any { return []int{1} },
			resolve: func() (any, bool) { return nil, true },
		})
	})
	assert.NotZero(t, bad[0])
}
