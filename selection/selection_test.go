package selection

import (
	"testing"

	"github.com/gekko3d/mapedit/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservedSelectable_LastWriteWins(t *testing.T) {
	calls := 0
	s := NewObservedSelectable(func(Selectable) { calls++ })

	sequence := []bool{true, true, false, true, false, false, true}
	for _, v := range sequence {
		s.SetSelected(v)
		assert.Equal(t, v, s.IsSelected())
	}
	// Only actual changes notify: t, f, t, f, t
	assert.Equal(t, 5, calls)

	s.Invert()
	assert.False(t, s.IsSelected())
}

func TestPool_RanksBestFirst(t *testing.T) {
	a, b, c := &BasicSelectable{}, &BasicSelectable{}, &BasicSelectable{}

	pool := NewPool[Selectable]()
	assert.True(t, pool.Empty())

	pool.Add(geom.NewIntersection(0.5, 0), a)
	pool.Add(geom.NewIntersection(0.1, 0.3), b)
	pool.Add(geom.NewIntersection(0.1, 0.1), c)
	pool.Add(geom.Intersection{}, &BasicSelectable{})

	require.Equal(t, 3, pool.Len())
	best, ok := pool.Best()
	require.True(t, ok)
	assert.Same(t, c, best.Value)
	assert.Equal(t, []Selectable{c, b, a}, pool.Values())

	// A better hit for an existing candidate replaces it, a worse one is ignored.
	pool.Add(geom.NewIntersection(0.0, 0), a)
	pool.Add(geom.NewIntersection(0.9, 0), c)
	assert.Equal(t, []Selectable{a, c, b}, pool.Values())
}

func TestPool_TiesKeepInsertionOrder(t *testing.T) {
	first, second, third := &BasicSelectable{}, &BasicSelectable{}, &BasicSelectable{}
	same := geom.NewIntersection(0.2, 0.2)

	for i := 0; i < 3; i++ {
		pool := NewPool[Selectable]()
		pool.Add(same, first)
		pool.Add(same, second)
		pool.Add(same, third)
		assert.Equal(t, []Selectable{first, second, third}, pool.Values())
	}
}

func TestPool_MergeWithBias(t *testing.T) {
	brush, entity := &BasicSelectable{}, &BasicSelectable{}

	primitives := NewPool[Selectable]()
	primitives.Add(geom.NewIntersection(0.1, 0), brush)

	entities := NewPool[Selectable]()
	entities.Add(geom.NewIntersection(0.4, 0), entity)

	plain := NewPool[Selectable]()
	plain.Merge(primitives, 0)
	plain.Merge(entities, 0)
	assert.Equal(t, []Selectable{brush, entity}, plain.Values())

	preferred := NewPool[Selectable]()
	preferred.Merge(primitives, 0)
	preferred.Merge(entities, 2)
	assert.Equal(t, []Selectable{entity, brush}, preferred.Values())
}

func TestSignal_OrderAndDisconnectWhileFiring(t *testing.T) {
	var sig Signal[int]
	var got []string

	var second Connection
	sig.Connect(func(v int) {
		got = append(got, "first")
		second.Disconnect()
	})
	second = sig.Connect(func(v int) { got = append(got, "second") })
	sig.Connect(func(v int) { got = append(got, "third") })

	sig.Emit(1)
	assert.Equal(t, []string{"first", "third"}, got, "disconnected handler is skipped")

	got = nil
	sig.Emit(2)
	assert.Equal(t, []string{"first", "third"}, got)
	assert.Equal(t, 2, sig.Len())

	// Connecting from a handler takes effect on the next emission.
	var late Signal[int]
	count := 0
	late.Connect(func(int) {
		late.Connect(func(int) { count++ })
	})
	late.Emit(0)
	assert.Zero(t, count)
	late.Emit(0)
	assert.Equal(t, 1, count)

	assert.NotPanics(t, func() { Connection{}.Disconnect() })
}

func TestPivot_LazyRecalculation(t *testing.T) {
	computed := 0
	pos := mgl64.Vec3{1, 2, 3}
	p := NewPivot(func() (mgl64.Vec3, bool) {
		computed++
		return pos, true
	})

	assert.Equal(t, pos, p.Position())
	p.Matrix()
	p.Valid()
	assert.Equal(t, 1, computed, "no recomputation without a trigger")

	pos = mgl64.Vec3{4, 5, 6}
	p.SetNeedsRecalculation()
	assert.Equal(t, pos, p.Position())
	assert.Equal(t, 2, computed)

	p.BeginOperation()
	p.ApplyTranslation(mgl64.Vec3{1, 0, 0})
	assert.Equal(t, mgl64.Vec3{5, 5, 6}, p.Position())
	p.SetNeedsRecalculation()
	assert.Equal(t, 2, computed, "ignored during an operation")
	p.RevertToStart()
	assert.Equal(t, pos, p.Position())
}

func TestTransformation_Matrix(t *testing.T) {
	pivot := mgl64.Vec3{1, 0, 0}

	rot := Rotation(mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}), pivot)
	assert.True(t, rot.Apply(mgl64.Vec3{2, 0, 0}).ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, 1e-9))

	sc := Scaling(mgl64.Vec3{2, 2, 2}, pivot)
	assert.True(t, sc.Apply(mgl64.Vec3{2, 0, 0}).ApproxEqualThreshold(mgl64.Vec3{3, 0, 0}, 1e-9))

	tr := Translation(mgl64.Vec3{0, 0, 5}, pivot)
	assert.True(t, tr.Apply(mgl64.Vec3{}).ApproxEqualThreshold(mgl64.Vec3{0, 0, 5}, 1e-9))

	assert.True(t, IdentityTransformation(pivot).IsIdentity())
	assert.False(t, tr.IsIdentity())
}

func TestParseManipulatorType(t *testing.T) {
	for _, name := range []string{"Translate", "rotate", "SCALE", "drag"} {
		_, err := ParseManipulatorType(name)
		assert.NoError(t, err, name)
	}
	mt, _ := ParseManipulatorType("rotate")
	assert.Equal(t, Rotate, mt)
	assert.Equal(t, "Rotate", mt.String())

	_, err := ParseManipulatorType("clip")
	assert.Error(t, err)
}
