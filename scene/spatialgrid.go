package scene

import (
	"math"
	"slices"

	"github.com/gekko3d/mapedit/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// MaxCellsPerBox bounds the cells a single box is hashed into. Larger
// boxes are kept in a side list that every query returns.
const MaxCellsPerBox = 4096

// SpatialGrid hashes node bounds into uniform cells. Queries return
// broad phase candidates; callers test the actual bounds.
type SpatialGrid struct {
	cellSize  float64
	cells     map[uint64][]uuid.UUID
	oversized []uuid.UUID
	ids       []uuid.UUID
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]uuid.UUID),
	}
}

func (grid *SpatialGrid) Clear() {
	clear(grid.cells)
	grid.oversized = grid.oversized[:0]
	grid.ids = grid.ids[:0]
}

func (grid *SpatialGrid) Insert(id uuid.UUID, box geom.AABB) {
	if !box.IsValid() {
		return
	}
	grid.ids = append(grid.ids, id)
	if grid.cellCount(box) > MaxCellsPerBox {
		grid.oversized = append(grid.oversized, id)
		return
	}
	grid.visit(box, func(key uint64) {
		grid.cells[key] = append(grid.cells[key], id)
	})
}

// QueryAABB returns the ids that may intersect box. A query spanning more
// than MaxCellsPerBox cells returns every id.
func (grid *SpatialGrid) QueryAABB(box geom.AABB) []uuid.UUID {
	if !box.IsValid() {
		return nil
	}
	if grid.cellCount(box) > MaxCellsPerBox {
		return slices.Clone(grid.ids)
	}
	unique := make(map[uuid.UUID]struct{})
	var results []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := unique[id]; !ok {
			unique[id] = struct{}{}
			results = append(results, id)
		}
	}
	grid.visit(box, func(key uint64) {
		for _, id := range grid.cells[key] {
			add(id)
		}
	})
	for _, id := range grid.oversized {
		add(id)
	}
	return results
}

// cellCount is computed in floating point so huge boxes cannot overflow.
func (grid *SpatialGrid) cellCount(box geom.AABB) float64 {
	min, max := box.Min(), box.Max()
	n := 1.0
	for i := 0; i < 3; i++ {
		n *= math.Floor(max[i]/grid.cellSize) - math.Floor(min[i]/grid.cellSize) + 1
	}
	return n
}

func (grid *SpatialGrid) QueryRadius(center mgl64.Vec3, radius float64) []uuid.UUID {
	r := mgl64.Vec3{radius, radius, radius}
	return grid.QueryAABB(geom.NewAABBFromMinMax(center.Sub(r), center.Add(r)))
}

func (grid *SpatialGrid) visit(box geom.AABB, fn func(key uint64)) {
	min, max := box.Min(), box.Max()
	minX, maxX := grid.cellIndex(min.X()), grid.cellIndex(max.X())
	minY, maxY := grid.cellIndex(min.Y()), grid.cellIndex(max.Y())
	minZ, maxZ := grid.cellIndex(min.Z()), grid.cellIndex(max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				fn(grid.hashKey(x, y, z))
			}
		}
	}
}

func (grid *SpatialGrid) cellIndex(pos float64) int {
	return int(math.Floor(pos / grid.cellSize))
}

func (grid *SpatialGrid) hashKey(x, y, z int) uint64 {
	// large primes for mixing
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
