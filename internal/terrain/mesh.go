package terrain

// Vertex is one displaced grid vertex with every varying the fragment stage needs.
type Vertex struct {
	Position  [3]float64 // x, y, elevation
	Normal    [3]float64
	TexCoord  [2]float64
	Elevation float64
	Slope     float64
	Color     [3]float64 // per-vertex shade for Gouraud previews
}

// Mesh holds one evaluated frame of the grid.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
	Time     float64
	Mode     string
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// Extend grows b to include p.
func (b *Bounds) Extend(p [3]float64) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// ComputeBounds recalculates Bounds from the vertices.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	m.Bounds = Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		m.Bounds.Extend(v.Position)
	}
}

// ElevationRange returns the lowest and highest elevation in the mesh.
func (m *Mesh) ElevationRange() (lo, hi float64) {
	return m.Bounds.Min[2], m.Bounds.Max[2]
}
