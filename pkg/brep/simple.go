package brep

import "gonum.org/v1/gonum/spatial/r3"

// SimpleDocument is an in-memory Document for building models
// programmatically, without a CAD kernel behind them.
type SimpleDocument struct {
	ShapeList []*SimpleShape
	Physical  []PhysicalMaterial
	Visual    []VisualMaterial

	// Unit is the declared length unit; nil means undeclared and lets
	// ResolveLengthUnit fall back to its bounding-box heuristic.
	Unit *float64
}

// Shapes implements Document.
func (d *SimpleDocument) Shapes() []Shape {
	out := make([]Shape, len(d.ShapeList))
	for i, s := range d.ShapeList {
		out[i] = s
	}
	return out
}

// LengthUnit implements Document.
func (d *SimpleDocument) LengthUnit() (float64, bool) {
	if d.Unit == nil {
		return 0, false
	}
	return *d.Unit, true
}

// PhysicalMaterials implements Document.
func (d *SimpleDocument) PhysicalMaterials() []PhysicalMaterial { return d.Physical }

// VisualMaterials implements Document.
func (d *SimpleDocument) VisualMaterials() []VisualMaterial { return d.Visual }

// SimpleShape is an in-memory Shape.
type SimpleShape struct {
	FaceList []*SimpleFace
	MeshData *Mesh

	BoxMin, BoxMax r3.Vec
	HasBounds      bool
}

// Faces implements Shape.
func (s *SimpleShape) Faces() []Face {
	out := make([]Face, len(s.FaceList))
	for i, f := range s.FaceList {
		out[i] = f
	}
	return out
}

// Bounds implements Shape.
func (s *SimpleShape) Bounds() (min, max r3.Vec, ok bool) {
	return s.BoxMin, s.BoxMax, s.HasBounds
}

// Mesh implements Shape.
func (s *SimpleShape) Mesh() *Mesh { return s.MeshData }

// SimpleFace is an in-memory Face. A nil Surf marks a free-form or
// degenerate face.
type SimpleFace struct {
	Surf   Surface
	U, V   Bounds2
}

// Surface implements Face.
func (f *SimpleFace) Surface() Surface { return f.Surf }

// UVBounds implements Face.
func (f *SimpleFace) UVBounds() (uMin, uMax, vMin, vMax float64) {
	return f.U[0], f.U[1], f.V[0], f.V[1]
}

// BoxShape builds an axis-aligned box at origin with the given extents:
// six planar faces, a coherent triangulation (two triangles per face,
// duplicated vertices so each face has flat normals), and per-face
// triangle ranges. It exists so export and injection paths can be driven
// end to end without a CAD kernel.
func BoxShape(origin, size r3.Vec) *SimpleShape {
	o := origin
	s := size

	// Per side: outward normal, in-plane u and v directions, and a corner.
	sides := []struct {
		normal, uDir, vDir, corner r3.Vec
		uLen, vLen                 float64
	}{
		{r3.Vec{X: -1}, r3.Vec{Z: 1}, r3.Vec{Y: 1}, o, s.Z, s.Y},
		{r3.Vec{X: 1}, r3.Vec{Z: -1}, r3.Vec{Y: 1}, r3.Vec{X: o.X + s.X, Y: o.Y, Z: o.Z + s.Z}, s.Z, s.Y},
		{r3.Vec{Y: -1}, r3.Vec{X: 1}, r3.Vec{Z: 1}, o, s.X, s.Z},
		{r3.Vec{Y: 1}, r3.Vec{X: 1}, r3.Vec{Z: -1}, r3.Vec{X: o.X, Y: o.Y + s.Y, Z: o.Z + s.Z}, s.X, s.Z},
		{r3.Vec{Z: -1}, r3.Vec{Y: 1}, r3.Vec{X: 1}, o, s.Y, s.X},
		{r3.Vec{Z: 1}, r3.Vec{Y: -1}, r3.Vec{X: 1}, r3.Vec{X: o.X, Y: o.Y + s.Y, Z: o.Z + s.Z}, s.Y, s.X},
	}

	shape := &SimpleShape{
		BoxMin:    o,
		BoxMax:    r3.Vec{X: o.X + s.X, Y: o.Y + s.Y, Z: o.Z + s.Z},
		HasBounds: true,
	}
	mesh := &Mesh{}

	for i, side := range sides {
		shape.FaceList = append(shape.FaceList, &SimpleFace{
			Surf: Plane{Origin: side.corner, Normal: side.normal, XDir: side.uDir},
			U:    Bounds2{0, side.uLen},
			V:    Bounds2{0, side.vLen},
		})

		base := uint32(len(mesh.Positions))
		for _, uv := range [][2]float64{{0, 0}, {side.uLen, 0}, {side.uLen, side.vLen}, {0, side.vLen}} {
			p := r3.Add(side.corner, r3.Add(r3.Scale(uv[0], side.uDir), r3.Scale(uv[1], side.vDir)))
			mesh.Positions = append(mesh.Positions, [3]float32{float32(p.X), float32(p.Y), float32(p.Z)})
			mesh.Normals = append(mesh.Normals, [3]float32{float32(side.normal.X), float32(side.normal.Y), float32(side.normal.Z)})
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
		mesh.FaceRanges = append(mesh.FaceRanges, FaceTriangles{
			FaceIndex: i,
			TriStart:  i * 2,
			TriCount:  2,
		})
	}

	shape.MeshData = mesh
	return shape
}

// Float64 returns a pointer to v, for SimpleDocument.Unit literals.
func Float64(v float64) *float64 { return &v }
