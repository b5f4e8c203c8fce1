// Package brep models the boundary-representation data the conversion
// pipeline consumes from a CAD kernel: documents, shapes, faces and their
// underlying analytic surfaces, plus the triangulation each shape carries
// after meshing.
//
// The package also implements the metadata extraction that runs over this
// model: per-face analytic-primitive classification, length-unit
// resolution, and the document material catalog.
package brep

import "gonum.org/v1/gonum/spatial/r3"

// Document is a loaded CAD document: an ordered list of top-level shapes
// plus document-level annotations (length unit, material tables).
type Document interface {
	// Shapes returns the document's top-level shapes in a fixed order.
	Shapes() []Shape

	// LengthUnit returns the document's declared linear unit as a factor
	// converting native units to meters, and whether the document declares
	// one at all.
	LengthUnit() (float64, bool)

	// PhysicalMaterials returns the document's physical material table.
	PhysicalMaterials() []PhysicalMaterial

	// VisualMaterials returns the document's visual material table.
	VisualMaterials() []VisualMaterial
}

// Shape is one top-level shape of a document.
type Shape interface {
	// Faces returns the shape's faces in the fixed traversal order that
	// face descriptors are positionally indexed by.
	Faces() []Face

	// Bounds returns the shape's axis-aligned bounding box in native
	// units. ok is false for an empty shape.
	Bounds() (min, max r3.Vec, ok bool)

	// Mesh returns the shape's triangulation, or nil if the shape has not
	// been meshed.
	Mesh() *Mesh
}

// Face is a single face of a shape.
type Face interface {
	// Surface returns the face's underlying analytic surface, or nil when
	// the surface is free-form or the face is degenerate.
	Surface() Surface

	// UVBounds returns the face's parametric bounds in the two surface
	// directions.
	UVBounds() (uMin, uMax, vMin, vMax float64)
}

// Mesh is a shape's triangulation as produced by the kernel: flat vertex
// arrays plus per-face triangle ranges recorded during meshing.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32

	// FaceRanges maps each face (by positional index) to its contiguous
	// run of triangles in Indices.
	FaceRanges []FaceTriangles
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FaceTriangles records which contiguous triangle range a face produced
// during meshing.
type FaceTriangles struct {
	FaceIndex int
	TriStart  int
	TriCount  int
}
