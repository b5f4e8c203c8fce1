package brep

import "gonum.org/v1/gonum/spatial/r3"

// Unit factors returned by ResolveLengthUnit's bounding-box heuristic.
const (
	unitMeters      = 1.0
	unitMillimeters = 0.001
)

// ResolveLengthUnit resolves the factor converting the document's native
// linear unit to meters. A unit declared by the document is authoritative.
// Without one, the union bounding box of all shapes decides: a largest
// extent above 1.0 native unit means the document is almost certainly in
// millimeters, so 0.001; otherwise 1.0. An empty document with no declared
// unit resolves to 1.0.
func ResolveLengthUnit(doc Document) float64 {
	if doc == nil {
		return unitMeters
	}

	if unit, ok := doc.LengthUnit(); ok {
		return unit
	}

	var lo, hi r3.Vec
	var any bool
	for _, shape := range doc.Shapes() {
		bmin, bmax, ok := shape.Bounds()
		if !ok {
			continue
		}
		if !any {
			lo, hi = bmin, bmax
			any = true
			continue
		}
		lo = r3.Vec{X: min(lo.X, bmin.X), Y: min(lo.Y, bmin.Y), Z: min(lo.Z, bmin.Z)}
		hi = r3.Vec{X: max(hi.X, bmax.X), Y: max(hi.Y, bmax.Y), Z: max(hi.Z, bmax.Z)}
	}

	if !any {
		return unitMeters
	}

	extent := max(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z)
	if extent > 1.0 {
		return unitMillimeters
	}
	return unitMeters
}
