package brep

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestResolveLengthUnit(t *testing.T) {
	large := &SimpleShape{BoxMin: r3.Vec{}, BoxMax: r3.Vec{X: 5000, Y: 100, Z: 100}, HasBounds: true}
	small := &SimpleShape{BoxMin: r3.Vec{}, BoxMax: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, HasBounds: true}

	tests := []struct {
		name string
		doc  *SimpleDocument
		want float64
	}{
		{"declared unit wins", &SimpleDocument{Unit: Float64(0.0254), ShapeList: []*SimpleShape{large}}, 0.0254},
		{"declared 1.0 still wins over heuristic", &SimpleDocument{Unit: Float64(1.0), ShapeList: []*SimpleShape{large}}, 1.0},
		{"large extent assumes millimeters", &SimpleDocument{ShapeList: []*SimpleShape{large}}, 0.001},
		{"small extent assumes meters", &SimpleDocument{ShapeList: []*SimpleShape{small}}, 1.0},
		{"no shapes, no unit", &SimpleDocument{}, 1.0},
		{"unbounded shapes only", &SimpleDocument{ShapeList: []*SimpleShape{{}}}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLengthUnit(tt.doc); got != tt.want {
				t.Errorf("ResolveLengthUnit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveLengthUnit_UnionBox(t *testing.T) {
	// Two sub-unit shapes far apart: the union box is what exceeds 1.0.
	a := &SimpleShape{BoxMin: r3.Vec{}, BoxMax: r3.Vec{X: 0.2, Y: 0.2, Z: 0.2}, HasBounds: true}
	b := &SimpleShape{BoxMin: r3.Vec{X: 40}, BoxMax: r3.Vec{X: 40.2, Y: 0.2, Z: 0.2}, HasBounds: true}

	doc := &SimpleDocument{ShapeList: []*SimpleShape{a, b}}
	if got := ResolveLengthUnit(doc); got != 0.001 {
		t.Errorf("ResolveLengthUnit = %v, want millimeter factor from union extent", got)
	}
}
