package metadata

import (
	"errors"
	"testing"

	"github.com/glbforge/glbforge/pkg/brep"
)

func TestExtract_RoundTrip(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)
	shape, triangles := testShape()
	opts := Options{Materials: []brep.Material{{Name: "steel", Density: 7850}}}

	injected, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, opts)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	p, err := Extract(injected)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(p.Faces) != 3 {
		t.Fatalf("extracted %d face slots, want 3", len(p.Faces))
	}
	if p.Faces[0] == nil || p.Faces[0].Type != brep.TypePlane {
		t.Errorf("faces[0] = %+v, want the plane", p.Faces[0])
	}
	if p.Faces[1] != nil {
		t.Errorf("faces[1] = %+v, want null", p.Faces[1])
	}
	if p.Faces[2] == nil || p.Faces[2].Type != brep.TypeCylinder {
		t.Errorf("faces[2] = %+v, want the cylinder", p.Faces[2])
	}

	want := []uint32{0, 0, 2}
	if len(p.FaceIndices) != len(want) {
		t.Fatalf("extracted %d face indices, want %d", len(p.FaceIndices), len(want))
	}
	for i := range want {
		if p.FaceIndices[i] != want[i] {
			t.Errorf("face index %d = %d, want %d", i, p.FaceIndices[i], want[i])
		}
	}

	if len(p.Materials) != 1 || p.Materials[0].Name != "steel" || p.Materials[0].Density != 7850 {
		t.Errorf("extracted materials = %+v", p.Materials)
	}
}

func TestExtract_ExtrasFallback(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)

	injected, err := Inject(base, nil, Options{Materials: []brep.Material{{Name: "rubber"}}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	p, err := Extract(injected)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(p.Materials) != 1 || p.Materials[0].Name != "rubber" {
		t.Errorf("extracted materials = %+v", p.Materials)
	}
	if p.FaceIndices != nil {
		t.Errorf("materials-only container has no face indices, got %v", p.FaceIndices)
	}
}

func TestExtract_NoMetadata(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)

	_, err := Extract(base)
	if !errors.Is(err, ErrNoMetadata) {
		t.Errorf("expected ErrNoMetadata, got %v", err)
	}
}
