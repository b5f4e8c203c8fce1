package brep

import "testing"

func TestMaterials_Order(t *testing.T) {
	doc := &SimpleDocument{
		Physical: []PhysicalMaterial{
			{Name: "steel", Description: "structural", Density: 7850, DensityName: "kg/m^3", DensityValueType: "mass density"},
			{Name: "rubber"},
		},
		Visual: []VisualMaterial{
			{Name: "red paint", BaseColor: &RGBA{1, 0, 0, 1}, AlphaCutoff: 0.5},
		},
	}

	mats := Materials(doc)
	if len(mats) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(mats))
	}

	// Physical entries first, in table order, then visual.
	if mats[0].Name != "steel" || mats[1].Name != "rubber" || mats[2].Name != "red paint" {
		t.Errorf("unexpected order: %q, %q, %q", mats[0].Name, mats[1].Name, mats[2].Name)
	}

	if mats[0].Density != 7850 || mats[0].DensityName != "kg/m^3" {
		t.Errorf("density block not carried: %+v", mats[0])
	}
	// Zero density suppresses the whole density block.
	if mats[1].Density != 0 || mats[1].DensityName != "" {
		t.Errorf("rubber should have no density block: %+v", mats[1])
	}

	if mats[2].BaseColor == nil || *mats[2].BaseColor != (RGBA{1, 0, 0, 1}) {
		t.Errorf("base color not carried: %+v", mats[2])
	}
	if mats[2].AlphaCutoff == nil || *mats[2].AlphaCutoff != 0.5 {
		t.Errorf("alpha cutoff not carried: %+v", mats[2])
	}
}

func TestMaterials_SkipsEmptyVisual(t *testing.T) {
	doc := &SimpleDocument{
		Visual: []VisualMaterial{
			{Name: "ghost"}, // no base color, no pbr, no common
			{Name: "pbr only", PBR: &PBRMaterial{Metallic: 1, Roughness: 0.2}},
		},
	}

	mats := Materials(doc)
	if len(mats) != 1 {
		t.Fatalf("expected 1 material, got %d", len(mats))
	}
	if mats[0].Name != "pbr only" || mats[0].PBR == nil {
		t.Errorf("unexpected material: %+v", mats[0])
	}
}

func TestMaterials_CommonBlock(t *testing.T) {
	doc := &SimpleDocument{
		Visual: []VisualMaterial{
			{
				Name: "legacy",
				Common: &CommonMaterial{
					DiffuseColor: RGB{0.8, 0.8, 0.8},
					Shininess:    0.25,
					Transparency: 0.1,
				},
			},
		},
	}

	mats := Materials(doc)
	if len(mats) != 1 {
		t.Fatalf("expected 1 material, got %d", len(mats))
	}
	c := mats[0].Common
	if c == nil || c.DiffuseColor != (RGB{0.8, 0.8, 0.8}) || c.Shininess != 0.25 {
		t.Errorf("common block not carried: %+v", mats[0])
	}
}

func TestMaterials_EmptyDocument(t *testing.T) {
	if mats := Materials(&SimpleDocument{}); len(mats) != 0 {
		t.Errorf("expected no materials, got %d", len(mats))
	}
}
