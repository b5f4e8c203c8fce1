package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/glbforge/glbforge/pkg/brep"
	"github.com/glbforge/glbforge/pkg/glb"
)

// createTestContainer assembles a minimal paired-export-shaped GLB: one
// buffer, one mesh with a single primitive, and binLen bytes of binary
// payload.
func createTestContainer(t *testing.T, binLen int, meshCount int, extensionListed bool) []byte {
	t.Helper()

	doc := map[string]any{
		"asset":   map[string]any{"version": "2.0"},
		"buffers": []any{map[string]any{"byteLength": binLen}},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": binLen},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 1, "type": "VEC3"},
		},
	}

	var meshes []any
	for i := 0; i < meshCount; i++ {
		meshes = append(meshes, map[string]any{
			"primitives": []any{map[string]any{"attributes": map[string]any{"POSITION": 0}}},
		})
	}
	if meshCount > 0 {
		doc["meshes"] = meshes
	}
	if extensionListed {
		doc["extensionsUsed"] = []any{ExtensionName}
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal test container: %v", err)
	}

	bin := make([]byte, binLen)
	for i := range bin {
		bin[i] = byte(i)
	}
	return glb.Serialize(jsonDoc, bin)
}

// testShape builds a shape with faces [plane, free-form, cylinder] and
// three triangles: two from the plane, one from the cylinder.
func testShape() (*brep.SimpleShape, []brep.FaceTriangles) {
	shape := &brep.SimpleShape{
		FaceList: []*brep.SimpleFace{
			{Surf: brep.Plane{Normal: r3.Vec{Z: 1}, XDir: r3.Vec{X: 1}}, U: brep.Bounds2{0, 1}, V: brep.Bounds2{0, 1}},
			{Surf: nil},
			{Surf: brep.Cylinder{Axis: r3.Vec{Z: 1}, Radius: 2}, U: brep.Bounds2{0, 1}, V: brep.Bounds2{0, 1}},
		},
	}
	triangles := []brep.FaceTriangles{
		{FaceIndex: 0, TriStart: 0, TriCount: 2},
		{FaceIndex: 2, TriStart: 2, TriCount: 1},
	}
	return shape, triangles
}

func decodeContainer(t *testing.T, data []byte) (map[string]any, []byte) {
	t.Helper()
	c, err := glb.Parse(data)
	if err != nil {
		t.Fatalf("parse injected container: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(c.JSON, &doc); err != nil {
		t.Fatalf("unmarshal injected JSON: %v", err)
	}
	return doc, c.Bin
}

func TestFaceIndexBuffer(t *testing.T) {
	ranges := []brep.FaceTriangles{
		{FaceIndex: 0, TriStart: 0, TriCount: 2},
		{FaceIndex: 2, TriStart: 2, TriCount: 3},
	}

	got := FaceIndexBuffer(ranges)
	want := []uint32{0, 0, 2, 2, 2}
	if len(got) != len(want) {
		t.Fatalf("buffer length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInject_Alignment(t *testing.T) {
	// 13 bytes of kernel payload arrive as a 16-byte padded chunk; 3
	// triangles produce a 12-byte payload at offset 16, for a total
	// buffer of 28.
	base := createTestContainer(t, 13, 1, false)
	shape, triangles := testShape()

	out, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, Options{})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc, bin := decodeContainer(t, out)

	views := doc["bufferViews"].([]any)
	injected := views[len(views)-1].(map[string]any)
	if off := injected["byteOffset"].(float64); off != 16 {
		t.Errorf("injected bufferView offset = %v, want 16", off)
	}
	if l := injected["byteLength"].(float64); l != 12 {
		t.Errorf("injected bufferView length = %v, want 12", l)
	}

	buf := doc["buffers"].([]any)[0].(map[string]any)
	if bl := buf["byteLength"].(float64); bl != 28 {
		t.Errorf("buffers[0].byteLength = %v, want 28", bl)
	}
	if len(bin) != 28 {
		t.Errorf("binary chunk = %d bytes, want 28", len(bin))
	}

	accs := doc["accessors"].([]any)
	acc := accs[len(accs)-1].(map[string]any)
	if ct := acc["componentType"].(float64); ct != 5125 {
		t.Errorf("accessor componentType = %v, want 5125", ct)
	}
	if c := acc["count"].(float64); c != 3 {
		t.Errorf("accessor count = %v, want 3", c)
	}
	if ty := acc["type"].(string); ty != "SCALAR" {
		t.Errorf("accessor type = %q, want SCALAR", ty)
	}
}

func TestInject_FaceArrayPreservesIndexes(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)
	shape, triangles := testShape()

	out, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}},
		Options{Types: []string{brep.TypePlane}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc, _ := decodeContainer(t, out)
	mesh := doc["meshes"].([]any)[0].(map[string]any)
	prim := mesh["primitives"].([]any)[0].(map[string]any)
	ext := prim["extensions"].(map[string]any)[ExtensionName].(map[string]any)

	faces := ext["faces"].([]any)
	if len(faces) != 3 {
		t.Fatalf("faces array length %d, want 3", len(faces))
	}
	first := faces[0].(map[string]any)
	if first["type"].(string) != "plane" || first["face_index"].(float64) != 0 {
		t.Errorf("faces[0] = %v, want plane at face_index 0", first)
	}
	if faces[1] != nil {
		t.Errorf("faces[1] = %v, want null for the free-form face", faces[1])
	}
	if faces[2] != nil {
		t.Errorf("faces[2] = %v, want null for the filtered cylinder", faces[2])
	}
}

func TestInject_Deterministic(t *testing.T) {
	base := createTestContainer(t, 13, 1, false)
	shape, triangles := testShape()
	opts := Options{Materials: []brep.Material{{Name: "steel", Density: 7850}}}

	a, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, opts)
	if err != nil {
		t.Fatalf("first Inject failed: %v", err)
	}
	b, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, opts)
	if err != nil {
		t.Fatalf("second Inject failed: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("injecting the same metadata twice produced different bytes")
	}
}

func TestInject_ExtensionDeduplication(t *testing.T) {
	base := createTestContainer(t, 12, 1, true) // already lists the extension
	shape, triangles := testShape()

	out, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, Options{})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc, _ := decodeContainer(t, out)
	count := 0
	for _, v := range doc["extensionsUsed"].([]any) {
		if v.(string) == ExtensionName {
			count++
		}
	}
	if count != 1 {
		t.Errorf("extension listed %d times in extensionsUsed, want 1", count)
	}
}

func TestInject_UnpairedShapeSkipped(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)
	shape, triangles := testShape()

	// Two sources, one mesh: the second pair is dropped, the container
	// is still produced, and the drop is reported.
	out, err := Inject(base, []Source{
		{Shape: shape, Triangles: triangles},
		{Shape: shape, Triangles: triangles},
	}, Options{})
	if !errors.Is(err, ErrUnpairedMetadata) {
		t.Fatalf("expected ErrUnpairedMetadata, got %v", err)
	}
	if out == nil {
		t.Fatal("unpaired shapes must not discard the container")
	}

	doc, _ := decodeContainer(t, out)
	if n := len(doc["accessors"].([]any)); n != 2 {
		t.Errorf("expected 1 injected accessor on top of the base one, got %d total", n)
	}
}

func TestInject_NoMeshes(t *testing.T) {
	base := createTestContainer(t, 0, 0, false)
	shape, triangles := testShape()

	out, err := Inject(base, []Source{{Shape: shape, Triangles: triangles}}, Options{})
	if !errors.Is(err, ErrUnpairedMetadata) {
		t.Fatalf("expected ErrUnpairedMetadata, got %v", err)
	}

	doc, _ := decodeContainer(t, out)
	if _, ok := doc["extensionsUsed"]; ok {
		t.Error("no meshes: extensionsUsed must stay absent")
	}
}

func TestInject_ExtrasFacesWithoutTriangles(t *testing.T) {
	base := createTestContainer(t, 12, 1, false)
	shape, _ := testShape()

	out, err := Inject(base, []Source{{Shape: shape}}, Options{})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc, _ := decodeContainer(t, out)
	mesh := doc["meshes"].([]any)[0].(map[string]any)
	ns := mesh["extras"].(map[string]any)[ExtrasKey].(map[string]any)
	if faces := ns["faces"].([]any); len(faces) != 3 {
		t.Errorf("extras faces length %d, want 3", len(faces))
	}
	// No triangle data: the buffer layout must stay untouched.
	if n := len(doc["accessors"].([]any)); n != 1 {
		t.Errorf("accessors grew to %d without triangle data", n)
	}
}

func TestInject_MaterialsOnly(t *testing.T) {
	base := createTestContainer(t, 12, 2, false)
	baseDoc, baseBin := decodeContainer(t, base)

	out, err := Inject(base, nil, Options{Materials: []brep.Material{{Name: "steel", Density: 7850}}})
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	doc, bin := decodeContainer(t, out)

	// Buffer layout and extension list unchanged from the input.
	if _, ok := doc["extensionsUsed"]; ok {
		t.Error("materials-only injection must not touch extensionsUsed")
	}
	if len(doc["accessors"].([]any)) != len(baseDoc["accessors"].([]any)) {
		t.Error("materials-only injection must not add accessors")
	}
	if len(doc["bufferViews"].([]any)) != len(baseDoc["bufferViews"].([]any)) {
		t.Error("materials-only injection must not add bufferViews")
	}
	if !bytes.Equal(bin, baseBin) {
		t.Error("materials-only injection must not touch the binary chunk")
	}

	// Every mesh gains the materials entry.
	for i, m := range doc["meshes"].([]any) {
		mesh := m.(map[string]any)
		ns, _ := mesh["extras"].(map[string]any)[ExtrasKey].(map[string]any)
		mats, ok := ns["materials"].([]any)
		if !ok || len(mats) != 1 {
			t.Errorf("mesh %d missing extras materials: %v", i, mesh["extras"])
			continue
		}
		if name := mats[0].(map[string]any)["name"].(string); name != "steel" {
			t.Errorf("mesh %d material name = %q", i, name)
		}
	}
}

func TestInject_MalformedContainer(t *testing.T) {
	shape, triangles := testShape()
	_, err := Inject([]byte("not a container"), []Source{{Shape: shape, Triangles: triangles}}, Options{})
	if !errors.Is(err, glb.ErrMalformedContainer) {
		t.Errorf("expected ErrMalformedContainer, got %v", err)
	}
}
