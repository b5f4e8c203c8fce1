// Package metadata injects and reads the GF_brep_faces vendor extension:
// per-face analytic-primitive descriptors, a per-triangle face-index
// buffer, and document material catalogs embedded in GLB containers.
//
// The same JSON-graph transformation backs two entry points. Snapshot mode
// (Inject) rewrites an already-serialized container; streaming mode
// (Stream) hooks into container production, rewriting the JSON text and
// appending to the still-open binary stream so the container is written
// once with metadata already in place. Both produce byte-equivalent
// results for the same inputs.
package metadata

import (
	"encoding/binary"
	"errors"

	"github.com/glbforge/glbforge/pkg/brep"
)

// ExtensionName is the vendor extension carrying face metadata, declared
// in extensionsUsed and attached per-primitive under extensions.
const ExtensionName = "GF_brep_faces"

// ExtrasKey is the namespace key under a mesh's extras holding faces and
// materials outside the vendor-extension block.
const ExtrasKey = "glbforge"

// Component type of the face-index accessor: GL unsigned 32-bit int.
const componentUint32 = 5125

// Injection and extraction errors.
var (
	// ErrUnpairedMetadata marks a shape with no corresponding mesh. The
	// pair is skipped and the finished container is returned alongside
	// the wrapped error.
	ErrUnpairedMetadata = errors.New("shape has no corresponding mesh")

	// ErrIncompatibleExportMode means face or material metadata was
	// requested but the container has no mesh primitive to attach it to.
	// The plain container is still produced.
	ErrIncompatibleExportMode = errors.New("container layout incompatible with metadata injection")

	// ErrShortBinaryWrite means the streaming binary hook wrote fewer
	// bytes than the JSON hook promised. Fatal: the injected accessor
	// would reference bytes that were never written.
	ErrShortBinaryWrite = errors.New("short write of face-index payload")

	// ErrNoMetadata means Extract found no GF_brep_faces payload.
	ErrNoMetadata = errors.New("container carries no face/material metadata")
)

// Options control what metadata an injection attaches.
type Options struct {
	// Types restricts face descriptors to these surface type names.
	// Empty means all analytic types.
	Types []string

	// Materials is the document material catalog to attach, if any.
	Materials []brep.Material

	// LengthUnit converts kernel-native lengths to meters. Zero means no
	// scaling (factor 1.0).
	LengthUnit float64
}

func (o Options) unit() float64 {
	if o.LengthUnit == 0 {
		return 1.0
	}
	return o.LengthUnit
}

// FaceIndexBuffer expands per-face triangle ranges into the per-triangle
// face-index array: one uint32 per triangle holding the positional index
// of the face that produced it.
func FaceIndexBuffer(ranges []brep.FaceTriangles) []uint32 {
	total := 0
	for _, r := range ranges {
		if end := r.TriStart + r.TriCount; end > total {
			total = end
		}
	}

	out := make([]uint32, total)
	for _, r := range ranges {
		for i := r.TriStart; i < r.TriStart+r.TriCount; i++ {
			out[i] = uint32(r.FaceIndex)
		}
	}
	return out
}

func faceIndexBytes(indices []uint32) []byte {
	out := make([]byte, 4*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// ---------------------------------------------------------------------------
// Shared JSON-graph transformation.
//
// Snapshot and streaming modes are thin adapters over these mutations of a
// parsed glTF tree (map[string]any), so the two paths cannot drift.

// spliceFaceIndexViews records the appended face-index payload in the
// JSON graph: grows buffers[0].byteLength to cover the aligned payload,
// appends a bufferView at the aligned offset and an unsigned-32 SCALAR
// accessor over it, and returns the new accessor's index.
func spliceFaceIndexViews(doc map[string]any, existingBin, payloadBytes uint32) int {
	offset := align4(existingBin)
	newBinLength := offset + align4(payloadBytes)

	if buffers := asArray(doc["buffers"]); len(buffers) > 0 {
		if buf := asObject(buffers[0]); buf != nil {
			buf["byteLength"] = newBinLength
		}
	}

	bufferViews := asArray(doc["bufferViews"])
	viewID := len(bufferViews)
	doc["bufferViews"] = append(bufferViews, map[string]any{
		"buffer":     0,
		"byteOffset": offset,
		"byteLength": payloadBytes,
	})

	accessors := asArray(doc["accessors"])
	accessorID := len(accessors)
	doc["accessors"] = append(accessors, map[string]any{
		"bufferView":    viewID,
		"byteOffset":    0,
		"componentType": componentUint32,
		"count":         payloadBytes / 4,
		"type":          "SCALAR",
	})

	return accessorID
}

// registerExtensionUsed adds ExtensionName to extensionsUsed exactly once.
func registerExtensionUsed(doc map[string]any) {
	used := asArray(doc["extensionsUsed"])
	for _, v := range used {
		if s, ok := v.(string); ok && s == ExtensionName {
			return
		}
	}
	doc["extensionsUsed"] = append(used, ExtensionName)
}

// attachPrimitiveExtension attaches the extension payload to the first
// primitive of the given mesh. Returns false when the mesh has no
// primitives.
func attachPrimitiveExtension(mesh map[string]any, accessorID int, faces []*brep.FaceDescriptor, materials []brep.Material) bool {
	prims := asArray(mesh["primitives"])
	if len(prims) == 0 {
		return false
	}
	prim := asObject(prims[0])
	if prim == nil {
		return false
	}

	ext := map[string]any{
		"faceIndices": accessorID,
		"faces":       faces,
	}
	if len(materials) > 0 {
		ext["materials"] = materials
	}

	extensions := asObject(prim["extensions"])
	if extensions == nil {
		extensions = map[string]any{}
		prim["extensions"] = extensions
	}
	extensions[ExtensionName] = ext
	return true
}

// meshExtras returns the mesh's extras.<ExtrasKey> object, creating the
// nesting as needed.
func meshExtras(mesh map[string]any) map[string]any {
	extras := asObject(mesh["extras"])
	if extras == nil {
		extras = map[string]any{}
		mesh["extras"] = extras
	}
	ns := asObject(extras[ExtrasKey])
	if ns == nil {
		ns = map[string]any{}
		extras[ExtrasKey] = ns
	}
	return ns
}

// hasPrimitive reports whether the mesh has at least one primitive object
// to attach an extension to.
func hasPrimitive(mesh map[string]any) bool {
	prims := asArray(mesh["primitives"])
	return len(prims) > 0 && asObject(prims[0]) != nil
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}
