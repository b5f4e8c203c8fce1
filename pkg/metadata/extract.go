package metadata

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/glbforge/glbforge/pkg/brep"
	"github.com/glbforge/glbforge/pkg/glb"
)

// Extension is the typed form of the GF_brep_faces extension block as
// attached to a mesh primitive.
type Extension struct {
	// FaceIndices is the index of the unsigned-32 SCALAR accessor holding
	// one face index per triangle.
	FaceIndices *uint32 `json:"faceIndices,omitempty"`

	// Faces is the positional face-descriptor array; null slots are
	// filtered or non-analytic faces.
	Faces []*brep.FaceDescriptor `json:"faces"`

	// Materials is the document material catalog, present when materials
	// were injected together with face data.
	Materials []brep.Material `json:"materials,omitempty"`
}

func init() {
	gltf.RegisterExtension(ExtensionName, func(data []byte) (interface{}, error) {
		ext := new(Extension)
		if err := json.Unmarshal(data, ext); err != nil {
			return nil, err
		}
		return ext, nil
	})
}

// Payload is the metadata read back out of a container.
type Payload struct {
	Faces       []*brep.FaceDescriptor
	FaceIndices []uint32
	Materials   []brep.Material
}

// Extract decodes GF_brep_faces metadata from container bytes: the
// primitive extension block if present, otherwise the mesh extras
// namespace. Returns ErrNoMetadata when the container carries neither.
func Extract(container []byte) (*Payload, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(container)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", glb.ErrMalformedContainer, err)
	}

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			ext, ok := prim.Extensions[ExtensionName].(*Extension)
			if !ok {
				continue
			}

			p := &Payload{Faces: ext.Faces, Materials: ext.Materials}
			if ext.FaceIndices != nil {
				indices, err := readFaceIndexAccessor(&doc, *ext.FaceIndices)
				if err != nil {
					return nil, err
				}
				p.FaceIndices = indices
			}
			return p, nil
		}
	}

	// No extension block: fall back to the extras namespace.
	for _, mesh := range doc.Meshes {
		p, ok := extrasPayload(mesh.Extras)
		if ok {
			return p, nil
		}
	}

	return nil, ErrNoMetadata
}

// readFaceIndexAccessor reads the per-triangle face indices referenced by
// the extension's accessor out of buffer 0.
func readFaceIndexAccessor(doc *gltf.Document, accessorID uint32) ([]uint32, error) {
	if int(accessorID) >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: face-index accessor %d out of range", glb.ErrMalformedContainer, accessorID)
	}
	acc := doc.Accessors[accessorID]
	if acc.ComponentType != gltf.ComponentUint || acc.Type != gltf.AccessorScalar || acc.BufferView == nil {
		return nil, fmt.Errorf("%w: face-index accessor %d is not an unsigned-32 SCALAR view", glb.ErrMalformedContainer, accessorID)
	}
	if int(*acc.BufferView) >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d out of range", glb.ErrMalformedContainer, *acc.BufferView)
	}
	bv := doc.BufferViews[*acc.BufferView]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, fmt.Errorf("%w: buffer %d out of range", glb.ErrMalformedContainer, bv.Buffer)
	}

	data := doc.Buffers[bv.Buffer].Data
	start := int(bv.ByteOffset + acc.ByteOffset)
	end := start + 4*int(acc.Count)
	if end > len(data) {
		return nil, fmt.Errorf("%w: face-index view [%d, %d) past buffer end %d", glb.ErrMalformedContainer, start, end, len(data))
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[start+4*i:])
	}
	return out, nil
}

// extrasPayload pulls faces/materials from a mesh's extras namespace. The
// extras tree arrives as generic JSON, so the namespace is re-marshaled
// into the typed form.
func extrasPayload(extras interface{}) (*Payload, bool) {
	ns := asObject(asObject(extras)[ExtrasKey])
	if ns == nil {
		return nil, false
	}

	raw, err := json.Marshal(ns)
	if err != nil {
		return nil, false
	}
	var decoded struct {
		Faces     []*brep.FaceDescriptor `json:"faces"`
		Materials []brep.Material        `json:"materials"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	if decoded.Faces == nil && decoded.Materials == nil {
		return nil, false
	}
	return &Payload{Faces: decoded.Faces, Materials: decoded.Materials}, true
}
