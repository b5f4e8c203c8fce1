package metadata

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/glbforge/glbforge/pkg/brep"
	"github.com/glbforge/glbforge/pkg/glb"
)

// Stream is the streaming entry point: a JSON-rewrite hook plus a
// binary-append hook handed to the container serializer, so metadata is
// embedded while the container is produced, with no parse-mutate-reparse
// round trip and no temporary artifact.
//
// Call order is TransformJSON first, then AppendBinary: the JSON hook
// commits to a binary layout and AppendBinary must deliver exactly the
// bytes that layout promises.
//
// The JSON hook attaches face metadata to the first primitive of the
// first mesh only; multi-mesh layouts are not addressed in this mode.
type Stream struct {
	faces     []*brep.FaceDescriptor
	payload   []byte
	materials []brep.Material

	// Set by TransformJSON once a layout is committed.
	leadPad  int
	trailPad int
	promised bool
}

// NewStream prepares streaming injection for one shape. triangles may be
// empty: the face array then rides in the mesh extras namespace instead
// of the extension, and no buffer layout is touched.
func NewStream(shape brep.Shape, triangles []brep.FaceTriangles, opts Options) *Stream {
	s := &Stream{materials: opts.Materials}
	if shape != nil {
		s.faces = brep.ClassifyShape(shape, opts.unit(), opts.Types)
	}
	if len(triangles) > 0 {
		s.payload = faceIndexBytes(FaceIndexBuffer(triangles))
	}
	return s
}

// TransformJSON rewrites the serializer's just-built JSON text.
// binLength is the byte length of the binary payload written so far; the
// face-index payload will land at that length aligned up to 4.
//
// When the document has no mesh primitive to attach to, the input is
// returned unchanged alongside ErrIncompatibleExportMode; the caller can
// still finish a plain container.
func (s *Stream) TransformJSON(jsonText []byte, binLength uint32) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(jsonText, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", glb.ErrMalformedContainer, err)
	}

	meshes := asArray(doc["meshes"])
	var mesh map[string]any
	if len(meshes) > 0 {
		mesh = asObject(meshes[0])
	}

	wantFaces := len(s.payload) > 0
	wantExtrasFaces := !wantFaces && len(s.faces) > 0
	wantMaterials := len(s.materials) > 0

	if mesh == nil || (wantFaces && !hasPrimitive(mesh)) {
		if wantFaces || wantExtrasFaces || wantMaterials {
			return jsonText, ErrIncompatibleExportMode
		}
		return jsonText, nil
	}

	if wantFaces {
		accessorID := spliceFaceIndexViews(doc, binLength, uint32(len(s.payload)))
		attachPrimitiveExtension(mesh, accessorID, s.faces, s.materials)
		registerExtensionUsed(doc)

		s.leadPad = int(align4(binLength) - binLength)
		s.trailPad = int(align4(uint32(len(s.payload)))) - len(s.payload)
		s.promised = true
	} else if wantExtrasFaces {
		// No face-index payload to point an accessor at: the descriptor
		// array goes to the extras namespace, same as snapshot mode.
		meshExtras(mesh)["faces"] = s.faces
	}

	if wantMaterials {
		meshExtras(mesh)["materials"] = s.materials
	}

	return json.Marshal(doc)
}

// AppendLength returns the exact byte count AppendBinary will write:
// leading alignment padding, the face-index payload, and trailing
// padding. Zero until TransformJSON commits to a layout.
func (s *Stream) AppendLength() int {
	if !s.promised {
		return 0
	}
	return s.leadPad + len(s.payload) + s.trailPad
}

// AppendBinary writes the promised bytes at the current position of the
// output stream, which must be immediately after the serializer's own
// binary payload. Any failure to deliver the full count is fatal and
// reported as ErrShortBinaryWrite.
func (s *Stream) AppendBinary(w io.Writer) error {
	if !s.promised {
		return nil
	}

	written := 0
	for _, part := range [][]byte{make([]byte, s.leadPad), s.payload, make([]byte, s.trailPad)} {
		n, err := w.Write(part)
		written += n
		if err != nil {
			return fmt.Errorf("%w: wrote %d of %d bytes: %v", ErrShortBinaryWrite, written, s.AppendLength(), err)
		}
		if n < len(part) {
			return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortBinaryWrite, written, s.AppendLength())
		}
	}
	return nil
}
