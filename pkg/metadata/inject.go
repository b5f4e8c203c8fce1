package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/glbforge/glbforge/pkg/brep"
	"github.com/glbforge/glbforge/pkg/glb"
)

// Source pairs one shape with the triangle ranges its mesh reported
// during triangulation. Triangles may be empty, in which case only the
// face-descriptor array is attached (no binary splice).
type Source struct {
	Shape     brep.Shape
	Triangles []brep.FaceTriangles
}

// Inject is the snapshot entry point: it rewrites already-serialized
// container bytes, attaching face metadata for each mesh i from source i
// and the material catalog (if any) to every mesh.
//
// Pairing is positional and best-effort: mesh order only matches shape
// order when the container came from the paired export with one merged
// primitive per shape. A source with no corresponding mesh is skipped;
// the finished container is still returned, alongside a wrapped
// ErrUnpairedMetadata reporting how many pairs were dropped. A container
// with no meshes at all gains no metadata but is returned intact.
func Inject(container []byte, sources []Source, opts Options) ([]byte, error) {
	c, err := glb.Parse(container)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(c.JSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", glb.ErrMalformedContainer, err)
	}

	meshes := asArray(doc["meshes"])
	bin := c.Bin
	unpaired := 0

	for i, src := range sources {
		if i >= len(meshes) {
			unpaired++
			continue
		}
		mesh := asObject(meshes[i])
		if mesh == nil {
			unpaired++
			continue
		}

		faces := brep.ClassifyShape(src.Shape, opts.unit(), opts.Types)

		if len(src.Triangles) > 0 && hasPrimitive(mesh) {
			payload := faceIndexBytes(FaceIndexBuffer(src.Triangles))
			accessorID := spliceFaceIndexViews(doc, uint32(len(bin)), uint32(len(payload)))
			attachPrimitiveExtension(mesh, accessorID, faces, opts.Materials)
			registerExtensionUsed(doc)
			bin = appendAligned(bin, payload)
			continue
		}

		meshExtras(mesh)["faces"] = faces
	}

	if len(opts.Materials) > 0 {
		for _, m := range meshes {
			if mesh := asObject(m); mesh != nil {
				meshExtras(mesh)["materials"] = opts.Materials
			}
		}
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := glb.Serialize(jsonDoc, bin)
	if unpaired > 0 {
		return out, fmt.Errorf("%w: %d of %d shapes", ErrUnpairedMetadata, unpaired, len(sources))
	}
	return out, nil
}

// appendAligned pads bin up to a 4-byte boundary with zeros, appends
// payload, and pads the result to a 4-byte boundary again.
func appendAligned(bin, payload []byte) []byte {
	out := append([]byte(nil), bin...)
	for uint32(len(out)) < align4(uint32(len(out))) {
		out = append(out, 0)
	}
	out = append(out, payload...)
	for uint32(len(out)) < align4(uint32(len(out))) {
		out = append(out, 0)
	}
	return out
}
