// Package export serializes brep documents to GLB containers, the paired
// export step whose mesh order is guaranteed to match shape order. Face
// and material metadata is embedded through the streaming injection hooks
// while the container is produced, so no temporary artifact or second
// parse is needed.
package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/qmuntal/gltf"

	"github.com/glbforge/glbforge/pkg/brep"
	"github.com/glbforge/glbforge/pkg/glb"
	"github.com/glbforge/glbforge/pkg/metadata"
)

// Options control container production.
type Options struct {
	// MergePrimitives emits one primitive per shape. Non-merged mode
	// emits one primitive per face, which face metadata does not support.
	MergePrimitives bool

	// IncludeFaces attaches the face-descriptor extension, with the
	// per-triangle face-index buffer, to the first mesh.
	IncludeFaces bool

	// FaceTypes restricts face descriptors to these surface type names.
	FaceTypes []string

	// IncludeMaterials attaches the document material catalog.
	IncludeMaterials bool

	// LengthUnit overrides the meters-per-native-unit factor. Zero
	// resolves it from the document.
	LengthUnit float64

	// Generator is written into asset.generator.
	Generator string
}

// DefaultOptions returns the defaults of the paired converter: merged
// primitives, no metadata.
func DefaultOptions() Options {
	return Options{MergePrimitives: true}
}

// Document serializes the document to GLB container bytes.
func Document(doc brep.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// File serializes the document to a GLB file on disk.
func File(path string, doc brep.Document, opts Options) error {
	data, err := Document(doc, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write serializes the document to w. Metadata failures degrade to a
// plain container except for a short binary write, which aborts.
func Write(w io.Writer, doc brep.Document, opts Options) error {
	unit := opts.LengthUnit
	if unit == 0 {
		unit = brep.ResolveLengthUnit(doc)
	}

	b := newBuilder(opts.Generator)
	shapes := doc.Shapes()
	for _, shape := range shapes {
		b.addShape(shape, unit, opts.MergePrimitives)
	}
	jsonDoc, err := b.marshal()
	if err != nil {
		return err
	}

	stream := metadataStream(shapes, unit, doc, opts)
	if stream != nil {
		transformed, err := stream.TransformJSON(jsonDoc, uint32(b.bin.Len()))
		switch {
		case errors.Is(err, metadata.ErrIncompatibleExportMode):
			// Plain container still goes out.
		case err != nil:
			return err
		default:
			jsonDoc = transformed
			if err := stream.AppendBinary(&b.bin); err != nil {
				return err
			}
		}
	}

	_, err = w.Write(glb.Serialize(jsonDoc, b.bin.Bytes()))
	return err
}

// metadataStream prepares the streaming injection for the requested
// metadata, or returns nil when none is requested or face metadata is
// requested without the merged-primitive layout it depends on.
func metadataStream(shapes []brep.Shape, unit float64, doc brep.Document, opts Options) *metadata.Stream {
	var mats []brep.Material
	if opts.IncludeMaterials {
		mats = brep.Materials(doc)
	}

	mopts := metadata.Options{Types: opts.FaceTypes, Materials: mats, LengthUnit: unit}

	if opts.IncludeFaces && opts.MergePrimitives && len(shapes) > 0 {
		shape := shapes[0]
		var triangles []brep.FaceTriangles
		if mesh := shape.Mesh(); mesh != nil {
			triangles = mesh.FaceRanges
		}
		return metadata.NewStream(shape, triangles, mopts)
	}

	if len(mats) > 0 {
		return metadata.NewStream(nil, nil, mopts)
	}
	return nil
}

// builder accumulates the glTF document and its binary buffer.
type builder struct {
	doc *gltf.Document
	bin bytes.Buffer
}

func newBuilder(generator string) *builder {
	if generator == "" {
		generator = "glbforge"
	}
	return &builder{
		doc: &gltf.Document{
			Asset: gltf.Asset{Version: "2.0", Generator: generator},
			Scene: gltf.Index(0),
			Scenes: []*gltf.Scene{
				{Nodes: []uint32{}},
			},
		},
	}
}

// addShape appends one mesh (and its node) for the shape. Unmeshed shapes
// contribute nothing, keeping mesh order aligned with meshed shape order.
func (b *builder) addShape(shape brep.Shape, unit float64, merged bool) {
	mesh := shape.Mesh()
	if mesh == nil || len(mesh.Indices) == 0 {
		return
	}

	positions := make([][3]float32, len(mesh.Positions))
	bmin := [3]float32{}
	bmax := [3]float32{}
	for i, p := range mesh.Positions {
		for c := 0; c < 3; c++ {
			v := p[c] * float32(unit)
			positions[i][c] = v
			if i == 0 || v < bmin[c] {
				bmin[c] = v
			}
			if i == 0 || v > bmax[c] {
				bmax[c] = v
			}
		}
	}

	posView := b.addView(asBytes(positions), gltf.TargetArrayBuffer)
	posAccessor := b.addAccessor(&gltf.Accessor{
		BufferView:    gltf.Index(posView),
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(len(positions)),
		Type:          gltf.AccessorVec3,
		Min:           bmin[:],
		Max:           bmax[:],
	})

	attributes := gltf.Attribute{"POSITION": posAccessor}
	if len(mesh.Normals) == len(mesh.Positions) {
		normView := b.addView(asBytes(mesh.Normals), gltf.TargetArrayBuffer)
		attributes["NORMAL"] = b.addAccessor(&gltf.Accessor{
			BufferView:    gltf.Index(normView),
			ComponentType: gltf.ComponentFloat,
			Count:         uint32(len(mesh.Normals)),
			Type:          gltf.AccessorVec3,
		})
	}

	idxView := b.addView(asBytes(mesh.Indices), gltf.TargetElementArrayBuffer)

	var primitives []*gltf.Primitive
	if merged || len(mesh.FaceRanges) == 0 {
		idxAccessor := b.addAccessor(&gltf.Accessor{
			BufferView:    gltf.Index(idxView),
			ComponentType: gltf.ComponentUint,
			Count:         uint32(len(mesh.Indices)),
			Type:          gltf.AccessorScalar,
		})
		primitives = []*gltf.Primitive{{
			Attributes: attributes,
			Indices:    gltf.Index(idxAccessor),
			Mode:       gltf.PrimitiveTriangles,
		}}
	} else {
		// One primitive per face over shared vertex data.
		for _, fr := range mesh.FaceRanges {
			if fr.TriCount == 0 {
				continue
			}
			idxAccessor := b.addAccessor(&gltf.Accessor{
				BufferView:    gltf.Index(idxView),
				ByteOffset:    uint32(fr.TriStart * 3 * 4),
				ComponentType: gltf.ComponentUint,
				Count:         uint32(fr.TriCount * 3),
				Type:          gltf.AccessorScalar,
			})
			primitives = append(primitives, &gltf.Primitive{
				Attributes: attributes,
				Indices:    gltf.Index(idxAccessor),
				Mode:       gltf.PrimitiveTriangles,
			})
		}
	}

	meshID := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Primitives: primitives})

	nodeID := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{Mesh: gltf.Index(meshID)})
	b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, nodeID)
}

// addView appends data to the binary buffer under a new bufferView and
// returns its index. Payloads are element-aligned multiples of 4 already.
func (b *builder) addView(data []byte, target gltf.Target) uint32 {
	offset := uint32(b.bin.Len())
	b.bin.Write(data)

	id := uint32(len(b.doc.BufferViews))
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: uint32(len(data)),
		Target:     target,
	})
	return id
}

func (b *builder) addAccessor(acc *gltf.Accessor) uint32 {
	id := uint32(len(b.doc.Accessors))
	b.doc.Accessors = append(b.doc.Accessors, acc)
	return id
}

// marshal finalizes the buffer entry and emits the JSON chunk.
func (b *builder) marshal() ([]byte, error) {
	if b.bin.Len() > 0 {
		b.doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(b.bin.Len())}}
	}
	return json.Marshal(b.doc)
}

func asBytes(v any) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, v)
	return buf.Bytes()
}
