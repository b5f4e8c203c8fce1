package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/glbforge/glbforge/pkg/glb"
)

// Strip removes GF_brep_faces metadata from container bytes: the
// primitive extension blocks, the extras namespace on every mesh, and the
// extensionsUsed entry. When an injected face-index accessor and its
// bufferView are the trailing entries of their arrays, both are removed,
// the appended payload is truncated from the binary chunk, and
// buffers[0].byteLength is restored.
func Strip(container []byte) ([]byte, error) {
	c, err := glb.Parse(container)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(c.JSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", glb.ErrMalformedContainer, err)
	}

	bin := c.Bin

	for _, m := range asArray(doc["meshes"]) {
		mesh := asObject(m)
		if mesh == nil {
			continue
		}

		for _, p := range asArray(mesh["primitives"]) {
			prim := asObject(p)
			if prim == nil {
				continue
			}
			extensions := asObject(prim["extensions"])
			ext := asObject(extensions[ExtensionName])
			if ext == nil {
				continue
			}

			if id, ok := numberValue(ext["faceIndices"]); ok {
				bin = dropTrailingFaceIndexView(doc, bin, int(id))
			}

			delete(extensions, ExtensionName)
			if len(extensions) == 0 {
				delete(prim, "extensions")
			}
		}

		if extras := asObject(mesh["extras"]); extras != nil {
			delete(extras, ExtrasKey)
			if len(extras) == 0 {
				delete(mesh, "extras")
			}
		}
	}

	if used := asArray(doc["extensionsUsed"]); used != nil {
		kept := used[:0]
		for _, v := range used {
			if s, ok := v.(string); ok && s == ExtensionName {
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			delete(doc, "extensionsUsed")
		} else {
			doc["extensionsUsed"] = kept
		}
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return glb.Serialize(jsonDoc, bin), nil
}

// dropTrailingFaceIndexView undoes an injection's buffer splice when the
// injected accessor and bufferView still sit at the end of their arrays.
// Injections elsewhere in the arrays stay put: removing them would shift
// every later index in the graph.
func dropTrailingFaceIndexView(doc map[string]any, bin []byte, accessorID int) []byte {
	accessors := asArray(doc["accessors"])
	if accessorID < 0 || accessorID != len(accessors)-1 {
		return bin
	}
	acc := asObject(accessors[accessorID])
	viewID, ok := numberValue(acc["bufferView"])
	if !ok {
		return bin
	}

	bufferViews := asArray(doc["bufferViews"])
	if int(viewID) != len(bufferViews)-1 {
		return bin
	}
	bv := asObject(bufferViews[int(viewID)])
	offset, ok := numberValue(bv["byteOffset"])
	if !ok {
		return bin
	}

	doc["accessors"] = accessors[:accessorID]
	if accessorID == 0 {
		delete(doc, "accessors")
	}
	doc["bufferViews"] = bufferViews[:int(viewID)]
	if int(viewID) == 0 {
		delete(doc, "bufferViews")
	}

	if int(offset) <= len(bin) {
		bin = bin[:int(offset)]
	}
	if buffers := asArray(doc["buffers"]); len(buffers) > 0 {
		if buf := asObject(buffers[0]); buf != nil {
			buf["byteLength"] = int(offset)
		}
	}
	return bin
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}
