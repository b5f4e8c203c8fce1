// Package glb reads and writes the binary glTF 2.0 container format.
//
// A GLB file is a 12-byte header followed by a JSON chunk and an optional
// binary chunk. Both chunks are length-prefixed and type-tagged, and all
// integers are little-endian uint32. Chunk payloads are padded to 4-byte
// multiples: the JSON chunk with ASCII spaces, the binary chunk with zeros.
package glb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Container format constants.
const (
	Magic   uint32 = 0x46546C67 // "glTF"
	Version uint32 = 2

	ChunkTypeJSON uint32 = 0x4E4F534A // "JSON"
	ChunkTypeBin  uint32 = 0x004E4942 // "BIN\0"

	headerSize    = 12
	chunkHeadSize = 8
)

// GLB container errors.
var (
	ErrMalformedContainer = errors.New("malformed GLB container")
)

// Container is a parsed GLB file. JSON holds the JSON chunk payload exactly
// as contained (trailing space padding included, so parse followed by
// serialize is byte-identical); Bin holds the binary chunk payload, or nil
// when the container carries no binary chunk.
type Container struct {
	JSON []byte
	Bin  []byte
}

// Pad4 rounds n up to the next multiple of 4.
func Pad4(n int) int {
	return (n + 3) &^ 3
}

// Parse parses GLB container bytes.
//
// A missing or mistyped trailing chunk is tolerated and treated as "no
// binary chunk": containers with zero binary data (e.g. empty meshes)
// are valid.
func Parse(data []byte) (*Container, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrMalformedContainer, len(data))
	}

	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrMalformedContainer, magic)
	}

	// Header version and total length are informational; the chunk walk
	// below is bounded by the actual input length.

	if len(data) < headerSize+chunkHeadSize {
		return nil, fmt.Errorf("%w: truncated JSON chunk header", ErrMalformedContainer)
	}

	jsonLen := binary.LittleEndian.Uint32(data[12:16])
	if chunkType := binary.LittleEndian.Uint32(data[16:20]); chunkType != ChunkTypeJSON {
		return nil, fmt.Errorf("%w: first chunk type 0x%08X is not JSON", ErrMalformedContainer, chunkType)
	}

	jsonEnd := headerSize + chunkHeadSize + int(jsonLen)
	if jsonEnd > len(data) {
		return nil, fmt.Errorf("%w: JSON chunk length %d exceeds input", ErrMalformedContainer, jsonLen)
	}

	jsonChunk := data[headerSize+chunkHeadSize : jsonEnd]
	if !json.Valid(jsonChunk) {
		return nil, fmt.Errorf("%w: JSON chunk is not well-formed", ErrMalformedContainer)
	}

	c := &Container{
		JSON: append([]byte(nil), jsonChunk...),
	}

	// Optional binary chunk. Anything short or mistyped past the JSON
	// chunk means no binary region.
	if jsonEnd+chunkHeadSize <= len(data) {
		binLen := binary.LittleEndian.Uint32(data[jsonEnd : jsonEnd+4])
		binType := binary.LittleEndian.Uint32(data[jsonEnd+4 : jsonEnd+8])
		binEnd := jsonEnd + chunkHeadSize + int(binLen)
		if binType == ChunkTypeBin && binEnd <= len(data) {
			c.Bin = append([]byte(nil), data[jsonEnd+chunkHeadSize:binEnd]...)
		}
	}

	return c, nil
}

// ParseFile reads and parses a GLB file from disk.
func ParseFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Serialize assembles GLB container bytes from a JSON document and a binary
// payload. The JSON payload is padded with spaces and the binary payload
// with zeros, each to a 4-byte multiple. When bin is empty the binary chunk
// is omitted entirely, not emitted as a zero-length chunk. The output is
// deterministic: the same inputs always yield byte-identical bytes.
func Serialize(jsonDoc, bin []byte) []byte {
	jsonPadded := Pad4(len(jsonDoc))
	total := headerSize + chunkHeadSize + jsonPadded
	if len(bin) > 0 {
		total += chunkHeadSize + Pad4(len(bin))
	}

	out := make([]byte, 0, total)
	out = appendUint32(out, Magic)
	out = appendUint32(out, Version)
	out = appendUint32(out, uint32(total))

	out = appendUint32(out, uint32(jsonPadded))
	out = appendUint32(out, ChunkTypeJSON)
	out = append(out, jsonDoc...)
	for i := len(jsonDoc); i < jsonPadded; i++ {
		out = append(out, ' ')
	}

	if len(bin) > 0 {
		binPadded := Pad4(len(bin))
		out = appendUint32(out, uint32(binPadded))
		out = appendUint32(out, ChunkTypeBin)
		out = append(out, bin...)
		for i := len(bin); i < binPadded; i++ {
			out = append(out, 0)
		}
	}

	return out
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// Bytes serializes the container back to GLB bytes.
func (c *Container) Bytes() []byte {
	return Serialize(c.JSON, c.Bin)
}

// WriteFile serializes the container and writes it to disk.
func (c *Container) WriteFile(path string) error {
	return os.WriteFile(path, c.Bytes(), 0644)
}

// Validate checks structural invariants beyond what Parse requires: the
// header total length must match the chunk layout, and every bufferView
// must reference buffer 0 within its declared byteLength.
func Validate(data []byte) error {
	c, err := Parse(data)
	if err != nil {
		return err
	}

	total := headerSize + chunkHeadSize + Pad4(len(c.JSON))
	if len(c.Bin) > 0 {
		total += chunkHeadSize + Pad4(len(c.Bin))
	}
	declared := binary.LittleEndian.Uint32(data[8:12])
	if int(declared) != total {
		return fmt.Errorf("%w: header total %d, chunk layout requires %d", ErrMalformedContainer, declared, total)
	}

	var doc struct {
		Buffers []struct {
			ByteLength int `json:"byteLength"`
		} `json:"buffers"`
		BufferViews []struct {
			Buffer     int `json:"buffer"`
			ByteOffset int `json:"byteOffset"`
			ByteLength int `json:"byteLength"`
		} `json:"bufferViews"`
	}
	if err := json.Unmarshal(c.JSON, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	if len(doc.Buffers) == 0 {
		if len(doc.BufferViews) > 0 {
			return fmt.Errorf("%w: bufferViews present without buffers", ErrMalformedContainer)
		}
		return nil
	}

	bufLen := doc.Buffers[0].ByteLength
	if bufLen > Pad4(len(c.Bin)) {
		return fmt.Errorf("%w: buffers[0].byteLength %d exceeds binary chunk size %d", ErrMalformedContainer, bufLen, Pad4(len(c.Bin)))
	}
	for i, bv := range doc.BufferViews {
		if bv.Buffer != 0 {
			return fmt.Errorf("%w: bufferViews[%d] references buffer %d (only buffer 0 is supported)", ErrMalformedContainer, i, bv.Buffer)
		}
		if bv.ByteOffset+bv.ByteLength > bufLen {
			return fmt.Errorf("%w: bufferViews[%d] spans [%d, %d) past buffer length %d",
				ErrMalformedContainer, i, bv.ByteOffset, bv.ByteOffset+bv.ByteLength, bufLen)
		}
	}

	return nil
}
