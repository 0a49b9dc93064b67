package libscn

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"learn-gl/libio"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

const MagicNumberGEO = 0xc9dae18c

var ErrCorruptMesh = errors.New("corrupt mesh")

type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Vertex matches the attribute layout of the lighting shaders:
// location 0 position, 1 normal, 2 uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Uv       mgl32.Vec2
}

const VertexSize = int(unsafe.Sizeof(Vertex{}))
const ElementIndexSize = int(unsafe.Sizeof(uint32(0)))

const (
	VertexOffsetPosition = int(unsafe.Offsetof(Vertex{}.Position))
	VertexOffsetNormal   = int(unsafe.Offsetof(Vertex{}.Normal))
	VertexOffsetUv       = int(unsafe.Offsetof(Vertex{}.Uv))
)

// Upper bounds for the counts in a mesh header. Anything larger is treated
// as corrupt instead of being allocated.
const (
	MaxMeshNameLength  = 1 << 12
	MaxMeshVertexCount = 1 << 24
	MaxMeshIndexCount  = 1 << 26
)

// elements are read in chunks of this many, so a truncated file fails before
// the whole declared size is allocated
const meshReadChunk = 1 << 14

type meshHeader struct {
	Check       uint32
	NameLength  uint32
	VertexCount uint32
	IndexCount  uint32
}

func (h meshHeader) validate() error {
	if h.NameLength > MaxMeshNameLength {
		return fmt.Errorf("%w: name length %d exceeds %d", ErrCorruptMesh, h.NameLength, MaxMeshNameLength)
	}
	if h.VertexCount > MaxMeshVertexCount {
		return fmt.Errorf("%w: vertex count %d exceeds %d", ErrCorruptMesh, h.VertexCount, MaxMeshVertexCount)
	}
	if h.IndexCount > MaxMeshIndexCount {
		return fmt.Errorf("%w: index count %d exceeds %d", ErrCorruptMesh, h.IndexCount, MaxMeshIndexCount)
	}
	return nil
}

func readChunked[T any](br *libio.BinaryReader, count int) ([]T, bool) {
	result := make([]T, 0, min(count, meshReadChunk))
	for len(result) < count {
		chunk := make([]T, min(count-len(result), meshReadChunk))
		if !br.ReadRef(chunk) {
			return nil, false
		}
		result = append(result, chunk...)
	}
	return result, true
}

// Validate checks that the indices form whole triangles and stay in range.
func (mesh *Mesh) Validate() error {
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("%w: %q has %d indices, not a multiple of 3", ErrCorruptMesh, mesh.Name, len(mesh.Indices))
	}
	for i, index := range mesh.Indices {
		if int(index) >= len(mesh.Vertices) {
			return fmt.Errorf("%w: %q index %d references vertex %d of %d", ErrCorruptMesh, mesh.Name, i, index, len(mesh.Vertices))
		}
	}
	return nil
}

// Bounds returns the axis aligned bounding box of all vertices.
func (mesh *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(mesh.Vertices) == 0 {
		return
	}
	lo, hi = mesh.Vertices[0].Position, mesh.Vertices[0].Position
	for _, v := range mesh.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return
}

// DecodeMesh reads a mesh in the .geo format. Index lists shorter than
// 0xffff are stored as uint16 and padded to a multiple of four bytes.
func DecodeMesh(r io.Reader) (mesh *Mesh, err error) {
	br, ok := r.(*libio.BinaryReader)
	if !ok {
		br = libio.NewBinaryReader(r, binary.LittleEndian)
	}
	defer func() {
		if err != nil && br.Err != nil && !errors.Is(err, br.Err) {
			err = fmt.Errorf("%w: %v", err, br.Err)
		}
	}()

	header := meshHeader{}
	if !br.ReadUInt32(&header.Check) {
		return nil, fmt.Errorf("%w: expected mesh header; byte 0x%08x", ErrCorruptMesh, br.LastIndex)
	}
	if header.Check != MagicNumberGEO {
		return nil, fmt.Errorf("%w: bad header; byte 0x%08x", ErrCorruptMesh, br.LastIndex)
	}
	if !br.ReadUInt32(&header.NameLength) || !br.ReadUInt32(&header.VertexCount) || !br.ReadUInt32(&header.IndexCount) {
		return nil, fmt.Errorf("%w: expected mesh header; byte 0x%08x", ErrCorruptMesh, br.LastIndex)
	}
	if err := header.validate(); err != nil {
		return nil, err
	}

	name := make([]byte, header.NameLength)
	if !br.ReadRef(name) {
		return nil, fmt.Errorf("%w: expected %d bytes for object name; byte 0x%08x", ErrCorruptMesh, header.NameLength, br.LastIndex)
	}

	vertices, ok := readChunked[Vertex](br, int(header.VertexCount))
	if !ok {
		return nil, fmt.Errorf("%w: expected %d mesh vertices; name %q, byte 0x%08x", ErrCorruptMesh, header.VertexCount, name, br.LastIndex)
	}

	var indices []uint32
	if header.IndexCount < 0xffff {
		shorts, ok := readChunked[uint16](br, int(header.IndexCount))
		if !ok {
			return nil, fmt.Errorf("%w: expected %d mesh indices; name %q, byte 0x%08x", ErrCorruptMesh, header.IndexCount, name, br.LastIndex)
		}
		if header.IndexCount%2 == 1 && !br.Skip(2) {
			return nil, fmt.Errorf("%w: expected index padding; name %q, byte 0x%08x", ErrCorruptMesh, name, br.LastIndex)
		}
		indices = make([]uint32, len(shorts))
		for i, v := range shorts {
			indices[i] = uint32(v)
		}
	} else if indices, ok = readChunked[uint32](br, int(header.IndexCount)); !ok {
		return nil, fmt.Errorf("%w: expected %d mesh indices; name %q, byte 0x%08x", ErrCorruptMesh, header.IndexCount, name, br.LastIndex)
	}

	mesh = &Mesh{
		Name:     string(name),
		Vertices: vertices,
		Indices:  indices,
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func EncodeMesh(w io.Writer, mesh *Mesh) error {
	bw, ok := w.(*libio.BinaryWriter)
	if !ok {
		bw = libio.NewBinaryWriter(w, binary.LittleEndian)
	}

	header := meshHeader{
		Check:       MagicNumberGEO,
		NameLength:  uint32(len(mesh.Name)),
		VertexCount: uint32(len(mesh.Vertices)),
		IndexCount:  uint32(len(mesh.Indices)),
	}
	bw.WriteUInt32(header.Check)
	bw.WriteUInt32(header.NameLength)
	bw.WriteUInt32(header.VertexCount)
	bw.WriteUInt32(header.IndexCount)
	bw.WriteBytes([]byte(mesh.Name))
	bw.WriteRef(mesh.Vertices)

	if header.IndexCount < 0xffff {
		shorts := make([]uint16, len(mesh.Indices))
		for i, v := range mesh.Indices {
			if v > 0xffff {
				return fmt.Errorf("could not encode mesh %q: index %d does not fit the short index format", mesh.Name, v)
			}
			shorts[i] = uint16(v)
		}
		bw.WriteRef(shorts)
		if header.IndexCount%2 == 1 {
			bw.Pad(2)
		}
	} else {
		bw.WriteRef(mesh.Indices)
	}

	if bw.Err != nil {
		return fmt.Errorf("could not encode mesh %q: %w", mesh.Name, bw.Err)
	}
	return nil
}
