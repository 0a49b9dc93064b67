package libscn_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"learn-gl/libscn"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func triangleFan(n int) *libscn.Mesh {
	mesh := &libscn.Mesh{Name: "fan"}
	mesh.Vertices = append(mesh.Vertices, libscn.Vertex{})
	for i := 0; i < n; i++ {
		mesh.Vertices = append(mesh.Vertices, libscn.Vertex{
			Position: mgl32.Vec3{float32(i), 1, 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			Uv:       mgl32.Vec2{float32(i) / float32(n), 1},
		})
	}
	for i := 1; i < n; i++ {
		mesh.Indices = append(mesh.Indices, 0, uint32(i), uint32(i+1))
	}
	return mesh
}

func roundTrip(t *testing.T, mesh *libscn.Mesh) *libscn.Mesh {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := libscn.EncodeMesh(buf, mesh); err != nil {
		t.Fatal(err)
	}
	decoded, err := libscn.DecodeMesh(buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes left after decoding", buf.Len())
	}
	return decoded
}

func compareMeshes(t *testing.T, expected, actual *libscn.Mesh) {
	t.Helper()
	if actual.Name != expected.Name {
		t.Errorf("name should be %q but was %q", expected.Name, actual.Name)
	}
	if len(actual.Vertices) != len(expected.Vertices) || len(actual.Indices) != len(expected.Indices) {
		t.Fatalf("size should be %d/%d but was %d/%d", len(expected.Vertices), len(expected.Indices), len(actual.Vertices), len(actual.Indices))
	}
	for i := range expected.Vertices {
		if actual.Vertices[i] != expected.Vertices[i] {
			t.Errorf("vertex %d should be %v but was %v", i, expected.Vertices[i], actual.Vertices[i])
		}
	}
	for i := range expected.Indices {
		if actual.Indices[i] != expected.Indices[i] {
			t.Errorf("index %d should be %d but was %d", i, expected.Indices[i], actual.Indices[i])
		}
	}
}

func TestMeshShortIndices(t *testing.T) {
	// 3 indices, odd count needs padding
	mesh := triangleFan(2)
	mesh.Name = "odd"
	compareMeshes(t, mesh, roundTrip(t, mesh))
}

func TestMeshLongIndices(t *testing.T) {
	mesh := triangleFan(0x6000)
	if len(mesh.Indices) < 0xffff {
		t.Fatalf("fan should have at least 0xffff indices but has %d", len(mesh.Indices))
	}
	compareMeshes(t, mesh, roundTrip(t, mesh))
}

func TestMeshBadMagic(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := libscn.EncodeMesh(buf, triangleFan(3)); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[0] ^= 0xff
	_, err := libscn.DecodeMesh(bytes.NewReader(data))
	if !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh but got %v", err)
	}
}

func TestMeshTruncated(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := libscn.EncodeMesh(buf, triangleFan(3)); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if _, err := libscn.DecodeMesh(bytes.NewReader(data[:len(data)-5])); !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh for a truncated mesh but got %v", err)
	}
}

func TestMeshHugeCountsAreRejected(t *testing.T) {
	tests := []struct {
		name   string
		header []uint32
	}{
		{"vertices", []uint32{libscn.MagicNumberGEO, 0, 0x7fffffff, 0}},
		{"indices", []uint32{libscn.MagicNumberGEO, 0, 3, 0xffffffff}},
		{"name", []uint32{libscn.MagicNumberGEO, 0xffffffff, 0, 0}},
	}
	for _, test := range tests {
		buf := &bytes.Buffer{}
		binary.Write(buf, binary.LittleEndian, test.header)
		if _, err := libscn.DecodeMesh(buf); !errors.Is(err, libscn.ErrCorruptMesh) {
			t.Errorf("%s: expected ErrCorruptMesh but got %v", test.name, err)
		}
	}
}

func TestMeshTruncatedLargeBody(t *testing.T) {
	// declared size is within limits but the data is missing
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, []uint32{libscn.MagicNumberGEO, 0, libscn.MaxMeshVertexCount, 0})
	buf.Write(make([]byte, 100))
	if _, err := libscn.DecodeMesh(buf); !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh but got %v", err)
	}
}

func TestMeshIndexOutOfRange(t *testing.T) {
	mesh := triangleFan(2)
	mesh.Indices[1] = 42
	if err := mesh.Validate(); !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh but got %v", err)
	}

	buf := &bytes.Buffer{}
	if err := libscn.EncodeMesh(buf, mesh); err != nil {
		t.Fatal(err)
	}
	if _, err := libscn.DecodeMesh(buf); !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh but got %v", err)
	}
}

func TestMeshPartialTriangle(t *testing.T) {
	mesh := triangleFan(2)
	mesh.Indices = mesh.Indices[:2]
	if err := mesh.Validate(); !errors.Is(err, libscn.ErrCorruptMesh) {
		t.Errorf("expected ErrCorruptMesh but got %v", err)
	}
}

func TestCubeMesh(t *testing.T) {
	cube := libscn.CubeMesh()
	if err := cube.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(cube.Vertices) != 24 || len(cube.Indices) != 36 {
		t.Errorf("cube should have 24 vertices and 36 indices but has %d and %d", len(cube.Vertices), len(cube.Indices))
	}

	lo, hi := cube.Bounds()
	if lo != (mgl32.Vec3{-0.5, -0.5, -0.5}) || hi != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("cube bounds should be ±0.5 but are %v %v", lo, hi)
	}

	// counter clockwise winding means the face normal matches the vertex normal
	for i := 0; i < len(cube.Indices); i += 3 {
		a := cube.Vertices[cube.Indices[i]]
		b := cube.Vertices[cube.Indices[i+1]]
		c := cube.Vertices[cube.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if n.Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", i/3, a.Normal)
		}
	}
}
