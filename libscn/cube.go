package libscn

import "github.com/go-gl/mathgl/mgl32"

// CubeMesh returns a unit cube centered at the origin with one quad per face,
// so every face has its own normals and uv coordinates.
func CubeMesh() *Mesh {
	type face struct {
		normal mgl32.Vec3
		// corners in counter clockwise order seen from outside
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	mesh := &Mesh{
		Name:     "cube",
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for i, corner := range f.corners {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: corner, Normal: f.normal, Uv: uvs[i]})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return mesh
}
