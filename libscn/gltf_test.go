package libscn_test

import (
	"learn-gl/libscn"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func writeGlb(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	normals := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 0.25}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "rough",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 1, 1},
			RoughnessFactor: gltf.Float(1),
			MetallicFactor:  gltf.Float(0),
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: positions, gltf.NORMAL: normals, gltf.TEXCOORD_0: uvs},
		}},
	})
	// parent moves up, child is rotated a quarter turn around Y
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "root", Translation: [3]float64{0, 2, 0}, Children: []int{1}},
		&gltf.Node{Name: "tri", Mesh: gltf.Index(0), Rotation: [4]float64{0, 0.7071068, 0, 0.7071068}},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	name := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, name); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestImportGltf(t *testing.T) {
	model, err := libscn.ImportGltf(writeGlb(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Parts) != 1 {
		t.Fatalf("model should have 1 part but has %d", len(model.Parts))
	}
	mesh := model.Parts[0].Mesh
	if len(mesh.Vertices) != 3 || len(mesh.Indices) != 3 {
		t.Fatalf("mesh should have 3 vertices and indices but has %d and %d", len(mesh.Vertices), len(mesh.Indices))
	}

	expected := []mgl32.Vec3{{0, 2, 0}, {0, 2, -1}, {0, 3, 0}}
	for i, v := range mesh.Vertices {
		if !approxVec3(v.Position, expected[i], 1e-4) {
			t.Errorf("vertex %d should be at %v but is at %v", i, expected[i], v.Position)
		}
		if !approxVec3(v.Normal, mgl32.Vec3{1, 0, 0}, 1e-4) {
			t.Errorf("vertex %d normal should be rotated to +X but is %v", i, v.Normal)
		}
	}
	if uv := mesh.Vertices[2].Uv; !approxEqual(uv[:], []float32{0, 0.75}, 1e-6) {
		t.Errorf("uv v should be flipped to 0.75 but is %v", uv)
	}

	material := model.Parts[0].Material
	if material.Name != "rough" {
		t.Errorf("material name should be rough but is %q", material.Name)
	}
	if material.DiffuseColor != (mgl32.Vec3{0.5, 0.25, 1}) {
		t.Errorf("diffuse color should come from the base color factor but is %v", material.DiffuseColor)
	}
	if material.Shininess != 1 {
		t.Errorf("full roughness should give shininess 1 but gave %v", material.Shininess)
	}
}

func TestImportGltfBadImageReferences(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Images = append(doc.Images, &gltf.Image{BufferView: gltf.Index(99), MimeType: "image/png"})
	doc.Textures = append(doc.Textures,
		&gltf.Texture{Source: gltf.Index(-1)},
		&gltf.Texture{Source: gltf.Index(0)},
	)
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:                 "broken",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 0}},
		EmissiveTexture:      &gltf.TextureInfo{Index: 1},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: positions},
		}},
	})
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "tri", Mesh: gltf.Index(0)},
		&gltf.Node{Name: "dangling", Mesh: gltf.Index(-3)},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0, 1)

	name := filepath.Join(t.TempDir(), "broken.glb")
	if err := gltf.SaveBinary(doc, name); err != nil {
		t.Fatal(err)
	}
	model, err := libscn.ImportGltf(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Parts) != 1 {
		t.Fatalf("model should have 1 part but has %d", len(model.Parts))
	}
	material := model.Parts[0].Material
	if material.Diffuse != nil || material.Emission != nil {
		t.Errorf("unresolvable textures should be left empty")
	}
}

func TestImportGltfMissing(t *testing.T) {
	if _, err := libscn.ImportGltf(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("importing a missing file should fail")
	}
}
