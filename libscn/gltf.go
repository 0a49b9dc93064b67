package libscn

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ImportGltf loads every triangle primitive reachable from the default scene
// of a .gltf or .glb file. Node transforms are baked into the vertices.
// PBR materials are approximated: roughness maps to shininess and metallic to
// specular intensity.
func ImportGltf(filename string) (*Model, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open gltf file %q: %w", filename, err)
	}

	imp := &gltfImporter{
		doc:       doc,
		dir:       filepath.Dir(filename),
		images:    map[int]*image.NRGBA{},
		materials: map[int]*Material{},
		model:     &Model{Name: filepath.Base(filename)},
	}
	for _, root := range imp.roots() {
		if err := imp.visit(root, mgl32.Ident4(), 0); err != nil {
			return nil, fmt.Errorf("could not import %q: %w", filename, err)
		}
	}
	if len(imp.model.Parts) == 0 {
		return nil, fmt.Errorf("gltf file %q contains no triangle meshes", filename)
	}
	return imp.model, nil
}

type gltfImporter struct {
	doc       *gltf.Document
	dir       string
	images    map[int]*image.NRGBA
	materials map[int]*Material
	model     *Model
}

func (imp *gltfImporter) roots() []int {
	if imp.doc.Scene != nil && *imp.doc.Scene >= 0 && *imp.doc.Scene < len(imp.doc.Scenes) {
		return imp.doc.Scenes[*imp.doc.Scene].Nodes
	}
	hasParent := make([]bool, len(imp.doc.Nodes))
	for _, node := range imp.doc.Nodes {
		for _, child := range node.Children {
			if child >= 0 && child < len(hasParent) {
				hasParent[child] = true
			}
		}
	}
	var roots []int
	for i := range imp.doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

const maxGltfDepth = 64

func (imp *gltfImporter) visit(index int, parent mgl32.Mat4, depth int) error {
	if depth > maxGltfDepth {
		return fmt.Errorf("node hierarchy deeper than %d, probably cyclic", maxGltfDepth)
	}
	if index < 0 || index >= len(imp.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", index)
	}
	node := imp.doc.Nodes[index]
	world := parent.Mul4(localTransform(node))

	if node.Mesh != nil && *node.Mesh >= 0 && *node.Mesh < len(imp.doc.Meshes) {
		gm := imp.doc.Meshes[*node.Mesh]
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				log.Printf("gltf: skipping mesh %q primitive %d with mode %v\n", gm.Name, pi, prim.Mode)
				continue
			}
			mesh, err := imp.primitive(gm.Name, pi, prim, world)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
			}
			imp.model.Parts = append(imp.model.Parts, ModelPart{
				Mesh:     mesh,
				Material: imp.material(prim.Material),
			})
		}
	}

	for _, child := range node.Children {
		if err := imp.visit(child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// a node has either a matrix or TRS properties, the unused one is identity
func localTransform(node *gltf.Node) mgl32.Mat4 {
	m := node.MatrixOrDefault()
	var matrix mgl32.Mat4
	for i, v := range m {
		matrix[i] = float32(v)
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rotation := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}

	trs := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
	return matrix.Mul4(trs)
}

func (imp *gltfImporter) primitive(meshName string, index int, prim *gltf.Primitive, world mgl32.Mat4) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, index)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", index)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(imp.doc, imp.accessor(posIdx), nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(imp.doc, imp.accessor(idx), nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(imp.doc, imp.accessor(idx), nil); err != nil {
			return nil, fmt.Errorf("texture coordinates: %w", err)
		}
	}

	normalMatrix := world.Mat3().Inv().Transpose()
	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3(),
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			n := normalMatrix.Mul3x1(mgl32.Vec3(normals[i]))
			if n.LenSqr() > 0 {
				v.Normal = n.Normalize()
			}
		}
		if i < len(uvs) {
			// glTF has its uv origin top left, images are flipped on decode
			v.Uv = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(imp.doc, imp.accessor(*prim.Indices), nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mesh := &Mesh{Name: name, Vertices: vertices, Indices: indices}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// accessor maps bad indices to an empty accessor so reads yield no data
func (imp *gltfImporter) accessor(index int) *gltf.Accessor {
	if index < 0 || index >= len(imp.doc.Accessors) {
		return &gltf.Accessor{}
	}
	return imp.doc.Accessors[index]
}

func (imp *gltfImporter) material(index *int) *Material {
	key := -1
	if index != nil {
		key = *index
	}
	if material, ok := imp.materials[key]; ok {
		return material
	}

	material := &Material{
		Name:              "default",
		DiffuseColor:      mgl32.Vec3{1, 1, 1},
		SpecularIntensity: 0.5,
		Shininess:         DefaultShininess,
	}
	if key >= 0 && key < len(imp.doc.Materials) {
		gm := imp.doc.Materials[key]
		material.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			material.DiffuseColor = mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
			if pbr.BaseColorTexture != nil {
				material.Diffuse = imp.texture(pbr.BaseColorTexture.Index)
			}
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			material.Shininess = (1-roughness)*(1-roughness)*128 + 1
			material.SpecularIntensity = metallic*0.7 + 0.1
		}
		if gm.EmissiveTexture != nil {
			material.Emission = imp.texture(gm.EmissiveTexture.Index)
		}
	}
	imp.materials[key] = material
	return material
}

// texture decodes the image behind a texture once. Failures are logged and
// the material falls back to its constant color.
func (imp *gltfImporter) texture(index int) *image.NRGBA {
	if index < 0 || index >= len(imp.doc.Textures) || imp.doc.Textures[index].Source == nil {
		return nil
	}
	source := *imp.doc.Textures[index].Source
	if img, ok := imp.images[source]; ok {
		return img
	}

	img, err := imp.decodeImage(source)
	if err != nil {
		log.Printf("gltf: could not load image %d: %v\n", source, err)
	}
	imp.images[source] = img
	return img
}

func (imp *gltfImporter) decodeImage(source int) (*image.NRGBA, error) {
	if source < 0 || source >= len(imp.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", source)
	}
	img := imp.doc.Images[source]
	switch {
	case img.BufferView != nil:
		view := *img.BufferView
		if view < 0 || view >= len(imp.doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", view)
		}
		bv := imp.doc.BufferViews[view]
		if bv.Buffer < 0 {
			return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		raw, err := modeler.ReadBufferView(imp.doc, bv)
		if err != nil {
			return nil, err
		}
		return DecodeImage(bytes.NewReader(raw))
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return nil, err
		}
		return DecodeImage(bytes.NewReader(raw))
	case img.URI != "":
		return LoadImage(filepath.Join(imp.dir, filepath.FromSlash(img.URI)))
	}
	return nil, fmt.Errorf("image has no data")
}
