package libscn

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AssetIndex lists glob patterns relative to the index file. Assets are
// registered under their base name up to the first dot.
type AssetIndex struct {
	Materials []string `json:"materials"`
	Textures  []string `json:"textures"`
	Meshes    []string `json:"meshes"`
	Models    []string `json:"models"`
}

// ModelDesc is either a list of mesh/material parts or a reference to a
// glTF file relative to the descriptor.
type ModelDesc struct {
	Parts []ModelPartDesc `json:"parts,omitempty"`
	Gltf  string          `json:"gltf,omitempty"`
}

type ModelPartDesc struct {
	Mesh     string `json:"mesh"`
	Material string `json:"material"`
}

// MaterialDesc references textures by pack name. Missing maps are allowed.
type MaterialDesc struct {
	Diffuse   string  `json:"diffuse,omitempty"`
	Specular  string  `json:"specular,omitempty"`
	Emission  string  `json:"emission,omitempty"`
	Shininess float32 `json:"shininess,omitempty"`
}

const DefaultShininess = 32

type Material struct {
	Name string
	// nil when the material has no such map
	Diffuse, Specular, Emission *image.NRGBA
	DiffuseColor                mgl32.Vec3
	SpecularIntensity           float32
	Shininess                   float32
}

type ModelPart struct {
	Mesh     *Mesh
	Material *Material
}

type Model struct {
	Name  string
	Parts []ModelPart
}

type DirPack struct {
	MeshIndex     map[string]string
	ModelIndex    map[string]string
	MaterialIndex map[string]string
	TextureIndex  map[string]string
	// decoded images by file path
	images map[string]*image.NRGBA
	init   bool
}

func (pack *DirPack) AddIndexFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("could not add index file %q: %w", name, err)
	}
	defer file.Close()

	return pack.AddIndex(file, filepath.Dir(name))
}

func (pack *DirPack) AddIndex(r io.Reader, root string) error {
	index := AssetIndex{}
	if err := json.NewDecoder(r).Decode(&index); err != nil {
		return fmt.Errorf("could not decode asset index: %w", err)
	}

	if !pack.init {
		pack.MeshIndex = map[string]string{}
		pack.ModelIndex = map[string]string{}
		pack.MaterialIndex = map[string]string{}
		pack.TextureIndex = map[string]string{}
		pack.images = map[string]*image.NRGBA{}
		pack.init = true
	}

	root = filepath.Clean(root)
	groups := []struct {
		patterns []string
		index    map[string]string
	}{
		{index.Materials, pack.MaterialIndex},
		{index.Meshes, pack.MeshIndex},
		{index.Models, pack.ModelIndex},
		{index.Textures, pack.TextureIndex},
	}
	for _, group := range groups {
		if err := addAllMatches(root, group.patterns, group.index); err != nil {
			return err
		}
	}
	return nil
}

func addAllMatches(root string, patterns []string, index map[string]string) error {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return fmt.Errorf("bad asset pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			match = filepath.ToSlash(match)
			name, _, _ := strings.Cut(path.Base(match), ".")
			index[name] = match
		}
	}
	return nil
}

// Models returns the registered model names in sorted order.
func (pack *DirPack) Models() []string {
	names := maps.Keys(pack.ModelIndex)
	slices.Sort(names)
	return names
}

func (pack *DirPack) LoadModel(name string) (*Model, error) {
	filename, ok := pack.ModelIndex[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not registered in this pack", name)
	}

	desc := &ModelDesc{}
	if err := readJson(filename, desc); err != nil {
		return nil, fmt.Errorf("could not read model file %q: %w", filename, err)
	}

	if desc.Gltf != "" {
		model, err := ImportGltf(path.Join(path.Dir(filename), desc.Gltf))
		if err != nil {
			return nil, fmt.Errorf("could not import model %q: %w", name, err)
		}
		model.Name = name
		return model, nil
	}

	if len(desc.Parts) == 0 {
		return nil, fmt.Errorf("model file %q has no parts", filename)
	}

	model := &Model{Name: name}
	materials := map[string]*Material{}
	for _, part := range desc.Parts {
		mesh, err := pack.LoadMesh(part.Mesh)
		if err != nil {
			return nil, fmt.Errorf("could not load mesh %q for model %q: %w", part.Mesh, name, err)
		}
		material, ok := materials[part.Material]
		if !ok {
			material, err = pack.LoadMaterial(part.Material)
			if err != nil {
				return nil, fmt.Errorf("could not load material %q for model %q: %w", part.Material, name, err)
			}
			materials[part.Material] = material
		}
		model.Parts = append(model.Parts, ModelPart{Mesh: mesh, Material: material})
	}
	return model, nil
}

func (pack *DirPack) LoadMaterial(name string) (*Material, error) {
	filename, ok := pack.MaterialIndex[name]
	if !ok {
		return nil, fmt.Errorf("material %q is not registered in this pack", name)
	}

	desc := &MaterialDesc{}
	if err := readJson(filename, desc); err != nil {
		return nil, fmt.Errorf("could not read material file %q: %w", filename, err)
	}

	material := &Material{
		Name:              name,
		DiffuseColor:      mgl32.Vec3{1, 1, 1},
		SpecularIntensity: 1,
		Shininess:         desc.Shininess,
	}
	if material.Shininess <= 0 {
		material.Shininess = DefaultShininess
	}

	textures := []struct {
		kind   string
		name   string
		target **image.NRGBA
	}{
		{"diffuse", desc.Diffuse, &material.Diffuse},
		{"specular", desc.Specular, &material.Specular},
		{"emission", desc.Emission, &material.Emission},
	}
	for _, m := range textures {
		if m.name == "" {
			continue
		}
		img, err := pack.LoadTexture(m.name)
		if err != nil {
			return nil, fmt.Errorf("could not load %v texture for material %q: %w", m.kind, name, err)
		}
		*m.target = img
	}
	return material, nil
}

// LoadTexture decodes a registered texture. Images are cached by path, so
// materials sharing a texture share the pixel data.
func (pack *DirPack) LoadTexture(name string) (*image.NRGBA, error) {
	filename, ok := pack.TextureIndex[name]
	if !ok {
		return nil, fmt.Errorf("texture %q is not registered in this pack", name)
	}
	if img, ok := pack.images[filename]; ok {
		return img, nil
	}
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	pack.images[filename] = img
	return img, nil
}

func (pack *DirPack) LoadMesh(name string) (*Mesh, error) {
	filename, ok := pack.MeshIndex[name]
	if !ok {
		return nil, fmt.Errorf("mesh %q is not registered in this pack", name)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open mesh file %q: %w", filename, err)
	}
	defer file.Close()

	var src io.Reader = file
	if strings.HasSuffix(filename, ".lz4") {
		src = lz4.NewReader(file)
	}

	mesh, err := DecodeMesh(src)
	if err != nil {
		return nil, fmt.Errorf("could not decode mesh file %q: %w", filename, err)
	}
	return mesh, nil
}

func readJson(filename string, v any) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(v)
}
