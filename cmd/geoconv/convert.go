package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"learn-gl/libscn"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// converter writes an imported glTF model into an asset pack directory:
// one mesh file per primitive, one material and texture file per distinct
// material and image, and a model descriptor tying them together.
type converter struct {
	out     string
	name    string
	level   lz4.CompressionLevel
	written []string
}

func (conv *converter) Convert(in string) ([]string, error) {
	if strings.Contains(conv.name, ".") {
		return nil, fmt.Errorf("model name %q must not contain dots", conv.name)
	}
	model, err := libscn.ImportGltf(in)
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{"meshes", "materials", "textures", "models"} {
		if err := os.MkdirAll(filepath.Join(conv.out, dir), 0o755); err != nil {
			return nil, err
		}
	}

	materials := map[*libscn.Material]string{}
	textures := map[*image.NRGBA]string{}
	desc := libscn.ModelDesc{}
	for i, part := range model.Parts {
		meshName := fmt.Sprintf("%s_%d", conv.name, i)
		part.Mesh.Name = meshName
		if err := conv.writeMesh(meshName, part.Mesh); err != nil {
			return nil, err
		}

		materialName, ok := materials[part.Material]
		if !ok {
			materialName = fmt.Sprintf("%s_mat%d", conv.name, len(materials))
			if err := conv.writeMaterial(materialName, part.Material, textures); err != nil {
				return nil, err
			}
			materials[part.Material] = materialName
		}
		desc.Parts = append(desc.Parts, libscn.ModelPartDesc{Mesh: meshName, Material: materialName})
	}

	if err := conv.writeJson(filepath.Join("models", conv.name+".json"), desc); err != nil {
		return nil, err
	}
	return conv.written, nil
}

func (conv *converter) writeMesh(name string, mesh *libscn.Mesh) (err error) {
	rel := filepath.Join("meshes", name+".geo.lz4")
	file, err := os.Create(filepath.Join(conv.out, rel))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	zw := lz4.NewWriter(file)
	if err := zw.Apply(lz4.CompressionLevelOption(conv.level)); err != nil {
		return err
	}
	if err := libscn.EncodeMesh(zw, mesh); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not compress mesh %q: %w", name, err)
	}
	conv.written = append(conv.written, rel)
	return nil
}

func (conv *converter) writeMaterial(name string, material *libscn.Material, textures map[*image.NRGBA]string) error {
	desc := libscn.MaterialDesc{Shininess: material.Shininess}
	maps := []struct {
		img    *image.NRGBA
		target *string
	}{
		{material.Diffuse, &desc.Diffuse},
		{material.Specular, &desc.Specular},
		{material.Emission, &desc.Emission},
	}
	for _, m := range maps {
		if m.img == nil {
			continue
		}
		textureName, ok := textures[m.img]
		if !ok {
			textureName = fmt.Sprintf("%s_tex%d", conv.name, len(textures))
			if err := conv.writeTexture(textureName, m.img); err != nil {
				return err
			}
			textures[m.img] = textureName
		}
		*m.target = textureName
	}
	return conv.writeJson(filepath.Join("materials", name+".json"), desc)
}

// writeTexture stores the image top row first again, the pack flips on load.
func (conv *converter) writeTexture(name string, img *image.NRGBA) error {
	flipped := libscn.ToNRGBA(img)
	libscn.FlipVertical(flipped)

	rel := filepath.Join("textures", name+".png")
	file, err := os.Create(filepath.Join(conv.out, rel))
	if err != nil {
		return err
	}
	defer file.Close()
	if err := png.Encode(file, flipped); err != nil {
		return fmt.Errorf("could not encode texture %q: %w", name, err)
	}
	conv.written = append(conv.written, rel)
	return file.Close()
}

func (conv *converter) writeJson(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(conv.out, rel), data, 0o644); err != nil {
		return err
	}
	conv.written = append(conv.written, rel)
	return nil
}
