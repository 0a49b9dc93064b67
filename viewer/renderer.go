package main

import (
	"fmt"
	"image"
	"learn-gl/libgl"
	"learn-gl/libinput"
	"learn-gl/libscn"
	"learn-gl/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type gpuMesh struct {
	vao        libgl.UnboundVertexArray
	vbo, ebo   libgl.UnboundBuffer
	indexCount int32
}

func uploadMesh(mesh *libscn.Mesh) *gpuMesh {
	vbo := libgl.NewBuffer()
	vbo.SetDebugLabel(mesh.Name + " vertices")
	vbo.Allocate(mesh.Vertices, 0)
	ebo := libgl.NewBuffer()
	ebo.SetDebugLabel(mesh.Name + " indices")
	ebo.Allocate(mesh.Indices, 0)

	vao := libgl.NewVertexArray()
	vao.SetDebugLabel(mesh.Name)
	vao.Layout(0, 0, 3, gl.FLOAT, false, libscn.VertexOffsetPosition)
	vao.Layout(0, 1, 3, gl.FLOAT, false, libscn.VertexOffsetNormal)
	vao.Layout(0, 2, 2, gl.FLOAT, false, libscn.VertexOffsetUv)
	vao.BindBuffer(0, vbo, 0, libscn.VertexSize)
	vao.BindElementBuffer(ebo)

	return &gpuMesh{vao: vao, vbo: vbo, ebo: ebo, indexCount: int32(len(mesh.Indices))}
}

func (m *gpuMesh) Draw() {
	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
}

func (m *gpuMesh) Delete() {
	libutil.DeleteAll(m.vao, m.vbo, m.ebo)
}

type gpuMaterial struct {
	name              string
	diffuse           libgl.UnboundTexture
	specular          libgl.UnboundTexture
	emission          libgl.UnboundTexture
	diffuseColor      mgl32.Vec3
	specularIntensity float32
	shininess         float32
}

type drawable struct {
	mesh     *gpuMesh
	material *gpuMaterial
	model    mgl32.Mat4
}

// Renderer draws the lit scene: the spinning demo crates, any loaded models
// and a flat colored cube for every point light.
type Renderer struct {
	Lights     libscn.Lights
	ClearColor [4]float32
	Wireframe  bool
	// overrides the shininess of every material when positive
	Shininess float32

	lighting    libgl.UnboundShaderPipeline
	lightSource libgl.UnboundShaderPipeline
	sampler     libgl.UnboundSampler

	cube      *gpuMesh
	crate     *gpuMaterial
	models    []drawable
	meshes    []*gpuMesh
	materials map[*libscn.Material]*gpuMaterial
	textures  map[*image.NRGBA]libgl.UnboundTexture
	fallback  map[[4]uint8]libgl.UnboundTexture
}

func NewRenderer(shaders *ShaderLibrary) (*Renderer, error) {
	lighting, err := shaders.Load("lighting", map[string]string{"MAX_POINT_LIGHTS": fmt.Sprint(len(libscn.DemoPointLightPositions))})
	if err != nil {
		return nil, err
	}
	lightSource, err := shaders.Load("light_source", nil)
	if err != nil {
		lighting.Delete()
		return nil, err
	}

	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR)
	sampler.WrapMode(gl.REPEAT, gl.REPEAT)
	if aniso := libgl.GetEnvironment().MaxAnisotropy; aniso > 1 {
		sampler.AnisotropicFilter(min(aniso, 8))
	}

	r := &Renderer{
		Lights:      libscn.DefaultLights(),
		ClearColor:  [4]float32{0.3, 0.1, 0, 1},
		lighting:    lighting,
		lightSource: lightSource,
		sampler:     sampler,
		materials:   map[*libscn.Material]*gpuMaterial{},
		textures:    map[*image.NRGBA]libgl.UnboundTexture{},
		fallback:    map[[4]uint8]libgl.UnboundTexture{},
	}
	r.cube = uploadMesh(libscn.CubeMesh())
	r.crate = r.uploadMaterial(&libscn.Material{
		Name:              "crate",
		DiffuseColor:      mgl32.Vec3{1, 1, 1},
		SpecularIntensity: 1,
		Shininess:         libscn.DefaultShininess,
	})
	return r, nil
}

// SetCrateMaterial replaces the material of the demo crates.
func (r *Renderer) SetCrateMaterial(material *libscn.Material) {
	r.crate = r.uploadMaterial(material)
}

// AddModel uploads every part of a model and places it with the given transform.
func (r *Renderer) AddModel(model *libscn.Model, transform mgl32.Mat4) {
	for _, part := range model.Parts {
		mesh := uploadMesh(part.Mesh)
		r.meshes = append(r.meshes, mesh)
		r.models = append(r.models, drawable{
			mesh:     mesh,
			material: r.uploadMaterial(part.Material),
			model:    transform,
		})
	}
}

func (r *Renderer) uploadMaterial(material *libscn.Material) *gpuMaterial {
	if gm, ok := r.materials[material]; ok {
		return gm
	}
	gm := &gpuMaterial{
		name:              material.Name,
		diffuse:           r.uploadTexture(material.Diffuse, [4]uint8{255, 255, 255, 255}, true),
		specular:          r.uploadTexture(material.Specular, [4]uint8{128, 128, 128, 255}, false),
		emission:          r.uploadTexture(material.Emission, [4]uint8{0, 0, 0, 255}, true),
		diffuseColor:      material.DiffuseColor,
		specularIntensity: material.SpecularIntensity,
		shininess:         material.Shininess,
	}
	r.materials[material] = gm
	return gm
}

// uploadTexture uploads an image once. Missing images are replaced by a
// shared 1x1 texture of the fallback color.
func (r *Renderer) uploadTexture(img *image.NRGBA, fallback [4]uint8, srgb bool) libgl.UnboundTexture {
	if img == nil {
		if tex, ok := r.fallback[fallback]; ok {
			return tex
		}
		tex := libgl.NewTextureFromImage(libscn.SolidImage(fallback[0], fallback[1], fallback[2], fallback[3]), srgb)
		r.fallback[fallback] = tex
		return tex
	}
	if tex, ok := r.textures[img]; ok {
		return tex
	}
	tex := libgl.NewTextureFromImage(img, srgb)
	r.textures[img] = tex
	return tex
}

func (r *Renderer) Draw(frame *libinput.FrameContext, time float32) {
	libgl.PushDebugGroup("Draw Scene")
	defer libgl.PopDebugGroup()

	libgl.State.Viewport(0, 0, frame.Width, frame.Height)
	libgl.State.ClearColor(r.ClearColor[0], r.ClearColor[1], r.ClearColor[2], r.ClearColor[3])
	libgl.State.SetEnabled(libgl.DepthTest, libgl.CullFace)
	libgl.State.DepthFunc(libgl.DepthFuncLess)
	libgl.State.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.Wireframe {
		libgl.State.PolygonMode(gl.LINE)
		defer libgl.State.PolygonMode(gl.FILL)
	}

	r.lighting.Bind()
	r.setLightUniforms(frame.View)
	r.lighting.Vert().SetMat4("u_projection_mat", frame.Projection)
	for unit := 0; unit < 3; unit++ {
		r.sampler.Bind(unit)
	}

	for i, pos := range libscn.DemoCubePositions {
		r.drawLit(r.cube, r.crate, libscn.CubeModelMatrix(i, pos, time), frame.View, time)
	}
	for _, d := range r.models {
		r.drawLit(d.mesh, d.material, d.model, frame.View, time)
	}

	r.lightSource.Bind()
	r.lightSource.Frag().SetVec3("u_color", r.Lights.PointColor)
	viewProjection := frame.Projection.Mul4(frame.View)
	for _, light := range r.Lights.Points {
		r.lightSource.Vert().SetMat4("u_model_view_projection_mat", viewProjection.Mul4(libscn.LightCubeModelMatrix(light.Position)))
		r.cube.Draw()
	}
}

func (r *Renderer) drawLit(mesh *gpuMesh, material *gpuMaterial, model, view mgl32.Mat4, time float32) {
	vs, fs := r.lighting.Vert(), r.lighting.Frag()
	modelView := view.Mul4(model)
	vs.SetMat4("u_model_view_mat", modelView)
	vs.SetMat3("u_normal_mat", libscn.NormalMatrix(modelView))

	material.diffuse.Bind(0)
	material.specular.Bind(1)
	material.emission.Bind(2)
	shininess := material.shininess
	if r.Shininess > 0 {
		shininess = r.Shininess
	}
	fs.SetVec3("u_material.diffuse_color", material.diffuseColor)
	fs.SetFloat("u_material.specular_intensity", material.specularIntensity)
	fs.SetFloat("u_material.shininess", shininess)
	fs.SetFloat("u_material.emission_offset", libscn.EmissionOffset(time))

	mesh.Draw()
}

func (r *Renderer) setLightUniforms(view mgl32.Mat4) {
	fs := r.lighting.Frag()
	lights := &r.Lights

	dir := lights.Directional
	fs.SetVec3("u_directional_light.direction", dir.ViewDirection(view))
	fs.SetVec3("u_directional_light.ambient", dir.Ambient)
	fs.SetVec3("u_directional_light.diffuse", dir.Diffuse)
	fs.SetVec3("u_directional_light.specular", dir.Specular)

	fs.SetInt("u_point_light_count", len(lights.Points))
	for i, p := range lights.Points {
		prefix := fmt.Sprintf("u_point_lights[%d].", i)
		fs.SetVec3(prefix+"position", p.ViewPosition(view))
		fs.SetVec3(prefix+"ambient", p.Ambient)
		fs.SetVec3(prefix+"diffuse", p.Diffuse)
		fs.SetVec3(prefix+"specular", p.Specular)
		fs.SetVec3(prefix+"attenuation", mgl32.Vec3{p.Constant, p.Linear, p.Quadratic})
	}

	spot := lights.Spot
	fs.SetVec3("u_spot_light.position", spot.Position)
	fs.SetVec3("u_spot_light.direction", spot.Direction)
	fs.SetVec3("u_spot_light.ambient", spot.Ambient)
	fs.SetVec3("u_spot_light.diffuse", spot.Diffuse)
	fs.SetVec3("u_spot_light.specular", spot.Specular)
	fs.SetVec3("u_spot_light.attenuation", mgl32.Vec3{spot.Constant, spot.Linear, spot.Quadratic})
	fs.SetFloat("u_spot_light.cut_off", spot.CutOff)
	fs.SetFloat("u_spot_light.outer_cut_off", spot.OuterCutOff)
}

func (r *Renderer) Delete() {
	r.cube.Delete()
	for _, m := range r.meshes {
		m.Delete()
	}
	for _, tex := range r.textures {
		tex.Delete()
	}
	for _, tex := range r.fallback {
		tex.Delete()
	}
	libutil.DeleteAll(r.sampler, r.lighting, r.lightSource)
}
