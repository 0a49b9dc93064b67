package libgl

import (
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type Capability uint32

const (
	DepthTest   Capability = gl.DEPTH_TEST
	Blend       Capability = gl.BLEND
	ScissorTest Capability = gl.SCISSOR_TEST
	CullFace    Capability = gl.CULL_FACE
)

type BlendFactor uint32

const (
	BlendZero             BlendFactor = gl.ZERO
	BlendOne              BlendFactor = gl.ONE
	BlendSrcAlpha         BlendFactor = gl.SRC_ALPHA
	BlendOneMinusSrcAlpha BlendFactor = gl.ONE_MINUS_SRC_ALPHA
)

type BlendEquation uint32

const (
	BlendFuncAdd BlendEquation = gl.FUNC_ADD
)

type DepthFunc uint32

const (
	DepthFuncLess   DepthFunc = gl.LESS
	DepthFuncLEqual DepthFunc = gl.LEQUAL
	DepthFuncAlways DepthFunc = gl.ALWAYS
)

// StateManager shadows the parts of the GL state the renderer touches so
// redundant calls can be skipped.
type StateManager struct {
	Caps                           map[Capability]bool
	TextureUnits, SamplerUnits     []uint32
	ArrayBuffer, ElementBuffer     uint32
	ProgramPipeline, VertexArray   uint32
	ViewportRect, ScissorRect      [4]int
	BlendFactorSrc, BlendFactorDst BlendFactor
	BlendEquationMode              BlendEquation
	DepthFuncFn                    DepthFunc
	DepthWriteMask                 bool
	ClearColorRGBA                 [4]float32
	PolygonModeFrontAndBack        uint32
}

// State must be initialized with NewStateManager once a context is current.
var State *StateManager

func NewStateManager() *StateManager {
	return &StateManager{
		Caps:                    map[Capability]bool{},
		TextureUnits:            make([]uint32, 32),
		SamplerUnits:            make([]uint32, 32),
		DepthFuncFn:             DepthFuncLess,
		DepthWriteMask:          true,
		PolygonModeFrontAndBack: gl.FILL,
	}
}

func (s *StateManager) Enable(cap Capability) {
	if s.Caps[cap] {
		return
	}
	gl.Enable(uint32(cap))
	s.Caps[cap] = true
}

func (s *StateManager) Disable(cap Capability) {
	if !s.Caps[cap] {
		return
	}
	gl.Disable(uint32(cap))
	s.Caps[cap] = false
}

// SetEnabled enables exactly the given capabilities and disables all others.
func (s *StateManager) SetEnabled(caps ...Capability) {
	wanted := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		wanted[c] = true
	}
	for c, enabled := range s.Caps {
		if enabled && !wanted[c] {
			s.Disable(c)
		}
	}
	for c := range wanted {
		s.Enable(c)
	}
}

func (s *StateManager) BlendFunc(src, dst BlendFactor) {
	if s.BlendFactorSrc == src && s.BlendFactorDst == dst {
		return
	}
	gl.BlendFunc(uint32(src), uint32(dst))
	s.BlendFactorSrc = src
	s.BlendFactorDst = dst
}

func (s *StateManager) BlendEquation(mode BlendEquation) {
	if s.BlendEquationMode == mode {
		return
	}
	gl.BlendEquation(uint32(mode))
	s.BlendEquationMode = mode
}

func (s *StateManager) DepthFunc(fn DepthFunc) {
	if s.DepthFuncFn == fn {
		return
	}
	gl.DepthFunc(uint32(fn))
	s.DepthFuncFn = fn
}

func (s *StateManager) DepthMask(flag bool) {
	if s.DepthWriteMask == flag {
		return
	}
	gl.DepthMask(flag)
	s.DepthWriteMask = flag
}

// PolygonMode always applies to both faces; core profiles reject anything else.
func (s *StateManager) PolygonMode(mode uint32) {
	if s.PolygonModeFrontAndBack == mode {
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	s.PolygonModeFrontAndBack = mode
}

func (s *StateManager) BindTextureUnit(unit int, texture uint32) {
	if s.TextureUnits[unit] == texture {
		return
	}
	gl.BindTextureUnit(uint32(unit), texture)
	s.TextureUnits[unit] = texture
}

func (s *StateManager) BindSampler(unit int, sampler uint32) {
	if s.SamplerUnits[unit] == sampler {
		return
	}
	gl.BindSampler(uint32(unit), sampler)
	s.SamplerUnits[unit] = sampler
}

func (s *StateManager) BindBuffer(target uint32, buffer uint32) {
	switch target {
	case gl.ARRAY_BUFFER:
		if s.ArrayBuffer == buffer {
			return
		}
		s.ArrayBuffer = buffer
	case gl.ELEMENT_ARRAY_BUFFER:
		if s.ElementBuffer == buffer {
			return
		}
		s.ElementBuffer = buffer
	}
	gl.BindBuffer(target, buffer)
}

func (s *StateManager) BindProgramPipeline(pipeline uint32) {
	if s.ProgramPipeline == pipeline {
		return
	}
	gl.BindProgramPipeline(pipeline)
	s.ProgramPipeline = pipeline
}

func (s *StateManager) BindVertexArray(array uint32) {
	if s.VertexArray == array {
		return
	}
	gl.BindVertexArray(array)
	s.VertexArray = array
	// the element buffer binding is vertex array state
	s.ElementBuffer = 0
}

func (s *StateManager) Viewport(x, y, w, h int) {
	rect := [4]int{x, y, w, h}
	if s.ViewportRect == rect {
		return
	}
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	s.ViewportRect = rect
}

func (s *StateManager) Scissor(x, y, w, h int) {
	rect := [4]int{x, y, w, h}
	if s.ScissorRect == rect {
		return
	}
	gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	s.ScissorRect = rect
}

func (s *StateManager) ClearColor(r, g, b, a float32) {
	rgba := [4]float32{r, g, b, a}
	if s.ClearColorRGBA == rgba {
		return
	}
	gl.ClearColor(r, g, b, a)
	s.ClearColorRGBA = rgba
}

// Environment describes the driver the context runs on.
type Environment struct {
	Vendor   string
	Renderer string
	Version  string
	// zero when anisotropic filtering is unsupported
	MaxAnisotropy float32
}

func GetEnvironment() Environment {
	env := Environment{
		Vendor:   strings.TrimSpace(gl.GoStr(gl.GetString(gl.VENDOR))),
		Renderer: strings.TrimSpace(gl.GoStr(gl.GetString(gl.RENDERER))),
		Version:  strings.TrimSpace(gl.GoStr(gl.GetString(gl.VERSION))),
	}
	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &env.MaxAnisotropy)
	return env
}
