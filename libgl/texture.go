package libgl

import (
	"image"
	"log"
	"math/bits"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type texture struct {
	glId   uint32
	width  int
	height int
}

type UnboundTexture interface {
	Id() uint32
	Bind(unit int) BoundTexture
	Allocate(levels int, internalFormat uint32, width, height int)
	Load(level int, width, height int, format uint32, data any)
	GenerateMipmap()
	Width() int
	Height() int
	SetDebugLabel(label string)
	Delete()
}

type BoundTexture interface {
	UnboundTexture
}

func NewTexture() UnboundTexture {
	var id uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &id)
	return &texture{
		glId: id,
	}
}

// NewTextureFromImage uploads an NRGBA image with a full mip chain.
// srgb selects an sRGB internal format for color data.
func NewTextureFromImage(img *image.NRGBA, srgb bool) UnboundTexture {
	format := uint32(gl.RGBA8)
	if srgb {
		format = gl.SRGB8_ALPHA8
	}
	width, height := img.Rect.Dx(), img.Rect.Dy()
	tex := NewTexture()
	tex.Allocate(0, format, width, height)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	tex.Load(0, width, height, gl.RGBA, img.Pix)
	tex.GenerateMipmap()
	return tex
}

func (tex *texture) Id() uint32 {
	return tex.glId
}

func (tex *texture) Bind(unit int) BoundTexture {
	State.BindTextureUnit(unit, tex.glId)
	return tex
}

func (tex *texture) Width() int {
	return tex.width
}

func (tex *texture) Height() int {
	return tex.height
}

func (tex *texture) SetDebugLabel(label string) {
	setObjectLabel(gl.TEXTURE, tex.glId, label)
}

// Allocate creates immutable storage. Zero levels means a full mip chain.
func (tex *texture) Allocate(levels int, internalFormat uint32, width, height int) {
	if levels == 0 {
		levels = MipLevels(width, height)
	}
	tex.width = width
	tex.height = height
	gl.TextureStorage2D(tex.glId, int32(levels), internalFormat, int32(width), int32(height))
}

func (tex *texture) Load(level int, width, height int, format uint32, data any) {
	gl.TextureSubImage2D(tex.glId, int32(level), 0, 0, int32(width), int32(height), format, glType(data), Pointer(data))
}

func (tex *texture) GenerateMipmap() {
	gl.GenerateTextureMipmap(tex.glId)
}

func (tex *texture) Delete() {
	gl.DeleteTextures(1, &tex.glId)
	tex.glId = 0
}

// MipLevels returns the length of a full mip chain down to 1x1.
func MipLevels(width, height int) int {
	size := width
	if height > size {
		size = height
	}
	if size < 1 {
		return 1
	}
	return bits.Len(uint(size))
}

func glType(data any) uint32 {
	switch data.(type) {
	case []byte, *byte:
		return gl.UNSIGNED_BYTE
	case []uint16, *uint16:
		return gl.UNSIGNED_SHORT
	case []float32, *float32, []mgl32.Vec3, []mgl32.Vec4:
		return gl.FLOAT
	}
	log.Panicf("invalid texture data type: %T", data)
	return 0
}

type sampler struct {
	glId uint32
}

type UnboundSampler interface {
	Id() uint32
	Bind(unit int) BoundSampler
	FilterMode(min, mag int32)
	WrapMode(s, t int32)
	AnisotropicFilter(quality float32)
	Delete()
}

type BoundSampler interface {
	UnboundSampler
}

func NewSampler() UnboundSampler {
	var id uint32
	gl.CreateSamplers(1, &id)
	return &sampler{
		glId: id,
	}
}

func (s *sampler) Id() uint32 {
	return s.glId
}

func (s *sampler) Bind(unit int) BoundSampler {
	State.BindSampler(unit, s.glId)
	return s
}

func (s *sampler) FilterMode(min, mag int32) {
	if min != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MIN_FILTER, min)
	}
	if mag != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MAG_FILTER, mag)
	}
}

func (sampler *sampler) WrapMode(s, t int32) {
	if s != 0 {
		gl.SamplerParameteri(sampler.glId, gl.TEXTURE_WRAP_S, s)
	}
	if t != 0 {
		gl.SamplerParameteri(sampler.glId, gl.TEXTURE_WRAP_T, t)
	}
}

// AnisotropicFilter is a no-op for quality <= 1.
func (sampler *sampler) AnisotropicFilter(quality float32) {
	if quality <= 1 {
		return
	}
	gl.SamplerParameterf(sampler.glId, gl.TEXTURE_MAX_ANISOTROPY, quality)
}

func (sampler *sampler) Delete() {
	gl.DeleteSamplers(1, &sampler.glId)
	sampler.glId = 0
}
