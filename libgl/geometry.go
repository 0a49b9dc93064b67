package libgl

import (
	"encoding/binary"
	"log"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type buffer struct {
	glId      uint32
	size      int
	flags     uint32
	immutable bool
}

type UnboundBuffer interface {
	Id() uint32
	Allocate(data any, flags int)
	AllocateMutable(data any, usage int)
	AllocateEmptyMutable(size int, usage int)
	Grow(size int) bool
	Write(offset int, data any)
	WriteRange(offset int, size int, data any)
	Size() int
	Bind(target uint32) BoundBuffer
	SetDebugLabel(label string)
	Delete()
}

type BoundBuffer interface {
	UnboundBuffer
}

func NewBuffer() UnboundBuffer {
	var id uint32
	gl.CreateBuffers(1, &id)
	return &buffer{
		glId: id,
	}
}

func (buf *buffer) Id() uint32 {
	return buf.glId
}

func (buf *buffer) Bind(target uint32) BoundBuffer {
	State.BindBuffer(target, buf.glId)
	return buf
}

func (buf *buffer) Size() int {
	return buf.size
}

func (buf *buffer) SetDebugLabel(label string) {
	setObjectLabel(gl.BUFFER, buf.glId, label)
}

func dataSize(data any) int {
	size := binary.Size(data)
	if size == -1 {
		log.Panicf("%T does not have a fixed size", data)
	}
	return size
}

// Allocate creates immutable storage initialized with data.
func (buf *buffer) Allocate(data any, flags int) {
	if buf.immutable {
		log.Panicf("buffer %d is immutable", buf.glId)
	}
	size := dataSize(data)
	if size == 0 {
		log.Printf("buffer %d: zero size allocation\n", buf.glId)
		return
	}
	gl.NamedBufferStorage(buf.glId, size, Pointer(data), uint32(flags))
	buf.size = size
	buf.flags = uint32(flags)
	buf.immutable = true
}

func (buf *buffer) AllocateMutable(data any, usage int) {
	if buf.immutable {
		log.Panicf("buffer %d is immutable", buf.glId)
	}
	size := dataSize(data)
	gl.NamedBufferData(buf.glId, size, Pointer(data), uint32(usage))
	buf.flags = uint32(usage)
	buf.size = size
}

func (buf *buffer) AllocateEmptyMutable(size int, usage int) {
	if buf.immutable {
		log.Panicf("buffer %d is immutable", buf.glId)
	}
	gl.NamedBufferData(buf.glId, size, nil, uint32(usage))
	buf.flags = uint32(usage)
	buf.size = size
}

// Grow reallocates a mutable buffer so it holds at least size bytes.
// The content is discarded. It reports whether a reallocation happened.
func (buf *buffer) Grow(size int) bool {
	if buf.immutable {
		log.Panicf("buffer %d is immutable", buf.glId)
	}
	if size <= buf.size {
		return false
	}
	newSize := buf.size * 2
	if newSize < size {
		newSize = size
	}
	gl.NamedBufferData(buf.glId, newSize, nil, buf.flags)
	buf.size = newSize
	return true
}

func (buf *buffer) Write(offset int, data any) {
	gl.NamedBufferSubData(buf.glId, offset, dataSize(data), Pointer(data))
}

func (buf *buffer) WriteRange(offset int, size int, data any) {
	gl.NamedBufferSubData(buf.glId, offset, size, Pointer(data))
}

func (buf *buffer) Delete() {
	gl.DeleteBuffers(1, &buf.glId)
	buf.glId = 0
}

type vertexArray struct {
	glId uint32
}

type UnboundVertexArray interface {
	Id() uint32
	Layout(bufferIndex int, attributeIndex int, size int, dataType int, normalized bool, offset int)
	BindBuffer(bufferIndex int, vbo UnboundBuffer, offset int, stride int)
	BindElementBuffer(ebo UnboundBuffer)
	Bind() BoundVertexArray
	SetDebugLabel(label string)
	Delete()
}

type BoundVertexArray interface {
	UnboundVertexArray
}

func NewVertexArray() UnboundVertexArray {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	return &vertexArray{
		glId: id,
	}
}

func (vao *vertexArray) Id() uint32 {
	return vao.glId
}

func (vao *vertexArray) Bind() BoundVertexArray {
	State.BindVertexArray(vao.glId)
	return vao
}

func (vao *vertexArray) SetDebugLabel(label string) {
	setObjectLabel(gl.VERTEX_ARRAY, vao.glId, label)
}

func (vao *vertexArray) Layout(bufferIndex int, attributeIndex int, size int, dataType int, normalized bool, offset int) {
	gl.EnableVertexArrayAttrib(vao.glId, uint32(attributeIndex))
	gl.VertexArrayAttribFormat(vao.glId, uint32(attributeIndex), int32(size), uint32(dataType), normalized, uint32(offset))
	gl.VertexArrayAttribBinding(vao.glId, uint32(attributeIndex), uint32(bufferIndex))
}

func (vao *vertexArray) BindBuffer(bufferIndex int, vbo UnboundBuffer, offset int, stride int) {
	gl.VertexArrayVertexBuffer(vao.glId, uint32(bufferIndex), vbo.Id(), offset, int32(stride))
}

func (vao *vertexArray) BindElementBuffer(ebo UnboundBuffer) {
	gl.VertexArrayElementBuffer(vao.glId, ebo.Id())
}

func (vao *vertexArray) Delete() {
	gl.DeleteVertexArrays(1, &vao.glId)
	vao.glId = 0
}
