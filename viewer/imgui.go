package main

import (
	"learn-gl/libgl"
	"learn-gl/libinput"
	"learn-gl/libwin"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

type ImGui struct {
	IO        imgui.IO
	context   *imgui.Context
	FrameTime float64
	win       *libwin.Window
	vao       libgl.UnboundVertexArray
	vbo       libgl.UnboundBuffer
	ebo       libgl.UnboundBuffer
	atlas     libgl.UnboundTexture
	shader    libgl.UnboundShaderPipeline
}

type clipboard struct {
	win *libwin.Window
}

func (c clipboard) Text() (string, error) {
	return c.win.ClipboardText(), nil
}

func (c clipboard) SetText(text string) {
	c.win.SetClipboardText(text)
}

func NewImGui(win *libwin.Window, shader libgl.UnboundShaderPipeline) *ImGui {
	context := imgui.CreateContext(nil)

	io := imgui.CurrentIO()
	io.SetClipboard(clipboard{win})
	dispWidth, dispHeight := win.Size()
	io.SetDisplaySize(imgui.Vec2{X: float32(dispWidth), Y: float32(dispHeight)})
	imgui.StyleColorsDark()

	vao := libgl.NewVertexArray()
	vao.SetDebugLabel("imgui")

	vertexSize, vertexOffsetPos, vertexOffsetUv, vertexOffsetCol := imgui.VertexBufferLayout()
	vao.Layout(0, 0, 2, gl.FLOAT, false, vertexOffsetPos)
	vao.Layout(0, 1, 2, gl.FLOAT, false, vertexOffsetUv)
	vao.Layout(0, 2, 4, gl.UNSIGNED_BYTE, true, vertexOffsetCol)

	vbo := libgl.NewBuffer()
	vbo.AllocateEmptyMutable(1024*8, gl.DYNAMIC_DRAW)
	vao.BindBuffer(0, vbo, 0, vertexSize)

	ebo := libgl.NewBuffer()
	ebo.AllocateEmptyMutable(1024*8, gl.DYNAMIC_DRAW)
	vao.BindElementBuffer(ebo)

	image := io.Fonts().TextureDataRGBA32()
	atlas := libgl.NewTexture()
	atlas.SetDebugLabel("imgui font atlas")
	atlas.Allocate(1, gl.RGBA8, image.Width, image.Height)
	atlas.Load(0, image.Width, image.Height, gl.RGBA, unsafe.Slice((*byte)(image.Pixels), image.Width*image.Height*4))
	io.Fonts().SetTextureID(imgui.TextureID(atlas.Id()))

	io.KeyMap(imgui.KeyTab, int(libinput.KeyTab))
	io.KeyMap(imgui.KeyLeftArrow, int(libinput.KeyLeft))
	io.KeyMap(imgui.KeyRightArrow, int(libinput.KeyRight))
	io.KeyMap(imgui.KeyUpArrow, int(libinput.KeyUp))
	io.KeyMap(imgui.KeyDownArrow, int(libinput.KeyDown))
	io.KeyMap(imgui.KeyPageUp, int(libinput.KeyPageUp))
	io.KeyMap(imgui.KeyPageDown, int(libinput.KeyPageDown))
	io.KeyMap(imgui.KeyHome, int(libinput.KeyHome))
	io.KeyMap(imgui.KeyEnd, int(libinput.KeyEnd))
	io.KeyMap(imgui.KeyInsert, int(libinput.KeyInsert))
	io.KeyMap(imgui.KeyDelete, int(libinput.KeyDelete))
	io.KeyMap(imgui.KeyBackspace, int(libinput.KeyBackspace))
	io.KeyMap(imgui.KeySpace, int(libinput.KeySpace))
	io.KeyMap(imgui.KeyEnter, int(libinput.KeyEnter))
	io.KeyMap(imgui.KeyEscape, int(libinput.KeyEscape))
	io.KeyMap(imgui.KeyA, int(libinput.KeyA))
	io.KeyMap(imgui.KeyC, int(libinput.KeyC))
	io.KeyMap(imgui.KeyV, int(libinput.KeyV))
	io.KeyMap(imgui.KeyX, int(libinput.KeyX))
	io.KeyMap(imgui.KeyY, int(libinput.KeyY))
	io.KeyMap(imgui.KeyZ, int(libinput.KeyZ))

	return &ImGui{
		IO:        io,
		context:   context,
		FrameTime: win.Now(),
		win:       win,
		vao:       vao,
		vbo:       vbo,
		ebo:       ebo,
		atlas:     atlas,
		shader:    shader,
	}
}

// Feed forwards the window events of this frame to imgui.
func (gui *ImGui) Feed(events []libinput.Event) {
	for _, e := range events {
		switch e := e.(type) {
		case libinput.CursorMoved:
			gui.IO.SetMousePosition(imgui.Vec2{X: float32(e.X), Y: float32(e.Y)})
		case libinput.MouseButtonChanged:
			if e.Button < 5 {
				gui.IO.SetMouseButtonDown(int(e.Button), e.Pressed)
			}
		case libinput.Scrolled:
			gui.IO.AddMouseWheelDelta(float32(e.XOffset), float32(e.YOffset))
		case libinput.CharTyped:
			gui.IO.AddInputCharacters(string(e.Char))
		case libinput.KeyChanged:
			if e.Pressed {
				gui.IO.KeyPress(int(e.Key))
			} else {
				gui.IO.KeyRelease(int(e.Key))
			}
			// Modifiers are not reliable across systems
			gui.IO.KeyCtrl(int(libinput.KeyLeftControl), int(libinput.KeyRightControl))
			gui.IO.KeyShift(int(libinput.KeyLeftShift), int(libinput.KeyRightShift))
			gui.IO.KeyAlt(int(libinput.KeyLeftAlt), int(libinput.KeyRightAlt))
			gui.IO.KeySuper(int(libinput.KeyLeftSuper), int(libinput.KeyRightSuper))
		}
	}
}

func (gui *ImGui) NewFrame() {
	dispWidth, dispHeight := gui.win.Size()
	gui.IO.SetDisplaySize(imgui.Vec2{X: float32(dispWidth), Y: float32(dispHeight)})

	time := gui.win.Now()
	if delta := time - gui.FrameTime; delta > 0 {
		gui.IO.SetDeltaTime(float32(delta))
	} else {
		gui.IO.SetDeltaTime(1. / 60.)
	}
	gui.FrameTime = time

	imgui.NewFrame()
}

func (gui *ImGui) WantCaptureMouse() bool {
	return gui.IO.WantCaptureMouse()
}

func (gui *ImGui) Draw() {
	libgl.PushDebugGroup("Draw ImGui")
	defer libgl.PopDebugGroup()

	imgui.Render()

	dispWidth, dispHeight := gui.win.Size()
	fbWidth, fbHeight := gui.win.FramebufferSize()
	if dispWidth <= 0 || dispHeight <= 0 || fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	libgl.State.Viewport(0, 0, fbWidth, fbHeight)
	ortho := mgl32.Ortho2D(0, float32(dispWidth), float32(dispHeight), 0)

	gui.vao.Bind()
	gui.shader.Bind()
	gui.shader.Vert().SetMat4("u_proj_mat", ortho)

	libgl.State.SetEnabled(libgl.Blend, libgl.ScissorTest)
	libgl.State.BlendEquation(libgl.BlendFuncAdd)
	libgl.State.BlendFunc(libgl.BlendSrcAlpha, libgl.BlendOneMinusSrcAlpha)
	libgl.State.BindSampler(0, 0)

	drawData := imgui.RenderedDrawData()
	drawData.ScaleClipRects(imgui.Vec2{
		X: float32(fbWidth) / float32(dispWidth),
		Y: float32(fbHeight) / float32(dispHeight),
	})

	var indexType uint32
	indexSize := imgui.IndexBufferLayout()
	switch indexSize {
	case 1:
		indexType = gl.UNSIGNED_BYTE
	case 2:
		indexType = gl.UNSIGNED_SHORT
	case 4:
		indexType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gui.vbo.Grow(vertexBufferSize)
		if vertexBufferSize > 0 {
			gui.vbo.Write(0, unsafe.Slice((*byte)(vertexBuffer), vertexBufferSize))
		}

		indexBuffer, indexBufferSize := list.IndexBuffer()
		gui.ebo.Grow(indexBufferSize)
		if indexBufferSize > 0 {
			gui.ebo.Write(0, unsafe.Slice((*byte)(indexBuffer), indexBufferSize))
		}

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			libgl.State.BindTextureUnit(0, uint32(cmd.TextureID()))
			clipRect := cmd.ClipRect()
			x, y := int(clipRect.X), fbHeight-int(clipRect.W)
			if y <= 0 {
				y = 0
			}
			libgl.State.Scissor(x, y, int(clipRect.Z-clipRect.X), int(clipRect.W-clipRect.Y))
			gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), indexType, uintptr(cmd.IndexOffset()*indexSize), int32(cmd.VertexOffset()))
		}
	}

	libgl.State.Disable(libgl.ScissorTest)
	libgl.State.Disable(libgl.Blend)
}

func (gui *ImGui) Delete() {
	gui.vao.Delete()
	gui.vbo.Delete()
	gui.ebo.Delete()
	gui.atlas.Delete()
	gui.shader.Delete()
	gui.context.Destroy()
}
