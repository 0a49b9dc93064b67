package libwin

import (
	"fmt"
	"learn-gl/libinput"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InvalidAddress is handed to go-gl for functions the driver does not export,
// so calling one crashes loudly instead of jumping to nil.
const InvalidAddress uintptr = 0xffff_ffff_ffff_ffff

type Config struct {
	Width, Height int
	Title         string
	// request a compatibility instead of a core profile
	Compatibility bool
	Debug         bool
	VSync         bool
}

// Window is a glfw window with a current OpenGL 4.5 context.
// Its callbacks translate glfw input into libinput events.
type Window struct {
	handle   *glfw.Window
	queue    libinput.EventQueue
	captured bool
}

// Open initializes glfw, creates the window, makes its context current and
// loads the OpenGL functions. It locks the calling goroutine to its thread.
func Open(cfg Config) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	if cfg.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}
	if cfg.Compatibility {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	handle.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(InvalidAddress)
		}
		return addr
	})
	if err != nil {
		handle.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("load opengl: %w", err)
	}

	w := &Window{handle: handle}
	w.registerCallbacks()

	width, height := handle.GetFramebufferSize()
	w.queue.Push(libinput.Resized{Width: width, Height: height})

	return w, nil
}

func (w *Window) registerCallbacks() {
	w.handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.queue.Push(libinput.CursorMoved{X: x, Y: y})
	})
	w.handle.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		w.queue.Push(libinput.Scrolled{XOffset: x, YOffset: y})
	})
	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		w.queue.Push(libinput.KeyChanged{Key: libinput.Key(key), Pressed: action == glfw.Press})
	})
	w.handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		w.queue.Push(libinput.MouseButtonChanged{Button: libinput.MouseButton(button), Pressed: action == glfw.Press})
	})
	w.handle.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.queue.Push(libinput.CharTyped{Char: char})
	})
	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.Push(libinput.Resized{Width: width, Height: height})
	})
}

// Poll processes pending window events and returns them in arrival order.
// The slice is only valid until the next call.
func (w *Window) Poll() []libinput.Event {
	glfw.PollEvents()
	return w.queue.Drain()
}

// Now implements libinput.Clock.
func (w *Window) Now() float64 {
	return glfw.GetTime()
}

// CaptureCursor hides and locks the cursor to the window when enabled.
func (w *Window) CaptureCursor(enabled bool) {
	if w.captured == enabled {
		return
	}
	w.captured = enabled
	if enabled {
		w.handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (w *Window) CursorCaptured() bool {
	return w.captured
}

func (w *Window) Size() (int, int) {
	return w.handle.GetSize()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

func (w *Window) Close() {
	w.handle.SetShouldClose(true)
}

func (w *Window) SwapBuffers() {
	w.handle.SwapBuffers()
}

func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}

func (w *Window) ClipboardText() string {
	return w.handle.GetClipboardString()
}

func (w *Window) SetClipboardText(text string) {
	w.handle.SetClipboardString(text)
}

// Destroy destroys the window and terminates glfw.
func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}
