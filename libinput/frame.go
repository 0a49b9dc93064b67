package libinput

import (
	"learn-gl/libcam"

	"github.com/go-gl/mathgl/mgl32"
)

// Clock returns a monotonic time in seconds.
type Clock interface {
	Now() float64
}

type ClockFunc func() float64

func (f ClockFunc) Now() float64 {
	return f()
}

// KeyBindings maps each movement direction to the key that triggers it.
// Unbound directions are ignored.
type KeyBindings map[libcam.Direction]Key

func DefaultBindings() KeyBindings {
	return KeyBindings{
		libcam.Forward:  KeyW,
		libcam.Backward: KeyS,
		libcam.Left:     KeyA,
		libcam.Right:    KeyD,
	}
}

// FrameContext owns everything the frame loop needs to turn window events
// into a camera transform. It is updated once per frame on the main thread.
type FrameContext struct {
	Camera   *libcam.Camera
	Input    *Snapshot
	Bindings KeyBindings
	Clock    Clock

	// framebuffer size in pixels
	Width, Height int
	Near, Far     float32

	// PointerBlocked stops cursor and scroll events from reaching the camera,
	// e.g. while a UI element has the mouse. The cursor latch is re-armed when
	// it is cleared again.
	PointerBlocked bool

	// results of the last Update
	Elapsed    float32
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3

	aspect     float32
	lastFrame  float64
	started    bool
	wasBlocked bool
}

func NewFrameContext(cam *libcam.Camera, bindings KeyBindings, clock Clock, width, height int, near, far float32) *FrameContext {
	ctx := &FrameContext{
		Camera:   cam,
		Input:    NewSnapshot(),
		Bindings: bindings,
		Clock:    clock,
		Width:    width,
		Height:   height,
		Near:     near,
		Far:      far,
		aspect:   1,
	}
	ctx.updateAspect()
	ctx.View = cam.ViewMatrix()
	ctx.Projection = ctx.perspective()
	ctx.Eye = cam.Position()
	return ctx
}

// Update runs one frame: folds the events in order, measures the elapsed
// time, moves the camera for every held movement key and recomputes the
// view and projection matrices.
func (ctx *FrameContext) Update(events []Event) {
	now := ctx.Clock.Now()
	ctx.Input.Begin(now)

	if ctx.wasBlocked && !ctx.PointerBlocked {
		ctx.Camera.ResetCursor()
	}
	ctx.wasBlocked = ctx.PointerBlocked

	for _, e := range events {
		ctx.Input.Apply(e)
		switch e := e.(type) {
		case CursorMoved:
			if !ctx.PointerBlocked {
				ctx.Camera.Rotate(float32(e.X), float32(e.Y))
			}
		case Scrolled:
			if !ctx.PointerBlocked {
				ctx.Camera.Zoom(float32(e.YOffset))
			}
		case Resized:
			ctx.Width, ctx.Height = e.Width, e.Height
			ctx.updateAspect()
		}
	}

	if !ctx.started {
		ctx.Elapsed = 0
		ctx.started = true
	} else {
		ctx.Elapsed = max(0, float32(now-ctx.lastFrame))
	}
	ctx.lastFrame = now

	for _, dir := range libcam.Directions {
		key, ok := ctx.Bindings[dir]
		if ok && ctx.Input.IsKeyDown(key) {
			ctx.Camera.Move(dir, ctx.Elapsed)
		}
	}

	ctx.View = ctx.Camera.ViewMatrix()
	ctx.Projection = ctx.perspective()
	ctx.Eye = ctx.Camera.Position()
}

// Aspect returns the width to height ratio of the last non-empty viewport.
func (ctx *FrameContext) Aspect() float32 {
	return ctx.aspect
}

// a minimized window reports a zero sized framebuffer
func (ctx *FrameContext) updateAspect() {
	if ctx.Width > 0 && ctx.Height > 0 {
		ctx.aspect = float32(ctx.Width) / float32(ctx.Height)
	}
}

func (ctx *FrameContext) perspective() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(ctx.Camera.FieldOfView()), ctx.aspect, ctx.Near, ctx.Far)
}
