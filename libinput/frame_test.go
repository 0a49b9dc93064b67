package libinput_test

import (
	"learn-gl/libcam"
	"learn-gl/libinput"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approxEqual(a, b []float32, threshold float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > threshold {
			return false
		}
	}
	return true
}

func approxVec3(a, b mgl32.Vec3) bool {
	return approxEqual(a[:], b[:], 1e-5)
}

type fakeClock struct {
	time float64
}

func (c *fakeClock) Now() float64 {
	return c.time
}

func newFrameContext(t *testing.T, modify func(s *libcam.Settings)) (*libinput.FrameContext, *fakeClock) {
	t.Helper()
	s := libcam.DefaultSettings()
	if modify != nil {
		modify(&s)
	}
	cam, err := libcam.New(s)
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{time: 10}
	ctx := libinput.NewFrameContext(cam, libinput.DefaultBindings(), clock, 1280, 720, 0.1, 100)
	return ctx, clock
}

func TestFirstFrameHasNoElapsedTime(t *testing.T) {
	ctx, clock := newFrameContext(t, nil)
	ctx.Update([]libinput.Event{libinput.KeyChanged{Key: libinput.KeyW, Pressed: true}})
	if ctx.Elapsed != 0 {
		t.Errorf("first frame should have zero elapsed time but has %v", ctx.Elapsed)
	}
	if ctx.Camera.Position() != (mgl32.Vec3{}) {
		t.Errorf("camera should not move on the first frame but is at %v", ctx.Camera.Position())
	}

	clock.time += 0.5
	ctx.Update(nil)
	if math.Abs(float64(ctx.Elapsed-0.5)) > 1e-6 {
		t.Errorf("elapsed time should be 0.5 but is %v", ctx.Elapsed)
	}
	expected := mgl32.Vec3{0, 0, -1.25}
	if !approxVec3(ctx.Camera.Position(), expected) {
		t.Errorf("held key should move the camera to %v but it is at %v", expected, ctx.Camera.Position())
	}
}

func TestElapsedTimeIsNeverNegative(t *testing.T) {
	ctx, clock := newFrameContext(t, nil)
	ctx.Update(nil)
	clock.time -= 3
	ctx.Update(nil)
	if ctx.Elapsed != 0 {
		t.Errorf("clock going backwards should give zero elapsed time but got %v", ctx.Elapsed)
	}
}

func TestHeldKeysCompose(t *testing.T) {
	settings := func(s *libcam.Settings) {
		s.Pitch = -20
		s.Yaw = -60
		s.Speed = 2.5
	}
	both, clock := newFrameContext(t, settings)
	both.Update([]libinput.Event{
		libinput.KeyChanged{Key: libinput.KeyW, Pressed: true},
		libinput.KeyChanged{Key: libinput.KeyD, Pressed: true},
	})
	clock.time += 0.5
	both.Update(nil)

	reference, err := libcam.New(func() libcam.Settings {
		s := libcam.DefaultSettings()
		settings(&s)
		return s
	}())
	if err != nil {
		t.Fatal(err)
	}
	reference.Move(libcam.Forward, 0.5)
	reference.Move(libcam.Right, 0.5)

	if !approxVec3(both.Camera.Position(), reference.Position()) {
		t.Errorf("position should be %v but is %v", reference.Position(), both.Camera.Position())
	}
}

func TestReleasedKeyStopsMovement(t *testing.T) {
	ctx, clock := newFrameContext(t, nil)
	ctx.Update([]libinput.Event{libinput.KeyChanged{Key: libinput.KeyS, Pressed: true}})
	clock.time += 1
	ctx.Update([]libinput.Event{libinput.KeyChanged{Key: libinput.KeyS, Pressed: false}})
	if ctx.Camera.Position() != (mgl32.Vec3{}) {
		t.Errorf("key released in the same frame should not move the camera, position is %v", ctx.Camera.Position())
	}
}

func TestEventsReachCamera(t *testing.T) {
	ctx, _ := newFrameContext(t, nil)
	ctx.Update([]libinput.Event{
		libinput.CursorMoved{X: 100, Y: 100},
		libinput.CursorMoved{X: 140, Y: 100},
		libinput.Scrolled{YOffset: 5},
	})
	if math.Abs(float64(ctx.Camera.Yaw()-(libcam.DefaultYaw+2))) > 1e-5 {
		t.Errorf("yaw should be %v but is %v", libcam.DefaultYaw+2, ctx.Camera.Yaw())
	}
	if ctx.Camera.FieldOfView() != libcam.DefaultFov+5 {
		t.Errorf("fov should be %v but is %v", libcam.DefaultFov+5, ctx.Camera.FieldOfView())
	}
	if ctx.View != ctx.Camera.ViewMatrix() {
		t.Errorf("frame view matrix does not match the camera")
	}
}

func TestBlockedPointerIsIgnored(t *testing.T) {
	ctx, _ := newFrameContext(t, nil)
	ctx.Update([]libinput.Event{libinput.CursorMoved{X: 0, Y: 0}})

	ctx.PointerBlocked = true
	ctx.Update([]libinput.Event{
		libinput.CursorMoved{X: 500, Y: 0},
		libinput.Scrolled{YOffset: 10},
	})
	if ctx.Camera.Yaw() != libcam.DefaultYaw || ctx.Camera.FieldOfView() != libcam.DefaultFov {
		t.Errorf("blocked pointer changed the camera: yaw %v fov %v", ctx.Camera.Yaw(), ctx.Camera.FieldOfView())
	}

	// the first sample after unblocking only reseeds the cursor
	ctx.PointerBlocked = false
	ctx.Update([]libinput.Event{libinput.CursorMoved{X: 900, Y: 300}})
	if ctx.Camera.Yaw() != libcam.DefaultYaw || ctx.Camera.Pitch() != libcam.DefaultPitch {
		t.Errorf("unblocking caused a jump: yaw %v pitch %v", ctx.Camera.Yaw(), ctx.Camera.Pitch())
	}
}

func TestProjectionFollowsResize(t *testing.T) {
	ctx, _ := newFrameContext(t, nil)
	ctx.Update([]libinput.Event{libinput.Resized{Width: 800, Height: 400}})

	expected := mgl32.Perspective(mgl32.DegToRad(libcam.DefaultFov), 2, 0.1, 100)
	if !approxEqual(ctx.Projection[:], expected[:], 1e-5) {
		t.Errorf("projection should be\n%v\nbut is\n%v", expected, ctx.Projection)
	}

	ctx.Update([]libinput.Event{libinput.Resized{Width: 0, Height: 0}})
	if ctx.Aspect() != 2 {
		t.Errorf("empty viewport should keep the aspect ratio 2 but got %v", ctx.Aspect())
	}
	for i, v := range ctx.Projection {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection element %d is not finite: %v", i, v)
		}
	}
}

func TestUnboundDirectionIsIgnored(t *testing.T) {
	ctx, clock := newFrameContext(t, nil)
	ctx.Bindings = libinput.KeyBindings{libcam.Left: libinput.KeyLeft}
	ctx.Update([]libinput.Event{
		libinput.KeyChanged{Key: libinput.KeyW, Pressed: true},
		libinput.KeyChanged{Key: libinput.KeyLeft, Pressed: true},
	})
	clock.time += 1
	ctx.Update(nil)
	expected := mgl32.Vec3{-libcam.DefaultSpeed, 0, 0}
	if !approxVec3(ctx.Camera.Position(), expected) {
		t.Errorf("only the bound key should move the camera, expected %v got %v", expected, ctx.Camera.Position())
	}
	if ctx.Eye != ctx.Camera.Position() {
		t.Errorf("eye %v does not match camera position %v", ctx.Eye, ctx.Camera.Position())
	}
}
