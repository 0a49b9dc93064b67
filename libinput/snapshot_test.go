package libinput_test

import (
	"learn-gl/libinput"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestKeyTap(t *testing.T) {
	s := libinput.NewSnapshot()
	s.Begin(0)
	s.Apply(libinput.KeyChanged{Key: libinput.KeyEscape, Pressed: true})
	if !s.IsKeyTap(libinput.KeyEscape) || !s.IsKeyDown(libinput.KeyEscape) {
		t.Errorf("key pressed this frame should be a tap")
	}

	s.Begin(1)
	if s.IsKeyTap(libinput.KeyEscape) {
		t.Errorf("key held since last frame should not be a tap")
	}
	if !s.IsKeyDown(libinput.KeyEscape) {
		t.Errorf("key should still be down")
	}

	s.Begin(2)
	s.Apply(libinput.KeyChanged{Key: libinput.KeyEscape, Pressed: false})
	if s.IsKeyDown(libinput.KeyEscape) || s.IsKeyTap(libinput.KeyEscape) {
		t.Errorf("released key should be neither down nor tapped")
	}
}

func TestOutOfRangeKeysAreIgnored(t *testing.T) {
	s := libinput.NewSnapshot()
	s.Begin(0)
	s.Apply(libinput.KeyChanged{Key: libinput.KeyUnknown, Pressed: true})
	s.Apply(libinput.KeyChanged{Key: 10000, Pressed: true})
	s.Apply(libinput.MouseButtonChanged{Button: 42, Pressed: true})
	if s.IsKeyDown(libinput.KeyUnknown) || s.IsKeyDown(10000) || s.IsMouseDown(42) {
		t.Errorf("out of range input should never be reported as down")
	}
}

func TestCursorAndScroll(t *testing.T) {
	s := libinput.NewSnapshot()
	s.Begin(0)
	s.Apply(libinput.CursorMoved{X: 10, Y: 20})
	s.Apply(libinput.Scrolled{YOffset: 1})
	s.Apply(libinput.Scrolled{XOffset: 0.5, YOffset: 2})
	if s.ScrollDelta() != (mgl32.Vec2{0.5, 3}) {
		t.Errorf("scroll should accumulate to (0.5, 3) but is %v", s.ScrollDelta())
	}

	s.Begin(0.25)
	s.Apply(libinput.CursorMoved{X: 15, Y: 18})
	if s.CursorPos() != (mgl32.Vec2{15, 18}) {
		t.Errorf("cursor should be at (15, 18) but is %v", s.CursorPos())
	}
	if s.CursorDelta() != (mgl32.Vec2{5, -2}) {
		t.Errorf("cursor delta should be (5, -2) but is %v", s.CursorDelta())
	}
	if s.ScrollDelta() != (mgl32.Vec2{}) {
		t.Errorf("scroll should reset each frame but is %v", s.ScrollDelta())
	}
	if s.TimeDelta() != 0.25 {
		t.Errorf("time delta should be 0.25 but is %v", s.TimeDelta())
	}
}

func TestMouseTap(t *testing.T) {
	s := libinput.NewSnapshot()
	s.Begin(0)
	s.Apply(libinput.MouseButtonChanged{Button: libinput.MouseButtonLeft, Pressed: true})
	if !s.IsMouseTap(libinput.MouseButtonLeft) {
		t.Errorf("button pressed this frame should be a tap")
	}
	s.Begin(1)
	if s.IsMouseTap(libinput.MouseButtonLeft) || !s.IsMouseDown(libinput.MouseButtonLeft) {
		t.Errorf("held button should be down but not tapped")
	}
}

func TestEventQueueKeepsOrder(t *testing.T) {
	var q libinput.EventQueue
	q.Push(libinput.KeyChanged{Key: libinput.KeyA, Pressed: true})
	q.Push(libinput.CursorMoved{X: 1, Y: 2})
	q.Push(libinput.Resized{Width: 3, Height: 4})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("expected 3 events but got %d", len(events))
	}
	if _, ok := events[1].(libinput.CursorMoved); !ok {
		t.Errorf("second event should be CursorMoved but is %T", events[1])
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Errorf("queue should be empty after draining")
	}
}

func TestParseKey(t *testing.T) {
	cases := map[string]libinput.Key{
		"w":          libinput.KeyW,
		"W":          libinput.KeyW,
		"escape":     libinput.KeyEscape,
		"left_shift": libinput.KeyLeftShift,
		"f12":        libinput.KeyF12,
		"7":          libinput.Key7,
		" space ":    libinput.KeySpace,
	}
	for name, expected := range cases {
		key, err := libinput.ParseKey(name)
		if err != nil {
			t.Errorf("ParseKey(%q) failed: %v", name, err)
			continue
		}
		if key != expected {
			t.Errorf("ParseKey(%q) = %v, expected %v", name, key, expected)
		}
	}
	if _, err := libinput.ParseKey("hyper"); err == nil {
		t.Errorf("unknown key name should fail")
	}
}

func TestKeyTextRoundTrip(t *testing.T) {
	for _, name := range libinput.KeyNames() {
		key, err := libinput.ParseKey(name)
		if err != nil {
			t.Fatal(err)
		}
		text, err := key.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		if string(text) != name {
			t.Errorf("key %d marshals to %q, expected %q", int(key), text, name)
		}
	}
}
