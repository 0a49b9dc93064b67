package libinput

import "github.com/go-gl/mathgl/mgl32"

// Snapshot is the per-frame view of the input devices.
// It keeps the previous frame's state so taps can be detected.
type Snapshot struct {
	curr inputState
	prev inputState
}

type inputState struct {
	time         float64
	cursorPos    mgl32.Vec2
	scroll       mgl32.Vec2
	keys         []bool
	mouseButtons []bool
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		curr: inputState{
			keys:         make([]bool, KeyLast+1),
			mouseButtons: make([]bool, MouseButtonLast+1),
		},
		prev: inputState{
			keys:         make([]bool, KeyLast+1),
			mouseButtons: make([]bool, MouseButtonLast+1),
		},
	}
}

// Begin starts a new frame. The current state becomes the previous one and
// the accumulated scroll offset is reset.
func (s *Snapshot) Begin(time float64) {
	keys := s.prev.keys
	mouseButtons := s.prev.mouseButtons
	copy(keys, s.curr.keys)
	copy(mouseButtons, s.curr.mouseButtons)

	s.prev = s.curr
	s.prev.keys = keys
	s.prev.mouseButtons = mouseButtons
	s.curr.time = time
	s.curr.scroll = mgl32.Vec2{}
}

// Apply folds a single event into the current state.
func (s *Snapshot) Apply(e Event) {
	switch e := e.(type) {
	case KeyChanged:
		if e.Key >= 0 && e.Key <= KeyLast {
			s.curr.keys[e.Key] = e.Pressed
		}
	case MouseButtonChanged:
		if e.Button >= 0 && e.Button <= MouseButtonLast {
			s.curr.mouseButtons[e.Button] = e.Pressed
		}
	case CursorMoved:
		s.curr.cursorPos = mgl32.Vec2{float32(e.X), float32(e.Y)}
	case Scrolled:
		s.curr.scroll = s.curr.scroll.Add(mgl32.Vec2{float32(e.XOffset), float32(e.YOffset)})
	}
}

func (s *Snapshot) CursorPos() mgl32.Vec2 {
	return s.curr.cursorPos
}

func (s *Snapshot) CursorDelta() mgl32.Vec2 {
	return s.curr.cursorPos.Sub(s.prev.cursorPos)
}

// ScrollDelta is the sum of all scroll offsets of the current frame.
func (s *Snapshot) ScrollDelta() mgl32.Vec2 {
	return s.curr.scroll
}

func (s *Snapshot) TimeDelta() float64 {
	return s.curr.time - s.prev.time
}

func (s *Snapshot) IsKeyDown(key Key) bool {
	if key < 0 || key > KeyLast {
		return false
	}
	return s.curr.keys[key]
}

func (s *Snapshot) IsKeyTap(key Key) bool {
	if key < 0 || key > KeyLast {
		return false
	}
	return s.curr.keys[key] && !s.prev.keys[key]
}

func (s *Snapshot) IsMouseDown(button MouseButton) bool {
	if button < 0 || button > MouseButtonLast {
		return false
	}
	return s.curr.mouseButtons[button]
}

func (s *Snapshot) IsMouseTap(button MouseButton) bool {
	if button < 0 || button > MouseButtonLast {
		return false
	}
	return s.curr.mouseButtons[button] && !s.prev.mouseButtons[button]
}
