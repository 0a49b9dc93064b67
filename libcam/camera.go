package libcam

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultPitch       = float32(0)
	DefaultYaw         = float32(-90)
	DefaultFov         = float32(45)
	DefaultSensitivity = float32(0.05)
	DefaultSpeed       = float32(2.5)

	MinPitch = float32(-89)
	MaxPitch = float32(89)
	MinFov   = float32(1)
	MaxFov   = float32(90)
)

var ErrDegenerateBasis = errors.New("camera front is parallel to the world up vector")

// Settings holds the construction time parameters of a camera.
// Use DefaultSettings to get a value with every field set.
type Settings struct {
	Position mgl32.Vec3
	WorldUp  mgl32.Vec3
	// in degrees
	Pitch, Yaw float32
	// vertical field of view in degrees
	Fov            float32
	Sensitivity    float32
	Speed          float32
	InvertVertical bool
	// defaults to FreeFly when nil
	Movement MovementPolicy
}

func DefaultSettings() Settings {
	return Settings{
		Position:    mgl32.Vec3{0, 0, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       DefaultPitch,
		Yaw:         DefaultYaw,
		Fov:         DefaultFov,
		Sensitivity: DefaultSensitivity,
		Speed:       DefaultSpeed,
		Movement:    FreeFly{},
	}
}

type Camera struct {
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3

	pitch float32
	yaw   float32
	fov   float32

	sensitivity    float32
	speed          float32
	invertVertical bool
	movement       MovementPolicy

	cursorArmed bool
	lastX       float32
	lastY       float32
}

// New creates a camera from the given settings. Pitch and field of view are
// clamped into their valid ranges. A zero up vector, or an up vector parallel to
// the initial front vector, is rejected with ErrDegenerateBasis.
func New(s Settings) (*Camera, error) {
	if s.WorldUp.LenSqr() == 0 {
		return nil, ErrDegenerateBasis
	}
	if s.Movement == nil {
		s.Movement = FreeFly{}
	}
	cam := &Camera{
		position:       s.Position,
		worldUp:        s.WorldUp,
		pitch:          mgl32.Clamp(s.Pitch, MinPitch, MaxPitch),
		yaw:            s.Yaw,
		fov:            mgl32.Clamp(s.Fov, MinFov, MaxFov),
		sensitivity:    s.Sensitivity,
		speed:          s.Speed,
		invertVertical: s.InvertVertical,
		movement:       s.Movement,
	}
	cam.front = frontFromAngles(cam.pitch, cam.yaw)
	if cam.front.Cross(cam.worldUp.Normalize()).LenSqr() < 1e-12 {
		return nil, ErrDegenerateBasis
	}
	return cam, nil
}

// ViewMatrix returns the world to view space transform. It has no side effects.
func (cam *Camera) ViewMatrix() mgl32.Mat4 {
	return LookAt(cam.position, cam.position.Add(cam.front), cam.worldUp)
}

// LookAt builds a right handed view matrix looking from eye towards target.
// The result is undefined (NaN) when target-eye is parallel to worldUp.
func LookAt(eye, target, worldUp mgl32.Vec3) mgl32.Mat4 {
	// points away from the target, the view space looks down -Z
	forward := eye.Sub(target).Normalize()
	right := worldUp.Normalize().Cross(forward).Normalize()
	up := forward.Cross(right).Normalize()

	// rows are right, up and forward; mgl32 is column major
	rotation := mgl32.Mat4{
		right[0], up[0], forward[0], 0,
		right[1], up[1], forward[1], 0,
		right[2], up[2], forward[2], 0,
		0, 0, 0, 1,
	}
	translation := mgl32.Translate3D(-eye[0], -eye[1], -eye[2])

	return rotation.Mul4(translation)
}

// Rotate consumes an absolute cursor position. The first sample after
// construction or ResetCursor only establishes the baseline.
func (cam *Camera) Rotate(cursorX, cursorY float32) {
	if !cam.cursorArmed {
		cam.lastX = cursorX
		cam.lastY = cursorY
		cam.cursorArmed = true
		return
	}

	dx := (cursorX - cam.lastX) * cam.sensitivity
	dy := (cursorY - cam.lastY) * cam.sensitivity
	cam.lastX = cursorX
	cam.lastY = cursorY

	// screen space y grows downwards
	if !cam.invertVertical {
		dy = -dy
	}

	cam.yaw += dx
	cam.pitch = mgl32.Clamp(cam.pitch+dy, MinPitch, MaxPitch)
	cam.front = frontFromAngles(cam.pitch, cam.yaw)
}

// ResetCursor re-arms the first sample latch so the next Rotate call does
// not produce a jump. Call it whenever the cursor is warped or recaptured.
func (cam *Camera) ResetCursor() {
	cam.cursorArmed = false
}

func (cam *Camera) Zoom(delta float32) {
	cam.fov = mgl32.Clamp(cam.fov+delta, MinFov, MaxFov)
}

// Move translates the camera along the forward vector chosen by its
// movement policy, scaled by speed and elapsed seconds.
func (cam *Camera) Move(dir Direction, elapsed float32) {
	forward := cam.movement.Forward(cam)
	velocity := cam.speed * elapsed

	switch dir {
	case Forward:
		cam.position = cam.position.Add(forward.Mul(velocity))
	case Backward:
		cam.position = cam.position.Sub(forward.Mul(velocity))
	case Left:
		cam.position = cam.position.Sub(cam.strafeVector(forward).Mul(velocity))
	case Right:
		cam.position = cam.position.Add(cam.strafeVector(forward).Mul(velocity))
	}
}

// normalized so strafing speed does not depend on pitch
func (cam *Camera) strafeVector(forward mgl32.Vec3) mgl32.Vec3 {
	return forward.Cross(cam.worldUp).Normalize()
}

func (cam *Camera) Position() mgl32.Vec3 {
	return cam.position
}

func (cam *Camera) Front() mgl32.Vec3 {
	return cam.front
}

func (cam *Camera) WorldUp() mgl32.Vec3 {
	return cam.worldUp
}

func (cam *Camera) Pitch() float32 {
	return cam.pitch
}

func (cam *Camera) Yaw() float32 {
	return cam.yaw
}

// FieldOfView returns the vertical field of view in degrees.
func (cam *Camera) FieldOfView() float32 {
	return cam.fov
}

func (cam *Camera) Sensitivity() float32 {
	return cam.sensitivity
}

func (cam *Camera) Speed() float32 {
	return cam.speed
}

func (cam *Camera) InvertVertical() bool {
	return cam.invertVertical
}

func (cam *Camera) Movement() MovementPolicy {
	return cam.movement
}

func frontFromAngles(pitch, yaw float32) mgl32.Vec3 {
	p, y := mgl32.DegToRad(pitch), mgl32.DegToRad(yaw)
	direction := mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}
	return direction.Normalize()
}
