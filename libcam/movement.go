package libcam

import "github.com/go-gl/mathgl/mgl32"

type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

var Directions = [...]Direction{Forward, Backward, Left, Right}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// MovementPolicy selects the vector that Camera.Move translates along.
// Strafing is always derived from it and the world up vector.
type MovementPolicy interface {
	Forward(cam *Camera) mgl32.Vec3
}

// FreeFly moves along the look direction, including its vertical part.
type FreeFly struct{}

func (FreeFly) Forward(cam *Camera) mgl32.Vec3 {
	return cam.Front()
}

// GroundLocked moves along the look direction projected onto the ground plane,
// so movement never changes the height of the camera.
type GroundLocked struct{}

func (GroundLocked) Forward(cam *Camera) mgl32.Vec3 {
	front := cam.Front()
	up := cam.WorldUp().Normalize()
	// not renormalized, looking down slows forward movement
	return front.Sub(up.Mul(front.Dot(up)))
}
