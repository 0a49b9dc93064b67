package libcam_test

import (
	"learn-gl/libcam"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}
}

func TestFreeFlyFollowsFront(t *testing.T) {
	cam := newCamera(t, func(s *libcam.Settings) { s.Pitch = 30 })
	front := cam.Front()
	cam.Move(libcam.Forward, 2)

	expected := front.Mul(libcam.DefaultSpeed * 2)
	if !approxVec3(cam.Position(), expected) {
		t.Errorf("position should be %v but is %v", expected, cam.Position())
	}

	cam.Move(libcam.Backward, 2)
	if !approxVec3(cam.Position(), mgl32.Vec3{}) {
		t.Errorf("moving back should return to the origin but position is %v", cam.Position())
	}
}

func TestGroundLockKeepsHeight(t *testing.T) {
	start := mgl32.Vec3{1, 1.7, -3}
	cam := newCamera(t, func(s *libcam.Settings) {
		s.Position = start
		s.Pitch = 45
		s.Movement = libcam.GroundLocked{}
	})

	cam.Move(libcam.Forward, 1.0)

	if cam.Position().Y() != start.Y() {
		t.Errorf("height should stay %v but is %v", start.Y(), cam.Position().Y())
	}

	displacement := horizontal(cam.Position().Sub(start)).Len()
	expected := libcam.DefaultSpeed * math32.Cos(mgl32.DegToRad(45))
	if math.Abs(float64(displacement-expected)) > epsilon {
		t.Errorf("horizontal displacement should be %v but is %v", expected, displacement)
	}

	for _, dir := range libcam.Directions {
		cam.Move(dir, 0.3)
		if cam.Position().Y() != start.Y() {
			t.Errorf("moving %v changed height to %v", dir, cam.Position().Y())
		}
	}
}

func TestStrafeIsIndependentOfPitch(t *testing.T) {
	level := newCamera(t, func(s *libcam.Settings) { s.Pitch = 0 })
	tilted := newCamera(t, func(s *libcam.Settings) { s.Pitch = 70 })

	level.Move(libcam.Right, 0.25)
	tilted.Move(libcam.Right, 0.25)

	a := horizontal(level.Position()).Len()
	b := horizontal(tilted.Position()).Len()
	if math.Abs(float64(a-b)) > epsilon {
		t.Errorf("strafe distance depends on pitch: %v vs %v", a, b)
	}
	if math.Abs(float64(a-libcam.DefaultSpeed*0.25)) > epsilon {
		t.Errorf("strafe distance should be %v but is %v", libcam.DefaultSpeed*0.25, a)
	}
}

func TestMovementSuperposition(t *testing.T) {
	settings := func(s *libcam.Settings) {
		s.Pitch = -20
		s.Yaw = -60
		s.Speed = 2.5
	}
	forward := newCamera(t, settings)
	right := newCamera(t, settings)
	both := newCamera(t, settings)

	forward.Move(libcam.Forward, 0.5)
	right.Move(libcam.Right, 0.5)
	both.Move(libcam.Forward, 0.5)
	both.Move(libcam.Right, 0.5)

	expected := forward.Position().Add(right.Position())
	if !approxVec3(both.Position(), expected) {
		t.Errorf("combined displacement should be %v but is %v", expected, both.Position())
	}
}

func TestLeftOpposesRight(t *testing.T) {
	cam := newCamera(t, nil)
	cam.Move(libcam.Left, 1)
	if !approxVec3(cam.Position(), mgl32.Vec3{-libcam.DefaultSpeed, 0, 0}) {
		t.Errorf("default camera should strafe left along -X but is at %v", cam.Position())
	}
	cam.Move(libcam.Right, 1)
	if !approxVec3(cam.Position(), mgl32.Vec3{}) {
		t.Errorf("strafing right should undo left but position is %v", cam.Position())
	}
}

func TestDirectionString(t *testing.T) {
	names := map[libcam.Direction]string{
		libcam.Forward:  "forward",
		libcam.Backward: "backward",
		libcam.Left:     "left",
		libcam.Right:    "right",
	}
	for dir, name := range names {
		if dir.String() != name {
			t.Errorf("expected %q but got %q", name, dir.String())
		}
	}
}
