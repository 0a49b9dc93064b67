package libscn_test

import (
	"learn-gl/libscn"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

// approxEqual compares element-wise with an absolute tolerance.
func approxEqual(a, b []float32, threshold float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math32.Abs(a[i]-b[i]) > threshold {
			return false
		}
	}
	return true
}

func approxVec3(a, b mgl32.Vec3, threshold float32) bool {
	return approxEqual(a[:], b[:], threshold)
}

func TestAttenuation(t *testing.T) {
	a := libscn.Attenuation{Constant: 1, Linear: 0.14, Quadratic: 0.07}
	if v := a.At(0); v != 1 {
		t.Errorf("attenuation at 0 should be 1 but was %v", v)
	}
	expected := float32(1 / (1 + 0.14*2 + 0.07*4))
	if v := a.At(2); math32.Abs(v-expected) > epsilon {
		t.Errorf("attenuation at 2 should be %v but was %v", expected, v)
	}
	if v := (libscn.Attenuation{}).At(3); v != 0 {
		t.Errorf("zero attenuation terms should give 0 but gave %v", v)
	}
}

func TestSpotIntensity(t *testing.T) {
	spot := libscn.DefaultLights().Spot
	if spot.CutOff <= spot.OuterCutOff {
		t.Fatalf("inner cutoff cosine %v should exceed outer %v", spot.CutOff, spot.OuterCutOff)
	}
	tests := []struct {
		degrees  float32
		expected float32
	}{
		{0, 1},
		{12.5, 1},
		{15, 0},
		{40, 0},
	}
	for _, test := range tests {
		v := spot.Intensity(libscn.Cutoff(test.degrees))
		if math32.Abs(v-test.expected) > 1e-4 {
			t.Errorf("intensity at %v° should be %v but was %v", test.degrees, test.expected, v)
		}
	}
	mid := spot.Intensity(libscn.Cutoff(13.75))
	if mid <= 0 || mid >= 1 {
		t.Errorf("intensity inside the soft edge should be between 0 and 1 but was %v", mid)
	}
}

func TestDirectionalViewDirection(t *testing.T) {
	light := libscn.DirectionalLight{Direction: mgl32.Vec3{0, -2, 0}}
	view := mgl32.Translate3D(5, 5, 5).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	d := light.ViewDirection(view)
	if !approxVec3(d, mgl32.Vec3{0, -1, 0}, epsilon) {
		t.Errorf("view direction should ignore translation and be normalized, got %v", d)
	}
}

func TestPointViewPosition(t *testing.T) {
	light := libscn.PointLight{Position: mgl32.Vec3{1, 2, 3}}
	p := light.ViewPosition(mgl32.Translate3D(0, 0, -10))
	if !approxVec3(p, mgl32.Vec3{1, 2, -7}, epsilon) {
		t.Errorf("view position should be (1, 2, -7) but was %v", p)
	}
}

func TestTurnOffPoints(t *testing.T) {
	lights := libscn.DefaultLights()
	if len(lights.Points) != 4 {
		t.Fatalf("demo scene should have 4 point lights but has %d", len(lights.Points))
	}
	lights.TurnOffPoints()
	for i, p := range lights.Points {
		if !p.IsOff() {
			t.Errorf("point light %d should be off", i)
		}
		if p.Attenuation.Constant != 1 {
			t.Errorf("turning off point light %d should keep its attenuation", i)
		}
	}
	if lights.PointColor != (mgl32.Vec3{}) {
		t.Errorf("light cube color should be black but is %v", lights.PointColor)
	}
}

func TestCubeModelMatrix(t *testing.T) {
	pos := mgl32.Vec3{2, 5, -15}
	m := libscn.CubeModelMatrix(0, pos, 10)
	if translation := mgl32.Translate3D(2, 5, -15); !approxEqual(m[:], translation[:], epsilon) {
		t.Errorf("the first cube should not rotate, got %v", m)
	}

	m = libscn.CubeModelMatrix(3, pos, 1.5)
	if c := m.Col(3).Vec3(); !approxVec3(c, pos, epsilon) {
		t.Errorf("cube should stay at %v but is at %v", pos, c)
	}
	axis := mgl32.Vec3{1, 0.3, 0.5}.Normalize()
	if rotated := m.Mat3().Mul3x1(axis); !approxVec3(rotated, axis, epsilon) {
		t.Errorf("rotation axis should be fixed but maps to %v", rotated)
	}
	if d := m.Mat3().Det(); math32.Abs(d-1) > 1e-4 {
		t.Errorf("cube rotation should keep volume, determinant %v", d)
	}
}

func TestLightCubeModelMatrix(t *testing.T) {
	m := libscn.LightCubeModelMatrix(mgl32.Vec3{1, 2, 3})
	corner := m.Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Vec3()
	if !approxVec3(corner, mgl32.Vec3{1.1, 2.1, 3.1}, epsilon) {
		t.Errorf("scaled corner should be at (1.1, 2.1, 3.1) but is %v", corner)
	}
}
