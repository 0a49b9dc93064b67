package libscn

import (
	"github.com/go-gl/mathgl/mgl32"
)

var DemoCubePositions = []mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}

var cubeSpinAxis = mgl32.Vec3{1.0, 0.3, 0.5}.Normalize()

// LightCubeScale is the uniform scale of the cubes drawn at point lights.
const LightCubeScale = 0.2

// CubeModelMatrix places the i-th demo cube, spinning 20 degrees per second
// more than the previous one.
func CubeModelMatrix(i int, pos mgl32.Vec3, time float32) mgl32.Mat4 {
	angle := time * mgl32.DegToRad(20*float32(i))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.HomogRotate3D(angle, cubeSpinAxis))
}

func LightCubeModelMatrix(pos mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(LightCubeScale, LightCubeScale, LightCubeScale))
}

// EmissionOffset scrolls the emission map downwards over time.
func EmissionOffset(time float32) float32 {
	return -time / 5
}

// NormalMatrix is the inverse transpose of the upper 3x3 of the model view matrix.
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}
