package libscn

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type LightColor struct {
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

func (c *LightColor) TurnOff() {
	*c = LightColor{}
}

func (c LightColor) IsOff() bool {
	return c == LightColor{}
}

// Attenuation is the constant, linear and quadratic falloff of a positional light.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// At returns the attenuation factor at distance d.
func (a Attenuation) At(d float32) float32 {
	denom := a.Constant + a.Linear*d + a.Quadratic*d*d
	if denom <= 0 {
		return 0
	}
	return 1 / denom
}

// DirectionalLight shines along Direction, given in world space.
type DirectionalLight struct {
	Direction mgl32.Vec3
	LightColor
}

// ViewDirection transforms the light direction into view space.
func (l DirectionalLight) ViewDirection(view mgl32.Mat4) mgl32.Vec3 {
	d := view.Mul4x1(l.Direction.Vec4(0)).Vec3()
	if d.LenSqr() == 0 {
		return d
	}
	return d.Normalize()
}

type PointLight struct {
	Position mgl32.Vec3
	LightColor
	Attenuation
}

func (l PointLight) ViewPosition(view mgl32.Mat4) mgl32.Vec3 {
	return view.Mul4x1(l.Position.Vec4(1)).Vec3()
}

// SpotLight is defined in view space, a flashlight sits at the origin and
// points down -Z. Cutoffs are stored as cosines.
type SpotLight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	LightColor
	Attenuation
	CutOff      float32
	OuterCutOff float32
}

// Cutoff converts a cone half angle in degrees into the cosine the shader compares against.
func Cutoff(degrees float32) float32 {
	return math32.Cos(mgl32.DegToRad(degrees))
}

// Intensity is the soft edge factor for a fragment whose direction has
// cosine theta to the spot direction.
func (l SpotLight) Intensity(theta float32) float32 {
	epsilon := l.CutOff - l.OuterCutOff
	if epsilon <= 0 {
		if theta >= l.CutOff {
			return 1
		}
		return 0
	}
	return mgl32.Clamp((theta-l.OuterCutOff)/epsilon, 0, 1)
}

// Lights is the full light setup of the demo scene.
type Lights struct {
	Directional DirectionalLight
	Points      []PointLight
	Spot        SpotLight
	// Color of the light cube meshes
	PointColor mgl32.Vec3
}

var DemoPointLightPositions = []mgl32.Vec3{
	{0.7, 0.2, 2.0},
	{2.3, -3.3, -4.0},
	{-4.0, 2.0, -12.0},
	{0.0, 0.0, -3.0},
}

func DefaultLights() Lights {
	lights := Lights{
		Directional: DirectionalLight{
			Direction: mgl32.Vec3{-0.2, -1.0, -0.3},
			LightColor: LightColor{
				Ambient:  mgl32.Vec3{0.02, 0.02, 0.02},
				Diffuse:  mgl32.Vec3{0.08, 0.08, 0.08},
				Specular: mgl32.Vec3{0.3, 0.3, 0.3},
			},
		},
		Spot: SpotLight{
			Direction: mgl32.Vec3{0, 0, -1},
			LightColor: LightColor{
				Diffuse:  mgl32.Vec3{1, 1, 1},
				Specular: mgl32.Vec3{1, 1, 1},
			},
			Attenuation: Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032},
			CutOff:      Cutoff(12.5),
			OuterCutOff: Cutoff(15),
		},
		PointColor: mgl32.Vec3{0.2, 0.05, 0},
	}
	for _, pos := range DemoPointLightPositions {
		lights.Points = append(lights.Points, PointLight{
			Position: pos,
			LightColor: LightColor{
				Ambient:  mgl32.Vec3{0.03, 0.008, 0},
				Diffuse:  mgl32.Vec3{0.2, 0.05, 0},
				Specular: mgl32.Vec3{1, 1, 1},
			},
			Attenuation: Attenuation{Constant: 1, Linear: 0.14, Quadratic: 0.07},
		})
	}
	return lights
}

// TurnOffPoints zeroes the colors of every point light and their cubes.
func (l *Lights) TurnOffPoints() {
	for i := range l.Points {
		l.Points[i].TurnOff()
	}
	l.PointColor = mgl32.Vec3{}
}
