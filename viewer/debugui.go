package main

import (
	"fmt"
	"learn-gl/libcam"
	"learn-gl/libinput"
	"learn-gl/libscn"
	"learn-gl/libutil"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"
)

// DebugUi is the overlay toggled with Escape.
type DebugUi struct {
	ShowMain bool
	ShowDemo bool
	Quit     bool

	// hue of the point lights, lightness and saturation stay fixed
	pointHue    float32
	frameTimes  [120]float32
	frameIndex  int
	defaults    libscn.Lights
	shininessOn bool
}

func NewDebugUi(showMain bool) *DebugUi {
	return &DebugUi{
		ShowMain: showMain,
		pointHue: 15. / 360.,
		defaults: libscn.DefaultLights(),
	}
}

// Visible reports whether any window is open, the cursor is released then.
func (ui *DebugUi) Visible() bool {
	return ui.ShowMain || ui.ShowDemo
}

func (ui *DebugUi) Toggle() {
	ui.ShowMain = !ui.ShowMain
}

func (ui *DebugUi) recordFrame(elapsed float32) (avgMs, fps float32) {
	ui.frameTimes[ui.frameIndex%len(ui.frameTimes)] = elapsed
	ui.frameIndex++
	n := min(ui.frameIndex, len(ui.frameTimes))
	var sum float32
	for _, t := range ui.frameTimes[:n] {
		sum += t
	}
	if sum <= 0 {
		return 0, 0
	}
	return sum / float32(n) * 1000, float32(n) / sum
}

func (ui *DebugUi) Layout(r *Renderer, frame *libinput.FrameContext, captured bool) {
	avgMs, fps := ui.recordFrame(frame.Elapsed)
	cam := frame.Camera

	if ui.ShowDemo {
		im.ShowDemoWindow(&ui.ShowDemo)
	}
	if !ui.ShowMain {
		return
	}

	if !im.BeginV("Learn OpenGL", &ui.ShowMain, im.WindowFlagsAlwaysAutoResize) {
		im.End()
		return
	}
	im.Text("Press Escape to toggle this window. Right click opens it.")
	im.ColorEdit4("Clear color", &r.ClearColor)
	im.Checkbox("Demo window", &ui.ShowDemo)
	im.SameLine()
	im.Checkbox("Wireframe", &r.Wireframe)

	if im.CollapsingHeader("Camera") {
		pos := cam.Position()
		front := cam.Front()
		im.Text(fmt.Sprintf("Position %.2f %.2f %.2f", pos.X(), pos.Y(), pos.Z()))
		im.Text(fmt.Sprintf("Front    %.2f %.2f %.2f", front.X(), front.Y(), front.Z()))
		im.Text(fmt.Sprintf("Pitch %.1f  Yaw %.1f  Fov %.1f", cam.Pitch(), cam.Yaw(), cam.FieldOfView()))
		mode := "free fly"
		if _, ok := cam.Movement().(libcam.GroundLocked); ok {
			mode = "ground locked"
		}
		im.Text("Movement: " + mode)
	}

	if im.CollapsingHeader("Input") {
		layoutInput(frame.Input, captured)
	}

	if im.CollapsingHeader("Material") {
		im.Checkbox("Override shininess", &ui.shininessOn)
		if ui.shininessOn {
			if r.Shininess <= 0 {
				r.Shininess = libscn.DefaultShininess
			}
			im.SliderFloatV("Shininess", &r.Shininess, 1, 128, "%.1f", im.SliderFlagsLogarithmic)
		} else {
			r.Shininess = 0
		}
	}

	ui.directionalLight(&r.Lights.Directional)
	ui.pointLights(&r.Lights)
	ui.spotLight(&r.Lights.Spot)

	if im.Button("Quit") {
		ui.Quit = true
	}
	im.Text(fmt.Sprintf("Application average %.3f ms/frame (%.1f FPS)", avgMs, fps))
	im.End()
}

func lightColorEdit(c *libscn.LightColor) {
	im.ColorEdit3V("Ambient", (*[3]float32)(&c.Ambient), im.ColorEditFlagsFloat)
	im.ColorEdit3V("Diffuse", (*[3]float32)(&c.Diffuse), im.ColorEditFlagsFloat)
	im.ColorEdit3V("Specular", (*[3]float32)(&c.Specular), im.ColorEditFlagsFloat)
}

func attenuationEdit(a *libscn.Attenuation) {
	im.DragFloatV("Constant", &a.Constant, 0.01, 0, 10, "%.3f", im.SliderFlagsNone)
	im.DragFloatV("Linear", &a.Linear, 0.001, 0, 2, "%.4f", im.SliderFlagsNone)
	im.DragFloatV("Quadratic", &a.Quadratic, 0.001, 0, 2, "%.4f", im.SliderFlagsNone)
}

func (ui *DebugUi) directionalLight(light *libscn.DirectionalLight) {
	if !im.CollapsingHeader("Directional light") {
		return
	}
	im.PushID("directional")
	defer im.PopID()

	if im.Button("Turn off") {
		light.TurnOff()
	}
	im.SameLine()
	if im.Button("Reset") {
		light.LightColor = ui.defaults.Directional.LightColor
	}
	im.DragFloat3V("Direction (world)", (*[3]float32)(&light.Direction), 0.01, -1, 1, "%.2f", im.SliderFlagsNone)
	lightColorEdit(&light.LightColor)
}

func (ui *DebugUi) pointLights(lights *libscn.Lights) {
	if !im.CollapsingHeader("Point lights") {
		return
	}
	im.PushID("point")
	defer im.PopID()

	if im.Button("Turn off") {
		lights.TurnOffPoints()
	}
	im.SameLine()
	if im.Button("Reset") {
		for i := range lights.Points {
			lights.Points[i].LightColor = ui.defaults.Points[i].LightColor
		}
		lights.PointColor = ui.defaults.PointColor
	}
	if im.SliderFloatV("Hue", &ui.pointHue, 0, 1, "%.3f", im.SliderFlagsNone) {
		color := libutil.Hsl2rgb(mgl32.Vec3{ui.pointHue, 1, 0.1})
		lights.PointColor = color
		for i := range lights.Points {
			lights.Points[i].Diffuse = color
			lights.Points[i].Ambient = color.Mul(0.15)
		}
	}
	im.ColorEdit3V("Cube color", (*[3]float32)(&lights.PointColor), im.ColorEditFlagsFloat)

	for i := range lights.Points {
		p := &lights.Points[i]
		if im.TreeNodef("Light %d", i+1) {
			im.DragFloat3V("Position", (*[3]float32)(&p.Position), 0.05, -20, 20, "%.2f", im.SliderFlagsNone)
			lightColorEdit(&p.LightColor)
			attenuationEdit(&p.Attenuation)
			im.TreePop()
		}
	}
}

func (ui *DebugUi) spotLight(light *libscn.SpotLight) {
	if !im.CollapsingHeader("Spotlight") {
		return
	}
	im.PushID("spot")
	defer im.PopID()

	if im.Button("Turn off") {
		light.TurnOff()
	}
	im.SameLine()
	if im.Button("Reset") {
		*light = ui.defaults.Spot
	}
	im.Text(fmt.Sprintf("Position (view) %.1f %.1f %.1f", light.Position.X(), light.Position.Y(), light.Position.Z()))
	im.Text(fmt.Sprintf("Direction (view) %.1f %.1f %.1f", light.Direction.X(), light.Direction.Y(), light.Direction.Z()))
	lightColorEdit(&light.LightColor)
	attenuationEdit(&light.Attenuation)

	inner := mgl32.RadToDeg(math32.Acos(light.CutOff))
	outer := mgl32.RadToDeg(math32.Acos(light.OuterCutOff))
	if im.SliderFloatV("Cutoff", &inner, 0, 89, "%.1f°", im.SliderFlagsNone) {
		light.CutOff = libscn.Cutoff(inner)
	}
	if im.SliderFloatV("Outer cutoff", &outer, 0, 89, "%.1f°", im.SliderFlagsNone) {
		light.OuterCutOff = libscn.Cutoff(outer)
	}
}

func layoutInput(input *libinput.Snapshot, captured bool) {
	cursor := input.CursorPos()
	delta := input.CursorDelta()
	im.Text(fmt.Sprintf("Cursor %.0f %.0f (delta %.0f %.0f)", cursor.X(), cursor.Y(), delta.X(), delta.Y()))
	im.Text(fmt.Sprintf("Captured: %v", captured))
	buttons := ""
	for _, b := range []struct {
		name   string
		button libinput.MouseButton
	}{
		{"left", libinput.MouseButtonLeft},
		{"right", libinput.MouseButtonRight},
		{"middle", libinput.MouseButtonMiddle},
	} {
		if input.IsMouseDown(b.button) {
			buttons += " " + b.name
		}
	}
	im.Text("Mouse buttons:" + buttons)
	im.Text(fmt.Sprintf("Input time delta %.3f ms", input.TimeDelta()*1000))
}
