package main

import (
	"errors"
	"flag"
	"io/fs"
	"learn-gl/libcam"
	"learn-gl/libcfg"
	"learn-gl/libgl"
	"learn-gl/libinput"
	"learn-gl/libscn"
	"learn-gl/libutil"
	"learn-gl/libwin"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const projectName = "learn-gl"

var Arguments struct {
	ConfigFile                 string
	DataDir                    string
	ShaderDir                  string
	EnableCompatibilityProfile bool
	DisableShaderCache         bool
	GroundLocked               bool
}

func main() {
	flag.StringVar(&Arguments.ConfigFile, "config", "", "settings file, defaults to the user config directory")
	flag.StringVar(&Arguments.DataDir, "data", "", "directory searched for assets before the default locations")
	flag.StringVar(&Arguments.ShaderDir, "shader-dir", "", "load shaders from this directory and reload them on change")
	flag.BoolVar(&Arguments.EnableCompatibilityProfile, "enable-compatibility-profile", Arguments.EnableCompatibilityProfile, "")
	flag.BoolVar(&Arguments.DisableShaderCache, "disable-shader-cache", Arguments.DisableShaderCache, "always compile shaders from source")
	flag.BoolVar(&Arguments.GroundLocked, "ground-locked", Arguments.GroundLocked, "keep the camera at its initial height")
	flag.Parse()

	var extraDirs []string
	if Arguments.DataDir != "" {
		extraDirs = append(extraDirs, Arguments.DataDir)
	}
	dirs := libutil.NewDirs(projectName, extraDirs...)

	configFile := Arguments.ConfigFile
	if configFile == "" {
		var err error
		configFile, err = dirs.LocateConfig("settings.toml", true)
		check(err)
	}
	settings, err := libcfg.Load(configFile)
	check(err)
	log.Printf("Using settings %v\n", configFile)
	if Arguments.GroundLocked {
		settings.Camera.GroundLocked = true
	}
	dirs.Extra = append(dirs.Extra, settings.Assets.DataDirs...)

	win, err := libwin.Open(libwin.Config{
		Width:         settings.Window.Width,
		Height:        settings.Window.Height,
		Title:         settings.Window.Title,
		Compatibility: Arguments.EnableCompatibilityProfile,
		Debug:         settings.Window.Debug,
		VSync:         settings.Window.VSync,
	})
	check(err)
	defer win.Destroy()

	libgl.State = libgl.NewStateManager()
	env := libgl.GetEnvironment()
	log.Printf("OpenGL %v on %v (%v)\n", env.Version, env.Renderer, env.Vendor)
	if settings.Window.Debug {
		libgl.EnableDebugOutput(false)
	}
	if !Arguments.DisableShaderCache {
		setupShaderCache(env)
	}

	var watcher *libutil.Watcher
	if Arguments.ShaderDir != "" {
		watcher, err = libutil.NewWatcher(100 * time.Millisecond)
		check(err)
		defer watcher.Close()
	}
	shaders, err := NewShaderLibrary(Arguments.ShaderDir, watcher)
	check(err)

	imguiShader, err := shaders.Load("imgui", nil)
	check(err)
	gui := NewImGui(win, imguiShader)
	defer gui.Delete()

	renderer, err := NewRenderer(shaders)
	check(err)
	defer renderer.Delete()
	renderer.ClearColor = settings.UI.ClearColor
	loadAssets(dirs, settings, renderer)

	cam, err := libcam.New(settings.ToCamera())
	check(err)

	fbWidth, fbHeight := win.FramebufferSize()
	frame := libinput.NewFrameContext(cam, settings.Bindings(), win, fbWidth, fbHeight, settings.Projection.Near, settings.Projection.Far)
	ui := NewDebugUi(settings.UI.ShowMain)

	for !win.ShouldClose() {
		events := win.Poll()
		gui.Feed(events)

		frame.PointerBlocked = ui.Visible() || gui.WantCaptureMouse()
		frame.Update(events)
		if frame.Input.IsKeyTap(libinput.KeyEscape) {
			ui.Toggle()
		} else if !ui.Visible() && frame.Input.IsMouseTap(libinput.MouseButtonRight) {
			ui.Toggle()
		}
		win.CaptureCursor(!ui.Visible())

		shaders.Reload()
		renderer.Draw(frame, float32(win.Now()))

		gui.NewFrame()
		ui.Layout(renderer, frame, win.CursorCaptured())
		gui.Draw()
		if ui.Quit {
			win.Close()
		}

		win.SwapBuffers()
	}
}

func setupShaderCache(env libgl.Environment) {
	dir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("Shader cache disabled: %v\n", err)
		return
	}
	dir = filepath.Join(dir, projectName, "shaders")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Shader cache disabled: %v\n", err)
		return
	}
	libgl.Cache = libgl.NewShaderCache(dir, env)
}

// loadAssets loads the crate material and the configured models from the
// asset pack. Without a pack the demo scene uses plain colored crates.
func loadAssets(dirs *libutil.Dirs, settings *libcfg.Settings, renderer *Renderer) {
	indexFile, err := dirs.LocateData(settings.Assets.Index)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No asset pack found: %v\n", err)
		return
	}
	check(err)

	pack := &libscn.DirPack{}
	check(pack.AddIndexFile(indexFile))
	log.Printf("Using asset pack %v with %d models\n", indexFile, len(pack.Models()))

	if _, ok := pack.MaterialIndex["container"]; ok {
		material, err := pack.LoadMaterial("container")
		if err != nil {
			log.Printf("Could not load the crate material: %v\n", err)
		} else {
			renderer.SetCrateMaterial(material)
		}
	}

	for i, name := range settings.Assets.Models {
		model, err := pack.LoadModel(name)
		if err != nil {
			log.Printf("Skipping model %q: %v\n", name, err)
			continue
		}
		// models are lined up below the crates
		renderer.AddModel(model, mgl32.Translate3D(float32(i)*3, -4, -6))
	}
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
