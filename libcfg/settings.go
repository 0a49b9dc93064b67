package libcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"learn-gl/libcam"
	"learn-gl/libinput"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

type Settings struct {
	Window     WindowSettings     `toml:"window"`
	Camera     CameraSettings     `toml:"camera"`
	Keys       KeySettings        `toml:"keys"`
	Projection ProjectionSettings `toml:"projection"`
	UI         UISettings         `toml:"ui"`
	Assets     AssetSettings      `toml:"assets"`
}

type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
	Debug  bool   `toml:"debug"`
}

type CameraSettings struct {
	Position       [3]float32 `toml:"position"`
	Pitch          float32    `toml:"pitch"`
	Yaw            float32    `toml:"yaw"`
	Fov            float32    `toml:"fov"`
	Sensitivity    float32    `toml:"sensitivity"`
	Speed          float32    `toml:"speed"`
	InvertVertical bool       `toml:"invert_vertical"`
	GroundLocked   bool       `toml:"ground_locked"`
}

// KeySettings binds the four movement directions to key names, see libinput.ParseKey.
type KeySettings struct {
	Forward  libinput.Key `toml:"forward"`
	Backward libinput.Key `toml:"backward"`
	Left     libinput.Key `toml:"left"`
	Right    libinput.Key `toml:"right"`
}

type ProjectionSettings struct {
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

type UISettings struct {
	ShowMain   bool       `toml:"show_main"`
	ClearColor [4]float32 `toml:"clear_color"`
}

type AssetSettings struct {
	// extra data directories searched before the XDG ones
	DataDirs []string `toml:"data_dirs"`
	Index    string   `toml:"index"`
	Models   []string `toml:"models"`
}

func Default() *Settings {
	bindings := libinput.DefaultBindings()
	return &Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "LearnOpenGL",
			VSync:  true,
		},
		Camera: CameraSettings{
			Position:    [3]float32{1, 1, 6},
			Pitch:       -10,
			Yaw:         -100,
			Fov:         libcam.DefaultFov,
			Sensitivity: libcam.DefaultSensitivity,
			Speed:       libcam.DefaultSpeed,
		},
		Keys: KeySettings{
			Forward:  bindings[libcam.Forward],
			Backward: bindings[libcam.Backward],
			Left:     bindings[libcam.Left],
			Right:    bindings[libcam.Right],
		},
		Projection: ProjectionSettings{Near: 0.1, Far: 100},
		UI: UISettings{
			ShowMain:   false,
			ClearColor: [4]float32{0.3, 0.1, 0, 1},
		},
		Assets: AssetSettings{Index: "index.json"},
	}
}

// Load reads settings from a TOML file. Keys missing from the file keep
// their default values. When the file does not exist the defaults are
// written to it. A failed write is logged and the defaults are still returned.
func Load(filename string) (*Settings, error) {
	settings := Default()
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		if err := settings.Save(filename); err != nil {
			log.Printf("Could not write default settings: %v\n", err)
		}
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read settings %q: %w", filename, err)
	}

	if err := Decode(data, settings); err != nil {
		return nil, fmt.Errorf("could not parse settings %q: %w", filename, err)
	}
	return settings, nil
}

// Decode overlays data on top of settings and validates the result.
func Decode(data []byte, settings *Settings) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		return err
	}
	return settings.Validate()
}

func (s *Settings) Save(filename string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("could not create settings directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("could not write settings %q: %w", filename, err)
	}
	return nil
}

func (s *Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Projection.Near <= 0 || s.Projection.Far <= s.Projection.Near {
		return fmt.Errorf("projection needs 0 < near < far, got near %v far %v", s.Projection.Near, s.Projection.Far)
	}
	if s.Camera.Speed < 0 || s.Camera.Sensitivity < 0 {
		return fmt.Errorf("camera speed and sensitivity must not be negative")
	}
	return nil
}

// ToCamera converts the camera section for libcam.New.
func (s *Settings) ToCamera() libcam.Settings {
	cs := libcam.DefaultSettings()
	cs.Position = mgl32.Vec3(s.Camera.Position)
	cs.Pitch = s.Camera.Pitch
	cs.Yaw = s.Camera.Yaw
	cs.Fov = s.Camera.Fov
	cs.Sensitivity = s.Camera.Sensitivity
	cs.Speed = s.Camera.Speed
	cs.InvertVertical = s.Camera.InvertVertical
	if s.Camera.GroundLocked {
		cs.Movement = libcam.GroundLocked{}
	} else {
		cs.Movement = libcam.FreeFly{}
	}
	return cs
}

func (s *Settings) Bindings() libinput.KeyBindings {
	return libinput.KeyBindings{
		libcam.Forward:  s.Keys.Forward,
		libcam.Backward: s.Keys.Backward,
		libcam.Left:     s.Keys.Left,
		libcam.Right:    s.Keys.Right,
	}
}
