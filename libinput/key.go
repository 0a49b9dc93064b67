package libinput

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Key uses the same values as glfw.Key so window adapters can convert directly.
type Key int

const (
	KeyUnknown      Key = -1
	KeySpace        Key = 32
	KeyApostrophe   Key = 39
	KeyComma        Key = 44
	KeyMinus        Key = 45
	KeyPeriod       Key = 46
	KeySlash        Key = 47
	Key0            Key = 48
	Key1            Key = 49
	Key2            Key = 50
	Key3            Key = 51
	Key4            Key = 52
	Key5            Key = 53
	Key6            Key = 54
	Key7            Key = 55
	Key8            Key = 56
	Key9            Key = 57
	KeySemicolon    Key = 59
	KeyEqual        Key = 61
	KeyA            Key = 65
	KeyB            Key = 66
	KeyC            Key = 67
	KeyD            Key = 68
	KeyE            Key = 69
	KeyF            Key = 70
	KeyG            Key = 71
	KeyH            Key = 72
	KeyI            Key = 73
	KeyJ            Key = 74
	KeyK            Key = 75
	KeyL            Key = 76
	KeyM            Key = 77
	KeyN            Key = 78
	KeyO            Key = 79
	KeyP            Key = 80
	KeyQ            Key = 81
	KeyR            Key = 82
	KeyS            Key = 83
	KeyT            Key = 84
	KeyU            Key = 85
	KeyV            Key = 86
	KeyW            Key = 87
	KeyX            Key = 88
	KeyY            Key = 89
	KeyZ            Key = 90
	KeyLeftBracket  Key = 91
	KeyBackslash    Key = 92
	KeyRightBracket Key = 93
	KeyGraveAccent  Key = 96
	KeyEscape       Key = 256
	KeyEnter        Key = 257
	KeyTab          Key = 258
	KeyBackspace    Key = 259
	KeyInsert       Key = 260
	KeyDelete       Key = 261
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
	KeyPageUp       Key = 266
	KeyPageDown     Key = 267
	KeyHome         Key = 268
	KeyEnd          Key = 269
	KeyF1           Key = 290
	KeyF2           Key = 291
	KeyF3           Key = 292
	KeyF4           Key = 293
	KeyF5           Key = 294
	KeyF6           Key = 295
	KeyF7           Key = 296
	KeyF8           Key = 297
	KeyF9           Key = 298
	KeyF10          Key = 299
	KeyF11          Key = 300
	KeyF12          Key = 301
	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyLeftAlt      Key = 342
	KeyLeftSuper    Key = 343
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyRightAlt     Key = 346
	KeyRightSuper   Key = 347
	KeyLast             = KeyRightSuper
)

type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
	MouseButtonLast   MouseButton = 7
)

var keyNames = map[string]Key{
	"space":         KeySpace,
	"apostrophe":    KeyApostrophe,
	"comma":         KeyComma,
	"minus":         KeyMinus,
	"period":        KeyPeriod,
	"slash":         KeySlash,
	"semicolon":     KeySemicolon,
	"equal":         KeyEqual,
	"left_bracket":  KeyLeftBracket,
	"backslash":     KeyBackslash,
	"right_bracket": KeyRightBracket,
	"grave_accent":  KeyGraveAccent,
	"escape":        KeyEscape,
	"enter":         KeyEnter,
	"tab":           KeyTab,
	"backspace":     KeyBackspace,
	"insert":        KeyInsert,
	"delete":        KeyDelete,
	"right":         KeyRight,
	"left":          KeyLeft,
	"down":          KeyDown,
	"up":            KeyUp,
	"page_up":       KeyPageUp,
	"page_down":     KeyPageDown,
	"home":          KeyHome,
	"end":           KeyEnd,
	"left_shift":    KeyLeftShift,
	"left_control":  KeyLeftControl,
	"left_alt":      KeyLeftAlt,
	"left_super":    KeyLeftSuper,
	"right_shift":   KeyRightShift,
	"right_control": KeyRightControl,
	"right_alt":     KeyRightAlt,
	"right_super":   KeyRightSuper,
}

var keyLabels = map[Key]string{}

func init() {
	for k := Key0; k <= Key9; k++ {
		keyNames[string(rune('0'+k-Key0))] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[string(rune('a'+k-KeyA))] = k
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[fmt.Sprintf("f%d", k-KeyF1+1)] = k
	}
	for name, key := range keyNames {
		keyLabels[key] = name
	}
}

// ParseKey resolves a key name such as "w", "escape" or "left_shift".
// Names are case-insensitive.
func ParseKey(name string) (Key, error) {
	key, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyUnknown, fmt.Errorf("unknown key name %q", name)
	}
	return key, nil
}

// KeyNames returns every name accepted by ParseKey in sorted order.
func KeyNames() []string {
	names := maps.Keys(keyNames)
	slices.Sort(names)
	return names
}

func (k Key) String() string {
	if label, ok := keyLabels[k]; ok {
		return label
	}
	return fmt.Sprintf("key(%d)", int(k))
}

func (k Key) MarshalText() ([]byte, error) {
	if _, ok := keyLabels[k]; !ok {
		return nil, fmt.Errorf("key %d has no name", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	key, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = key
	return nil
}
