package libutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Dirs resolves data and config files for a named project. Data is looked
// up in the explicit directories first, then the XDG data directories, then
// share/<project> next to and above the working directory. Config files are
// looked up in the user config directory before the system ones.
type Dirs struct {
	Project string
	// searched before anything else, may contain ~
	Extra []string
}

func NewDirs(project string, extra ...string) *Dirs {
	return &Dirs{Project: project, Extra: extra}
}

func xdgList(env string, fallback string) []string {
	value := os.Getenv(env)
	if value == "" {
		value = fallback
	}
	var dirs []string
	for _, dir := range strings.Split(value, string(os.PathListSeparator)) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func xdgHome(env string, fallback string) string {
	if value := os.Getenv(env); value != "" {
		return value
	}
	dir, err := homedir.Expand(fallback)
	if err != nil {
		return ""
	}
	return dir
}

// DataDirs lists the candidate data directories in search order.
func (d *Dirs) DataDirs() []string {
	var dirs []string
	for _, dir := range d.Extra {
		if expanded, err := homedir.Expand(dir); err == nil {
			dirs = append(dirs, expanded)
		}
	}
	if home := xdgHome("XDG_DATA_HOME", "~/.local/share"); home != "" {
		dirs = append(dirs, filepath.Join(home, d.Project))
	}
	for _, dir := range xdgList("XDG_DATA_DIRS", "/usr/local/share:/usr/share") {
		dirs = append(dirs, filepath.Join(dir, d.Project))
	}
	dirs = append(dirs, filepath.Join("share", d.Project), filepath.Join("..", "share", d.Project))
	return dirs
}

// ConfigDirs lists the candidate config directories in search order.
func (d *Dirs) ConfigDirs() []string {
	var dirs []string
	if home := xdgHome("XDG_CONFIG_HOME", "~/.config"); home != "" {
		dirs = append(dirs, filepath.Join(home, d.Project))
	}
	for _, dir := range xdgList("XDG_CONFIG_DIRS", "/etc/xdg") {
		dirs = append(dirs, filepath.Join(dir, d.Project))
	}
	return dirs
}

// LocateData returns the first existing path for name in the data directories.
func (d *Dirs) LocateData(name string) (string, error) {
	return locate(d.DataDirs(), name)
}

// LocateConfig returns the first existing config file. When none exists and
// suggest is set, the user config directory is created and the path inside
// it is returned, so the caller can write defaults there.
func (d *Dirs) LocateConfig(name string, suggest bool) (string, error) {
	dirs := d.ConfigDirs()
	found, err := locate(dirs, name)
	if err == nil || !suggest || !errors.Is(err, fs.ErrNotExist) {
		return found, err
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no config directory for %q", d.Project)
	}
	if err := os.MkdirAll(dirs[0], 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return filepath.Join(dirs[0], name), nil
}

func locate(dirs []string, name string) (string, error) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not locate %q in %v: %w", name, dirs, fs.ErrNotExist)
}
