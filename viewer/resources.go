package main

import (
	"embed"
	"fmt"
	"io/fs"
	"learn-gl/libgl"
	"learn-gl/libutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

//go:embed assets/shaders/*.vert assets/shaders/*.frag
var Res_Shaders embed.FS

var shaderStages = map[string]int{
	".vert": gl.VERTEX_SHADER,
	".frag": gl.FRAGMENT_SHADER,
}

type shaderEntry struct {
	pipeline libgl.UnboundShaderPipeline
	stage    int
	program  libgl.ShaderProgram
	defs     map[string]string
}

// ShaderLibrary loads shader pipelines by name, either from the embedded
// sources or from a directory on disk. Sources on disk are watched and
// recompiled when they change.
type ShaderLibrary struct {
	src     fs.FS
	dir     string
	watcher *libutil.Watcher
	// by absolute file path
	entries map[string]*shaderEntry
}

func NewShaderLibrary(dir string, watcher *libutil.Watcher) (*ShaderLibrary, error) {
	lib := &ShaderLibrary{entries: map[string]*shaderEntry{}, watcher: watcher}
	if dir == "" {
		sub, err := fs.Sub(Res_Shaders, "assets/shaders")
		if err != nil {
			return nil, err
		}
		lib.src = sub
		return lib, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	lib.dir = abs
	lib.src = os.DirFS(abs)
	return lib, nil
}

// Load compiles <name>.vert and <name>.frag into a pipeline.
func (lib *ShaderLibrary) Load(name string, defs map[string]string) (libgl.UnboundShaderPipeline, error) {
	pipeline := libgl.NewPipeline()
	var programs []libgl.ShaderProgram
	for _, ext := range []string{".vert", ".frag"} {
		file := name + ext
		prog, err := lib.compile(file, defs)
		if err != nil {
			for _, p := range programs {
				p.Delete()
			}
			pipeline.Delete()
			return nil, err
		}
		programs = append(programs, prog)
		pipeline.Attach(prog)

		if lib.dir == "" {
			continue
		}
		path := filepath.Join(lib.dir, file)
		lib.entries[path] = &shaderEntry{pipeline: pipeline, stage: shaderStages[ext], program: prog, defs: defs}
		if lib.watcher != nil {
			if err := lib.watcher.Add(path); err != nil {
				log.Printf("Shader %v will not be reloaded: %v\n", file, err)
			}
		}
	}
	return pipeline, nil
}

func (lib *ShaderLibrary) compile(file string, defs map[string]string) (libgl.ShaderProgram, error) {
	source, err := fs.ReadFile(lib.src, file)
	if err != nil {
		return nil, fmt.Errorf("could not read shader %q: %w", file, err)
	}
	prog, err := libgl.NewShader(string(source), shaderStages[filepath.Ext(file)])
	if err != nil {
		return nil, fmt.Errorf("could not parse shader %q: %w", file, err)
	}
	if err := prog.CompileWith(defs); err != nil {
		prog.Delete()
		return nil, fmt.Errorf("could not compile shader %q: %w", file, err)
	}
	return prog, nil
}

// Reload recompiles every changed shader reported by the watcher. A shader
// that fails to compile is logged and the previous program stays attached.
func (lib *ShaderLibrary) Reload() {
	if lib.watcher == nil {
		return
	}
	for _, path := range lib.watcher.Poll() {
		entry, ok := lib.entries[path]
		if !ok {
			continue
		}
		file := strings.TrimPrefix(filepath.ToSlash(strings.TrimPrefix(path, lib.dir)), "/")
		prog, err := lib.compile(file, entry.defs)
		if err != nil {
			log.Printf("Shader reload failed: %v\n", err)
			continue
		}
		entry.pipeline.Attach(prog)
		entry.program.Delete()
		entry.program = prog
		log.Printf("Reloaded shader %v\n", file)
	}
}
