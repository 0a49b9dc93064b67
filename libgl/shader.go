package libgl

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderProgram interface {
	Id() uint32
	Name() string
	Stage() int
	Compile() error
	CompileWith(defs map[string]string) error
	Source() string
	Delete()
	GetUniformLocation(name string) int32
	SetUniform(name string, value any)
	SetUniformIndexed(name string, index int, value any)
	SetInt(name string, value int)
	SetFloat(name string, value float32)
	SetBool(name string, value bool)
	SetVec2(name string, value mgl32.Vec2)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat3(name string, value mgl32.Mat3)
	SetMat4(name string, value mgl32.Mat4)
}

type program struct {
	glId             uint32
	stage            int
	source           *shaderSource
	sourceLive       string
	uniformLocations map[string]int32
}

// NewShader parses a separable program for one stage, e.g. gl.VERTEX_SHADER.
// It has to be compiled before use.
func NewShader(source string, stage int) (ShaderProgram, error) {
	parsed, err := parseShaderSource(source)
	if err != nil {
		return nil, err
	}
	return &program{
		stage:            stage,
		source:           parsed,
		uniformLocations: map[string]int32{},
	}, nil
}

func (prog *program) Id() uint32 {
	return prog.glId
}

func (prog *program) Name() string {
	return prog.source.name
}

func (prog *program) Stage() int {
	return prog.stage
}

func (prog *program) Source() string {
	return prog.sourceLive
}

func (prog *program) Compile() error {
	return prog.CompileWith(nil)
}

// CompileWith compiles and links the program with overridden #define values.
// On failure the previously compiled program stays intact.
func (prog *program) CompileWith(defs map[string]string) error {
	source := prog.source.expand(defs)

	id, cached := prog.loadCached(source)
	if !cached {
		cStrs, free := gl.Strs(source + "\x00")
		id = gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
		free()
	}

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		infoLog := readProgramInfoLog(id)
		gl.DeleteProgram(id)
		if cached {
			// stale binary, the driver refuses it
			return prog.compileUncached(source)
		}
		return fmt.Errorf("failed to link %v shader, log: %v", prog.Name(), infoLog)
	}

	prog.replace(id, source)
	if !cached {
		prog.storeCached(source)
	}
	return nil
}

func (prog *program) compileUncached(source string) error {
	cStrs, free := gl.Strs(source + "\x00")
	id := gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
	free()

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		infoLog := readProgramInfoLog(id)
		gl.DeleteProgram(id)
		return fmt.Errorf("failed to link %v shader, log: %v", prog.Name(), infoLog)
	}
	prog.replace(id, source)
	prog.storeCached(source)
	return nil
}

func (prog *program) replace(id uint32, source string) {
	if prog.glId != 0 {
		gl.DeleteProgram(prog.glId)
	}
	prog.glId = id
	prog.sourceLive = source
	prog.uniformLocations = map[string]int32{}
	setObjectLabel(gl.PROGRAM, id, prog.Name())
}

func (prog *program) loadCached(source string) (uint32, bool) {
	if Cache == nil {
		return 0, false
	}
	format, data, ok, err := Cache.Load(source)
	if err != nil {
		log.Printf("Could not read shader cache: %v\n", err)
		return 0, false
	}
	if !ok || len(data) == 0 {
		return 0, false
	}
	id := gl.CreateProgram()
	gl.ProgramParameteri(id, gl.PROGRAM_SEPARABLE, gl.TRUE)
	gl.ProgramBinary(id, format, Pointer(data), int32(len(data)))
	return id, true
}

func (prog *program) storeCached(source string) {
	if Cache == nil {
		return
	}
	var length int32
	gl.GetProgramiv(prog.glId, gl.PROGRAM_BINARY_LENGTH, &length)
	if length == 0 {
		return
	}
	buf := make([]byte, length)
	var format uint32
	gl.GetProgramBinary(prog.glId, length, &length, &format, Pointer(buf))
	if err := Cache.Store(source, format, buf[:length]); err != nil {
		log.Printf("Could not write shader cache: %v\n", err)
	}
}

func (prog *program) Delete() {
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

func readProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

	infoLog := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

// GetUniformLocation caches lookups. Unknown names are logged once and
// resolve to -1, which every setter ignores.
func (prog *program) GetUniformLocation(name string) int32 {
	if location, ok := prog.uniformLocations[name]; ok {
		return location
	}

	location := gl.GetUniformLocation(prog.glId, gl.Str(name+"\x00"))
	prog.uniformLocations[name] = location

	if location == -1 {
		log.Printf("%v shader: could not get location of %q\n", prog.Name(), name)
	}
	return location
}

func (prog *program) SetInt(name string, value int) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform1i(prog.glId, location, int32(value))
	}
}

func (prog *program) SetFloat(name string, value float32) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform1f(prog.glId, location, value)
	}
}

func (prog *program) SetBool(name string, value bool) {
	var i int32
	if value {
		i = 1
	}
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform1i(prog.glId, location, i)
	}
}

func (prog *program) SetVec2(name string, value mgl32.Vec2) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform2f(prog.glId, location, value[0], value[1])
	}
}

func (prog *program) SetVec3(name string, value mgl32.Vec3) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform3f(prog.glId, location, value[0], value[1], value[2])
	}
}

func (prog *program) SetVec4(name string, value mgl32.Vec4) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniform4f(prog.glId, location, value[0], value[1], value[2], value[3])
	}
}

func (prog *program) SetMat3(name string, value mgl32.Mat3) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniformMatrix3fv(prog.glId, location, 1, false, &value[0])
	}
}

func (prog *program) SetMat4(name string, value mgl32.Mat4) {
	if location := prog.GetUniformLocation(name); location != -1 {
		gl.ProgramUniformMatrix4fv(prog.glId, location, 1, false, &value[0])
	}
}

func (prog *program) SetUniform(name string, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}
	setProgramUniformAny(prog.glId, location, value)
}

// SetUniformIndexed sets element index of a uniform array of scalars,
// vectors or matrices.
func (prog *program) SetUniformIndexed(name string, index int, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}
	setProgramUniformAny(prog.glId, location+int32(index), value)
}

func setProgramUniformAny(prog uint32, location int32, value any) {
	for refVal := reflect.ValueOf(value); refVal.Kind() == reflect.Ptr; refVal = reflect.ValueOf(value) {
		value = refVal.Elem().Interface()
	}

	switch v := value.(type) {
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.ProgramUniform1i(prog, location, i)
	case float32:
		gl.ProgramUniform1f(prog, location, v)
	case float64:
		gl.ProgramUniform1f(prog, location, float32(v))
	case int:
		gl.ProgramUniform1i(prog, location, int32(v))
	case int32:
		gl.ProgramUniform1i(prog, location, v)
	case uint32:
		gl.ProgramUniform1ui(prog, location, v)
	case mgl32.Vec2:
		gl.ProgramUniform2f(prog, location, v.X(), v.Y())
	case mgl32.Vec3:
		gl.ProgramUniform3f(prog, location, v.X(), v.Y(), v.Z())
	case mgl32.Vec4:
		gl.ProgramUniform4f(prog, location, v.X(), v.Y(), v.Z(), v.W())
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(prog, location, 1, false, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog, location, 1, false, &v[0])
	default:
		log.Panicf("Unsupported uniform type %T", value)
	}
}

type pipeline struct {
	glId   uint32
	stages map[int]ShaderProgram
}

// UnboundShaderPipeline combines separable programs, one per stage.
type UnboundShaderPipeline interface {
	Id() uint32
	Bind() BoundShaderPipeline
	Attach(program ShaderProgram)
	Get(stage int) ShaderProgram
	Vert() ShaderProgram
	Frag() ShaderProgram
	Delete()
}

type BoundShaderPipeline interface {
	UnboundShaderPipeline
}

func NewPipeline(programs ...ShaderProgram) UnboundShaderPipeline {
	var id uint32
	gl.CreateProgramPipelines(1, &id)
	p := &pipeline{
		glId:   id,
		stages: map[int]ShaderProgram{},
	}
	for _, prog := range programs {
		p.Attach(prog)
	}
	return p
}

func (p *pipeline) Id() uint32 {
	return p.glId
}

// Attach (re)attaches a program to the stage it was created for. Call it
// again after recompiling, the program id changes.
func (p *pipeline) Attach(prog ShaderProgram) {
	gl.UseProgramStages(p.glId, stageBit(prog.Stage()), prog.Id())
	p.stages[prog.Stage()] = prog
}

func (p *pipeline) Get(stage int) ShaderProgram {
	prog, ok := p.stages[stage]
	if !ok {
		log.Panicf("pipeline %d has no program for stage %#x", p.glId, stage)
	}
	return prog
}

func (p *pipeline) Vert() ShaderProgram {
	return p.Get(gl.VERTEX_SHADER)
}

func (p *pipeline) Frag() ShaderProgram {
	return p.Get(gl.FRAGMENT_SHADER)
}

func (p *pipeline) Bind() BoundShaderPipeline {
	State.BindProgramPipeline(p.glId)
	return p
}

func (p *pipeline) Delete() {
	gl.DeleteProgramPipelines(1, &p.glId)
	p.glId = 0
}

func stageBit(stage int) uint32 {
	switch stage {
	case gl.VERTEX_SHADER:
		return gl.VERTEX_SHADER_BIT
	case gl.TESS_CONTROL_SHADER:
		return gl.TESS_CONTROL_SHADER_BIT
	case gl.TESS_EVALUATION_SHADER:
		return gl.TESS_EVALUATION_SHADER_BIT
	case gl.GEOMETRY_SHADER:
		return gl.GEOMETRY_SHADER_BIT
	case gl.FRAGMENT_SHADER:
		return gl.FRAGMENT_SHADER_BIT
	case gl.COMPUTE_SHADER:
		return gl.COMPUTE_SHADER_BIT
	}
	log.Panicf("%#x is not a valid shader stage", stage)
	return 0
}
