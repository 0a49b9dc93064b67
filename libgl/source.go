package libgl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var shaderMetaPattern = regexp.MustCompile(`(?m)^//meta:(\w+)(.+)$`)
var shaderDefinePattern = regexp.MustCompile(`(?m)^\s*(//)?\s*#define (\w+) ?(.*)$`)
var shaderVersionPattern = regexp.MustCompile(`(?m)^\s*#version.+$`)

type glslDef struct {
	marker  string
	name    string
	value   string
	boolean bool
}

// shaderSource is a GLSL source with its #define lines replaced by markers,
// so they can be overridden before each compilation.
// A commented out boolean define ("// #define FOO") counts as false.
type shaderSource struct {
	name        string
	template    string
	definitions map[string]glslDef
	versionEnd  int
}

func parseShaderSource(source string) (*shaderSource, error) {
	name := "untitled"
	for _, match := range shaderMetaPattern.FindAllStringSubmatch(source, -1) {
		key, value := match[1], strings.TrimSpace(match[2])
		if strings.EqualFold(key, "name") {
			name = value
		}
	}

	defineMatches := shaderDefinePattern.FindAllStringSubmatch(source, -1)
	definitions := make(map[string]glslDef, len(defineMatches))
	markers := make(map[string]string, len(defineMatches))
	for i, match := range defineMatches {
		value := strings.TrimSpace(match[3])
		marker := fmt.Sprintf("$def_%v$", i)
		boolean := value == ""
		if boolean && match[1] == "//" {
			value = "false"
		}
		definitions[strings.ToLower(match[2])] = glslDef{
			marker:  marker,
			name:    match[2],
			value:   value,
			boolean: boolean,
		}
		markers[match[0]] = marker
	}
	template := shaderDefinePattern.ReplaceAllStringFunc(source, func(s string) string {
		return markers[s]
	})

	version := shaderVersionPattern.FindStringIndex(template)
	if version == nil {
		return nil, fmt.Errorf("%v shader: missing #version directive", name)
	}

	return &shaderSource{
		name:        name,
		template:    template,
		definitions: definitions,
		versionEnd:  version[1],
	}, nil
}

// expand produces compilable source. Overrides for names without a matching
// #define are inserted right after the #version line in sorted order.
func (src *shaderSource) expand(overrides map[string]string) string {
	source := src.template
	values := make(map[string]string, len(src.definitions))
	for key, def := range src.definitions {
		values[key] = def.value
	}

	var extra []string
	for name, value := range overrides {
		key := strings.ToLower(name)
		if _, ok := src.definitions[key]; ok {
			values[key] = value
		} else {
			extra = append(extra, fmt.Sprintf("#define %v %v", name, value))
		}
	}

	for key, def := range src.definitions {
		source = strings.Replace(source, def.marker, def.line(values[key]), 1)
	}

	if len(extra) > 0 {
		sort.Strings(extra)
		source = source[:src.versionEnd] + "\n" + strings.Join(extra, "\n") + source[src.versionEnd:]
	}
	return source
}

func (def glslDef) line(value string) string {
	if !def.boolean {
		return fmt.Sprintf("#define %v %v", def.name, value)
	}
	if value == "false" {
		return "// #define " + def.name
	}
	return "#define " + def.name
}
