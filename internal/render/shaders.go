package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderManager owns the shader program figures are drawn with.
type ShaderManager struct {
	program     uint32
	uSceneToNDC int32 // uniform location for the scene -> NDC matrix
}

// Vertex shader. Maps scene coordinates to NDC and forwards the colour, whose
// alpha already carries the element's opacity.
const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uSceneToNDC;

out vec4 vColor;

void main() {
    gl_Position = uSceneToNDC * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
` + "\x00"

const fragmentShaderSource = `
#version 330 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
` + "\x00"

// NewShaderManager compiles and links the figure shaders and binds the
// resulting program.
func NewShaderManager() (*ShaderManager, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("linking shaders: %s", strings.TrimRight(logText, "\x00"))
	}

	sm := &ShaderManager{
		program:     program,
		uSceneToNDC: gl.GetUniformLocation(program, gl.Str("uSceneToNDC\x00")),
	}
	gl.UseProgram(program)
	return sm, nil
}

// SetTransform sets the scene -> NDC matrix.
func (sm *ShaderManager) SetTransform(matrix [16]float32) {
	gl.UniformMatrix4fv(sm.uSceneToNDC, 1, false, &matrix[0])
}

// Cleanup deletes the shader program.
func (sm *ShaderManager) Cleanup() {
	if sm.program != 0 {
		gl.DeleteProgram(sm.program)
		sm.program = 0
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling: %s", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}
