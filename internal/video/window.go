// Package video adapts an OpenGL/GLFW window into a ppu.Screen sink,
// so the APU/PPU core can be driven end-to-end without pulling a
// rendering dependency into the core packages themselves. Grounded on
// the reference UI's shader/texture-blit setup.
package video

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"nescore/internal/ppu"
)

const (
	screenWidth  = 256
	screenHeight = 240

	vertexShader = `
  #version 330

  attribute vec3 position;
  attribute vec2 uv;
  varying vec2 vuv;
  void main(void){
    gl_Position = vec4(position, 1.0);
    vuv = uv;
  }
  ` + "\x00"

	fragmentShader = `
  #version 330

  varying vec2 vuv;
  uniform sampler2D texture;
  void main(void){
    gl_FragColor = texture2D(texture, vuv);
  }
  ` + "\x00"
)

var (
	vertexPosition = []float32{1, 1, -1, 1, -1, -1, 1, -1}
	vertexUV       = []float32{1, 0, 0, 0, 0, 1, 1, 1}
)

// Window is a ppu.Screen backed by a GLFW window and a single 2D
// texture blit shader. Construction must happen on the OS thread that
// will drive the render loop.
type Window struct {
	win     *glfw.Window
	program uint32
	pixels  []uint8 // RGBA, reused across frames
}

// NewWindow opens a window of the given scale and compiles the blit
// shader program. Fatal setup errors use glog.Fatalf, matching the
// reference UI's treatment of unrecoverable GL/GLFW failures.
func NewWindow(scale int) *Window {
	if err := glfw.Init(); err != nil {
		glog.Fatalf("video: glfw init: %v", err)
	}
	win, err := glfw.CreateWindow(screenWidth*scale, screenHeight*scale, "nescore", nil, nil)
	if err != nil {
		glog.Fatalf("video: create window: %v", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glog.Fatalf("video: gl init: %v", err)
	}
	program, err := newProgram()
	if err != nil {
		glog.Fatalf("video: %v", err)
	}
	gl.UseProgram(program)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)

	return &Window{
		win:     win,
		program: program,
		pixels:  make([]uint8, screenWidth*screenHeight*4),
	}
}

func compileShader(code string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	ccode := gl.Str(code)
	gl.ShaderSource(shader, 1, &ccode, nil)
	gl.CompileShader(shader)
	var result int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &result)
	if result == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length+1))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
		return 0, fmt.Errorf("compile shader: %v\n%v", code, log)
	}
	return shader, nil
}

func newProgram() (uint32, error) {
	vs, err := compileShader(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	var result int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &result)
	if result == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length+1))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		return 0, fmt.Errorf("link program: %v", log)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

// Draw implements ppu.Screen: it converts the framebuffer's 6-bit NES
// colors to RGBA, uploads a texture, and blits it to the window.
func (w *Window) Draw(buf *ppu.FrameBuffer) {
	for i, c := range buf {
		r, g, b := c.RGB()
		w.pixels[i*4+0] = r
		w.pixels[i*4+1] = g
		w.pixels[i*4+2] = b
		w.pixels[i*4+3] = 0xFF
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, screenWidth, screenHeight,
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(w.pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	positionLoc := uint32(gl.GetAttribLocation(w.program, gl.Str("position\x00")))
	uvLoc := uint32(gl.GetAttribLocation(w.program, gl.Str("uv\x00")))
	textureLoc := gl.GetUniformLocation(w.program, gl.Str("texture\x00"))
	gl.EnableVertexAttribArray(positionLoc)
	gl.EnableVertexAttribArray(uvLoc)
	gl.Uniform1i(textureLoc, 0)
	gl.VertexAttribPointer(positionLoc, 2, gl.FLOAT, false, 0, gl.Ptr(vertexPosition))
	gl.VertexAttribPointer(uvLoc, 2, gl.FLOAT, false, 0, gl.Ptr(vertexUV))
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)

	w.win.SwapBuffers()
	glfw.PollEvents()
}

// ShouldClose reports whether the user closed the window.
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// Close tears down the window and terminates GLFW.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
