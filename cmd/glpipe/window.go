package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// openContext creates a hidden window with an OpenGL 4.1 core context
// and makes it current. It must be called from the main thread.
func openContext() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(16, 16, "glpipe", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create context window: %w", err)
	}
	win.MakeContextCurrent()
	return win, nil
}

func closeContext(win *glfw.Window) {
	win.Destroy()
	glfw.Terminate()
}
