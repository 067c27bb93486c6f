package handlers

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/eknkc/pug"
)

// Renderer writes a named page for data
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// PugRenderer compiles pug views from a directory on every render
type PugRenderer struct {
	Dir string
}

// Render compiles <Dir>/<name>.pug and executes it with data
func (p PugRenderer) Render(w io.Writer, name string, data any) error {
	path := filepath.Join(p.Dir, name+".pug")
	template, err := pug.CompileFile(path, pug.Options{})
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	if err := template.Execute(w, data); err != nil {
		return fmt.Errorf("execute %s: %w", path, err)
	}
	return nil
}
