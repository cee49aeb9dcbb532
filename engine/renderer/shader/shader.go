package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed templates/*.vs templates/*.fs
var embedded embed.FS

// TemplateTextured is the PBR material template.
const TemplateTextured = "textured"

// Source is the vertex and fragment text of a template before any define header is applied.
type Source struct {
	Vertex   string
	Fragment string
}

// TemplateSource loads template text by name.
type TemplateSource interface {
	// Load reads the vertex and fragment stages of the named template.
	//
	// Parameters:
	//   - name: the template name
	//
	// Returns:
	//   - Source: the template text
	//   - error: an error if either stage is missing
	Load(name string) (Source, error)
}

// fsTemplates reads {name}.vs and {name}.fs from a file system.
type fsTemplates struct {
	fsys fs.FS
}

var _ TemplateSource = fsTemplates{}

// EmbeddedTemplates returns the templates compiled into the binary.
func EmbeddedTemplates() TemplateSource {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return fsTemplates{fsys: sub}
}

// DirTemplates returns templates read from dir, for iterating on shaders without rebuilding.
//
// Parameters:
//   - dir: the directory containing {name}.vs and {name}.fs files
//
// Returns:
//   - TemplateSource: the directory-backed source
func DirTemplates(dir string) TemplateSource {
	return fsTemplates{fsys: os.DirFS(dir)}
}

// FSTemplates returns templates read from an arbitrary file system.
func FSTemplates(fsys fs.FS) TemplateSource {
	return fsTemplates{fsys: fsys}
}

func (t fsTemplates) Load(name string) (Source, error) {
	vs, err := fs.ReadFile(t.fsys, name+".vs")
	if err != nil {
		return Source{}, fmt.Errorf("failed to read vertex template %s: %w", name, err)
	}
	fsrc, err := fs.ReadFile(t.fsys, name+".fs")
	if err != nil {
		return Source{}, fmt.Errorf("failed to read fragment template %s: %w", name, err)
	}
	return Source{Vertex: string(vs), Fragment: string(fsrc)}, nil
}
