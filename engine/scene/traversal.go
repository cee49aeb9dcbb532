package scene

import (
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawSink receives each primitive reached by a traversal with the transforms it is drawn under.
type DrawSink interface {
	// DrawPrimitive draws one primitive.
	//
	// Parameters:
	//   - p: the primitive
	//   - world: the accumulated world transform, used as the model matrix
	//   - projection: the projection active for the primitive's subtree
	//
	// Returns:
	//   - error: a failure that aborts the traversal
	DrawPrimitive(p *model.Primitive, world, projection mgl32.Mat4) error
}

// DrawSinkFunc adapts a function to a DrawSink.
type DrawSinkFunc func(p *model.Primitive, world, projection mgl32.Mat4) error

func (f DrawSinkFunc) DrawPrimitive(p *model.Primitive, world, projection mgl32.Mat4) error {
	return f(p, world, projection)
}

// walker carries the per-traversal inputs that do not change between nodes.
type walker struct {
	scene  *LoadedScene
	aspect float32
	sink   DrawSink
}

// Traverse walks the document's default scene depth first. Each node's world transform is its
// parent's world transform times its local transform; a node carrying a camera replaces the
// projection for itself and its descendants only.
//
// Parameters:
//   - s: the scene to walk
//   - root: the parent transform of the root nodes
//   - projection: the projection used until a camera node overrides it
//   - aspect: the viewport aspect used by cameras without a fixed aspect ratio
//   - sink: receives every primitive
//
// Returns:
//   - error: the first error returned by sink
func Traverse(s *LoadedScene, root, projection mgl32.Mat4, aspect float32, sink DrawSink) error {
	doc := s.Document
	if len(doc.Scenes) == 0 {
		return nil
	}
	w := &walker{scene: s, aspect: aspect, sink: sink}
	for _, n := range doc.Scenes[doc.DefaultScene()].Nodes {
		if err := w.traverse(n, root, projection); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) traverse(node int, parentWorld, projection mgl32.Mat4) error {
	n := &w.scene.Document.Nodes[node]
	world := parentWorld.Mul4(common.LocalMatrix(n.Matrix, n.Translation, n.Rotation, n.Scale))

	if n.Camera != nil {
		projection = w.scene.Cameras[*n.Camera].Projection(w.aspect)
	}
	if n.Mesh != nil {
		for _, p := range w.scene.Meshes[*n.Mesh].Primitives {
			if err := w.sink.DrawPrimitive(p, world, projection); err != nil {
				return err
			}
		}
	}
	for _, child := range n.Children {
		if err := w.traverse(child, world, projection); err != nil {
			return err
		}
	}
	return nil
}
