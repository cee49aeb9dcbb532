package scene

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/Carmen-Shannon/oxy-pbr/engine/model"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame holds the per-frame inputs of a render. It is a snapshot; the renderer does not retain it.
type Frame struct {
	// Root is the parent transform of the scene's root nodes.
	Root mgl32.Mat4
	// Aspect is the viewport width divided by its height.
	Aspect float32
	// IBL enables image based lighting when an environment is attached.
	IBL bool
	// Lights are the active point lights; at most light.MaxLights are bound.
	Lights []light.Light
}

// frameRenderer is the implementation of the FrameRenderer interface.
type frameRenderer struct {
	device        renderer.Device
	programs      shader.Cache
	template      string
	eye           mgl32.Vec3
	defaultCamera camera.Camera
	environment   *light.Environment
}

// FrameRenderer draws a LoadedScene. It is not safe for concurrent use and must run on the
// goroutine owning the GPU context.
type FrameRenderer interface {
	// Render clears the frame and draws every primitive of the scene's default scene.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - f: the frame inputs
	//
	// Returns:
	//   - error: a ShaderCompileError when a permutation fails to build
	Render(s *LoadedScene, f Frame) error

	// SetEnvironment replaces the image based lighting inputs. nil disables them.
	//
	// Parameters:
	//   - env: the environment, not owned by the renderer
	SetEnvironment(env *light.Environment)

	// Eye returns the camera position used for the view matrix and the camPos uniform.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3
}

var _ FrameRenderer = &frameRenderer{}

// DefaultEye is the eye position used without WithEye.
var DefaultEye = mgl32.Vec3{0, 0, -5}

// NewFrameRenderer creates a FrameRenderer drawing through device with programs from cache.
//
// Parameters:
//   - device: the device to draw on
//   - programs: the shader permutation cache
//   - options: functional options for the renderer
//
// Returns:
//   - FrameRenderer: the new renderer
func NewFrameRenderer(device renderer.Device, programs shader.Cache, options ...FrameRendererBuilderOption) FrameRenderer {
	r := &frameRenderer{
		device:        device,
		programs:      programs,
		template:      shader.TemplateTextured,
		eye:           DefaultEye,
		defaultCamera: camera.NewCamera(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *frameRenderer) SetEnvironment(env *light.Environment) {
	r.environment = env
}

func (r *frameRenderer) Eye() mgl32.Vec3 {
	return r.eye
}

func (r *frameRenderer) Render(s *LoadedScene, f Frame) error {
	r.device.Clear()
	if s == nil {
		return nil
	}

	lights := f.Lights
	if len(lights) > light.MaxLights {
		lights = lights[:light.MaxLights]
	}
	d := &drawer{
		frameRenderer: r,
		scene:         s,
		view:          camera.View(r.eye),
		lights:        lights,
		ibl:           f.IBL && r.environment != nil,
		lod:           r.device.Capabilities().TextureLOD,
	}
	return Traverse(s, f.Root, r.defaultCamera.Projection(f.Aspect), f.Aspect, d)
}

// drawer is the DrawSink used by Render. It holds the frame's fixed draw state.
type drawer struct {
	*frameRenderer
	scene  *LoadedScene
	view   mgl32.Mat4
	lights []light.Light
	ibl    bool
	lod    bool
}

func (d *drawer) DrawPrimitive(p *model.Primitive, world, projection mgl32.Mat4) error {
	var flags shader.Flags
	p.BindAttributes(d.device, &flags)
	defer p.UnbindAttributes(d.device)

	mat := d.scene.Material(p.Material)
	mat.ApplyFlags(&flags)
	flags.IBL = d.ibl
	flags.LOD = d.lod
	flags.Lights = len(d.lights)

	prog, err := d.programs.Program(d.template, flags)
	if err != nil {
		return err
	}
	d.device.UseProgram(prog)

	d.device.SetUniformMat4("projection", projection)
	d.device.SetUniformMat4("view", d.view)
	d.device.SetUniformMat4("model", world)
	d.device.SetUniformVec3("camPos", d.eye)

	d.environment.Bind(d.device)
	mat.Bind(d.device, light.FirstMaterialUnit)
	light.Bind(d.device, d.lights, flags.Lights)

	p.Draw(d.device)
	return nil
}
