package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/scene"
	"github.com/Carmen-Shannon/oxy-pbr/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotInitialized is returned by operations that need the GPU context before Init succeeded.
var ErrNotInitialized = errors.New("engine not initialized")

// Settings are the values that may change while the engine is running. They are read once per
// frame, so a change applies from the next frame on.
type Settings struct {
	// IBL enables image based lighting when an environment is loaded.
	IBL bool
	// LightCount is the number of configured lights to use, 0 to light.MaxLights.
	LightCount int
	// Lights are the configured point lights.
	Lights []light.Light
	// SpinDegreesPerSecond rotates the scene root about +Y. 0 disables the spin.
	SpinDegreesPerSecond float32
}

// engine implements the Engine interface.
// Owns the GPU context state of one viewer: the shader cache, the environment and the current scene.
type engine struct {
	renderer  renderer.Renderer
	loader    loader.Loader
	templates shader.TemplateSource
	envSource *light.EnvironmentSource

	eye        mgl32.Vec3
	camera     camera.Camera
	clearColor [4]float32

	window           window.Window
	profiler         *profiler.Profiler
	profilingEnabled bool

	mu       sync.Mutex
	settings Settings

	width, height int

	programs    shader.Cache
	frames      scene.FrameRenderer
	scene       *scene.LoadedScene
	assetName   string
	environment *light.Environment
}

// Engine is the main entry point for the viewer.
// It loads a named asset together with the lighting environment, draws it once per frame and
// releases every GPU resource on teardown. Except for the settings accessors, every method must be
// called on the goroutine that owns the GPU context.
type Engine interface {
	// Init prepares the GPU context: clear color, depth test, viewport and shader cache.
	//
	// Returns:
	//   - error: error if the renderer cannot be initialized
	Init() error

	// Load resolves the named asset and, on first use, the lighting environment concurrently, then
	// uploads them. The previously loaded scene is released only after the new one is built, so a
	// failed load leaves the current scene in place.
	//
	// Parameters:
	//   - ctx: cancels outstanding fetches
	//   - name: the asset name
	//
	// Returns:
	//   - error: the first fetch, decode, validation or upload failure
	Load(ctx context.Context, name string) error

	// Reload loads the current asset again.
	//
	// Parameters:
	//   - ctx: cancels outstanding fetches
	//
	// Returns:
	//   - error: the Load error, or an error if nothing was loaded yet
	Reload(ctx context.Context) error

	// Render draws one frame.
	//
	// Parameters:
	//   - elapsed: time since the viewer started, driving the root spin
	//
	// Returns:
	//   - error: a ShaderCompileError when a permutation fails to build
	Render(elapsed time.Duration) error

	// Resize updates the viewport and the default projection aspect.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// Settings returns a copy of the runtime settings.
	//
	// Returns:
	//   - Settings: the current settings
	Settings() Settings

	// UpdateSettings applies fn to the runtime settings under the settings lock. Safe to call from
	// any goroutine. The light count is clamped to 0..light.MaxLights afterwards.
	//
	// Parameters:
	//   - fn: the mutation to apply
	UpdateSettings(fn func(*Settings))

	// Scene returns the currently loaded scene, or nil.
	//
	// Returns:
	//   - *scene.LoadedScene: the scene
	Scene() *scene.LoadedScene

	// Renderer returns the renderer the engine draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Run drives the window: poll events, render, swap, until the window closes or ctx is done.
	// Init is called first when it has not been.
	//
	// Parameters:
	//   - ctx: stops the loop
	//
	// Returns:
	//   - error: the first render error, or an error if no window was configured
	Run(ctx context.Context) error

	// Teardown releases the scene, the environment and every compiled program.
	Teardown()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options applied. Without options it draws with
// the OpenGL renderer, reads assets from the working directory with the embedded shader templates,
// uses the default environment and a single default light.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	src := light.DefaultEnvironmentSource()
	e := &engine{
		templates:  shader.EmbeddedTemplates(),
		envSource:  &src,
		eye:        scene.DefaultEye,
		clearColor: [4]float32{0, 0, 0, 1},
		settings: Settings{
			IBL:                  true,
			LightCount:           1,
			Lights:               []light.Light{light.DefaultLight()},
			SpinDegreesPerSecond: 20,
		},
		width:  1,
		height: 1,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer()
	}
	if e.loader == nil {
		e.loader = loader.NewLoader()
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.window != nil {
		e.width, e.height = e.window.Width(), e.window.Height()
		e.window.SetResizeCallback(e.Resize)
	}
	return e
}

func (e *engine) Init() error {
	if e.frames != nil {
		return nil
	}
	if err := e.renderer.Init(e.clearColor); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	e.renderer.Viewport(e.width, e.height)
	e.programs = shader.NewCache(e.renderer, shader.WithTemplates(e.templates))
	e.frames = scene.NewFrameRenderer(e.renderer, e.programs,
		scene.WithEye(e.eye),
		scene.WithDefaultCamera(e.camera),
	)
	caps := e.renderer.Capabilities()
	common.Logger().Info("renderer initialized",
		zap.String("renderer", caps.Renderer),
		zap.String("version", caps.Version),
		zap.Bool("textureLOD", caps.TextureLOD))
	return nil
}

func (e *engine) Load(ctx context.Context, name string) error {
	if e.frames == nil {
		return ErrNotInitialized
	}
	log := common.Logger().With(zap.String("asset", name))
	log.Info("load started")
	start := time.Now()

	var (
		assets  *loader.ResolvedAssets
		envImgs *light.EnvironmentImages
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets, err = e.loader.Resolve(gctx, name)
		return err
	})
	if e.envSource != nil && e.environment == nil {
		g.Go(func() error {
			var err error
			envImgs, err = light.LoadEnvironment(gctx, e.loader, *e.envSource)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	s, err := scene.Build(e.renderer, assets)
	if err != nil {
		return err
	}
	if envImgs != nil {
		env, err := envImgs.Upload(e.renderer)
		if err != nil {
			s.Release()
			return fmt.Errorf("failed to upload environment: %w", err)
		}
		e.environment = env
		e.frames.SetEnvironment(env)
	}

	if e.scene != nil {
		e.scene.Release()
	}
	e.scene = s
	e.assetName = name
	log.Info("load finished", zap.Duration("took", time.Since(start)))
	return nil
}

func (e *engine) Reload(ctx context.Context) error {
	if e.assetName == "" {
		return errors.New("no asset loaded")
	}
	return e.Load(ctx, e.assetName)
}

func (e *engine) Render(elapsed time.Duration) error {
	if e.frames == nil {
		return ErrNotInitialized
	}
	st := e.Settings()
	lights := st.Lights[:min(st.LightCount, len(st.Lights))]
	return e.frames.Render(e.scene, scene.Frame{
		Root:   common.SpinMatrix(st.SpinDegreesPerSecond, float32(elapsed.Seconds())),
		Aspect: camera.AspectOf(e.width, e.height),
		IBL:    st.IBL,
		Lights: lights,
	})
}

func (e *engine) Resize(width, height int) {
	e.width, e.height = width, height
	if e.frames != nil {
		e.renderer.Viewport(width, height)
	}
}

func (e *engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.settings
	st.Lights = append([]light.Light(nil), e.settings.Lights...)
	return st
}

func (e *engine) UpdateSettings(fn func(*Settings)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.settings)
	e.settings.LightCount = min(max(e.settings.LightCount, 0), light.MaxLights)
}

func (e *engine) Scene() *scene.LoadedScene {
	return e.scene
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return errors.New("engine has no window")
	}
	if err := e.Init(); err != nil {
		return err
	}
	start := time.Now()
	for e.window.IsRunning() {
		e.window.PollEvents()
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := e.Render(time.Since(start)); err != nil {
			return err
		}
		e.window.SwapBuffers()
		e.endFrame()
	}
	return nil
}

// endFrame hands the frame's counters to the profiler and starts counting the next frame.
func (e *engine) endFrame() {
	stats := e.renderer.Stats()
	e.renderer.ResetStats()
	if e.profilingEnabled {
		e.profiler.Tick(stats)
	}
}

func (e *engine) Teardown() {
	if e.scene != nil {
		e.scene.Release()
		e.scene = nil
	}
	if e.environment != nil {
		e.environment.Release(e.renderer)
		e.environment = nil
	}
	if e.frames != nil {
		e.frames.SetEnvironment(nil)
	}
	if e.programs != nil {
		e.programs.Release()
	}
	e.assetName = ""
}
