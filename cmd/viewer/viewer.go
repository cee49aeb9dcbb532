package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/window"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// run opens the window, loads the configured asset and renders until the window closes. When
// watchPath is set, lighting edits to that file are applied live.
func run(ctx context.Context, c config.Config, watchPath string, profile bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	w, err := window.NewWindow(
		window.WithTitle(common.Coalesce(c.Window.Title, "oxy-pbr")),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithVSync(c.Window.VSync),
	)
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	bar := progressbar.Default(-1, "loading "+c.Asset)
	l := loader.NewLoader(
		loader.WithFS(os.DirFS(c.AssetRoot)),
		loader.WithLayout(c.Layout),
		loader.WithDecodeWorkers(c.DecodeWorkers),
		loader.WithProgress(func(done, total int, item string) {
			bar.Describe(item)
			_ = bar.Add(1)
		}),
	)

	e := engine.NewEngine(engineOptions(c, l, w, profile)...)
	defer e.Teardown()
	if err := e.Init(); err != nil {
		return err
	}
	err = e.Load(ctx, c.Asset)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	keys := newKeyHandler(ctx, e, quit, c.SpinDegreesPerSecond)
	w.SetKeyDownCallback(keys.handle)

	if watchPath != "" {
		go func() {
			err := config.Watch(ctx, watchPath, func(next config.Config) {
				applyLive(e, next)
			})
			if err != nil {
				common.Logger().Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	if err := e.Run(ctx); err != nil {
		return fmt.Errorf("render loop failed: %w", err)
	}
	return nil
}

func engineOptions(c config.Config, l loader.Loader, w window.Window, profile bool) []engine.EngineBuilderOption {
	templates := shader.EmbeddedTemplates()
	if c.ShaderDir != "" {
		templates = shader.DirTemplates(c.ShaderDir)
	}
	opts := []engine.EngineBuilderOption{
		engine.WithLoader(l),
		engine.WithTemplates(templates),
		engine.WithEnvironmentSource(c.EnvironmentSource()),
		engine.WithEye(c.EyePosition()),
		engine.WithCamera(camera.NewCamera(
			camera.WithFovDegrees(c.Fov),
			camera.WithClip(c.Near, c.Far),
		)),
		engine.WithClearColor(c.ClearColor),
		engine.WithLights(c.PointLights()...),
		engine.WithLightCount(c.LightCount),
		engine.WithIBL(c.IBL),
		engine.WithSpin(c.SpinDegreesPerSecond),
		engine.WithProfiling(profile),
	}
	if w != nil {
		opts = append(opts, engine.WithWindow(w))
	}
	return opts
}

// applyLive pushes the settings that may change at runtime into e.
func applyLive(e engine.Engine, c config.Config) {
	lights := c.PointLights()
	e.UpdateSettings(func(s *engine.Settings) {
		s.IBL = c.IBL
		s.LightCount = c.LightCount
		s.Lights = lights
		s.SpinDegreesPerSecond = c.SpinDegreesPerSecond
	})
}

// keyHandler maps key presses to engine settings.
type keyHandler struct {
	ctx    context.Context
	engine engine.Engine
	quit   func()
	spin   float32
}

func newKeyHandler(ctx context.Context, e engine.Engine, quit func(), spin float32) *keyHandler {
	return &keyHandler{ctx: ctx, engine: e, quit: quit, spin: spin}
}

func (k *keyHandler) handle(key int) {
	if n, ok := common.LightCountForKey(key); ok {
		k.engine.UpdateSettings(func(s *engine.Settings) { s.LightCount = n })
		return
	}
	switch key {
	case common.KeyI:
		k.engine.UpdateSettings(func(s *engine.Settings) { s.IBL = !s.IBL })
	case common.KeyP:
		k.engine.UpdateSettings(func(s *engine.Settings) {
			if s.SpinDegreesPerSecond != 0 {
				k.spin = s.SpinDegreesPerSecond
				s.SpinDegreesPerSecond = 0
			} else {
				s.SpinDegreesPerSecond = k.spin
			}
		})
	case common.KeyR:
		if err := k.engine.Reload(k.ctx); err != nil {
			common.Logger().Warn("reload failed", zap.Error(err))
		}
	case common.KeyEsc:
		k.quit()
	}
}
