// Package config loads the viewer configuration from YAML and watches it for live edits.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the viewer looks for a config file when none is given.
const DefaultPath = "~/.config/oxy-pbr/config.yaml"

// Config is the complete viewer configuration. The zero value is not valid; start from Default.
type Config struct {
	// AssetRoot is the directory assets are read from. A leading ~ is expanded.
	AssetRoot string `yaml:"assetRoot"`
	// Asset is the name of the asset to load.
	Asset string `yaml:"asset"`
	// Layout maps an asset name to its document path; see loader.WithLayout.
	Layout string `yaml:"layout"`
	// ShaderDir overrides the embedded shader templates when set.
	ShaderDir string `yaml:"shaderDir"`

	Environment Environment `yaml:"environment"`

	IBL        bool    `yaml:"ibl"`
	LightCount int     `yaml:"lightCount"`
	Lights     []Light `yaml:"lights"`

	Eye                  [3]float32 `yaml:"eye"`
	SpinDegreesPerSecond float32    `yaml:"spinDegreesPerSecond"`
	Fov                  float32    `yaml:"fov"`
	Near                 float32    `yaml:"near"`
	Far                  float32    `yaml:"far"`
	ClearColor           [4]float32 `yaml:"clearColor"`

	Window Window `yaml:"window"`

	// DecodeWorkers is the image decode pool size, 0 for one per CPU.
	DecodeWorkers int `yaml:"decodeWorkers"`
}

// Environment locates the image based lighting inputs, relative to AssetRoot.
type Environment struct {
	Disabled       bool   `yaml:"disabled"`
	Dir            string `yaml:"dir"`
	Skybox         string `yaml:"skybox"`
	Irradiance     string `yaml:"irradiance"`
	Radiance       string `yaml:"radiance"`
	RadianceLevels int    `yaml:"radianceLevels"`
	RadianceSize   int    `yaml:"radianceSize"`
	BRDF           string `yaml:"brdf"`
}

// Light is one configured point light.
type Light struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// Window sizes the viewer window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// Default returns the built-in configuration.
func Default() Config {
	env := light.DefaultEnvironmentSource()
	return Config{
		AssetRoot: ".",
		Asset:     "DamagedHelmet",
		Layout:    loader.DefaultLayout,
		Environment: Environment{
			Dir:            env.Dir,
			Skybox:         env.Skybox,
			Irradiance:     env.Irradiance,
			Radiance:       env.Radiance,
			RadianceLevels: env.RadianceLevels,
			RadianceSize:   env.RadianceSize,
			BRDF:           env.BRDF,
		},
		IBL:        true,
		LightCount: 1,
		Lights: []Light{{
			Position: light.DefaultPosition,
			Color:    light.DefaultColor,
		}},
		Eye:                  [3]float32{0, 0, -5},
		SpinDegreesPerSecond: 20,
		Fov:                  45,
		Near:                 0.1,
		Far:                  800,
		ClearColor:           [4]float32{0, 0, 0, 1},
		Window:               Window{Width: 1280, Height: 720, Title: "oxy-pbr", VSync: true},
	}
}

// Load reads the YAML file at path over Default and validates the result. A leading ~ in path
// and in assetRoot is expanded.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, has unknown keys, or is invalid
func Load(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand config path %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", expanded, err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", expanded, err)
	}
	return c, nil
}

// Parse decodes YAML over Default, rejecting unknown keys, then validates it. An empty document
// yields Default.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if decoding or validation fails
func Parse(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	root, err := homedir.Expand(c.AssetRoot)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand assetRoot %s: %w", c.AssetRoot, err)
	}
	c.AssetRoot = filepath.Clean(root)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges and required fields.
//
// Returns:
//   - error: the first problem found, or nil
func (c Config) Validate() error {
	switch {
	case c.Asset == "":
		return errors.New("asset must be set")
	case !strings.Contains(c.Layout, "{name}"):
		return fmt.Errorf("layout %q must contain {name}", c.Layout)
	case c.LightCount < 0 || c.LightCount > light.MaxLights:
		return fmt.Errorf("lightCount %d outside 0-%d", c.LightCount, light.MaxLights)
	case len(c.Lights) > light.MaxLights:
		return fmt.Errorf("%d lights configured, at most %d are supported", len(c.Lights), light.MaxLights)
	case c.Fov <= 0 || c.Fov >= 180:
		return fmt.Errorf("fov %v outside (0, 180)", c.Fov)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("clip planes near %v far %v must satisfy 0 < near < far", c.Near, c.Far)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.DecodeWorkers < 0:
		return fmt.Errorf("decodeWorkers %d must not be negative", c.DecodeWorkers)
	case !c.Environment.Disabled && c.Environment.RadianceLevels < 1:
		return fmt.Errorf("environment.radianceLevels %d must be at least 1", c.Environment.RadianceLevels)
	}
	return nil
}

// EnvironmentSource converts the environment section, or returns nil when it is disabled.
func (c Config) EnvironmentSource() *light.EnvironmentSource {
	if c.Environment.Disabled {
		return nil
	}
	e := c.Environment
	return &light.EnvironmentSource{
		Dir:            e.Dir,
		Skybox:         e.Skybox,
		Irradiance:     e.Irradiance,
		Radiance:       e.Radiance,
		RadianceLevels: e.RadianceLevels,
		RadianceSize:   e.RadianceSize,
		BRDF:           e.BRDF,
	}
}

// PointLights builds one light per configured entry.
func (c Config) PointLights() []light.Light {
	out := make([]light.Light, len(c.Lights))
	for i, l := range c.Lights {
		out[i] = light.NewLight(light.WithPosition(l.Position), light.WithColor(l.Color))
	}
	return out
}

// EyePosition returns Eye as a vector.
func (c Config) EyePosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Eye)
}
