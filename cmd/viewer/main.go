// Command viewer opens a window and renders a glTF asset with image based lighting.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	watch      bool
	debug      bool
	profile    bool

	asset     string
	assetRoot string
	noIBL     bool
	lights    int
	spin      float32
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "viewer [asset]",
		Short:         "Render a glTF 2.0 asset with physically based shading",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.asset = args[0]
			}
			log, err := newLogger(opts.debug)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			common.SetLogger(log)

			c, path, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, opts, &c)
			if err := c.Validate(); err != nil {
				return err
			}
			if !opts.watch {
				path = ""
			}
			return run(cmd.Context(), c, path, opts.profile)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath+" when present)")
	f.BoolVarP(&opts.watch, "watch", "w", false, "reload lighting settings when the config file changes")
	f.BoolVar(&opts.debug, "debug", false, "development logging at debug level")
	f.BoolVar(&opts.profile, "profile", false, "log frame statistics every second")
	f.StringVar(&opts.assetRoot, "asset-root", "", "directory assets are read from")
	f.BoolVar(&opts.noIBL, "no-ibl", false, "disable image based lighting")
	f.IntVar(&opts.lights, "lights", 1, "number of active point lights (0-3)")
	f.Float32Var(&opts.spin, "spin", 20, "root rotation in degrees per second")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads path, or the default path when path is empty and that file exists. It returns
// the path that was read, empty when the defaults were used.
func loadConfig(path string) (config.Config, string, error) {
	if path == "" {
		p, err := homedir.Expand(config.DefaultPath)
		if err != nil {
			return config.Default(), "", nil
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), "", nil
		}
		path = p
	}
	c, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	return c, path, nil
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *options, c *config.Config) {
	f := cmd.Flags()
	if opts.asset != "" {
		c.Asset = opts.asset
	}
	if f.Changed("asset-root") {
		c.AssetRoot = opts.assetRoot
	}
	if f.Changed("no-ibl") {
		c.IBL = !opts.noIBL
	}
	if f.Changed("lights") {
		c.LightCount = opts.lights
	}
	if f.Changed("spin") {
		c.SpinDegreesPerSecond = opts.spin
	}
}
