package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
)

// settleDelay is how long Watch waits after the first event of a burst before reading the file.
const settleDelay = 100 * time.Millisecond

// Watch re-reads the config file whenever it is written or replaced and passes each valid result to
// apply. Events are coalesced for settleDelay so a truncate followed by a write is read once. Invalid
// edits are logged and skipped, and an empty file is treated as a save still in progress rather than
// as a request for the defaults. The containing directory is watched so editors that save by rename
// are picked up. Watch blocks until ctx is done.
//
// Parameters:
//   - ctx: stops the watch
//   - path: the config file path
//   - apply: receives every successfully reloaded config, on the watch goroutine
//
// Returns:
//   - error: error if the watcher cannot be started or fails
func Watch(ctx context.Context, path string, apply func(Config)) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path %s: %w", path, err)
	}
	target := filepath.Clean(expanded)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	log := common.Logger().With(zap.String("config", target))
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	pending := false
	for {
		select {
		case <-ctx.Done():
			settle.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !pending {
				pending = true
				settle.Reset(settleDelay)
			}
		case <-settle.C:
			pending = false
			c, ok, err := reload(target)
			switch {
			case err != nil:
				log.Warn("ignoring config edit", zap.Error(err))
			case !ok:
				log.Debug("config file empty, waiting for the rest of the save")
			default:
				log.Info("config reloaded")
				apply(c)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher failed: %w", err)
		}
	}
}

// reload reads and parses the config at path. ok is false when the file holds no document yet.
func reload(path string) (c Config, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, false, nil
	}
	c, err = Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, true, nil
}
