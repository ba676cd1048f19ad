package client

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/anteater/eventmap/src/logging"
)

// ConfigWatcher watches cli.yml for changes and triggers a reload.
// The TUI uses it so filter defaults and the refresh schedule can be
// edited without restarting.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	reloadFunc func(*Config)
	stopChan   chan struct{}
}

// NewConfigWatcher creates a new config file watcher
func NewConfigWatcher(configPath string, reloadFunc func(*Config)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		watcher:    watcher,
		configPath: configPath,
		reloadFunc: reloadFunc,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching the config file for changes. The parent
// directory is watched because editors replace the file on save.
func (cw *ConfigWatcher) Start() error {
	if err := cw.watcher.Add(filepath.Dir(cw.configPath)); err != nil {
		return err
	}

	logging.Debug("watching for config file changes", "path", cw.configPath)

	go func() {
		// Debounce to avoid multiple reloads for rapid write bursts
		var debounceTimer *time.Timer
		debounceDuration := 500 * time.Millisecond

		for {
			select {
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != filepath.Clean(cw.configPath) {
					continue
				}

				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}

					debounceTimer = time.AfterFunc(debounceDuration, func() {
						newCfg, err := LoadConfigFromPath(cw.configPath)
						if err != nil {
							logging.Warn("failed to reload config", "err", err)
							return
						}
						logging.Info("configuration reloaded")
						cw.reloadFunc(newCfg)
					})
				}

			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("config watcher error", "err", err)

			case <-cw.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop stops the config file watcher
func (cw *ConfigWatcher) Stop() error {
	close(cw.stopChan)
	return cw.watcher.Close()
}
