package client

import (
	"github.com/anteater/eventmap/src/api"
	"github.com/anteater/eventmap/src/controller"
	"github.com/anteater/eventmap/src/logging"
	"github.com/anteater/eventmap/src/mapview"
	"github.com/anteater/eventmap/src/tui"
)

// Default camera for a fresh session, centered on the demo area.
var defaultView = mapview.View{Lng: -117.841019, Lat: 33.645198, Zoom: 14}

// runTUI launches interactive mode. The config watcher keeps the
// session following cli.yml edits: a changed server or refresh
// schedule triggers a reload of the active filter.
func runTUI(config *Config) error {
	apiClient := api.New(config.Server, UserAgent())

	notices := tui.NewNoticeLog()
	ctrl := controller.New(apiClient, mapview.NewMap(defaultView), notices.Add)

	reload := make(chan struct{}, 1)
	watcher, err := NewConfigWatcher(ConfigPath(), func(*Config) {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err != nil {
		logging.Warn("config watcher unavailable", "err", err)
	} else if err := watcher.Start(); err != nil {
		logging.Warn("config watcher failed to start", "err", err)
	} else {
		defer watcher.Stop()
	}

	if err := tui.Run(apiClient, ctrl, notices, config.Refresh, reload); err != nil {
		return NewExitError(err.Error(), ExitGeneralError)
	}
	return nil
}
