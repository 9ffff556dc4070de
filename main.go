package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subplayer/mediacore/app/api"
	"github.com/subplayer/mediacore/log"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger := log.New("Core").WithOutput(log.NewConsoleWriter(os.Stderr, log.Lwarn, true))

	configfile := findConfigfile()

	app, err := api.New(configfile, os.Stderr)
	if err != nil {
		logger.Error().WithError(err).Log("Failed to create new API")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		err := app.Start(ctx)
		if !errors.Is(err, api.ErrConfigReload) {
			if err != nil {
				logger.Error().WithError(err).Log("Failed to start API")
			}

			break
		}

		logger.Warn().WithError(err).Log("Config reload requested")

		app.Stop()

		if err := app.Reload(); err != nil {
			logger.Error().WithError(err).Log("Failed to reload config")
			break
		}
	}

	app.Destroy()
}

// findConfigfile returns the path to the config file. If no path is given
// in the environment variable MEDIACORE_CONFIGFILE, different standard
// locations will be probed:
// - os.UserConfigDir() + /mediacore/config.json
// - os.UserHomeDir() + /.config/mediacore/config.json
// - ./config/config.json
// If the config doesn't exist in any of these locations, an empty path is
// returned and only the defaults and the environment are used.
func findConfigfile() string {
	configfile := os.Getenv("MEDIACORE_CONFIGFILE")
	if len(configfile) != 0 {
		return configfile
	}

	locations := []string{}

	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "mediacore", "config.json"))
	}

	if dir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(dir, ".config", "mediacore", "config.json"))
	}

	locations = append(locations, filepath.Join(".", "config", "config.json"))

	for _, path := range locations {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if info.IsDir() {
			continue
		}

		return path
	}

	return ""
}
