// Package config loads the configuration from a file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fsnotify/fsnotify"
	haikunator "github.com/atrox/haikunatorgo/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Variable describes a single configuration value.
type Variable struct {
	Key         string
	EnvName     string
	Default     interface{}
	Description string
}

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "MEDIACORE"

// Variables returns all configuration values with their defaults.
func Variables() []Variable {
	vars := []Variable{}

	val := func(key string, def interface{}, description string) {
		vars = append(vars, Variable{
			Key:         key,
			EnvName:     EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")),
			Default:     def,
			Description: description,
		})
	}

	val("id", uuid.New().String(), "ID for this instance")
	val("name", haikunator.New().Haikunate(), "A human readable name for this instance")
	val("address", ":8090", "HTTP listening address")
	val("data_dir", defaultDataDir(), "Directory for the runtime, the probe cache and the transcoded files")
	val("update_check", true, "Check for a newer runtime release")

	// Log
	val("log.level", "info", "Loglevel: silent, error, warn, info, debug")
	val("log.topics", []string{}, "Show only selected log topics")
	val("log.max_lines", 1000, "Number of latest log lines to keep in memory")
	val("log.json", false, "Write the log as JSON")

	// FFmpeg
	val("ffmpeg.binary", "", "Path to an ffmpeg binary, leave empty for the managed install")
	val("ffmpeg.min_version", ">= 4.0", "Version constraint for the ffmpeg binary")
	val("ffmpeg.download.url", "", "Override the download URL of the runtime archive")
	val("ffmpeg.download.rate_limit_kbps", int64(0), "Limit the download bandwidth, 0 for unlimited")
	val("ffmpeg.download.timeout_seconds", int64(30*60), "Maximum duration of the runtime download")
	val("ffmpeg.download.connect_timeout_seconds", int64(30), "Maximum duration for establishing the connection")
	val("ffmpeg.download.retries", 3, "Number of retries on connection errors")

	// Probe
	val("probe.cache.enable", false, "Cache probe results")
	val("probe.cache.file", "", "Path to the probe cache, leave empty for the data directory")

	// Playback
	val("playback.profile", "chromium", "Playback environment: chromium, safari, electron")
	val("playback.video", map[string]bool{}, "Override video codec support")
	val("playback.audio", map[string]bool{}, "Override audio codec support")
	val("playback.containers", map[string]bool{}, "Override container support")

	// Transcode
	val("transcode.output_dir", "", "Directory for transcoded files, leave empty for next to the input")
	val("transcode.concurrency", 4, "Number of files probed in parallel for a batch decision")

	// API
	val("api.cors_origins", []string{"*"}, "Allowed CORS origins for the API")
	val("api.compress", true, "Compress API responses with zstd, brotli, or gzip")

	// Metrics
	val("metrics.enable", true, "Enable the prometheus endpoint /metrics")

	// Debug
	val("debug.agent_address", "", "Listening address of the gops agent")
	val("debug.auto_max_procs", true, "Set GOMAXPROCS from the container CPU quota")
	val("debug.profiling", false, "Serve the pprof endpoints below /profiling")

	return vars
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(dir, "mediacore")
}

// New returns the default configuration.
func New() *Data {
	d, _ := load(viper.New(), "")

	return d
}

// Load reads the configuration from the file at path, if given, and the
// environment. Environment variables have precedence over the file.
func Load(path string) (*Data, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Data, error) {
	for _, vr := range Variables() {
		v.SetDefault(vr.Key, vr.Default)
		v.BindEnv(vr.Key, vr.EnvName)
	}

	if len(path) != 0 {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	d := &Data{}

	if err := v.Unmarshal(d); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	d.LoadedAt = time.Now()

	return d, nil
}

// Validate checks all values of the configuration.
func (d *Data) Validate() error {
	v := validator.New()
	v.RegisterValidation("semver_constraint", func(fl validator.FieldLevel) bool {
		_, err := semver.NewConstraint(fl.Field().String())
		return err == nil
	})

	if err := v.Struct(d); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// DownloadTimeout is the maximum duration of a runtime download.
func (d *Data) DownloadTimeout() time.Duration {
	return time.Duration(d.FFmpeg.Download.TimeoutSeconds) * time.Second
}

// ConnectTimeout is the maximum duration for connecting to the download host.
func (d *Data) ConnectTimeout() time.Duration {
	return time.Duration(d.FFmpeg.Download.ConnectTimeoutSeconds) * time.Second
}

// ProbeCacheFile returns the location of the probe cache.
func (d *Data) ProbeCacheFile() string {
	if len(d.Probe.Cache.File) != 0 {
		return d.Probe.Cache.File
	}

	return filepath.Join(d.DataDir, "probe.db")
}

// Watch calls onChange whenever the file at path is written. It returns
// immediately, the file is watched until the process exits.
func Watch(path string, onChange func()) {
	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange()
		}
	})
	v.WatchConfig()
}
