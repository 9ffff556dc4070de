package config

import "time"

// Data is the actual configuration data for the app
type Data struct {
	LoadedAt        time.Time `json:"-" mapstructure:"-"`
	ID              string    `json:"id" mapstructure:"id" validate:"required"`
	Name            string    `json:"name" mapstructure:"name"`
	Address         string    `json:"address" mapstructure:"address" validate:"required,hostname_port"`
	DataDir         string    `json:"data_dir" mapstructure:"data_dir" validate:"required"`
	CheckForUpdates bool      `json:"update_check" mapstructure:"update_check"`
	Log             struct {
		Level    string   `json:"level" mapstructure:"level" validate:"oneof=debug info warn error silent" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,enum=silent"`
		Topics   []string `json:"topics" mapstructure:"topics"`
		MaxLines int      `json:"max_lines" mapstructure:"max_lines" validate:"gte=0"`
		JSON     bool     `json:"json" mapstructure:"json"`
	} `json:"log" mapstructure:"log"`
	FFmpeg struct {
		Binary     string `json:"binary" mapstructure:"binary"`
		MinVersion string `json:"min_version" mapstructure:"min_version" validate:"omitempty,semver_constraint"`
		Download   struct {
			URL                   string `json:"url" mapstructure:"url" validate:"omitempty,url"`
			RateLimit             int64  `json:"rate_limit_kbps" mapstructure:"rate_limit_kbps" validate:"gte=0"`
			TimeoutSeconds        int64  `json:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gt=0"`
			ConnectTimeoutSeconds int64  `json:"connect_timeout_seconds" mapstructure:"connect_timeout_seconds" validate:"gt=0"`
			Retries               int    `json:"retries" mapstructure:"retries" validate:"gte=0,lte=10"`
		} `json:"download" mapstructure:"download"`
	} `json:"ffmpeg" mapstructure:"ffmpeg"`
	Probe struct {
		Cache struct {
			Enable bool   `json:"enable" mapstructure:"enable"`
			File   string `json:"file" mapstructure:"file"`
		} `json:"cache" mapstructure:"cache"`
	} `json:"probe" mapstructure:"probe"`
	Playback struct {
		Profile    string          `json:"profile" mapstructure:"profile" validate:"oneof=chromium safari electron"`
		Video      map[string]bool `json:"video" mapstructure:"video"`
		Audio      map[string]bool `json:"audio" mapstructure:"audio"`
		Containers map[string]bool `json:"containers" mapstructure:"containers"`
	} `json:"playback" mapstructure:"playback"`
	Transcode struct {
		OutputDir   string `json:"output_dir" mapstructure:"output_dir"`
		Concurrency int    `json:"concurrency" mapstructure:"concurrency" validate:"gte=1,lte=64"`
	} `json:"transcode" mapstructure:"transcode"`
	API struct {
		CorsOrigins []string `json:"cors_origins" mapstructure:"cors_origins" validate:"dive,required"`
		Compress    bool     `json:"compress" mapstructure:"compress"`
	} `json:"api" mapstructure:"api"`
	Metrics struct {
		Enable bool `json:"enable" mapstructure:"enable"`
	} `json:"metrics" mapstructure:"metrics"`
	Debug struct {
		AgentAddress string `json:"agent_address" mapstructure:"agent_address" validate:"omitempty,hostname_port"`
		AutoMaxProcs bool   `json:"auto_max_procs" mapstructure:"auto_max_procs"`
		Profiling    bool   `json:"profiling" mapstructure:"profiling"`
	} `json:"debug" mapstructure:"debug"`
}
