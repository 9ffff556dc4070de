package api

// About is some general information about the instance
type About struct {
	App       string       `json:"app"`
	Name      string       `json:"name"`
	ID        string       `json:"id"`
	CreatedAt string       `json:"created_at"` // RFC3339
	Uptime    uint64       `json:"uptime_seconds" format:"uint64"`
	Version   AboutVersion `json:"version"`
	FFmpeg    AboutFFmpeg  `json:"ffmpeg"`
}

// AboutVersion is some information about the binary
type AboutVersion struct {
	Number   string `json:"number"`
	Commit   string `json:"repository_commit"`
	Build    string `json:"build_date"` // RFC3339
	Arch     string `json:"arch"`
	Compiler string `json:"compiler"`
}

// AboutFFmpeg describes the ffmpeg in use.
type AboutFFmpeg struct {
	Binary    string `json:"binary"`
	Installed bool   `json:"installed"`
	Version   string `json:"version"`
	Profile   string `json:"profile"`
}

// Update is the envelope of the update check.
type Update struct {
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
	Installed       string `json:"installed"`
	Latest          string `json:"latest"`
	UpdateAvailable bool   `json:"update_available"`
}
