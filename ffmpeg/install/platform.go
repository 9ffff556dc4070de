package install

import (
	"fmt"
	"path/filepath"
)

// Archive formats of the downloads.
const (
	ArchiveZip   = "zip"
	ArchiveTarXZ = "tar.xz"
)

// Platform describes where to get ffmpeg for an operating system.
type Platform struct {
	// URL of the archive.
	URL string

	// Archive is the format of the archive, ArchiveZip or ArchiveTarXZ.
	Archive string

	// Executable is the name of the binary in the archive. It may be a
	// glob pattern.
	Executable string

	// Version is the release that the URL points to.
	Version string
}

var platforms = map[string]Platform{
	"windows": {
		URL:        "https://www.gyan.dev/ffmpeg/builds/packages/ffmpeg-7.1-essentials_build.zip",
		Archive:    ArchiveZip,
		Executable: "ffmpeg.exe",
		Version:    "7.1",
	},
	"darwin": {
		URL:        "https://evermeet.cx/ffmpeg/ffmpeg-7.1.zip",
		Archive:    ArchiveZip,
		Executable: "ffmpeg",
		Version:    "7.1",
	},
	"linux": {
		URL:        "https://johnvansickle.com/ffmpeg/releases/ffmpeg-7.1-amd64-static.tar.xz",
		Archive:    ArchiveTarXZ,
		Executable: "ffmpeg",
		Version:    "7.1",
	},
}

// PlatformFor returns the download for the operating system.
func PlatformFor(goos string) (Platform, error) {
	p, ok := platforms[goos]
	if !ok {
		return Platform{}, fmt.Errorf("%s: %w", goos, ErrUnsupportedPlatform)
	}

	return p, nil
}

// ExecutableName returns the file name of ffmpeg on the operating system.
func ExecutableName(goos string) string {
	if goos == "windows" {
		return "ffmpeg.exe"
	}

	return "ffmpeg"
}

// ResolveInstallPath returns the path ffmpeg is installed to below dataDir.
func ResolveInstallPath(dataDir, goos string) string {
	return filepath.Join(dataDir, "ffmpeg", ExecutableName(goos))
}
