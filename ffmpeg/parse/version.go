package parse

import "strings"

// Version parses the first line of `ffmpeg -version`. It returns the name of
// the program and its version string as printed.
func Version(output string) (name, version string, ok bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")

	matches := reVersion.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return "", "", false
	}

	return matches[1], matches[2], true
}

// VersionNumber extracts the leading numeric release from a version string,
// e.g. "6.1.1" from "6.1.1-static" or "7.0" from "n7.0-ubuntu". Snapshot
// builds like "N-113045-g1a2b3c" have no release number and return false.
func VersionNumber(version string) (string, bool) {
	matches := reVersionNumber.FindStringSubmatch(version)
	if matches == nil {
		return "", false
	}

	return matches[1], true
}
