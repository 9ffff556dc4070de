// Package url converts between local file system paths and file:// URLs.
package url

import (
	"fmt"
	"net/url"
	"regexp"
	"runtime"
	"strings"
)

var reScheme = regexp.MustCompile(`(?i)^([a-z][a-z0-9.+-]*):/{1,3}`)

// HasScheme returns whether the address has an URL scheme prefix
func HasScheme(address string) bool {
	return reScheme.MatchString(address)
}

// IsFileURL returns whether the address is a file:// URL.
func IsFileURL(address string) bool {
	return strings.HasPrefix(strings.ToLower(address), "file://")
}

// ToFileURL returns the file:// URL for a local path. Every path segment is
// percent-encoded with uppercase hex digits such that non-ASCII file names
// survive the round trip through ToLocalPath. A URL with lowercase escapes
// decodes to the same path but isn't reproduced byte by byte.
func ToFileURL(path string) string {
	return toFileURL(path, runtime.GOOS)
}

func toFileURL(path, goos string) string {
	if goos == "windows" {
		path = strings.ReplaceAll(path, `\`, "/")
	}

	segments := strings.Split(path, "/")
	for i, s := range segments {
		if goos == "windows" && i == 0 && isDrive(s) {
			continue
		}

		segments[i] = url.PathEscape(s)
	}

	encoded := strings.Join(segments, "/")
	if !strings.HasPrefix(encoded, "/") {
		encoded = "/" + encoded
	}

	return "file://" + encoded
}

// ToLocalPath returns the local path of a file:// URL. Any other address is
// returned unchanged. On Windows the separator in front of the drive letter
// is removed.
func ToLocalPath(address string) (string, error) {
	return toLocalPath(address, runtime.GOOS)
}

func toLocalPath(address, goos string) (string, error) {
	if !IsFileURL(address) {
		return address, nil
	}

	rest := address[len("file://"):]

	if !strings.HasPrefix(rest, "/") {
		host, path, _ := strings.Cut(rest, "/")
		if host != "localhost" {
			return "", fmt.Errorf("file URL with remote host %q is not supported", host)
		}

		rest = "/" + path
	}

	path, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("invalid file URL: %w", err)
	}

	if goos == "windows" {
		if len(path) >= 3 && path[0] == '/' && isDrive(path[1:3]) {
			path = path[1:]
		}

		path = strings.ReplaceAll(path, "/", `\`)
	}

	return path, nil
}

func isDrive(s string) bool {
	if len(s) != 2 || s[1] != ':' {
		return false
	}

	c := s[0]

	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
