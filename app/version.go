// Package app holds the name and build information of the binary.
package app

import (
	"fmt"
	"runtime"
)

// Name of the app
const Name = "mediacore"

type versionInfo struct {
	Major int
	Minor int
	Patch int
}

func (v versionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Version of the app
var Version = versionInfo{
	Major: 1,
	Minor: 2,
	Patch: 0,
}

// Commit and Build are filled in with -ldflags during compilation.
var (
	Commit = ""
	Build  = ""
)

// Arch is the OS and CPU architecture the binary is built for.
var Arch = runtime.GOOS + "/" + runtime.GOARCH

// Compiler is the Go version the binary is built with.
var Compiler = runtime.Version()
