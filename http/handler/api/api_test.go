package api

import (
	"runtime"
	"sync"
	"testing"

	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/mock"

	"github.com/stretchr/testify/require"
)

var buildLock sync.Mutex

// dummyEngine returns an engine with the fake ffmpeg and the data directory.
func dummyEngine(t *testing.T) (*engine.Engine, string) {
	if runtime.GOOS == "windows" {
		t.Skip("the fake ffmpeg relies on signals")
	}

	buildLock.Lock()
	defer buildLock.Unlock()

	dir := t.TempDir()

	e, err := mock.DummyEngine("../..", dir)
	require.NoError(t, err)

	return e, dir
}
