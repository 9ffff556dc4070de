package api

import (
	"net/http"

	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/update"

	"github.com/labstack/echo/v4"
)

// The RuntimeHandler type provides handler functions for installing and
// inspecting ffmpeg.
type RuntimeHandler struct {
	engine  *engine.Engine
	updates update.Checker
}

// NewRuntime returns a new Runtime type. updates may be nil.
func NewRuntime(engine *engine.Engine, updates update.Checker) *RuntimeHandler {
	return &RuntimeHandler{
		engine:  engine,
		updates: updates,
	}
}

// Exists reports whether ffmpeg is installed
// @Summary Check whether ffmpeg is installed
// @Description Check whether an executable ffmpeg exists at the install path.
// @Tags v1
// @ID runtime-exists
// @Produce json
// @Success 200 {object} engine.ExistsResult
// @Router /api/v1/runtime [get]
func (h *RuntimeHandler) Exists(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.CheckExists(c.Request().Context()))
}

// Version returns the version of the installed ffmpeg
// @Summary Version of the installed ffmpeg
// @Description Version of the installed ffmpeg as reported by ffmpeg -version.
// @Tags v1
// @ID runtime-version
// @Produce json
// @Success 200 {object} engine.VersionResult
// @Router /api/v1/runtime/version [get]
func (h *RuntimeHandler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.GetVersion(c.Request().Context()))
}

// Download installs ffmpeg. It returns when the installation is finished,
// the progress is published as download events.
// @Summary Download and install ffmpeg
// @Description Download the ffmpeg archive for the platform, extract it and install the binary. Blocks until done.
// @Tags v1
// @ID runtime-download
// @Produce json
// @Success 200 {object} engine.Result
// @Router /api/v1/runtime/download [post]
func (h *RuntimeHandler) Download(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Download(c.Request().Context(), nil))
}

// Path returns the path ffmpeg is installed to
// @Summary Install path of ffmpeg
// @Tags v1
// @ID runtime-path
// @Produce json
// @Success 200 {object} engine.PathResult
// @Router /api/v1/runtime/path [get]
func (h *RuntimeHandler) Path(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.GetInstallPath())
}

// DataDir returns the directory of the application data
// @Summary Data directory
// @Tags v1
// @ID datadir
// @Produce json
// @Success 200 {object} engine.PathResult
// @Router /api/v1/datadir [get]
func (h *RuntimeHandler) DataDir(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.GetDataDirectory())
}

// Update compares the installed ffmpeg with the release that would be downloaded
// @Summary Check for an ffmpeg update
// @Description Compare the installed ffmpeg with the release that would be downloaded.
// @Tags v1
// @ID runtime-update
// @Produce json
// @Success 200 {object} api.Update
// @Failure 501 {object} api.Error
// @Router /api/v1/runtime/update [get]
func (h *RuntimeHandler) Update(c echo.Context) error {
	if h.updates == nil {
		return api.Err(http.StatusNotImplemented, "", "update check is disabled")
	}

	result, err := h.updates.Check(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, api.Update{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, api.Update{
		Success:         true,
		Installed:       result.Installed,
		Latest:          result.Latest,
		UpdateAvailable: result.UpdateAvailable,
	})
}
