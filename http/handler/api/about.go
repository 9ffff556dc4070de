package api

import (
	"net/http"
	"time"

	"github.com/subplayer/mediacore/app"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"

	"github.com/labstack/echo/v4"
)

type AboutConfig struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Profile   string
	Engine    *engine.Engine
}

// The AboutHandler type provides handler functions for retrieving details
// about the instance and build infos.
type AboutHandler struct {
	config AboutConfig
}

// NewAbout returns a new About type
func NewAbout(config AboutConfig) *AboutHandler {
	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now()
	}

	return &AboutHandler{
		config: config,
	}
}

// About returns the build infos and the ffmpeg in use
// @Summary Build infos and the ffmpeg in use
// @Description Build infos of the application and the ffmpeg binary it uses.
// @Tags v1
// @ID about
// @Produce json
// @Success 200 {object} api.About
// @Router /api/v1 [get]
func (p *AboutHandler) About(c echo.Context) error {
	createdAt := p.config.CreatedAt

	about := api.About{
		App:       app.Name,
		Name:      p.config.Name,
		ID:        p.config.ID,
		CreatedAt: createdAt.Format(time.RFC3339),
		Uptime:    uint64(time.Since(createdAt).Seconds()),
		Version: api.AboutVersion{
			Number:   app.Version.String(),
			Commit:   app.Commit,
			Build:    app.Build,
			Arch:     app.Arch,
			Compiler: app.Compiler,
		},
		FFmpeg: api.AboutFFmpeg{
			Profile: p.config.Profile,
		},
	}

	if e := p.config.Engine; e != nil {
		ctx := c.Request().Context()

		about.FFmpeg.Binary = e.Binary()
		about.FFmpeg.Installed = e.CheckExists(ctx).Exists

		if v := e.GetVersion(ctx); v.Success {
			about.FFmpeg.Version = v.Version
		}
	}

	return c.JSON(http.StatusOK, about)
}
