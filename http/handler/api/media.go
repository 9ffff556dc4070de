package api

import (
	"net/http"

	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/handler/util"

	"github.com/labstack/echo/v4"
)

// The MediaHandler type provides handler functions for probing files and
// deciding about transcodes.
type MediaHandler struct {
	engine *engine.Engine
}

// NewMedia returns a new Media type
func NewMedia(engine *engine.Engine) *MediaHandler {
	return &MediaHandler{
		engine: engine,
	}
}

// Probe returns the metadata of a file
// @Summary Probe a media file
// @Description Read codecs, resolution, duration and bitrate of a file with ffmpeg.
// @Tags v1
// @ID probe
// @Accept json
// @Produce json
// @Param request body api.ProbeRequest true "File to probe"
// @Success 200 {object} engine.VideoInfoResult
// @Failure 400 {object} api.Error
// @Router /api/v1/probe [post]
func (h *MediaHandler) Probe(c echo.Context) error {
	req := api.ProbeRequest{}

	if err := util.ShouldBindJSON(c, &req); err != nil {
		return api.Err(http.StatusBadRequest, "", "invalid request: %s", err.Error())
	}

	return c.JSON(http.StatusOK, h.engine.GetVideoInfo(c.Request().Context(), req.Path))
}

// Recommend decides about a file. If a list of paths is given, the result
// is a map from path to recommendation.
// @Summary Recommend a transcode
// @Description Decide which transcode makes a file playable. With paths, a batch of files is decided and api.RecommendBatch is returned.
// @Tags v1
// @ID recommend
// @Accept json
// @Produce json
// @Param request body api.RecommendRequest true "File or files to decide about"
// @Success 200 {object} engine.RecommendResult
// @Failure 400 {object} api.Error
// @Router /api/v1/recommend [post]
func (h *MediaHandler) Recommend(c echo.Context) error {
	req := api.RecommendRequest{}

	if err := util.ShouldBindJSON(c, &req); err != nil {
		return api.Err(http.StatusBadRequest, "", "invalid request: %s", err.Error())
	}

	ctx := c.Request().Context()

	if len(req.Paths) != 0 {
		return c.JSON(http.StatusOK, api.RecommendBatch{
			Success: true,
			Results: h.engine.RecommendBatch(ctx, req.Paths),
		})
	}

	return c.JSON(http.StatusOK, h.engine.Recommend(ctx, req.Path))
}
