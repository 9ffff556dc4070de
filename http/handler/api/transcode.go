package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/subplayer/mediacore/encoding/json"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/handler/util"
	"github.com/subplayer/mediacore/net/url"

	"github.com/labstack/echo/v4"
)

// The TranscodeHandler type provides handler functions for running,
// cancelling, and observing a transcode.
type TranscodeHandler struct {
	engine    *engine.Engine
	keepalive time.Duration
}

// NewTranscode returns a new Transcode type
func NewTranscode(engine *engine.Engine) *TranscodeHandler {
	return &TranscodeHandler{
		engine:    engine,
		keepalive: 5 * time.Second,
	}
}

// Start runs a transcode and returns when it is finished. If the client
// goes away, the transcode is cancelled.
// @Summary Run a transcode
// @Description Transcode a file and return when ffmpeg has exited. Only one transcode runs at a time.
// @Tags v1
// @ID transcode-start
// @Accept json
// @Produce json
// @Param request body api.TranscodeRequest true "Transcode"
// @Success 200 {object} engine.TranscodeResult
// @Failure 400 {object} api.Error
// @Router /api/v1/transcode [post]
func (h *TranscodeHandler) Start(c echo.Context) error {
	req := api.TranscodeRequest{}

	if err := util.ShouldBindJSON(c, &req); err != nil {
		return api.Err(http.StatusBadRequest, "", "invalid request: %s", err.Error())
	}

	result := h.engine.Transcode(c.Request().Context(), engine.TranscodeRequest{
		Input:   req.Input,
		Output:  req.Output,
		Options: req.Options.Marshal(),
	}, nil)

	return c.JSON(http.StatusOK, result)
}

// Cancel cancels the running transcode
// @Summary Cancel the running transcode
// @Tags v1
// @ID transcode-cancel
// @Produce json
// @Success 200 {object} engine.Result
// @Router /api/v1/transcode [delete]
func (h *TranscodeHandler) Cancel(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.CancelTranscode())
}

// Status returns the running transcode
// @Summary Status of the running transcode
// @Tags v1
// @ID transcode-status
// @Produce json
// @Success 200 {object} api.TranscodeState
// @Router /api/v1/transcode [get]
func (h *TranscodeHandler) Status(c echo.Context) error {
	state := api.TranscodeState{
		Success: true,
	}

	if status, running := h.engine.Status(); running {
		state.Running = true
		state.Status = &api.TranscodeStatus{}
		state.Status.Unmarshal(status)
	}

	return c.JSON(http.StatusOK, state)
}

// Stats returns the counters of the engine
// @Summary Counters of the engine
// @Tags v1
// @ID stats
// @Produce json
// @Success 200 {object} api.Stats
// @Router /api/v1/stats [get]
func (h *TranscodeHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, api.Stats{
		Success: true,
		Stats:   h.engine.Stats(),
	})
}

// Events streams the progress and the outcome of transcodes and downloads
// as server-sent events, or as a JSON stream if the client accepts
// application/x-json-stream.
// @Summary Stream of transcode and download events
// @Tags v1
// @ID transcode-events
// @Produce text/event-stream
// @Produce json-stream
// @Success 200 {object} engine.Event
// @Router /api/v1/transcode/events [get]
func (h *TranscodeHandler) Events(c echo.Context) error {
	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	req := c.Request()
	reqctx := req.Context()

	contentType := "text/event-stream"
	accept := req.Header.Get(echo.HeaderAccept)
	if strings.Contains(accept, "application/x-json-stream") {
		contentType = "application/x-json-stream"
	}

	sse := contentType == "text/event-stream"

	res := c.Response()

	res.Header().Set(echo.HeaderContentType, contentType+"; charset=UTF-8")
	res.Header().Set(echo.HeaderCacheControl, "no-store")
	res.Header().Set(echo.HeaderConnection, "close")
	res.WriteHeader(http.StatusOK)

	evts, cancel := h.engine.Subscribe()
	defer cancel()

	keepalive := func() {
		if sse {
			res.Write([]byte(":keepalive\n\n"))
		} else {
			res.Write([]byte("{\"type\": \"keepalive\"}\n"))
		}
		res.Flush()
	}

	keepalive()

	for {
		select {
		case <-reqctx.Done():
			return nil
		case <-ticker.C:
			keepalive()
		case e, ok := <-evts:
			if !ok {
				return nil
			}

			if len(e.Input) != 0 {
				e.Input = url.ToFileURL(e.Input)
			}

			data, err := json.Marshal(e)
			if err != nil {
				return err
			}

			if sse {
				res.Write([]byte("event: " + e.Type + "\ndata: "))
				res.Write(data)
				res.Write([]byte("\n\n"))
			} else {
				res.Write(data)
				res.Write([]byte("\n"))
			}

			res.Flush()
		}
	}
}
