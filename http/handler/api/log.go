package api

import (
	"net/http"
	"strings"

	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/handler/util"
	"github.com/subplayer/mediacore/log"

	"github.com/labstack/echo/v4"
)

// The LogHandler type provides handler functions for reading the application log
type LogHandler struct {
	buffer log.BufferWriter
}

// NewLog return a new Log type. You have to provide log buffer.
func NewLog(buffer log.BufferWriter) *LogHandler {
	l := &LogHandler{
		buffer: buffer,
	}

	if l.buffer == nil {
		l.buffer = log.NewBufferWriter(log.Lsilent, 1)
	}

	return l
}

// Log returns the last log lines of the application. With format=raw the
// events are returned as objects, otherwise as formatted lines.
// @Summary Application log
// @Description Last lines of the application log.
// @Tags v1
// @ID log
// @Produce json
// @Param format query string false "Format of the lines" Enums(raw, console)
// @Success 200 {array} api.LogEvent
// @Success 200 {array} string
// @Router /api/v1/log [get]
func (p *LogHandler) Log(c echo.Context) error {
	format := util.DefaultQuery(c, "format", "console")

	events := p.buffer.Events()

	if format == "raw" {
		log := make([]api.LogEvent, len(events))

		for i, e := range events {
			log[i].Unmarshal(e)
		}

		return c.JSON(http.StatusOK, log)
	}

	formatter := log.NewConsoleFormatter(false)

	lines := make([]string, len(events))

	for i, e := range events {
		lines[i] = strings.TrimSpace(formatter.String(e))
	}

	return c.JSON(http.StatusOK, lines)
}
