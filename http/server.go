// @title mediacore API
// @version 1.0
// @description Install ffmpeg and transcode media files for playback.

// @license.name MIT

// @BasePath /

// Package http exposes the engine as a JSON API with echo.
package http

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/errorhandler"
	api "github.com/subplayer/mediacore/http/handler/api"
	httplog "github.com/subplayer/mediacore/http/log"
	"github.com/subplayer/mediacore/http/validator"
	"github.com/subplayer/mediacore/log"
	"github.com/subplayer/mediacore/update"

	mwcompress "github.com/subplayer/mediacore/http/middleware/compress"
	mwcors "github.com/subplayer/mediacore/http/middleware/cors"
	mwlog "github.com/subplayer/mediacore/http/middleware/log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/subplayer/mediacore/docs"
)

var errNoEngine = errors.New("no engine provided")

type Config struct {
	Logger    log.Logger
	LogBuffer log.BufferWriter
	Engine    *engine.Engine

	// Updates may be nil if the update check is disabled.
	Updates update.Checker

	// Metrics serves /metrics, if not nil.
	Metrics http.Handler

	ID        string
	Name      string
	CreatedAt time.Time
	Profile   string

	CorsOrigins []string
	Compress    bool
	Profiling   bool
}

type Server interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type server struct {
	logger log.Logger

	handler struct {
		about     *api.AboutHandler
		runtime   *api.RuntimeHandler
		media     *api.MediaHandler
		transcode *api.TranscodeHandler
		log       *api.LogHandler
		metrics   http.Handler
	}

	middleware struct {
		log      echo.MiddlewareFunc
		cors     echo.MiddlewareFunc
		compress echo.MiddlewareFunc
	}

	router    *echo.Echo
	profiling bool
}

// NewServer returns the API server. An engine must be provided.
func NewServer(config Config) (Server, error) {
	s := &server{
		logger:    config.Logger,
		profiling: config.Profiling,
	}

	if s.logger == nil {
		s.logger = log.New("HTTP")
	}

	if config.Engine == nil {
		return nil, errNoEngine
	}

	s.handler.about = api.NewAbout(api.AboutConfig{
		ID:        config.ID,
		Name:      config.Name,
		CreatedAt: config.CreatedAt,
		Profile:   config.Profile,
		Engine:    config.Engine,
	})
	s.handler.runtime = api.NewRuntime(config.Engine, config.Updates)
	s.handler.media = api.NewMedia(config.Engine)
	s.handler.transcode = api.NewTranscode(config.Engine)
	s.handler.log = api.NewLog(config.LogBuffer)
	s.handler.metrics = config.Metrics

	s.middleware.log = mwlog.NewWithConfig(mwlog.Config{
		Logger: s.logger,
	})

	if len(config.CorsOrigins) != 0 {
		cors, err := mwcors.NewWithConfig(mwcors.Config{
			Origins: config.CorsOrigins,
		})
		if err != nil {
			return nil, err
		}

		s.middleware.cors = cors
	}

	if config.Compress {
		s.middleware.compress = mwcompress.NewWithConfig(mwcompress.Config{
			Level:        mwcompress.BestSpeed,
			ContentTypes: []string{echo.MIMEApplicationJSON, echo.MIMETextPlain},
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, "/events")
			},
		})
	}

	s.router = echo.New()
	s.router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	s.router.Validator = validator.New()
	s.router.Use(s.middleware.log)
	s.router.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			rows := strings.Split(string(stack), "\n")
			s.logger.Error().WithField("stack", rows).Log("recovered from a panic")
			return nil
		},
	}))

	s.router.HideBanner = true
	s.router.HidePort = true

	s.router.Logger.SetOutput(httplog.NewWrapper(s.logger))

	if s.middleware.cors != nil {
		s.router.Use(s.middleware.cors)
	}

	s.setRoutes()

	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) setRoutes() {
	v1 := s.router.Group("/api/v1")

	if s.middleware.compress != nil {
		v1.Use(s.middleware.compress)
	}

	v1.GET("", s.handler.about.About)

	v1.GET("/runtime", s.handler.runtime.Exists)
	v1.GET("/runtime/version", s.handler.runtime.Version)
	v1.POST("/runtime/download", s.handler.runtime.Download)
	v1.GET("/runtime/path", s.handler.runtime.Path)
	v1.GET("/runtime/update", s.handler.runtime.Update)
	v1.GET("/datadir", s.handler.runtime.DataDir)

	v1.POST("/probe", s.handler.media.Probe)
	v1.POST("/recommend", s.handler.media.Recommend)

	v1.GET("/transcode", s.handler.transcode.Status)
	v1.POST("/transcode", s.handler.transcode.Start)
	v1.DELETE("/transcode", s.handler.transcode.Cancel)
	v1.GET("/transcode/events", s.handler.transcode.Events)
	v1.GET("/stats", s.handler.transcode.Stats)

	v1.GET("/log", s.handler.log.Log)

	// Swagger API documentation router group
	doc := s.router.Group("/api/swagger/*")
	if s.middleware.compress != nil {
		doc.Use(s.middleware.compress)
	}
	doc.GET("", echoSwagger.WrapHandler)

	s.router.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	if s.handler.metrics != nil {
		s.router.GET("/metrics", echo.WrapHandler(s.handler.metrics))
	}

	if s.profiling {
		prof := s.router.Group("/profiling")

		prof.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
		prof.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
		prof.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
		prof.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
		prof.POST("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
		prof.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))

		for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			prof.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
		}
	}
}
