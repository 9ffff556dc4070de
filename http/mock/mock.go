// Package mock has helpers for testing echo handlers against a real engine
// driven by the fake ffmpeg.
package mock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"

	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/encoding/json"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/ffmpeg/install"
	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/ffmpeg/skills"
	"github.com/subplayer/mediacore/http/errorhandler"
	"github.com/subplayer/mediacore/http/validator"
	"github.com/subplayer/mediacore/internal/testhelper"
	"github.com/subplayer/mediacore/process"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

// DummyEngine returns an engine that runs the fake ffmpeg. pathPrefix is the
// path from the calling package to the http directory. dataDir holds the
// install location.
func DummyEngine(pathPrefix, dataDir string) (*engine.Engine, error) {
	binary, err := testhelper.BuildBinary("ffmpeg", filepath.Join(pathPrefix, "../internal/testhelper"))
	if err != nil {
		return nil, fmt.Errorf("failed to build helper program: %w", err)
	}

	matrix, err := skills.NewMatrix(skills.ProfileChromium, skills.Overrides{})
	if err != nil {
		return nil, err
	}

	prober := probe.New(probe.Config{
		Binary: binary,
	})

	return engine.New(engine.Config{
		DataDir: dataDir,
		Installer: install.New(install.Config{
			DataDir: dataDir,
		}),
		Prober: prober,
		Decider: decision.New(decision.Config{
			Matrix: matrix,
			Prober: prober,
		}),
		Executor: process.New(process.Config{
			Binary: binary,
		}),
		Binary: binary,
	})
}

func DummyEcho() *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	router.Logger.SetOutput(io.Discard)
	router.Validator = validator.New()

	return router
}

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Raw     []byte
	Data    interface{}
}

func Request(t require.TestingT, httpstatus int, router *echo.Echo, method, path string, data io.Reader) *Response {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, data)
	if data != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	response := CheckResponse(t, w.Result())

	require.Equal(t, httpstatus, w.Code, string(response.Raw))

	return response
}

// RequestJSON sends v as JSON body.
func RequestJSON(t require.TestingT, httpstatus int, router *echo.Echo, method, path string, v interface{}) *Response {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return Request(t, httpstatus, router, method, path, bytes.NewReader(data))
}

func CheckResponse(t require.TestingT, res *http.Response) *Response {
	response := &Response{
		Code: res.StatusCode,
	}

	body, err := io.ReadAll(res.Body)
	require.Equal(t, nil, err)

	response.Raw = body

	if strings.Contains(res.Header.Get("Content-Type"), "application/json") {
		err := json.Unmarshal(body, &response.Data)
		require.Equal(t, nil, err)
	} else {
		response.Data = body
	}

	if response.Code != http.StatusOK {
		if data, ok := response.Data.(map[string]interface{}); ok {
			response.Message, _ = data["error"].(string)
		}
	}

	return response
}

// Decode unmarshals the raw body of the response into v.
func Decode(t require.TestingT, response *Response, v interface{}) {
	require.NoError(t, json.Unmarshal(response.Raw, v))
}

func Validate(t require.TestingT, datatype, data interface{}) bool {
	schema, err := jsonschema.Reflect(datatype).MarshalJSON()
	require.NoError(t, err)

	schemaLoader := gojsonschema.NewStringLoader(string(schema))
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	require.Equal(t, nil, err)
	require.Equal(t, true, result.Valid(), result.Errors())

	return true
}
