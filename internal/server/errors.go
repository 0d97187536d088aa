package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/rs/zerolog"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errBadRequest marks request parameters that failed parsing before reaching the engine.
var errBadRequest = errors.New("bad request")

// classifyError maps engine and store errors to an HTTP status and a stable code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, core.ErrInvalidRange):
		return http.StatusBadRequest, "INVALID_RANGE"
	case errors.Is(err, core.ErrMetricNotFound):
		return http.StatusBadRequest, "METRIC_NOT_FOUND"
	case errors.Is(err, contract.ErrInvalidRecord):
		return http.StatusBadRequest, "INVALID_RECORD"
	case errors.Is(err, recordstore.ErrStoreDisabled):
		return http.StatusConflict, "STORE_DISABLED"
	case errors.Is(err, core.ErrCancelled):
		return http.StatusServiceUnavailable, "CANCELLED"
	case errors.Is(err, core.ErrFetchFailed):
		return http.StatusBadGateway, "FETCH_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// writeError logs the failure on the request logger and renders it as JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("code", code).Msg("request failed")

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error(), Code: code})
}
