package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/notify"
	"github.com/datsun80zx/repairtrack/internal/sheets"
)

// badRequest marks errors caused by the caller's input
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(err error) error { return badRequest{err} }

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, sheets.Envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, sheets.Envelope{Success: false, Error: err.Error()})
}

// failErr picks the status for err
func failErr(c *gin.Context, err error) {
	var br badRequest
	var remote *sheets.RemoteError
	switch {
	case errors.As(err, &br),
		errors.Is(err, notify.ErrMissingRecipient),
		errors.Is(err, notify.ErrMissingMessage):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, jobs.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, notify.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, err)
	case errors.As(err, &remote):
		fail(c, http.StatusBadGateway, err)
	default:
		fail(c, http.StatusInternalServerError, err)
	}
}
