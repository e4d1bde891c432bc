package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/shareit/internal/application/service"
	"github.com/garyjia/shareit/internal/domain/entity"
)

// statusFor maps service errors onto HTTP status codes. Access denial is
// reported as 404 so that other users' bookings are not revealed.
func statusFor(err error) int {
	var unknownState *entity.UnknownStateError
	switch {
	case errors.As(err, &unknownState):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAccessDenied):
		return http.StatusNotFound
	case errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrAlreadyApproved),
		errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error. Unexpected errors are logged and
// replaced with a generic message.
func (h *Handlers) respondError(c *gin.Context, err error, keysAndValues ...interface{}) {
	status := statusFor(err)
	message := err.Error()

	var unknownState *entity.UnknownStateError
	if errors.As(err, &unknownState) {
		message = unknownState.Error()
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", append([]interface{}{"path", c.FullPath(), "error", err}, keysAndValues...)...)
		message = "internal server error"
	}

	c.JSON(status, Response{Success: false, Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}
