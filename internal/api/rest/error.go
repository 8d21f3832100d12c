package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail carries the service error code alongside its message. The codes
// are the wire-level numeric codes clients already dispatch on.
type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError translates a service error into an HTTP response. Coded errors
// keep their numeric code in the envelope; anything uncoded is a 500 and gets
// logged.
func respondError(c *gin.Context, err error) {
	var coded *domain.Error
	if errors.As(err, &coded) {
		c.JSON(statusFor(coded.Code), errorResponse{
			Error: errorDetail{Code: coded.Code, Message: coded.Message},
		})
		return
	}

	logger.Error(err)
	c.JSON(http.StatusInternalServerError, errorResponse{
		Error: errorDetail{Code: http.StatusInternalServerError, Message: "internal server error"},
	})
}

func statusFor(code int) int {
	switch code {
	case domain.CodeWrongArguments:
		return http.StatusBadRequest
	case domain.CodeDataAbsent:
		return http.StatusNotFound
	case domain.CodeInvalidActionObject:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
