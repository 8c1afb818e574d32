package api

import (
	"errors"
	"net/http"

	"trading-journal/internal/analytics"
	"trading-journal/internal/ledger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, analytics.ErrInvalidArgument),
		errors.Is(err, ledger.ErrInvalidTrade),
		errors.Is(err, ledger.ErrMemberNotFound),
		errors.Is(err, ledger.ErrInvalidMember),
		errors.Is(err, ledger.ErrInvalidBackup),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrTradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyClosed),
		errors.Is(err, ledger.ErrDuplicateMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts the request with the status matching err.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	requestID := c.GetString(requestIDKey)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), RequestID: requestID})
}
