package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/middleware"
)

// retryableAfter is the hint sent with conflicts and storage outages
const retryableAfter = time.Second

// accountID returns the authenticated account. RequireAccount guarantees it on mounted routes.
func accountID(c *gin.Context) uint64 {
	id, _ := middleware.AccountIDFrom(c)
	return id
}

// parseIDParam reads a positive numeric path parameter, answering 400 when it is not one
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Invalid " + name + " format",
		})
		return 0, false
	}
	return id, true
}

// badRequest answers 400 for a malformed body or query
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.CodeInvalidRequest,
		Message: "Invalid request format: " + err.Error(),
	})
}

// respondError translates a use case error into a status code and body.
// Domain rejections were already logged by the engine; only server errors are logged here.
func respondError(c *gin.Context, logger coreport.Logger, operation string, err error) {
	status := domainerr.HTTPStatus(err)
	resp := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	}

	retryAfter, hinted := domainerr.RetryAfterHint(err)
	if !hinted && domainerr.IsRetryable(err) {
		retryAfter, hinted = retryableAfter, true
	}
	if hinted && retryAfter > 0 {
		seconds := int64(math.Ceil(retryAfter.Seconds()))
		c.Header("Retry-After", strconv.FormatInt(seconds, 10))
		resp.RetryAfterSeconds = seconds
	}

	fields := map[string]any{
		"operation":  operation,
		"status":     status,
		"error":      err.Error(),
		"error_code": resp.Code,
		"request_id": coreport.RequestIDFromContext(c.Request.Context()),
	}
	if id, ok := middleware.AccountIDFrom(c); ok {
		fields["account_id"] = id
	}

	if status >= http.StatusInternalServerError {
		if status == http.StatusInternalServerError {
			resp.Message = "Internal server error"
		} else {
			resp.Message = "Service temporarily unavailable"
		}
		logger.Error("Request failed", fields)
	} else {
		logger.Debug("Request rejected", fields)
	}

	_ = c.Error(err)
	c.JSON(status, resp)
}
