package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/logger"
)

// errorMapping describes how one error class is reported to clients
type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// Order matters: the specific not found errors come before the generic one.
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Bad request"},
	{apperrors.ErrModerationRejected, http.StatusBadRequest, dto.ErrorCodeModerationRejected, "Content rejected"},
	{apperrors.ErrLimitExceeded, http.StatusBadRequest, dto.ErrorCodeLimitExceeded, "Limit exceeded"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrMessageNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Message not found"},
	{apperrors.ErrReplyTargetMissing, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Reply target not found"},
	{apperrors.ErrThreadNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Discussion not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
}

// HandleAPIError writes the error response for err. Errors carrying a client
// message keep it; anything unrecognised becomes a 500 and is logged.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg, ok := apperrors.UserMessage(err)
		if !ok {
			msg = m.fallback
		}
		detail := dto.NewErrorDetail(m.code, msg)
		if m.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.FromContext(c.Request.Context()).Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)))
}
