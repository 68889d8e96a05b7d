package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/validation"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithBindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// BindQuery binds and validates the query string into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		abortWithBindError(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func abortWithBindError(c *gin.Context, err error, fallback string) {
	fields := validation.Describe(err)
	if len(fields) == 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, fallback).WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	details := make([]dto.FieldError, 0, len(fields))
	for _, f := range fields {
		details = append(details, dto.FieldError{Field: f.Field, Message: f.Message})
	}
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fields[0].Message).
		WithField(fields[0].Field).
		WithDetails(details).
		WithSeverity(dto.ErrorSeverityWarning)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
