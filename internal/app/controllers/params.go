package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/campushub/internal/middleware"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// pathID returns the :id path segment in canonical form. A segment that is
// not a UUID is answered with 400 and ok is false.
func pathID(ctx *gin.Context, resource string) (string, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid "+resource+" ID"))
		return "", false
	}
	return id.String(), true
}
