package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// UserController handles profile operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// SyncUser godoc
// @Summary Sync the signed-in user
// @Description Returns the profile for the identity-provider subject, creating it on first sign in.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.SyncUserRequest true "Identity"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Email used by another account"
// @Router /users [post]
func (c *UserController) SyncUser(ctx *gin.Context) {
	var req dto.SyncUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeSubject(ctx, req.AuthSubject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.SyncUser(ctx.Request.Context(), req.AuthSubject, req.Email, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserResponse{User: user}))
}

// GetUser godoc
// @Summary Get a profile by auth subject
// @Description user is null when no profile exists yet.
// @Tags users
// @Produce json
// @Param uid path string true "Auth subject"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/{uid} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	subject := ctx.Param("uid")
	if err := middleware.AuthorizeSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.GetUserBySubject(ctx.Request.Context(), subject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserResponse{User: user}))
}

// GetUserByID godoc
// @Summary Get a profile by user id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid user ID"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/id/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "user")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserResponse{User: user}))
}

// UpsertProfile godoc
// @Summary Create or update a profile
// @Description Branch and year lock once both are set. Later changes to them are ignored.
// @Tags users
// @Accept json
// @Produce json
// @Param uid path string true "Auth subject"
// @Param profile body dto.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/{uid} [put]
func (c *UserController) UpsertProfile(ctx *gin.Context) {
	subject := ctx.Param("uid")
	if err := middleware.AuthorizeSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpsertProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpsertProfile(ctx.Request.Context(), subject, req.ToProfileUpdate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserResponse{User: user}))
}

// DeleteUser godoc
// @Summary Delete a profile
// @Tags users
// @Produce json
// @Param uid path string true "Auth subject"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/{uid} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	subject := ctx.Param("uid")
	if err := middleware.AuthorizeSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deleted"))
}

// UpdateBlock godoc
// @Summary Block or unblock a user
// @Tags users
// @Accept json
// @Produce json
// @Param uid path string true "Auth subject"
// @Param block body dto.BlockRequest true "Block action"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/{uid}/blocks [post]
func (c *UserController) UpdateBlock(ctx *gin.Context) {
	subject := ctx.Param("uid")
	if err := middleware.AuthorizeSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.BlockRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	update := c.userService.BlockUser
	if req.Action == "unblock" {
		update = c.userService.UnblockUser
	}
	user, err := update(ctx.Request.Context(), subject, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserResponse{User: user}))
}

// ListBlocks godoc
// @Summary List blocked users
// @Tags users
// @Produce json
// @Param uid path string true "Auth subject"
// @Success 200 {object} dto.APIResponse{data=dto.BlockedUsersResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /users/{uid}/blocks [get]
func (c *UserController) ListBlocks(ctx *gin.Context) {
	subject := ctx.Param("uid")
	if err := middleware.AuthorizeSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	blocked, err := c.userService.ListBlockedUsers(ctx.Request.Context(), subject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.BlockedUsersResponse{BlockedUsers: blocked}))
}
