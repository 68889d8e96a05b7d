package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

// DiscussionController handles the discussion board
type DiscussionController struct {
	discussionService services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService services.DiscussionService) *DiscussionController {
	return &DiscussionController{
		discussionService: discussionService,
	}
}

// GetThreads godoc
// @Summary List discussion threads
// @Tags discussions
// @Produce json
// @Param category query string false "Category filter"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ThreadListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /discussions [get]
func (c *DiscussionController) GetThreads(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.discussionService.ListThreads(ctx.Request.Context(), ctx.Query("category"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateThread godoc
// @Summary Open a discussion thread
// @Description Title and content pass the moderation gate. Content is markdown.
// @Tags discussions
// @Accept json
// @Produce json
// @Param thread body dto.CreateThreadRequest true "Thread"
// @Success 201 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Author not found"
// @Router /discussions [post]
func (c *DiscussionController) CreateThread(ctx *gin.Context) {
	var req dto.CreateThreadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.AuthorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	thread, err := c.discussionService.CreateThread(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(thread))
}

// UpdateThread godoc
// @Summary Act on a discussion thread
// @Description action=upvote toggles the caller's upvote.
// @Tags discussions
// @Accept json
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param action body dto.ThreadActionRequest true "Action"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /discussions/{id} [patch]
func (c *DiscussionController) UpdateThread(ctx *gin.Context) {
	id, ok := pathID(ctx, "discussion")
	if !ok {
		return
	}

	var req dto.ThreadActionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	thread, err := c.discussionService.ToggleUpvote(ctx.Request.Context(), id, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(thread))
}

// AddComment godoc
// @Summary Comment on a discussion thread
// @Tags discussions
// @Accept json
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param comment body dto.AddCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.DiscussionComment}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /discussions/{id}/comments [post]
func (c *DiscussionController) AddComment(ctx *gin.Context) {
	id, ok := pathID(ctx, "discussion")
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.AuthorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comment, err := c.discussionService.AddComment(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}
