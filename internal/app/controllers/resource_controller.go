package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// ResourceController handles the study material library
type ResourceController struct {
	resourceService services.ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
	}
}

// GetResources godoc
// @Summary List study resources
// @Description Newest first. search matches title, description and course code.
// @Tags resources
// @Produce json
// @Param type query string false "PYQ, NOTES, LINK or OTHER"
// @Param branch query string false "Branch filter"
// @Param uploaderId query string false "Uploader filter, ignored unless a user id"
// @Param search query string false "Case-insensitive text search"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /resources [get]
func (c *ResourceController) GetResources(ctx *gin.Context) {
	filter := models.ResourceFilter{
		Type:       models.ResourceType(ctx.Query("type")),
		Branch:     ctx.Query("branch"),
		UploaderID: ctx.Query("uploaderId"),
		Search:     ctx.Query("search"),
	}

	resp, err := c.resourceService.ListResources(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateResource godoc
// @Summary Share a study resource
// @Tags resources
// @Accept json
// @Produce json
// @Param resource body dto.CreateResourceRequest true "Resource"
// @Success 201 {object} dto.APIResponse{data=models.Resource}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Uploader not found"
// @Router /resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	var req dto.CreateResourceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UploaderID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resource, err := c.resourceService.CreateResource(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resource))
}
