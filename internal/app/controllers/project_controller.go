package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// ProjectController handles the project showcase
type ProjectController struct {
	projectService services.ProjectService
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// GetProjects godoc
// @Summary List showcased projects
// @Description Featured projects first, then newest first.
// @Tags projects
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse}
// @Router /projects [get]
func (c *ProjectController) GetProjects(ctx *gin.Context) {
	resp, err := c.projectService.ListProjects(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateProject godoc
// @Summary Add a project to the showcase
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Creator or team member not found"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.CreatorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project))
}
