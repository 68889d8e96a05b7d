package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// SkillController handles the skills marketplace
type SkillController struct {
	skillService services.SkillService
}

// NewSkillController creates a new SkillController
func NewSkillController(skillService services.SkillService) *SkillController {
	return &SkillController{
		skillService: skillService,
	}
}

// GetSkills godoc
// @Summary List open skill listings
// @Tags skills
// @Produce json
// @Param type query string false "OFFER or REQUEST"
// @Param category query string false "ACADEMIC or NON_ACADEMIC"
// @Param search query string false "Matches title, description and tags"
// @Success 200 {object} dto.APIResponse{data=dto.SkillListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /skills [get]
func (c *SkillController) GetSkills(ctx *gin.Context) {
	filter := models.SkillFilter{
		Type:     models.SkillType(ctx.Query("type")),
		Category: models.SkillCategory(ctx.Query("category")),
		Search:   ctx.Query("search"),
	}

	resp, err := c.skillService.ListSkills(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateSkill godoc
// @Summary Post a skill listing
// @Tags skills
// @Accept json
// @Produce json
// @Param skill body dto.CreateSkillRequest true "Listing"
// @Success 201 {object} dto.APIResponse{data=models.SkillListing}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	var req dto.CreateSkillRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	skill, err := c.skillService.CreateSkill(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(skill))
}

// UpdateSkill godoc
// @Summary Edit or close a skill listing
// @Description Only the owner may change a listing. Omitted fields are kept.
// @Tags skills
// @Accept json
// @Produce json
// @Param id path string true "Listing ID" format(uuid)
// @Param skill body dto.UpdateSkillRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.SkillListing}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /skills/{id} [patch]
func (c *SkillController) UpdateSkill(ctx *gin.Context) {
	id, ok := pathID(ctx, "skill listing")
	if !ok {
		return
	}

	var req dto.UpdateSkillRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	skill, err := c.skillService.UpdateSkill(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(skill))
}

// DeleteSkill godoc
// @Summary Delete a skill listing
// @Description Only the owner may delete a listing.
// @Tags skills
// @Produce json
// @Param id path string true "Listing ID" format(uuid)
// @Param userId query string true "Acting user id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /skills/{id} [delete]
func (c *SkillController) DeleteSkill(ctx *gin.Context) {
	id, ok := pathID(ctx, "skill listing")
	if !ok {
		return
	}

	userID := ctx.Query("userId")
	if userID != "" {
		if err := middleware.AuthorizeActor(ctx, userID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	if err := c.skillService.DeleteSkill(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Skill listing deleted"))
}
