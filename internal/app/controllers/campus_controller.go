package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// CampusController serves the admin-published boards: events and quizzes
type CampusController struct {
	eventService services.EventService
	quizService  services.QuizService
}

// NewCampusController creates a new CampusController
func NewCampusController(eventService services.EventService, quizService services.QuizService) *CampusController {
	return &CampusController{
		eventService: eventService,
		quizService:  quizService,
	}
}

// GetEvents godoc
// @Summary List campus events
// @Description Ordered by date, earliest first.
// @Tags events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events [get]
func (c *CampusController) GetEvents(ctx *gin.Context) {
	resp, err := c.eventService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateEvent godoc
// @Summary Publish a campus event
// @Description Admins only.
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /events [post]
func (c *CampusController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.OrganizerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// GetQuizzes godoc
// @Summary List practice quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.QuizListResponse}
// @Router /quizzes [get]
func (c *CampusController) GetQuizzes(ctx *gin.Context) {
	resp, err := c.quizService.ListQuizzes(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateQuiz godoc
// @Summary Publish a practice quiz
// @Description Admins only. Every question needs two or more options and a correct option index inside them.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.APIResponse{data=models.Quiz}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /quizzes [post]
func (c *CampusController) CreateQuiz(ctx *gin.Context) {
	var req dto.CreateQuizRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.CreatedBy); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	quiz, err := c.quizService.CreateQuiz(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(quiz))
}
