package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/controllers"
	"github.com/yigit/campushub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	chatController *controllers.ChatController,
	userController *controllers.UserController,
	discussionController *controllers.DiscussionController,
	resourceController *controllers.ResourceController,
	skillController *controllers.SkillController,
	campusController *controllers.CampusController,
	projectController *controllers.ProjectController,
	statsController *controllers.StatsController,
	authMiddleware *middleware.AuthMiddleware,
	writeLimiter gin.HandlerFunc,
) {
	// Health check is public and outside the token check
	router.GET("/health", statsController.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", statsController.Health)

	api := v1.Group("")
	api.Use(authMiddleware.JWTAuth(), writeLimiter)

	// Messages: scoped chats, direct messages and the inbox
	messages := api.Group("/messages")
	{
		messages.GET("", chatController.GetMessages)
		messages.POST("", chatController.PostMessage)
		messages.GET("/:id", chatController.GetMessage)
		messages.PATCH("/:id", chatController.UpdateMessage)
		messages.DELETE("/:id", chatController.DeleteMessage)
	}
	api.POST("/conversation-preferences", chatController.UpdateConversationPreference)

	// Users are addressed by their identity-provider subject
	users := api.Group("/users")
	{
		users.POST("", userController.SyncUser)
		users.GET("/id/:id", userController.GetUserByID)
		users.GET("/:uid", userController.GetUser)
		users.PUT("/:uid", userController.UpsertProfile)
		users.DELETE("/:uid", userController.DeleteUser)
		users.GET("/:uid/blocks", userController.ListBlocks)
		users.POST("/:uid/blocks", userController.UpdateBlock)
	}

	discussions := api.Group("/discussions")
	{
		discussions.GET("", discussionController.GetThreads)
		discussions.POST("", discussionController.CreateThread)
		discussions.PATCH("/:id", discussionController.UpdateThread)
		discussions.POST("/:id/comments", discussionController.AddComment)
	}

	// Campus boards
	api.GET("/resources", resourceController.GetResources)
	api.POST("/resources", resourceController.CreateResource)

	skills := api.Group("/skills")
	{
		skills.GET("", skillController.GetSkills)
		skills.POST("", skillController.CreateSkill)
		skills.PATCH("/:id", skillController.UpdateSkill)
		skills.DELETE("/:id", skillController.DeleteSkill)
	}

	// Events and quizzes are published by admins only
	api.GET("/events", campusController.GetEvents)
	api.POST("/events", campusController.CreateEvent)
	api.GET("/quizzes", campusController.GetQuizzes)
	api.POST("/quizzes", campusController.CreateQuiz)

	api.GET("/projects", projectController.GetProjects)
	api.POST("/projects", projectController.CreateProject)

	api.GET("/stats", statsController.GetStats)
}
