package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

const scopeConversations = "conversations"

// ChatController handles chat message operations
type ChatController struct {
	chatService         services.ChatService
	conversationService services.ConversationService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService, conversationService services.ConversationService) *ChatController {
	return &ChatController{
		chatService:         chatService,
		conversationService: conversationService,
	}
}

// GetMessages godoc
// @Summary List chat messages or the direct message inbox
// @Description Returns the most recent messages of a scope in ascending order with presence counters.
// @Description scope=conversations returns the viewer's direct message inbox instead.
// @Tags messages
// @Produce json
// @Param scope query string true "universal, branch, year, dm or conversations"
// @Param qualifier query string false "Branch name or year for the branch and year scopes"
// @Param viewerId query string false "Acting user id (required for dm and conversations)"
// @Param peerId query string false "Peer user id (required for dm)"
// @Success 200 {object} dto.APIResponse{data=dto.MessageListResponse}
// @Success 200 {object} dto.APIResponse{data=dto.ConversationListResponse} "scope=conversations"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Viewer not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages [get]
func (c *ChatController) GetMessages(ctx *gin.Context) {
	var query dto.ListMessagesQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	if query.ViewerID != "" {
		if err := middleware.AuthorizeActor(ctx, query.ViewerID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	if query.Scope == scopeConversations {
		resp, err := c.conversationService.ListConversations(ctx.Request.Context(), query.ViewerID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
		return
	}

	resp, err := c.chatService.ListMessages(ctx.Request.Context(), services.ListMessagesInput{
		Scope:     models.MessageScope(query.Scope),
		Qualifier: query.Qualifier,
		ViewerID:  query.ViewerID,
		PeerID:    query.PeerID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// PostMessage godoc
// @Summary Send a chat message
// @Description Posts to the universal, branch or year chat or sends a direct message.
// @Description Content passes the moderation gate; sticker-only messages skip it.
// @Tags messages
// @Accept json
// @Produce json
// @Param message body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Validation or moderation failure"
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Blocked or not a member of the scope"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Sender, recipient or reply target not found"
// @Failure 429 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages [post]
func (c *ChatController) PostMessage(ctx *gin.Context) {
	var req dto.PostMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.SenderID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg, err := c.chatService.PostMessage(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.MessageResponse{Message: msg}))
}

// GetMessage godoc
// @Summary Get a chat message
// @Tags messages
// @Produce json
// @Param id path string true "Message ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages/{id} [get]
func (c *ChatController) GetMessage(ctx *gin.Context) {
	id, ok := pathID(ctx, "message")
	if !ok {
		return
	}

	msg, err := c.chatService.GetMessage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: msg}))
}

// UpdateMessage godoc
// @Summary Act on a chat message
// @Description action=react toggles the caller's emoji reaction.
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "Message ID" format(uuid)
// @Param action body dto.MessageActionRequest true "Action"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages/{id} [patch]
func (c *ChatController) UpdateMessage(ctx *gin.Context) {
	id, ok := pathID(ctx, "message")
	if !ok {
		return
	}

	var req dto.MessageActionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg, err := c.chatService.ToggleReaction(ctx.Request.Context(), id, req.UserID, req.Emoji)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: msg}))
}

// DeleteMessage godoc
// @Summary Delete a chat message
// @Description Only the sender may delete a message.
// @Tags messages
// @Produce json
// @Param id path string true "Message ID" format(uuid)
// @Param userId query string true "Acting user id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages/{id} [delete]
func (c *ChatController) DeleteMessage(ctx *gin.Context) {
	id, ok := pathID(ctx, "message")
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

	if err := c.chatService.DeleteMessage(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Message deleted"))
}

// UpdateConversationPreference godoc
// @Summary Pin, unpin or delete a direct message conversation
// @Description At most three conversations can be pinned. delete removes every message between the two users.
// @Tags messages
// @Accept json
// @Produce json
// @Param preference body dto.ConversationPreferenceRequest true "Preference"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid target, invalid action or pin limit reached"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /conversation-preferences [post]
func (c *ChatController) UpdateConversationPreference(ctx *gin.Context) {
	var req dto.ConversationPreferenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeActor(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.conversationService.UpdatePreference(ctx.Request.Context(), req.UserID, req.TargetID, req.Action); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Conversation updated"))
}
