package dto

import (
	"github.com/yigit/campushub/internal/app/models"
)

// --- Request DTOs ---

// ListMessagesQuery represents the query string of GET /messages.
// scope=conversations selects the inbox view.
type ListMessagesQuery struct {
	Scope     string `form:"scope" binding:"required,oneof=universal branch year dm conversations"`
	Qualifier string `form:"qualifier"`
	ViewerID  string `form:"viewerId" binding:"omitempty,uuid"`
	PeerID    string `form:"peerId" binding:"omitempty,uuid"`
}

// PostMessageRequest represents data for creating a new chat message
type PostMessageRequest struct {
	Content     *string `json:"content,omitempty" example:"See you at the fest!"`
	Sticker     *string `json:"sticker,omitempty" example:"https://cdn.example.com/stickers/wave.webp"`
	SenderID    string  `json:"senderId" binding:"required,uuid" example:"6f1c2a7e-3d2b-4b7a-9a51-0c1d2e3f4a5b"`
	Scope       string  `json:"scope" binding:"required,msgscope" example:"branch"`
	Qualifier   *string `json:"qualifier,omitempty" example:"CSE"`
	RecipientID *string `json:"recipientId,omitempty" binding:"omitempty,uuid"`
	ReplyTo     *string `json:"replyTo,omitempty" binding:"omitempty,uuid"`
}

// MessageActionRequest represents the body of PATCH /messages/:id
type MessageActionRequest struct {
	Action string `json:"action" binding:"required,oneof=react" example:"react"`
	UserID string `json:"userId" binding:"required,uuid"`
	Emoji  string `json:"emoji" binding:"required,max=32" example:"👍"`
}

// ConversationPreferenceRequest represents the body of POST /conversation-preferences
type ConversationPreferenceRequest struct {
	UserID   string `json:"userId" binding:"required,uuid"`
	TargetID string `json:"targetId" binding:"required,uuid"`
	Action   string `json:"action" binding:"required" example:"pin"`
}

// --- Response DTOs ---

// MessageListResponse is returned for the universal, branch, year and dm scopes
type MessageListResponse struct {
	Messages      []*models.ChatMessage `json:"messages"`
	OnlineCount   int64                 `json:"onlineCount" example:"12"`
	TotalUsers    int64                 `json:"totalUsers" example:"340"`
	TotalMessages int64                 `json:"totalMessages" example:"1523"`
}

// ConversationListResponse is returned for scope=conversations
type ConversationListResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	TotalUnread   int                   `json:"totalUnread" example:"3"`
}

// MessageResponse wraps a single message
type MessageResponse struct {
	Message *models.ChatMessage `json:"message"`
}
