package models

import "time"

// MessageScope is the audience partition of a chat message
type MessageScope string

const (
	ScopeUniversal MessageScope = "universal"
	ScopeBranch    MessageScope = "branch"
	ScopeYear      MessageScope = "year"
	ScopeDM        MessageScope = "dm"
)

// IsValid reports whether s names a message scope
func (s MessageScope) IsValid() bool {
	switch s {
	case ScopeUniversal, ScopeBranch, ScopeYear, ScopeDM:
		return true
	}
	return false
}

// ReplySnapshot is a copy of the replied-to message taken when the reply was
// written. It is never refreshed.
type ReplySnapshot struct {
	ID         string `json:"id" db:"reply_to_id"`
	Content    string `json:"content" db:"reply_to_content"`
	SenderName string `json:"senderName" db:"reply_to_sender_name"`
}

// Reaction is a single (user, emoji) marker on a message
type Reaction struct {
	UserID    string    `json:"userId" db:"user_id"`
	Emoji     string    `json:"emoji" db:"emoji"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ChatMessage represents a message in one of the chat scopes.
// Exactly one of Branch, Year and RecipientID is set for the branch, year and
// dm scopes; none is set for universal.
type ChatMessage struct {
	ID          string         `json:"id" db:"id"`
	Content     *string        `json:"content,omitempty" db:"content"`
	Sticker     *string        `json:"sticker,omitempty" db:"sticker"`
	SenderID    string         `json:"senderId" db:"sender_id"`
	SenderName  string         `json:"senderName" db:"sender_name"` // captured at send time
	Scope       MessageScope   `json:"scope" db:"scope"`
	Branch      *string        `json:"branch,omitempty" db:"branch"`
	Year        *int           `json:"year,omitempty" db:"year"`
	RecipientID *string        `json:"recipientId,omitempty" db:"recipient_id"`
	ReplyTo     *ReplySnapshot `json:"replyTo,omitempty"`
	Reactions   []Reaction     `json:"reactions"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// ContentText returns the text content or an empty string for sticker-only messages
func (m *ChatMessage) ContentText() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// Snapshot builds the reply snapshot of m
func (m *ChatMessage) Snapshot() *ReplySnapshot {
	return &ReplySnapshot{
		ID:         m.ID,
		Content:    m.ContentText(),
		SenderName: m.SenderName,
	}
}

// OtherParty returns the peer of viewerID in a dm message, or "" when the
// message does not involve the viewer or has no recipient.
func (m *ChatMessage) OtherParty(viewerID string) string {
	if m.RecipientID == nil {
		return ""
	}
	switch viewerID {
	case m.SenderID:
		return *m.RecipientID
	case *m.RecipientID:
		return m.SenderID
	}
	return ""
}

// MessageFilter selects the messages of one scope
type MessageFilter struct {
	Scope  MessageScope
	Branch string
	Year   int
	// Both ids are required for the dm scope
	ViewerID string
	PeerID   string
}
