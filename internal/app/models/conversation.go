package models

import "time"

// PeerProfile is the display information shown for a conversation peer
type PeerProfile struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email,omitempty"`
	Branch *string `json:"branch,omitempty"`
	Year   *int    `json:"year,omitempty"`
}

// Conversation is the derived inbox row for one direct-message peer.
// It is recomputed on every inbox fetch and never stored.
type Conversation struct {
	Peer          PeerProfile  `json:"peer"`
	LastMessage   *ChatMessage `json:"lastMessage"`
	LastMessageAt time.Time    `json:"lastMessageAt"`
	UnreadCount   int          `json:"unreadCount"`
	Pinned        bool         `json:"pinned"`
}
