// Package moderation decides whether user-supplied text may be persisted.
package moderation

import (
	"context"
	"fmt"
)

// Context names the surface the text is being posted to.
type Context string

const (
	ContextChat       Context = "chat"
	ContextDiscussion Context = "discussion"
	ContextComment    Context = "comment"
	// resources, skill listings, events, quizzes and projects
	ContextListing Context = "listing"
)

// noun is used when phrasing a rejection to the author
func (c Context) noun() string {
	switch c {
	case ContextDiscussion:
		return "post"
	case ContextComment:
		return "comment"
	case ContextListing:
		return "listing"
	default:
		return "message"
	}
}

// Gate is consulted once per piece of non-empty text before it is stored.
// A nil error means the text is acceptable.
type Gate interface {
	ValidateContent(ctx context.Context, text string, c Context) error
}

// Rejection is returned by a Gate that refuses text. Reason is shown to the
// author as is.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// GateFunc adapts a plain function to the Gate interface.
type GateFunc func(ctx context.Context, text string, c Context) error

// ValidateContent calls f.
func (f GateFunc) ValidateContent(ctx context.Context, text string, c Context) error {
	return f(ctx, text, c)
}
