package dto

import (
	"github.com/yigit/campushub/internal/app/models"
)

// CreateThreadRequest represents data for opening a discussion thread
type CreateThreadRequest struct {
	AuthorID string   `json:"authorId" binding:"required,uuid"`
	Title    string   `json:"title" binding:"required,min=3,max=300" example:"Best electives for 3rd year?"`
	Content  string   `json:"content" binding:"required,max=20000"`
	Category string   `json:"category" binding:"required,discussioncategory" example:"GENERAL"`
	Tags     []string `json:"tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=32"`
}

// ThreadActionRequest represents the body of PATCH /discussions/:id
type ThreadActionRequest struct {
	Action string `json:"action" binding:"required,oneof=upvote" example:"upvote"`
	UserID string `json:"userId" binding:"required,uuid"`
}

// AddCommentRequest represents a new comment on a thread
type AddCommentRequest struct {
	AuthorID string `json:"authorId" binding:"required,uuid"`
	Content  string `json:"content" binding:"required,max=5000"`
}

// ThreadResponse is a thread as shown to clients
type ThreadResponse struct {
	*models.DiscussionThread
	ContentHTML  string `json:"contentHtml"`
	UpvoteCount  int    `json:"upvoteCount" example:"4"`
	CommentCount int    `json:"commentCount" example:"2"`
}

// ThreadListResponse is a page of threads
type ThreadListResponse struct {
	Threads    []ThreadResponse `json:"threads"`
	Pagination PaginationInfo   `json:"pagination"`
}

// PaginationInfo describes the returned page
type PaginationInfo struct {
	Page       int   `json:"page" example:"1"`
	PageSize   int   `json:"pageSize" example:"20"`
	TotalItems int64 `json:"totalItems" example:"57"`
	TotalPages int   `json:"totalPages" example:"3"`
}

// NewPaginationInfo computes the page count
func NewPaginationInfo(page, pageSize int, total int64) PaginationInfo {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationInfo{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}
