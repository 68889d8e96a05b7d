package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

func newDiscussionFixture() (*mockUserRepo, *mockDiscussionRepo, DiscussionService) {
	clock := newFakeClock()
	users := newMockUserRepo(clock)
	threads := newMockDiscussionRepo(clock, users)
	gate := moderation.GateFunc(func(_ context.Context, text string, c moderation.Context) error {
		if strings.Contains(text, "badword") {
			return &moderation.Rejection{Reason: "Your " + string(c) + " was rejected"}
		}
		return nil
	})
	return users, threads, NewDiscussionService(users, threads, gate, metrics.New(), zerolog.Nop())
}

func TestCreateThread(t *testing.T) {
	users, _, svc := newDiscussionFixture()
	author := users.add("alice", nil, nil)

	resp, err := svc.CreateThread(context.Background(), &dto.CreateThreadRequest{
		AuthorID: author,
		Title:    " Electives ",
		Content:  "Which **electives** are good?",
		Category: "general",
		Tags:     []string{"Electives", "electives", " ", "year3"},
	})
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	if resp.Title != "Electives" || string(resp.Category) != "GENERAL" || resp.AuthorName != "alice" {
		t.Errorf("thread = %+v", resp.DiscussionThread)
	}
	if len(resp.Tags) != 2 || resp.Tags[0] != "electives" || resp.Tags[1] != "year3" {
		t.Errorf("tags = %v", resp.Tags)
	}
	if !strings.Contains(resp.ContentHTML, "<strong>electives</strong>") {
		t.Errorf("ContentHTML = %q", resp.ContentHTML)
	}
}

func TestCreateThread_Rejections(t *testing.T) {
	users, threads, svc := newDiscussionFixture()
	author := users.add("alice", nil, nil)
	ctx := context.Background()

	_, err := svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: author, Title: "t", Content: "c", Category: "GOSSIP"})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")

	_, err = svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: "ghost", Title: "t", Content: "c", Category: "AI"})
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "Author not found")

	_, err = svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: author, Title: "t", Content: "badword", Category: "AI"})
	assertErrorIs(t, err, apperrors.ErrModerationRejected, "Your discussion was rejected")

	if n, _ := threads.Count(ctx); n != 0 {
		t.Errorf("stored %d threads", n)
	}
}

func TestToggleUpvote(t *testing.T) {
	users, _, svc := newDiscussionFixture()
	author := users.add("alice", nil, nil)
	voter := users.add("bob", nil, nil)
	ctx := context.Background()

	thread, err := svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: author, Title: "Cloud", Content: "c", Category: "CLOUD"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ToggleUpvote(ctx, thread.ID, voter)
	if err != nil || resp.UpvoteCount != 1 {
		t.Fatalf("first toggle = %+v, %v", resp, err)
	}
	resp, err = svc.ToggleUpvote(ctx, thread.ID, voter)
	if err != nil || resp.UpvoteCount != 0 {
		t.Fatalf("second toggle = %+v, %v", resp, err)
	}

	_, err = svc.ToggleUpvote(ctx, "missing", voter)
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "Discussion not found")
}

func TestAddComment(t *testing.T) {
	users, threads, svc := newDiscussionFixture()
	author := users.add("alice", nil, nil)
	ctx := context.Background()

	thread, err := svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: author, Title: "ML", Content: "c", Category: "ML"})
	if err != nil {
		t.Fatal(err)
	}

	c, err := svc.AddComment(ctx, thread.ID, &dto.AddCommentRequest{AuthorID: author, Content: " nice "})
	if err != nil {
		t.Fatal(err)
	}
	if c.Content != "nice" || c.AuthorName != "alice" {
		t.Errorf("comment = %+v", c)
	}

	_, err = svc.AddComment(ctx, thread.ID, &dto.AddCommentRequest{AuthorID: author, Content: "badword"})
	if !errors.Is(err, apperrors.ErrModerationRejected) {
		t.Errorf("error = %v, want moderation rejection", err)
	}
	_, err = svc.AddComment(ctx, "missing", &dto.AddCommentRequest{AuthorID: author, Content: "hi"})
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "Discussion not found")

	stored, _ := threads.GetByID(ctx, thread.ID)
	if len(stored.Comments) != 1 {
		t.Errorf("comments = %d, want 1", len(stored.Comments))
	}
}

func TestListThreads(t *testing.T) {
	users, _, svc := newDiscussionFixture()
	author := users.add("alice", nil, nil)
	ctx := context.Background()

	for i, cat := range []string{"AI", "ML", "AI"} {
		if _, err := svc.CreateThread(ctx, &dto.CreateThreadRequest{AuthorID: author, Title: "thread " + string(rune('a'+i)), Content: "c", Category: cat}); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := svc.ListThreads(ctx, "ai", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.TotalItems != 2 || resp.Pagination.TotalPages != 2 || len(resp.Threads) != 1 {
		t.Errorf("pagination = %+v, threads = %d", resp.Pagination, len(resp.Threads))
	}
	if resp.Threads[0].Title != "thread c" {
		t.Errorf("first thread = %q, want the newest", resp.Threads[0].Title)
	}

	all, err := svc.ListThreads(ctx, "", 0, 0)
	if err != nil || len(all.Threads) != 3 {
		t.Errorf("ListThreads() = %+v, %v", all, err)
	}

	_, err = svc.ListThreads(ctx, "nope", 1, 10)
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")
}
