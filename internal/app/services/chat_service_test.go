package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
	"github.com/yigit/campushub/internal/pkg/presence"
)

type chatFixture struct {
	clock    *fakeClock
	users    *mockUserRepo
	messages *mockMessageRepo
	tracker  *presence.MemoryTracker
	gateHits int
	chat     ChatService
	inbox    ConversationService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{clock: newFakeClock(), tracker: presence.NewMemoryTracker()}
	f.users = newMockUserRepo(f.clock)
	f.messages = newMockMessageRepo(f.clock, f.users)

	gate := moderation.GateFunc(func(_ context.Context, text string, c moderation.Context) error {
		f.gateHits++
		if strings.Contains(strings.ToLower(text), "badword") {
			return &moderation.Rejection{Reason: "Your message contains language that violates the community guidelines"}
		}
		return nil
	})

	logger := zerolog.Nop()
	settings := DefaultChatSettings()
	f.chat = NewChatService(f.users, f.messages, gate, f.tracker, metrics.New(), settings, f.clock.Now, logger)
	f.inbox = NewConversationService(f.users, f.messages, f.tracker, settings, f.clock.Now, logger)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func (f *chatFixture) post(t *testing.T, req dto.PostMessageRequest) *models.ChatMessage {
	t.Helper()
	msg, err := f.chat.PostMessage(context.Background(), &req)
	if err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	return msg
}

func (f *chatFixture) dm(t *testing.T, from, to, text string) *models.ChatMessage {
	t.Helper()
	return f.post(t, dto.PostMessageRequest{Content: strPtr(text), SenderID: from, Scope: "dm", RecipientID: strPtr(to)})
}

func assertErrorIs(t *testing.T, err, target error, wantMsg string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
	if wantMsg == "" {
		return
	}
	if msg, _ := apperrors.UserMessage(err); msg != wantMsg {
		t.Errorf("message = %q, want %q", msg, wantMsg)
	}
}

func TestPostMessage_RequiresContentOrSticker(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", nil, nil)

	_, err := f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("   "), SenderID: u, Scope: "universal"})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")
}

func TestPostMessage_UnknownSender(t *testing.T) {
	f := newChatFixture()
	_, err := f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: "missing", Scope: "universal"})
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "Sender not found")
}

func TestPostMessage_StickerSkipsModeration(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", nil, nil)

	msg := f.post(t, dto.PostMessageRequest{Sticker: strPtr("https://cdn/wave.webp"), SenderID: u, Scope: "universal"})
	if f.gateHits != 0 {
		t.Errorf("gate called %d times for a sticker-only message", f.gateHits)
	}
	if msg.Content != nil || msg.SenderName != "alice" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestPostMessage_ModerationRejectionPersistsNothing(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", nil, nil)

	_, err := f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("you badword"), SenderID: u, Scope: "universal"})
	assertErrorIs(t, err, apperrors.ErrModerationRejected, "Your message contains language that violates the community guidelines")

	if n, _ := f.messages.CountAll(context.Background()); n != 0 {
		t.Errorf("stored %d messages after rejection", n)
	}
}

func TestPostMessage_BranchMembership(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", strPtr("CSE"), intPtr(2))

	_, err := f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: "branch", Qualifier: strPtr("ECE")})
	assertErrorIs(t, err, apperrors.ErrPermissionDenied, "You can only post in your own branch chat")

	msg := f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: "branch", Qualifier: strPtr("CSE")})
	if msg.Branch == nil || *msg.Branch != "CSE" {
		t.Errorf("branch = %v, want CSE", msg.Branch)
	}

	_, err = f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: "year", Qualifier: strPtr("3")})
	assertErrorIs(t, err, apperrors.ErrPermissionDenied, "You can only post in your own year chat")
}

func TestPostMessage_UsersWithoutBranchMayPostAnywhere(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("legacy", nil, nil)

	f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: "branch", Qualifier: strPtr("ECE")})
	f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: "year", Qualifier: strPtr("4")})
}

func TestPostMessage_QualifierRequired(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", nil, nil)

	for _, scope := range []string{"branch", "year", "dm"} {
		_, err := f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u, Scope: scope})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("scope %s: error = %v, want validation failure", scope, err)
		}
	}
}

func TestPostMessage_DirectMessageRules(t *testing.T) {
	f := newChatFixture()
	a := f.users.add("alice", nil, nil)
	b := f.users.add("bob", nil, nil)
	ctx := context.Background()

	_, err := f.chat.PostMessage(ctx, &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "dm", RecipientID: strPtr(a)})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "You cannot send a message to yourself")

	_, err = f.chat.PostMessage(ctx, &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "dm", RecipientID: strPtr("ghost")})
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "Recipient not found")

	// the recipient blocked the sender
	_ = f.users.AddBlock(ctx, b, a)
	_, err = f.chat.PostMessage(ctx, &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "dm", RecipientID: strPtr(b)})
	assertErrorIs(t, err, apperrors.ErrPermissionDenied, "You cannot send messages to this user")
	_ = f.users.RemoveBlock(ctx, b, a)

	// the sender blocked the recipient
	_ = f.users.AddBlock(ctx, a, b)
	_, err = f.chat.PostMessage(ctx, &dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "dm", RecipientID: strPtr(b)})
	assertErrorIs(t, err, apperrors.ErrPermissionDenied, "You have blocked this user. Unblock them to send messages.")
	_ = f.users.RemoveBlock(ctx, a, b)

	// qualifier doubles as the recipient
	msg := f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "dm", Qualifier: strPtr(b)})
	if msg.RecipientID == nil || *msg.RecipientID != b {
		t.Errorf("recipient = %v, want %s", msg.RecipientID, b)
	}
}

func TestPostMessage_ReplySnapshot(t *testing.T) {
	f := newChatFixture()
	a := f.users.add("alice", nil, nil)
	b := f.users.add("bob", nil, nil)

	original := f.post(t, dto.PostMessageRequest{Content: strPtr("original"), SenderID: a, Scope: "universal"})
	reply := f.post(t, dto.PostMessageRequest{Content: strPtr("reply"), SenderID: b, Scope: "universal", ReplyTo: strPtr(original.ID)})

	want := models.ReplySnapshot{ID: original.ID, Content: "original", SenderName: "alice"}
	if reply.ReplyTo == nil || *reply.ReplyTo != want {
		t.Fatalf("ReplyTo = %+v, want %+v", reply.ReplyTo, want)
	}

	// the snapshot outlives its source
	if err := f.chat.DeleteMessage(context.Background(), original.ID, a); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	got, err := f.chat.GetMessage(context.Background(), reply.ID)
	if err != nil || got.ReplyTo == nil || got.ReplyTo.Content != "original" {
		t.Errorf("snapshot after delete = %+v, err %v", got, err)
	}

	_, err = f.chat.PostMessage(context.Background(), &dto.PostMessageRequest{Content: strPtr("late"), SenderID: b, Scope: "universal", ReplyTo: strPtr(original.ID)})
	assertErrorIs(t, err, apperrors.ErrReplyTargetMissing, "The message you replied to no longer exists")
}

func TestListMessages_AscendingAndCapped(t *testing.T) {
	f := newChatFixture()
	u := f.users.add("alice", nil, nil)
	for i := 0; i < 105; i++ {
		f.post(t, dto.PostMessageRequest{Content: strPtr("m"), SenderID: u, Scope: "universal"})
	}

	resp, err := f.chat.ListMessages(context.Background(), ListMessagesInput{Scope: models.ScopeUniversal, ViewerID: u})
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(resp.Messages) != 100 {
		t.Errorf("len(messages) = %d, want 100", len(resp.Messages))
	}
	if resp.TotalMessages != 105 {
		t.Errorf("TotalMessages = %d, want 105", resp.TotalMessages)
	}
	for i := 1; i < len(resp.Messages); i++ {
		if !resp.Messages[i-1].CreatedAt.Before(resp.Messages[i].CreatedAt) {
			t.Fatalf("messages not ascending at %d", i)
		}
	}
	if resp.OnlineCount != 1 || resp.TotalUsers != 1 {
		t.Errorf("online=%d users=%d, want 1 and 1", resp.OnlineCount, resp.TotalUsers)
	}
}

func TestListMessages_PresenceWindow(t *testing.T) {
	f := newChatFixture()
	a := f.users.add("alice", nil, nil)
	b := f.users.add("bob", nil, nil)
	ctx := context.Background()

	if _, err := f.chat.ListMessages(ctx, ListMessagesInput{Scope: models.ScopeUniversal, ViewerID: a}); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(10 * time.Minute)

	resp, err := f.chat.ListMessages(ctx, ListMessagesInput{Scope: models.ScopeUniversal, ViewerID: b})
	if err != nil {
		t.Fatal(err)
	}
	if resp.OnlineCount != 1 {
		t.Errorf("OnlineCount = %d, want 1 once alice went idle", resp.OnlineCount)
	}

	// unknown viewers are not tracked
	if _, err := f.chat.ListMessages(ctx, ListMessagesInput{Scope: models.ScopeUniversal, ViewerID: "ghost"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.tracker.LastSeen("ghost"); ok {
		t.Error("presence recorded for an unknown viewer")
	}
}

func TestListMessages_ScopesArePartitioned(t *testing.T) {
	f := newChatFixture()
	cse := f.users.add("alice", strPtr("CSE"), intPtr(2))
	ece := f.users.add("bob", strPtr("ECE"), intPtr(2))

	f.post(t, dto.PostMessageRequest{Content: strPtr("cse"), SenderID: cse, Scope: "branch", Qualifier: strPtr("CSE")})
	f.post(t, dto.PostMessageRequest{Content: strPtr("ece"), SenderID: ece, Scope: "branch", Qualifier: strPtr("ECE")})
	f.post(t, dto.PostMessageRequest{Content: strPtr("y2"), SenderID: ece, Scope: "year", Qualifier: strPtr("2")})

	resp, err := f.chat.ListMessages(context.Background(), ListMessagesInput{Scope: models.ScopeBranch, Qualifier: "CSE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].ContentText() != "cse" {
		t.Errorf("branch CSE listing = %+v", resp.Messages)
	}

	if _, err := f.chat.ListMessages(context.Background(), ListMessagesInput{Scope: models.ScopeYear, Qualifier: "two"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad year qualifier error = %v", err)
	}
}

func TestListMessages_DirectRequiresViewer(t *testing.T) {
	f := newChatFixture()
	b := f.users.add("bob", nil, nil)

	_, err := f.chat.ListMessages(context.Background(), ListMessagesInput{Scope: models.ScopeDM, ViewerID: "ghost", PeerID: b})
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "")

	_, err = f.chat.ListMessages(context.Background(), ListMessagesInput{Scope: models.ScopeDM, ViewerID: b})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")
}

func TestDeleteMessage(t *testing.T) {
	f := newChatFixture()
	a := f.users.add("alice", nil, nil)
	b := f.users.add("bob", nil, nil)
	msg := f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "universal"})
	ctx := context.Background()

	assertErrorIs(t, f.chat.DeleteMessage(ctx, msg.ID, ""), apperrors.ErrUnauthorized, "userId is required")
	assertErrorIs(t, f.chat.DeleteMessage(ctx, msg.ID, b), apperrors.ErrPermissionDenied, "")

	if err := f.chat.DeleteMessage(ctx, msg.ID, a); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	assertErrorIs(t, f.chat.DeleteMessage(ctx, msg.ID, a), apperrors.ErrResourceNotFound, "Message not found")
}

func reactionSet(m *models.ChatMessage) map[string]bool {
	set := make(map[string]bool)
	for _, r := range m.Reactions {
		set[r.UserID+"|"+r.Emoji] = true
	}
	return set
}

func TestToggleReaction_TwiceRestores(t *testing.T) {
	f := newChatFixture()
	a := f.users.add("alice", nil, nil)
	msg := f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "universal"})
	ctx := context.Background()

	if _, err := f.chat.ToggleReaction(ctx, msg.ID, a, "🎉"); err != nil {
		t.Fatal(err)
	}
	before, _ := f.chat.GetMessage(ctx, msg.ID)

	for i := 0; i < 2; i++ {
		if _, err := f.chat.ToggleReaction(ctx, msg.ID, a, "👍"); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := f.chat.GetMessage(ctx, msg.ID)

	if len(reactionSet(before)) != len(reactionSet(after)) {
		t.Fatalf("reactions changed: %v -> %v", reactionSet(before), reactionSet(after))
	}
	for k := range reactionSet(before) {
		if !reactionSet(after)[k] {
			t.Errorf("reaction %s missing after double toggle", k)
		}
	}
}

func TestToggleReaction_PerUser(t *testing.T) {
	f := newChatFixture()
	u1 := f.users.add("u1", nil, nil)
	u2 := f.users.add("u2", nil, nil)
	msg := f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: u1, Scope: "universal"})
	ctx := context.Background()

	if _, err := f.chat.ToggleReaction(ctx, msg.ID, u1, "👍"); err != nil {
		t.Fatal(err)
	}
	got, err := f.chat.ToggleReaction(ctx, msg.ID, u2, "👍")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Reactions) != 2 {
		t.Fatalf("reactions = %+v, want two", got.Reactions)
	}

	got, err = f.chat.ToggleReaction(ctx, msg.ID, u1, "👍")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Reactions) != 1 || got.Reactions[0].UserID != u2 {
		t.Errorf("reactions = %+v, want only u2", got.Reactions)
	}

	_, err = f.chat.ToggleReaction(ctx, "missing", u1, "👍")
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "")
	_, err = f.chat.ToggleReaction(ctx, msg.ID, u1, " ")
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")
}
