package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

func newChatRouter(chat *fakeChatService, conv *fakeConversationService) *gin.Engine {
	c := NewChatController(chat, conv)
	r := gin.New()
	r.GET("/messages", c.GetMessages)
	r.POST("/messages", c.PostMessage)
	r.GET("/messages/:id", c.GetMessage)
	r.PATCH("/messages/:id", c.UpdateMessage)
	r.DELETE("/messages/:id", c.DeleteMessage)
	r.POST("/conversation-preferences", c.UpdateConversationPreference)
	return r
}

func TestGetMessages_Scopes(t *testing.T) {
	chat, conv := &fakeChatService{}, &fakeConversationService{}
	r := newChatRouter(chat, conv)

	w := perform(r, http.MethodGet, "/messages?scope=branch&qualifier=CSE&viewerId="+aliceID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if chat.listIn.Scope != models.ScopeBranch || chat.listIn.Qualifier != "CSE" || chat.listIn.ViewerID != aliceID {
		t.Errorf("ListMessages input = %+v", chat.listIn)
	}
	var list dto.MessageListResponse
	if resp := decodeData(t, w, &list); !resp.Success || list.TotalUsers != 2 {
		t.Errorf("response = %+v / %+v", resp, list)
	}

	w = perform(r, http.MethodGet, "/messages?scope=conversations&viewerId="+aliceID, nil)
	var inbox dto.ConversationListResponse
	decodeData(t, w, &inbox)
	if w.Code != http.StatusOK || conv.viewer != aliceID || inbox.TotalUnread != 4 {
		t.Errorf("inbox status %d viewer %q total %d", w.Code, conv.viewer, inbox.TotalUnread)
	}
}

func TestGetMessages_InvalidQuery(t *testing.T) {
	r := newChatRouter(&fakeChatService{}, &fakeConversationService{})

	for _, path := range []string{"/messages", "/messages?scope=global", "/messages?scope=dm&viewerId=not-a-uuid"} {
		w := perform(r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", path, w.Code)
		}
		resp := decodeData(t, w, nil)
		if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
			t.Errorf("%s: error = %+v", path, resp.Error)
		}
	}
}

func TestPostMessage(t *testing.T) {
	chat := &fakeChatService{}
	r := newChatRouter(chat, &fakeConversationService{})

	w := perform(r, http.MethodPost, "/messages", map[string]interface{}{
		"content": "hello", "senderId": aliceID, "scope": "universal",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got dto.MessageResponse
	decodeData(t, w, &got)
	if got.Message == nil || got.Message.ContentText() != "hello" {
		t.Errorf("message = %+v", got.Message)
	}

	w = perform(r, http.MethodPost, "/messages", map[string]interface{}{
		"content": "hello", "senderId": aliceID, "scope": "everyone",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown scope: status = %d", w.Code)
	}

	chat.err = apperrors.NewModerationError("Your message contains language that violates the community guidelines")
	w = perform(r, http.MethodPost, "/messages", map[string]interface{}{
		"content": "rude", "senderId": aliceID, "scope": "universal",
	})
	resp := decodeData(t, w, nil)
	if w.Code != http.StatusBadRequest || resp.Error.Code != dto.ErrorCodeModerationRejected ||
		resp.Error.Message != "Your message contains language that violates the community guidelines" {
		t.Errorf("moderation: status %d error %+v", w.Code, resp.Error)
	}

	chat.err = apperrors.NewForbiddenError("You cannot send messages to this user")
	w = perform(r, http.MethodPost, "/messages", map[string]interface{}{
		"content": "hi", "senderId": aliceID, "scope": "dm", "recipientId": bobID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("blocked: status = %d", w.Code)
	}
}

func TestDeleteMessage(t *testing.T) {
	chat := &fakeChatService{}
	r := newChatRouter(chat, &fakeConversationService{})

	w := perform(r, http.MethodDelete, "/messages/"+msgID+"?userId="+aliceID, nil)
	if w.Code != http.StatusOK || chat.deleted != msgID+"/"+aliceID {
		t.Errorf("status %d deleted %q", w.Code, chat.deleted)
	}

	chat.err = apperrors.NewUnauthorizedError("userId is required")
	w = perform(r, http.MethodDelete, "/messages/"+msgID, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing user: status = %d", w.Code)
	}
}

func TestMessageRoutes_RejectMalformedID(t *testing.T) {
	chat := &fakeChatService{}
	r := newChatRouter(chat, &fakeConversationService{})

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/messages/not-a-uuid", nil},
		{http.MethodPatch, "/messages/m1", map[string]string{"action": "react", "userId": aliceID, "emoji": "👍"}},
		{http.MethodDelete, "/messages/not-a-uuid?userId=" + aliceID, nil},
	}
	for _, tc := range cases {
		w := perform(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d", tc.method, tc.path, w.Code)
			continue
		}
		resp := decodeData(t, w, nil)
		if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed || resp.Error.Message != "Invalid message ID" {
			t.Errorf("%s %s: error = %+v", tc.method, tc.path, resp.Error)
		}
	}
	if chat.deleted != "" {
		t.Errorf("service reached with %q", chat.deleted)
	}
}

func TestDeleteMessage_CanonicalisesID(t *testing.T) {
	chat := &fakeChatService{}
	r := newChatRouter(chat, &fakeConversationService{})

	w := perform(r, http.MethodDelete, "/messages/3A9E5C1B-7D42-4F0E-B6A8-2C5D9E1F7A30?userId="+aliceID, nil)
	if w.Code != http.StatusOK || chat.deleted != msgID+"/"+aliceID {
		t.Errorf("status %d deleted %q", w.Code, chat.deleted)
	}
}

func TestUpdateConversationPreference(t *testing.T) {
	conv := &fakeConversationService{}
	r := newChatRouter(&fakeChatService{}, conv)

	w := perform(r, http.MethodPost, "/conversation-preferences", map[string]string{
		"userId": aliceID, "targetId": bobID, "action": "pin",
	})
	if w.Code != http.StatusOK || conv.pref != [3]string{aliceID, bobID, "pin"} {
		t.Errorf("status %d pref %v", w.Code, conv.pref)
	}

	conv.err = apperrors.NewLimitExceededError("You can pin up to 3 conversations.")
	w = perform(r, http.MethodPost, "/conversation-preferences", map[string]string{
		"userId": aliceID, "targetId": bobID, "action": "pin",
	})
	resp := decodeData(t, w, nil)
	if w.Code != http.StatusBadRequest || resp.Error.Message != "You can pin up to 3 conversations." {
		t.Errorf("limit: status %d error %+v", w.Code, resp.Error)
	}
}
