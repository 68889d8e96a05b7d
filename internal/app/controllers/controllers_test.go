package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
}

const (
	aliceID = "6f1c2a7e-3d2b-4b7a-9a51-0c1d2e3f4a5b"
	bobID   = "0b7c9d4e-1f2a-4c3b-8d5e-6f7a8b9c0d1e"
	msgID   = "3a9e5c1b-7d42-4f0e-b6a8-2c5d9e1f7a30"
)

// fakeChatService records calls and returns canned results
type fakeChatService struct {
	services.ChatService
	listIn  services.ListMessagesInput
	posted  *dto.PostMessageRequest
	err     error
	deleted string
}

func (f *fakeChatService) ListMessages(_ context.Context, in services.ListMessagesInput) (*dto.MessageListResponse, error) {
	f.listIn = in
	return &dto.MessageListResponse{Messages: []*models.ChatMessage{}, TotalUsers: 2}, f.err
}

func (f *fakeChatService) PostMessage(_ context.Context, req *dto.PostMessageRequest) (*models.ChatMessage, error) {
	f.posted = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ChatMessage{ID: "m1", SenderID: req.SenderID, Scope: models.MessageScope(req.Scope), Content: req.Content}, nil
}

func (f *fakeChatService) DeleteMessage(_ context.Context, id, requesterID string) error {
	f.deleted = id + "/" + requesterID
	return f.err
}

type fakeConversationService struct {
	services.ConversationService
	viewer string
	pref   [3]string
	err    error
}

func (f *fakeConversationService) ListConversations(_ context.Context, viewerID string) (*dto.ConversationListResponse, error) {
	f.viewer = viewerID
	return &dto.ConversationListResponse{Conversations: []models.Conversation{}, TotalUnread: 4}, f.err
}

func (f *fakeConversationService) UpdatePreference(_ context.Context, viewerID, targetID, action string) error {
	f.pref = [3]string{viewerID, targetID, action}
	return f.err
}

func perform(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, into interface{}) dto.APIResponse {
	t.Helper()
	var raw struct {
		dto.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid body %q: %v", w.Body.String(), err)
	}
	if into != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, into); err != nil {
			t.Fatalf("invalid data %s: %v", raw.Data, err)
		}
	}
	return raw.APIResponse
}
