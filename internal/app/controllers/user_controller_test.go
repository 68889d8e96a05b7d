package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

type fakeUserService struct {
	services.UserService
	users   map[string]*models.User
	blocked []string
}

func (f *fakeUserService) SyncUser(_ context.Context, subject, email, name string) (*models.User, error) {
	u := &models.User{ID: aliceID, AuthSubject: subject, Email: email, Name: name}
	f.users[subject] = u
	return u, nil
}

func (f *fakeUserService) GetUserBySubject(_ context.Context, subject string) (*models.User, error) {
	return f.users[subject], nil
}

func (f *fakeUserService) BlockUser(_ context.Context, subject, targetID string) (*models.User, error) {
	u, ok := f.users[subject]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	f.blocked = append(f.blocked, targetID)
	u.BlockedUsers = f.blocked
	return u, nil
}

func (f *fakeUserService) UnblockUser(_ context.Context, subject, _ string) (*models.User, error) {
	f.blocked = nil
	u := f.users[subject]
	u.BlockedUsers = nil
	return u, nil
}

func newUserRouter(svc *fakeUserService) *gin.Engine {
	c := NewUserController(svc)
	r := gin.New()
	r.POST("/users", c.SyncUser)
	r.GET("/users/:uid", c.GetUser)
	r.POST("/users/:uid/blocks", c.UpdateBlock)
	return r
}

func TestSyncAndGetUser(t *testing.T) {
	svc := &fakeUserService{users: make(map[string]*models.User)}
	r := newUserRouter(svc)

	w := perform(r, http.MethodGet, "/users/sub-1", nil)
	var before dto.UserResponse
	decodeData(t, w, &before)
	if w.Code != http.StatusOK || before.User != nil {
		t.Errorf("missing profile: status %d user %+v", w.Code, before.User)
	}

	w = perform(r, http.MethodPost, "/users", map[string]string{"uid": "sub-1", "email": "a@college.edu"})
	if w.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body %s", w.Code, w.Body.String())
	}

	w = perform(r, http.MethodGet, "/users/sub-1", nil)
	var after dto.UserResponse
	decodeData(t, w, &after)
	if after.User == nil || after.User.Email != "a@college.edu" {
		t.Errorf("profile = %+v", after.User)
	}

	w = perform(r, http.MethodPost, "/users", map[string]string{"uid": "sub-2", "email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid email: status = %d", w.Code)
	}
}

func TestUpdateBlock(t *testing.T) {
	svc := &fakeUserService{users: map[string]*models.User{"sub-1": {ID: aliceID, AuthSubject: "sub-1"}}}
	r := newUserRouter(svc)

	w := perform(r, http.MethodPost, "/users/sub-1/blocks", map[string]string{"targetId": bobID, "action": "block"})
	var got dto.UserResponse
	decodeData(t, w, &got)
	if w.Code != http.StatusOK || got.User == nil || len(got.User.BlockedUsers) != 1 {
		t.Fatalf("block: status %d user %+v", w.Code, got.User)
	}

	w = perform(r, http.MethodPost, "/users/sub-1/blocks", map[string]string{"targetId": bobID, "action": "unblock"})
	got = dto.UserResponse{}
	decodeData(t, w, &got)
	if w.Code != http.StatusOK || len(got.User.BlockedUsers) != 0 {
		t.Errorf("unblock: status %d user %+v", w.Code, got.User)
	}

	w = perform(r, http.MethodPost, "/users/sub-1/blocks", map[string]string{"targetId": bobID, "action": "mute"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown action: status = %d", w.Code)
	}

	w = perform(r, http.MethodPost, "/users/sub-9/blocks", map[string]string{"targetId": bobID, "action": "block"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d", w.Code)
	}
}
