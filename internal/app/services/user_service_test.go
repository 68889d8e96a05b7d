package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

func newUserFixture() (*mockUserRepo, UserService) {
	repo := newMockUserRepo(newFakeClock())
	return repo, NewUserService(repo, zerolog.Nop())
}

func TestSyncUser(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()

	u, err := svc.SyncUser(ctx, "sub-1", "Jane.Doe@College.edu", "")
	if err != nil {
		t.Fatalf("SyncUser() error = %v", err)
	}
	if u.Email != "jane.doe@college.edu" || u.Name != "Jane.Doe" || u.Role != models.RoleStudent {
		t.Errorf("created user = %+v", u)
	}

	again, err := svc.SyncUser(ctx, "sub-1", "other@college.edu", "Other")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != u.ID || again.Name != u.Name {
		t.Errorf("second sync changed the profile: %+v", again)
	}

	_, err = svc.SyncUser(ctx, "", "x@college.edu", "")
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")
}

func TestGetUserBySubject_MissingIsNil(t *testing.T) {
	_, svc := newUserFixture()
	u, err := svc.GetUserBySubject(context.Background(), "nobody")
	if err != nil || u != nil {
		t.Errorf("GetUserBySubject() = %v, %v; want nil, nil", u, err)
	}
}

func TestUpsertProfile_LocksBranchAndYear(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()
	if _, err := svc.SyncUser(ctx, "sub-1", "jane@college.edu", "Jane"); err != nil {
		t.Fatal(err)
	}

	// branch alone does not lock
	u, err := svc.UpsertProfile(ctx, "sub-1", models.ProfileUpdate{Branch: strPtr("ECE")})
	if err != nil {
		t.Fatal(err)
	}
	if u.ProfileLocked {
		t.Fatal("profile locked with only a branch")
	}

	u, err = svc.UpsertProfile(ctx, "sub-1", models.ProfileUpdate{Branch: strPtr("CSE"), Year: intPtr(2)})
	if err != nil {
		t.Fatal(err)
	}
	if !u.ProfileLocked || *u.Branch != "CSE" || *u.Year != 2 {
		t.Fatalf("profile = %+v, want locked CSE/2", u)
	}

	u, err = svc.UpsertProfile(ctx, "sub-1", models.ProfileUpdate{Branch: strPtr("ME"), Year: intPtr(3), Name: strPtr("Janet")})
	if err != nil {
		t.Fatalf("update of a locked profile should succeed: %v", err)
	}
	if *u.Branch != "CSE" || *u.Year != 2 || u.Name != "Janet" {
		t.Errorf("profile = %+v, want branch and year kept and name changed", u)
	}
}

func TestUpsertProfile_CreatesWhenMissing(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, "sub-new", models.ProfileUpdate{Name: strPtr("X")})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "")

	u, err := svc.UpsertProfile(ctx, "sub-new", models.ProfileUpdate{Email: strPtr("new@college.edu"), Branch: strPtr("CSE"), Year: intPtr(1)})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == "" || !u.ProfileLocked {
		t.Errorf("created profile = %+v", u)
	}

	bad := models.RoleType("dean")
	_, err = svc.UpsertProfile(ctx, "sub-new", models.ProfileUpdate{Role: &bad})
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "Invalid role")
}

func TestBlockUser(t *testing.T) {
	repo, svc := newUserFixture()
	ctx := context.Background()
	me := repo.add("me", nil, nil)
	other := repo.add("other", nil, nil)

	u, err := svc.BlockUser(ctx, "sub-me", other)
	if err != nil {
		t.Fatal(err)
	}
	if !u.HasBlocked(other) {
		t.Fatal("target not blocked")
	}
	// idempotent
	u, _ = svc.BlockUser(ctx, "sub-me", other)
	if len(u.BlockedUsers) != 1 {
		t.Errorf("blocked = %v, want one entry", u.BlockedUsers)
	}

	list, err := svc.ListBlockedUsers(ctx, "sub-me")
	if err != nil || len(list) != 1 || list[0] != other {
		t.Errorf("ListBlockedUsers() = %v, %v", list, err)
	}

	_, err = svc.BlockUser(ctx, "sub-me", me)
	assertErrorIs(t, err, apperrors.ErrValidationFailed, "You cannot block yourself")
	_, err = svc.BlockUser(ctx, "sub-me", "ghost")
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "")
	_, err = svc.BlockUser(ctx, "sub-nobody", other)
	assertErrorIs(t, err, apperrors.ErrResourceNotFound, "")

	u, err = svc.UnblockUser(ctx, "sub-me", other)
	if err != nil || u.HasBlocked(other) {
		t.Errorf("UnblockUser() = %+v, %v", u, err)
	}
}

func TestDeleteUser(t *testing.T) {
	repo, svc := newUserFixture()
	repo.add("me", nil, nil)
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, "sub-me"); err != nil {
		t.Fatal(err)
	}
	assertErrorIs(t, svc.DeleteUser(ctx, "sub-me"), apperrors.ErrResourceNotFound, "")
}
