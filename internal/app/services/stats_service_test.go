package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestStats(t *testing.T) {
	f := newChatFixture()
	threads := newMockDiscussionRepo(f.clock, f.users)
	a := f.users.add("alice", nil, nil)
	f.post(t, dto.PostMessageRequest{Content: strPtr("hi"), SenderID: a, Scope: "universal"})

	resources := newMockResourceRepo(f.clock)
	projects := &mockProjectRepo{clock: f.clock}
	_ = resources.Create(context.Background(), &models.Resource{UploaderID: a, Title: "notes", Type: models.ResourceNotes})

	svc := NewStatsService(f.users, f.messages, threads, resources, projects, nil, zerolog.Nop())
	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Users != 1 || got.Messages != 1 || got.Discussions != 0 || got.Resources != 1 || got.Projects != 0 {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestHealth(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	svc := NewStatsService(nil, nil, nil, nil, nil, map[string]Pinger{"database": ok, "redis": nil}, zerolog.Nop())
	resp, healthy := svc.Health(context.Background())
	if !healthy || resp.Status != "ok" || resp.Services["database"] != "up" {
		t.Errorf("Health() = %+v, %v", resp, healthy)
	}
	if _, listed := resp.Services["redis"]; listed {
		t.Error("disabled dependency reported")
	}

	svc = NewStatsService(nil, nil, nil, nil, nil, map[string]Pinger{"database": ok, "redis": down}, zerolog.Nop())
	resp, healthy = svc.Health(context.Background())
	if healthy || resp.Status != "degraded" || resp.Services["redis"] != "down" {
		t.Errorf("Health() = %+v, %v", resp, healthy)
	}
}
