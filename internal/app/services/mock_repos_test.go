package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// fakeClock hands out strictly increasing times
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Tick advances the clock by one second and returns the new time
func (c *fakeClock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- users ---

type mockUserRepo struct {
	mu         sync.Mutex
	users      map[string]*models.User
	clock      *fakeClock
	peerLookup int
}

func newMockUserRepo(clock *fakeClock) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User), clock: clock}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.BlockedUsers = append([]string{}, u.BlockedUsers...)
	c.PinnedDMs = append([]string{}, u.PinnedDMs...)
	c.DMLastRead = make(map[string]time.Time, len(u.DMLastRead))
	for k, v := range u.DMLastRead {
		c.DMLastRead[k] = v
	}
	return &c
}

// add stores a user directly and returns its id
func (r *mockUserRepo) add(name string, branch *string, year *int) string {
	u := &models.User{
		ID:          uuid.New().String(),
		AuthSubject: "sub-" + name,
		Email:       name + "@college.edu",
		Name:        name,
		Role:        models.RoleStudent,
		Branch:      branch,
		Year:        year,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = copyUser(u)
	return u.ID
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *mockUserRepo) GetBySubject(_ context.Context, subject string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.AuthSubject == subject {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *mockUserRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *mockUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.AuthSubject == u.AuthSubject {
			return apperrors.NewCustomError(apperrors.ErrConflict, "duplicate")
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = r.clock.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *mockUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	c := copyUser(u)
	// side tables are not written by Update
	c.BlockedUsers, c.PinnedDMs, c.DMLastRead = stored.BlockedUsers, stored.PinnedDMs, stored.DMLastRead
	c.AuthSubject, c.Email = stored.AuthSubject, stored.Email
	r.users[u.ID] = c
	return nil
}

func (r *mockUserRepo) DeleteBySubject(_ context.Context, subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.AuthSubject == subject {
			delete(r.users, id)
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *mockUserRepo) GetPeerProfiles(_ context.Context, ids []string) (map[string]models.PeerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peerLookup++
	out := make(map[string]models.PeerProfile)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = models.PeerProfile{ID: u.ID, Name: u.Name, Email: u.Email, Branch: u.Branch, Year: u.Year}
		}
	}
	return out, nil
}

func (r *mockUserRepo) AddBlock(_ context.Context, userID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	if !u.HasBlocked(targetID) {
		u.BlockedUsers = append(u.BlockedUsers, targetID)
	}
	return nil
}

func (r *mockUserRepo) RemoveBlock(_ context.Context, userID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	u.BlockedUsers = without(u.BlockedUsers, targetID)
	return nil
}

func (r *mockUserRepo) AddPinnedDM(_ context.Context, userID, peerID string, max int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for _, id := range u.PinnedDMs {
		if id == peerID {
			return nil
		}
	}
	if len(u.PinnedDMs) >= max {
		return apperrors.NewLimitExceededError(fmt.Sprintf("You can pin up to %d conversations.", max))
	}
	u.PinnedDMs = append(u.PinnedDMs, peerID)
	return nil
}

func (r *mockUserRepo) RemovePinnedDM(_ context.Context, userID, peerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	u.PinnedDMs = without(u.PinnedDMs, peerID)
	return nil
}

// MarkDMRead stamps with the same clock that dates messages, as the database does
func (r *mockUserRepo) MarkDMRead(_ context.Context, userID, peerID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	if u.DMLastRead == nil {
		u.DMLastRead = make(map[string]time.Time)
	}
	at := r.clock.Now()
	u.DMLastRead[peerID] = at
	return at, nil
}

func (r *mockUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// --- messages ---

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
	clock    *fakeClock
	users    *mockUserRepo
}

func newMockMessageRepo(clock *fakeClock, users *mockUserRepo) *mockMessageRepo {
	return &mockMessageRepo{clock: clock, users: users}
}

func copyMessage(m *models.ChatMessage) *models.ChatMessage {
	c := *m
	c.Reactions = append([]models.Reaction{}, m.Reactions...)
	return &c
}

func matches(m *models.ChatMessage, f models.MessageFilter) bool {
	if m.Scope != f.Scope {
		return false
	}
	switch f.Scope {
	case models.ScopeBranch:
		return m.Branch != nil && *m.Branch == f.Branch
	case models.ScopeYear:
		return m.Year != nil && *m.Year == f.Year
	case models.ScopeDM:
		r := m.RecipientID
		return r != nil && ((m.SenderID == f.ViewerID && *r == f.PeerID) || (m.SenderID == f.PeerID && *r == f.ViewerID))
	}
	return true
}

func (r *mockMessageRepo) List(_ context.Context, f models.MessageFilter, limit int) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ChatMessage
	for _, m := range r.messages {
		if matches(m, f) {
			out = append(out, copyMessage(m))
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *mockMessageRepo) Count(_ context.Context, f models.MessageFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if matches(m, f) {
			n++
		}
	}
	return n, nil
}

func (r *mockMessageRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

func (r *mockMessageRepo) ListDMsForUser(_ context.Context, userID string) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ChatMessage
	for _, m := range r.messages {
		if m.Scope == models.ScopeDM && (m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID)) {
			out = append(out, copyMessage(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockMessageRepo) AttachReactions(_ context.Context, messages []*models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range messages {
		for _, stored := range r.messages {
			if stored.ID == m.ID {
				m.Reactions = append([]models.Reaction{}, stored.Reactions...)
			}
		}
	}
	return nil
}

func (r *mockMessageRepo) find(id string) (int, *models.ChatMessage) {
	for i, m := range r.messages {
		if m.ID == id {
			return i, m
		}
	}
	return -1, nil
}

func (r *mockMessageRepo) GetByID(_ context.Context, id string) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, m := r.find(id)
	if m == nil {
		return nil, apperrors.ErrMessageNotFound
	}
	return copyMessage(m), nil
}

func (r *mockMessageRepo) Create(_ context.Context, m *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New().String()
	m.CreatedAt = r.clock.Tick()
	if m.Reactions == nil {
		m.Reactions = []models.Reaction{}
	}
	r.messages = append(r.messages, copyMessage(m))
	return nil
}

func (r *mockMessageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, _ := r.find(id)
	if i < 0 {
		return apperrors.ErrMessageNotFound
	}
	r.messages = append(r.messages[:i], r.messages[i+1:]...)
	return nil
}

func (r *mockMessageRepo) ToggleReaction(_ context.Context, messageID, userID, emoji string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, m := r.find(messageID)
	if m == nil {
		return false, apperrors.ErrMessageNotFound
	}
	for i, rx := range m.Reactions {
		if rx.UserID == userID && rx.Emoji == emoji {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return false, nil
		}
	}
	m.Reactions = append(m.Reactions, models.Reaction{UserID: userID, Emoji: emoji, CreatedAt: r.clock.Now()})
	return true, nil
}

func (r *mockMessageRepo) DeleteConversation(ctx context.Context, userID, peerID string) (int64, error) {
	r.mu.Lock()
	kept := r.messages[:0]
	var deleted int64
	for _, m := range r.messages {
		if matches(m, models.MessageFilter{Scope: models.ScopeDM, ViewerID: userID, PeerID: peerID}) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	r.mu.Unlock()

	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	if u, ok := r.users.users[userID]; ok {
		u.PinnedDMs = without(u.PinnedDMs, peerID)
		delete(u.DMLastRead, peerID)
	}
	return deleted, nil
}

// --- discussions ---

type mockDiscussionRepo struct {
	mu      sync.Mutex
	threads []*models.DiscussionThread
	clock   *fakeClock
	users   *mockUserRepo
}

func newMockDiscussionRepo(clock *fakeClock, users *mockUserRepo) *mockDiscussionRepo {
	return &mockDiscussionRepo{clock: clock, users: users}
}

func copyThread(t *models.DiscussionThread) *models.DiscussionThread {
	c := *t
	c.Upvotes = append([]string{}, t.Upvotes...)
	c.Comments = append([]models.DiscussionComment{}, t.Comments...)
	return &c
}

func (r *mockDiscussionRepo) find(id string) *models.DiscussionThread {
	for _, t := range r.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *mockDiscussionRepo) List(_ context.Context, category *models.DiscussionCategory, limit, offset int) ([]*models.DiscussionThread, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.DiscussionThread
	for i := len(r.threads) - 1; i >= 0; i-- {
		t := r.threads[i]
		if category == nil || t.Category == *category {
			all = append(all, copyThread(t))
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *mockDiscussionRepo) GetByID(_ context.Context, id string) (*models.DiscussionThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(id)
	if t == nil {
		return nil, apperrors.ErrThreadNotFound
	}
	return copyThread(t), nil
}

func (r *mockDiscussionRepo) Create(_ context.Context, t *models.DiscussionThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New().String()
	t.CreatedAt = r.clock.Tick()
	t.Upvotes = []string{}
	t.Comments = []models.DiscussionComment{}
	r.threads = append(r.threads, copyThread(t))
	return nil
}

func (r *mockDiscussionRepo) ToggleUpvote(_ context.Context, threadID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(threadID)
	if t == nil {
		return false, apperrors.ErrThreadNotFound
	}
	if t.HasUpvote(userID) {
		t.Upvotes = without(t.Upvotes, userID)
		return false, nil
	}
	t.Upvotes = append(t.Upvotes, userID)
	return true, nil
}

func (r *mockDiscussionRepo) AddComment(_ context.Context, c *models.DiscussionComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(c.ThreadID)
	if t == nil {
		return apperrors.ErrThreadNotFound
	}
	c.ID = uuid.New().String()
	c.CreatedAt = r.clock.Tick()
	t.Comments = append(t.Comments, *c)
	return nil
}

func (r *mockDiscussionRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.threads)), nil
}

// promote turns an existing user into an admin
func (r *mockUserRepo) promote(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Role = models.RoleAdmin
}

// --- boards ---

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type mockResourceRepo struct {
	mu        sync.Mutex
	resources []*models.Resource
	clock     *fakeClock
	lastQuery models.ResourceFilter
}

func newMockResourceRepo(clock *fakeClock) *mockResourceRepo {
	return &mockResourceRepo{clock: clock}
}

func (r *mockResourceRepo) List(_ context.Context, f models.ResourceFilter) ([]*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = f
	out := []*models.Resource{}
	for i := len(r.resources) - 1; i >= 0; i-- {
		res := r.resources[i]
		switch {
		case f.Type != "" && res.Type != f.Type,
			f.Branch != "" && (res.Branch == nil || *res.Branch != f.Branch),
			f.UploaderID != "" && res.UploaderID != f.UploaderID:
			continue
		}
		if f.Search != "" {
			hay := res.Title
			if res.Description != nil {
				hay += " " + *res.Description
			}
			if res.CourseCode != nil {
				hay += " " + *res.CourseCode
			}
			if !containsFold(hay, f.Search) {
				continue
			}
		}
		c := *res
		out = append(out, &c)
	}
	return out, nil
}

func (r *mockResourceRepo) Create(_ context.Context, res *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = uuid.New().String()
	res.CreatedAt = r.clock.Tick()
	c := *res
	r.resources = append(r.resources, &c)
	return nil
}

func (r *mockResourceRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.resources)), nil
}

type mockSkillRepo struct {
	mu     sync.Mutex
	skills []*models.SkillListing
	clock  *fakeClock
}

func newMockSkillRepo(clock *fakeClock) *mockSkillRepo {
	return &mockSkillRepo{clock: clock}
}

func copySkill(s *models.SkillListing) *models.SkillListing {
	c := *s
	c.Tags = append([]string{}, s.Tags...)
	return &c
}

func (r *mockSkillRepo) find(id string) (int, *models.SkillListing) {
	for i, s := range r.skills {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

func (r *mockSkillRepo) List(_ context.Context, f models.SkillFilter) ([]*models.SkillListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SkillListing{}
	for i := len(r.skills) - 1; i >= 0; i-- {
		s := r.skills[i]
		if s.Status != models.ListingOpen ||
			(f.Type != "" && s.Type != f.Type) ||
			(f.Category != "" && s.Category != f.Category) {
			continue
		}
		if f.Search != "" && !containsFold(s.Title+" "+s.Description+" "+strings.Join(s.Tags, " "), f.Search) {
			continue
		}
		out = append(out, copySkill(s))
	}
	return out, nil
}

func (r *mockSkillRepo) GetByID(_ context.Context, id string) (*models.SkillListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, s := r.find(id); s != nil {
		return copySkill(s), nil
	}
	return nil, apperrors.ErrSkillNotFound
}

func (r *mockSkillRepo) Create(_ context.Context, s *models.SkillListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.New().String()
	s.CreatedAt = r.clock.Tick()
	r.skills = append(r.skills, copySkill(s))
	return nil
}

func (r *mockSkillRepo) Update(_ context.Context, id string, upd models.SkillUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, s := r.find(id)
	if s == nil {
		return apperrors.ErrSkillNotFound
	}
	if upd.Type != nil {
		s.Type = *upd.Type
	}
	if upd.Title != nil {
		s.Title = *upd.Title
	}
	if upd.Description != nil {
		s.Description = *upd.Description
	}
	if upd.Tags != nil {
		s.Tags = upd.Tags
	}
	if upd.Category != nil {
		s.Category = *upd.Category
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	return nil
}

func (r *mockSkillRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, _ := r.find(id)
	if i < 0 {
		return apperrors.ErrSkillNotFound
	}
	r.skills = append(r.skills[:i], r.skills[i+1:]...)
	return nil
}

type mockEventRepo struct {
	mu     sync.Mutex
	events []*models.Event
	clock  *fakeClock
}

func (r *mockEventRepo) List(_ context.Context) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Event, 0, len(r.events))
	for _, e := range r.events {
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *mockEventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New().String()
	e.CreatedAt = r.clock.Tick()
	c := *e
	r.events = append(r.events, &c)
	return nil
}

type mockQuizRepo struct {
	mu      sync.Mutex
	quizzes []*models.Quiz
	clock   *fakeClock
}

func (r *mockQuizRepo) List(_ context.Context) ([]*models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Quiz, 0, len(r.quizzes))
	for i := len(r.quizzes) - 1; i >= 0; i-- {
		c := *r.quizzes[i]
		out = append(out, &c)
	}
	return out, nil
}

func (r *mockQuizRepo) Create(_ context.Context, q *models.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = uuid.New().String()
	q.CreatedAt = r.clock.Tick()
	c := *q
	r.quizzes = append(r.quizzes, &c)
	return nil
}

type mockProjectRepo struct {
	mu       sync.Mutex
	projects []*models.Project
	clock    *fakeClock
}

func (r *mockProjectRepo) List(_ context.Context) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		c := *p
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *mockProjectRepo) Create(_ context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New().String()
	p.CreatedAt = r.clock.Tick()
	c := *p
	r.projects = append(r.projects, &c)
	return nil
}

func (r *mockProjectRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.projects)), nil
}
