package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
)

const day = 24 * time.Hour

// fixture wires services onto a memStore with a controllable clock.
type fixture struct {
	t     *testing.T
	store *memStore
	repo  *repository.Repository
	sync  *PhaseSynchronizer
	cfg   *config.Config
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		t:     t,
		store: store,
		repo:  store.repository(),
		now:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.sync = NewPhaseSynchronizer(f.repo, time.Second, zap.NewNop())
	f.sync.now = f.clock

	f.cfg = &config.Config{}
	f.cfg.Server.BaseURL = "https://hack.example.com"
	f.cfg.Lifecycle.DefaultTimezone = "UTC"
	return f
}

func (f *fixture) clock() time.Time { return f.now }

// ── services bound to the fixture clock ──

func (f *fixture) hackathonSvc() *hackathonService {
	s := NewHackathonService(f.cfg, f.repo, f.sync, zap.NewNop()).(*hackathonService)
	s.now = f.clock
	return s
}

func (f *fixture) applicationSvc() *applicationService {
	s := NewApplicationService(f.repo, f.sync, zap.NewNop()).(*applicationService)
	s.now = f.clock
	return s
}

func (f *fixture) teamSvc() *teamService {
	s := NewTeamService(f.repo, f.sync, zap.NewNop()).(*teamService)
	s.now = f.clock
	return s
}

func (f *fixture) submissionSvc() *submissionService {
	s := NewSubmissionService(f.repo, f.sync, zap.NewNop()).(*submissionService)
	s.now = f.clock
	return s
}

func (f *fixture) exportSvc() *exportService {
	s := NewExportService(f.cfg, f.repo, zap.NewNop()).(*exportService)
	s.now = f.clock
	return s
}

// ── seed data ──

func (f *fixture) user(name string, role model.Role) Actor {
	f.t.Helper()
	u := &model.User{
		UserID: uuid.NewString(),
		Name:   name,
		Email:  strings.ToLower(name) + "@example.com",
		Role:   role,
	}
	f.store.mu.Lock()
	u.CreatedAt = f.store.tick()
	f.store.users[u.UserID] = u
	f.store.mu.Unlock()
	return Actor{UserID: u.UserID, Role: role}
}

func (f *fixture) member(name string) Actor {
	return f.user(name, model.RoleMember)
}

// hackathon stores a published hackathon whose windows place the fixture
// clock inside phase. Solo track unless opts change the team sizes.
func (f *fixture) hackathon(phase model.Phase, opts ...func(h *model.Hackathon)) *model.Hackathon {
	f.t.Helper()
	org := f.user("org-"+uuid.NewString()[:6], model.RoleEmployer)

	var appOpens time.Time
	switch phase {
	case model.PhaseUpcoming:
		appOpens = f.now.Add(1 * day)
	case model.PhaseApplications:
		appOpens = f.now.Add(-1 * day)
	case model.PhaseSubmission:
		appOpens = f.now.Add(-5 * day)
	case model.PhaseCompleted:
		appOpens = f.now.Add(-10 * day)
	default:
		f.t.Fatalf("unsupported seed phase %q", phase)
	}

	published := f.now.Add(-30 * day)
	h := &model.Hackathon{
		HackathonID:         uuid.NewString(),
		Slug:                "hack-" + uuid.NewString()[:8],
		Title:               "Spring Jam",
		Description:         "Build something",
		Visibility:          model.VisibilityPublic,
		Phase:               phase,
		ApplicationOpensAt:  appOpens,
		ApplicationClosesAt: appOpens.Add(3 * day),
		SubmissionOpensAt:   appOpens.Add(4 * day),
		SubmissionClosesAt:  appOpens.Add(7 * day),
		Timezone:            "UTC",
		MinTeamSize:         1,
		MaxTeamSize:         1,
		OrganizerID:         org.UserID,
		PublishedAt:         &published,
	}
	h.Version = 1
	for _, opt := range opts {
		opt(h)
	}

	f.store.mu.Lock()
	h.CreatedAt = f.store.tick()
	cp := *h
	f.store.hackathons[h.HackathonID] = &cp
	f.store.mu.Unlock()
	return h
}

func teamSizes(lo, hi int) func(h *model.Hackathon) {
	return func(h *model.Hackathon) {
		h.MinTeamSize = lo
		h.MaxTeamSize = hi
	}
}

func maxParticipants(n int) func(h *model.Hackathon) {
	return func(h *model.Hackathon) { h.MaxParticipants = &n }
}

func organizerOf(h *model.Hackathon) Actor {
	return Actor{UserID: h.OrganizerID, Role: model.RoleEmployer}
}

// apply stores an application for a in the given status.
func (f *fixture) apply(h *model.Hackathon, a Actor, status model.ApplicationStatus) *model.Application {
	f.t.Helper()
	app := &model.Application{
		ApplicationID: uuid.NewString(),
		HackathonID:   h.HackathonID,
		UserID:        a.UserID,
		Status:        status,
		AppliedAt:     f.now.Add(-1 * time.Hour),
	}
	f.store.mu.Lock()
	app.CreatedAt = f.store.tick()
	cp := *app
	f.store.apps[app.ApplicationID] = &cp
	f.store.mu.Unlock()
	return app
}

// participant creates a member with an approved application.
func (f *fixture) participant(h *model.Hackathon, name string) Actor {
	a := f.member(name)
	f.apply(h, a, model.ApplicationApproved)
	return a
}

// ── store inspection ──

func (f *fixture) storedHackathon(id string) model.Hackathon {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.hackathons[id]
}

func (f *fixture) storedTeam(id string) model.Team {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.teams[id]
}

func (f *fixture) storedApplication(hackathonID, userID string) *model.Application {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, a := range f.store.apps {
		if a.HackathonID == hackathonID && a.UserID == userID {
			cp := *a
			return &cp
		}
	}
	return nil
}

func (f *fixture) storedSubmission(id string) model.Submission {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.subs[id]
}

func (f *fixture) membersWithStatus(teamID string, status model.MemberStatus) int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	n := 0
	for _, m := range f.store.members {
		if m.TeamID == teamID && m.Status == status {
			n++
		}
	}
	return n
}

// team stores a team led by leader with the given active members and links
// their applications to it.
func (f *fixture) team(h *model.Hackathon, leader Actor, members ...Actor) *model.Team {
	f.t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	t := &model.Team{
		TeamID:      uuid.NewString(),
		HackathonID: h.HackathonID,
		Name:        "Team " + uuid.NewString()[:4],
		Slug:        "team-" + uuid.NewString()[:8],
		InviteCode:  strings.ToUpper(uuid.NewString()[:12]),
		LeaderID:    leader.UserID,
	}
	t.CreatedAt = f.store.tick()
	f.store.teams[t.TeamID] = t

	joined := f.now.Add(-1 * time.Hour)
	add := func(a Actor, role model.MemberRole) {
		m := &model.TeamMember{
			MemberID:    uuid.NewString(),
			TeamID:      t.TeamID,
			HackathonID: h.HackathonID,
			UserID:      a.UserID,
			Role:        role,
			Status:      model.MemberActive,
			JoinedAt:    &joined,
		}
		m.CreatedAt = f.store.tick()
		f.store.members[m.MemberID] = m
		for _, app := range f.store.apps {
			if app.HackathonID == h.HackathonID && app.UserID == a.UserID {
				id := t.TeamID
				app.TeamID = &id
			}
		}
	}
	add(leader, model.MemberRoleLeader)
	for _, m := range members {
		add(m, model.MemberRoleMember)
	}

	cp := *t
	return &cp
}

// submission stores a submission owned by teamID when set, else by owner.
func (f *fixture) submission(h *model.Hackathon, owner Actor, teamID string, status model.SubmissionStatus) *model.Submission {
	f.t.Helper()
	sub := &model.Submission{
		SubmissionID: uuid.NewString(),
		HackathonID:  h.HackathonID,
		Status:       status,
		RepoURL:      "https://github.com/acme/" + uuid.NewString()[:6],
		Branch:       "main",
		CommitSHA:    "abc1234",
	}
	if teamID != "" {
		sub.TeamID = &teamID
	} else {
		uid := owner.UserID
		sub.UserID = &uid
	}
	f.store.mu.Lock()
	sub.CreatedAt = f.store.tick()
	cp := *sub
	f.store.subs[sub.SubmissionID] = &cp
	f.store.mu.Unlock()
	return sub
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
