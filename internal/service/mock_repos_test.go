package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// memStore is a mutex-guarded in-memory ledger shared by the mock
// repositories. It enforces the same uniqueness and capacity rules the
// database does, so concurrent service calls can be exercised.
type memStore struct {
	mu sync.Mutex

	users      map[string]*model.User
	hackathons map[string]*model.Hackathon
	apps       map[string]*model.Application
	teams      map[string]*model.Team
	members    map[string]*model.TeamMember
	subs       map[string]*model.Submission

	casErr   error
	casCalls int
	order    int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*model.User),
		hackathons: make(map[string]*model.Hackathon),
		apps:       make(map[string]*model.Application),
		teams:      make(map[string]*model.Team),
		members:    make(map[string]*model.TeamMember),
		subs:       make(map[string]*model.Submission),
	}
}

// repository assembles a Repository without a db; transactions run inline.
func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:        &mockUserRepo{s},
		Hackathon:   &mockHackathonRepo{s},
		Application: &mockApplicationRepo{s},
		Team:        &mockTeamRepo{s},
		Submission:  &mockSubmissionRepo{s},
	}
}

// tick gives rows a stable creation order.
func (s *memStore) tick() time.Time {
	s.order++
	return time.Date(2020, 1, 1, 0, 0, s.order, 0, time.UTC)
}

func (s *memStore) activeCount(teamID string) int {
	n := 0
	for _, m := range s.members {
		if m.TeamID == teamID && m.Status == model.MemberActive {
			n++
		}
	}
	return n
}

func (s *memStore) activeMembership(hackathonID, userID string) *model.TeamMember {
	for _, m := range s.members {
		if m.HackathonID == hackathonID && m.UserID == userID && m.Status == model.MemberActive {
			return m
		}
	}
	return nil
}

// soloEntry reports whether userID holds a live solo submission.
func (s *memStore) soloEntry(hackathonID, userID string) bool {
	for _, sub := range s.subs {
		if sub.HackathonID == hackathonID && sub.IsOwnedByUser(userID) && sub.Status != model.SubmissionWithdrawn {
			return true
		}
	}
	return false
}

// promote hands an emptied team to userID.
func (s *memStore) promote(teamID, userID string) {
	if t, ok := s.teams[teamID]; ok {
		t.LeaderID = userID
	}
}

func (s *memStore) teamCopy(t *model.Team, status model.MemberStatus) *model.Team {
	cp := *t
	cp.Members = nil
	for _, m := range s.sortedMembers() {
		if m.TeamID != t.TeamID || (status != "" && m.Status != status) {
			continue
		}
		mc := *m
		if u, ok := s.users[m.UserID]; ok {
			uc := *u
			mc.User = &uc
		}
		cp.Members = append(cp.Members, mc)
	}
	return &cp
}

func (s *memStore) sortedMembers() []*model.TeamMember {
	list := make([]*model.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// ── Mock UserRepository ──

type mockUserRepo struct{ *memStore }

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return pkgerrors.ErrDuplicate
		}
	}
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	u.CreatedAt = m.tick()
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			list = append(list, *u)
		}
	}
	return list, nil
}

// ── Mock HackathonRepository ──

type mockHackathonRepo struct{ *memStore }

func (m *mockHackathonRepo) Create(_ context.Context, h *model.Hackathon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.hackathons {
		if existing.Slug == h.Slug {
			return pkgerrors.ErrDuplicate
		}
	}
	if h.HackathonID == "" {
		h.HackathonID = uuid.NewString()
	}
	if h.Version == 0 {
		h.Version = 1
	}
	h.CreatedAt = m.tick()
	h.UpdatedAt = h.CreatedAt
	cp := *h
	m.hackathons[h.HackathonID] = &cp
	return nil
}

func (m *mockHackathonRepo) GetByID(_ context.Context, id string) (*model.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hackathons[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHackathonRepo) GetBySlug(_ context.Context, slug string) (*model.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.hackathons {
		if h.Slug == slug {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHackathonRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Hackathon, error) {
	return m.GetByID(ctx, id)
}

func (m *mockHackathonRepo) List(_ context.Context, f repository.HackathonFilter, offset, limit int) ([]model.Hackathon, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.Hackathon
	for _, h := range m.hackathons {
		if f.PublishedOnly && (!h.IsPublished() || h.ArchivedAt != nil) {
			continue
		}
		if f.PublicOnly && h.Visibility != model.VisibilityPublic {
			continue
		}
		if f.OrganizerID != "" && h.OrganizerID != f.OrganizerID {
			continue
		}
		if f.Phase != "" && h.Phase != f.Phase {
			continue
		}
		list = append(list, *h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	total := int64(len(list))
	if offset >= len(list) {
		return nil, total, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, total, nil
}

func (m *mockHackathonRepo) ListForSweep(_ context.Context) ([]model.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.Hackathon
	for _, h := range m.hackathons {
		if (h.IsPublished() || h.ArchivedAt != nil) && h.Phase != model.PhaseArchived {
			list = append(list, *h)
		}
	}
	return list, nil
}

func (m *mockHackathonRepo) Update(_ context.Context, h *model.Hackathon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.hackathons[h.HackathonID]
	if !ok || stored.Version != h.Version {
		return pkgerrors.ErrOptimisticLock
	}
	for _, other := range m.hackathons {
		if other.HackathonID != h.HackathonID && other.Slug == h.Slug {
			return pkgerrors.ErrDuplicate
		}
	}
	h.Version++
	cp := *h
	cp.Phase = stored.Phase
	m.hackathons[h.HackathonID] = &cp
	return nil
}

func (m *mockHackathonRepo) CompareAndSetPhase(ctx context.Context, id string, from, to model.Phase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casCalls++
	if m.casErr != nil {
		return false, m.casErr
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h, ok := m.hackathons[id]
	if !ok || h.Phase != from || from == to {
		return false, nil
	}
	h.Phase = to
	return true, nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct{ *memStore }

func (m *mockApplicationRepo) CreateWithinCapacity(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hackathons[app.HackathonID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	var count int
	for _, a := range m.apps {
		if a.HackathonID != app.HackathonID {
			continue
		}
		if a.UserID == app.UserID {
			return pkgerrors.ErrDuplicate
		}
		if a.Status.CountsTowardCap() {
			count++
		}
	}
	if h.MaxParticipants != nil && count >= *h.MaxParticipants {
		return pkgerrors.ErrCapacityReached
	}
	app.ApplicationID = uuid.NewString()
	app.CreatedAt = m.tick()
	cp := *app
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) withUser(a *model.Application) *model.Application {
	cp := *a
	if u, ok := m.users[a.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.apps[id]; ok {
		return m.withUser(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetByHackathonAndUser(_ context.Context, hackathonID, userID string) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.HackathonID == hackathonID && a.UserID == userID {
			return m.withUser(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) CountActive(_ context.Context, hackathonID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.apps {
		if a.HackathonID == hackathonID && a.Status.CountsTowardCap() {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) ListByHackathon(_ context.Context, hackathonID string, status model.ApplicationStatus, offset, limit int) ([]model.Application, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.Application
	for _, a := range m.apps {
		if a.HackathonID == hackathonID && (status == "" || a.Status == status) {
			list = append(list, *m.withUser(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	total := int64(len(list))
	if offset >= len(list) {
		return nil, total, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, total, nil
}

func (m *mockApplicationRepo) TransitionStatus(_ context.Context, id string, from, to model.ApplicationStatus, reviewerID *string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.Status != from {
		return pkgerrors.ErrStaleState
	}
	a.Status = to
	if reviewerID != nil {
		t := at.UTC()
		a.ReviewedAt = &t
		a.ReviewedBy = reviewerID
	}
	return nil
}

func (m *mockApplicationRepo) SetTeam(_ context.Context, hackathonID, userID string, teamID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.HackathonID == hackathonID && a.UserID == userID {
			a.TeamID = teamID
		}
	}
	return nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct{ *memStore }

func (m *mockTeamRepo) CreateWithLeader(_ context.Context, team *model.Team, leader *model.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.soloEntry(team.HackathonID, leader.UserID) {
		return pkgerrors.ErrConflictingEntry
	}
	if m.activeMembership(team.HackathonID, leader.UserID) != nil {
		return pkgerrors.ErrDuplicate
	}
	team.TeamID = uuid.NewString()
	team.CreatedAt = m.tick()
	tc := *team
	tc.Members = nil
	m.teams[team.TeamID] = &tc

	leader.MemberID = uuid.NewString()
	leader.TeamID = team.TeamID
	leader.HackathonID = team.HackathonID
	leader.CreatedAt = m.tick()
	lc := *leader
	m.members[leader.MemberID] = &lc
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.teams[id]; ok {
		return m.teamCopy(t, ""), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) GetByInviteCode(_ context.Context, code string) (*model.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.InviteCode == code {
			return m.teamCopy(t, ""), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) ListByHackathon(_ context.Context, hackathonID string) ([]model.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.Team
	for _, t := range m.teams {
		if t.HackathonID == hackathonID {
			list = append(list, *m.teamCopy(t, model.MemberActive))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (m *mockTeamRepo) memberCopy(mem *model.TeamMember) *model.TeamMember {
	cp := *mem
	if t, ok := m.teams[mem.TeamID]; ok {
		tc := *t
		tc.Members = nil
		cp.Team = &tc
	}
	return &cp
}

func (m *mockTeamRepo) GetMember(_ context.Context, memberID string) (*model.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem, ok := m.members[memberID]; ok {
		return m.memberCopy(mem), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) FindMember(_ context.Context, teamID, userID string, status model.MemberStatus) (*model.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.members {
		if mem.TeamID == teamID && mem.UserID == userID && mem.Status == status {
			return m.memberCopy(mem), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) GetActiveMembership(_ context.Context, hackathonID, userID string) (*model.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem := m.activeMembership(hackathonID, userID); mem != nil {
		return m.memberCopy(mem), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) ListMembershipsForUser(_ context.Context, hackathonID, userID string) ([]model.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.TeamMember
	for _, mem := range m.sortedMembers() {
		if mem.HackathonID == hackathonID && mem.UserID == userID {
			list = append(list, *m.memberCopy(mem))
		}
	}
	return list, nil
}

func (m *mockTeamRepo) lockedTeam(teamID string) (*model.Team, error) {
	t, ok := m.teams[teamID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if t.IsLocked() {
		return t, pkgerrors.ErrLocked
	}
	return t, nil
}

func (m *mockTeamRepo) CreateInvitation(_ context.Context, inv *model.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lockedTeam(inv.TeamID); err != nil {
		return err
	}
	for _, mem := range m.members {
		if mem.TeamID == inv.TeamID && mem.UserID == inv.UserID && mem.Status == model.MemberInvited {
			return pkgerrors.ErrDuplicate
		}
	}
	inv.MemberID = uuid.NewString()
	inv.CreatedAt = m.tick()
	cp := *inv
	cp.Team = nil
	m.members[inv.MemberID] = &cp
	return nil
}

// bounds reads the current team size limits of a hackathon.
func (m *mockTeamRepo) bounds(hackathonID string) (int, int, error) {
	h, ok := m.hackathons[hackathonID]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	return h.MinTeamSize, h.MaxTeamSize, nil
}

func (m *mockTeamRepo) AcceptInvitation(_ context.Context, memberID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	_, maxSize, err := m.bounds(mem.HackathonID)
	if err != nil {
		return err
	}
	if _, err := m.lockedTeam(mem.TeamID); err != nil {
		return err
	}
	if m.soloEntry(mem.HackathonID, mem.UserID) {
		return pkgerrors.ErrConflictingEntry
	}
	n := m.activeCount(mem.TeamID)
	if n >= maxSize {
		return pkgerrors.ErrCapacityReached
	}
	if mem.Status != model.MemberInvited {
		return pkgerrors.ErrStaleState
	}
	if m.activeMembership(mem.HackathonID, mem.UserID) != nil {
		return pkgerrors.ErrDuplicate
	}
	t := at.UTC()
	mem.Status = model.MemberActive
	mem.JoinedAt = &t
	mem.RespondedAt = &t
	if n == 0 {
		mem.Role = model.MemberRoleLeader
		m.promote(mem.TeamID, mem.UserID)
	}
	return nil
}

func (m *mockTeamRepo) JoinActive(_ context.Context, mem *model.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, maxSize, err := m.bounds(mem.HackathonID)
	if err != nil {
		return err
	}
	if _, err := m.lockedTeam(mem.TeamID); err != nil {
		return err
	}
	if m.soloEntry(mem.HackathonID, mem.UserID) {
		return pkgerrors.ErrConflictingEntry
	}
	n := m.activeCount(mem.TeamID)
	if n >= maxSize {
		return pkgerrors.ErrCapacityReached
	}
	if m.activeMembership(mem.HackathonID, mem.UserID) != nil {
		return pkgerrors.ErrDuplicate
	}
	if n == 0 {
		mem.Role = model.MemberRoleLeader
		m.promote(mem.TeamID, mem.UserID)
	}
	for _, pending := range m.members {
		if pending.TeamID == mem.TeamID && pending.UserID == mem.UserID && pending.Status == model.MemberInvited {
			pending.Status = model.MemberActive
			pending.Role = mem.Role
			pending.JoinedAt = mem.JoinedAt
			pending.RespondedAt = mem.JoinedAt
			*mem = *pending
			return nil
		}
	}
	mem.MemberID = uuid.NewString()
	mem.CreatedAt = m.tick()
	cp := *mem
	m.members[mem.MemberID] = &cp
	return nil
}

func (m *mockTeamRepo) TransitionMember(_ context.Context, memberID string, from, to model.MemberStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if _, err := m.lockedTeam(mem.TeamID); err != nil {
		return err
	}
	if mem.Status != from {
		return pkgerrors.ErrStaleState
	}
	t := at.UTC()
	mem.Status = to
	mem.RespondedAt = &t
	return nil
}

func (m *mockTeamRepo) Lock(_ context.Context, teamID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.lockedTeam(teamID)
	if err != nil {
		return err
	}
	minSize, maxSize, err := m.bounds(t.HackathonID)
	if err != nil {
		return err
	}
	n := m.activeCount(teamID)
	if n < minSize || n > maxSize {
		return pkgerrors.ErrOutOfBounds
	}
	locked := at.UTC()
	for _, mem := range m.members {
		if mem.TeamID == teamID && mem.Status == model.MemberInvited {
			mem.Status = model.MemberDeclined
			mem.RespondedAt = &locked
		}
	}
	t.LockedAt = &locked
	return nil
}

func (m *mockTeamRepo) CountActiveMembers(_ context.Context, teamID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(m.activeCount(teamID)), nil
}

func (m *mockTeamRepo) TeamSizes(_ context.Context, hackathonID string) ([]model.TeamSize, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sizes []model.TeamSize
	for _, t := range m.teams {
		if t.HackathonID == hackathonID {
			sizes = append(sizes, model.TeamSize{TeamID: t.TeamID, Active: m.activeCount(t.TeamID), Locked: t.IsLocked()})
		}
	}
	return sizes, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct{ *memStore }

func sameOwner(a, b *model.Submission) bool {
	if a.HackathonID != b.HackathonID {
		return false
	}
	if a.TeamID != nil && b.TeamID != nil {
		return *a.TeamID == *b.TeamID
	}
	if a.UserID != nil && b.UserID != nil {
		return *a.UserID == *b.UserID
	}
	return false
}

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if (sub.TeamID == nil) == (sub.UserID == nil) {
		return errors.New("submission needs exactly one owner")
	}
	if sub.UserID != nil && m.activeMembership(sub.HackathonID, *sub.UserID) != nil {
		return pkgerrors.ErrConflictingEntry
	}
	for _, existing := range m.subs {
		if existing.Status != model.SubmissionWithdrawn && sameOwner(existing, sub) {
			return pkgerrors.ErrDuplicate
		}
	}
	sub.SubmissionID = uuid.NewString()
	sub.CreatedAt = m.tick()
	cp := *sub
	m.subs[sub.SubmissionID] = &cp
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetActiveForTeam(_ context.Context, hackathonID, teamID string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.HackathonID == hackathonID && s.IsOwnedByTeam(teamID) && s.Status != model.SubmissionWithdrawn {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetActiveForUser(_ context.Context, hackathonID, userID string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.HackathonID == hackathonID && s.IsOwnedByUser(userID) && s.Status != model.SubmissionWithdrawn {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByHackathon(_ context.Context, hackathonID string) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.Submission
	for _, s := range m.subs {
		if s.HackathonID == hackathonID {
			list = append(list, *s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (m *mockSubmissionRepo) Update(_ context.Context, sub *model.Submission, from model.SubmissionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.subs[sub.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != from {
		return pkgerrors.ErrStaleState
	}
	cp := *sub
	m.subs[sub.SubmissionID] = &cp
	return nil
}
