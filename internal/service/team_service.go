package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// TeamService team formation and the membership state machine.
//
// Membership changes require the hackathon to be live with its submission
// window not yet ended, and are rejected once the team is locked. Declining
// an invitation is the one action allowed in any phase.
type TeamService interface {
	Create(ctx context.Context, hackathonID string, req *dto.CreateTeamRequest, actor Actor) (*dto.TeamResponse, error)
	JoinByCode(ctx context.Context, hackathonID string, req *dto.JoinTeamRequest, actor Actor) (*dto.TeamResponse, error)
	Invite(ctx context.Context, teamID string, req *dto.InviteMemberRequest, actor Actor) (*dto.InvitationResponse, error)
	AcceptInvitation(ctx context.Context, memberID string, actor Actor) (*dto.TeamResponse, error)
	DeclineInvitation(ctx context.Context, memberID string, actor Actor) error
	Leave(ctx context.Context, teamID string, actor Actor) error
	RemoveMember(ctx context.Context, teamID, userID string, actor Actor) error
	Lock(ctx context.Context, teamID string, actor Actor) (*dto.TeamResponse, error)
}

type teamService struct {
	repo   *repository.Repository
	sync   *PhaseSynchronizer
	logger *zap.Logger
	now    func() time.Time
}

// NewTeamService creates a TeamService.
func NewTeamService(repo *repository.Repository, sync *PhaseSynchronizer, logger *zap.Logger) TeamService {
	return &teamService{repo: repo, sync: sync, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *teamService) Create(ctx context.Context, hackathonID string, req *dto.CreateTeamRequest, actor Actor) (*dto.TeamResponse, error) {
	h, viewer, now, err := s.formationContext(ctx, hackathonID, actor)
	if err != nil {
		return nil, err
	}
	if h.MaxTeamSize <= 1 {
		return nil, ErrSoloTrack
	}
	if _, err := requireEligible(viewer); err != nil {
		return nil, err
	}
	if viewer.Membership != nil {
		return nil, ErrAlreadyInTeam
	}
	if holdsSoloEntry(viewer) {
		return nil, ErrSoloEntryExists
	}

	joined := now.UTC()
	team := &model.Team{
		HackathonID: h.HackathonID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        teamSlug(req.Name),
		InviteCode:  newInviteCode(),
		LeaderID:    actor.UserID,
	}
	team.CreatedBy = &actor.UserID
	leader := &model.TeamMember{
		UserID:   actor.UserID,
		Role:     model.MemberRoleLeader,
		Status:   model.MemberActive,
		JoinedAt: &joined,
	}

	err = inTx(ctx, s.repo, func(r *repository.Repository) error {
		if err := r.Team.CreateWithLeader(ctx, team, leader); err != nil {
			return err
		}
		return r.Application.SetTeam(ctx, h.HackathonID, actor.UserID, &team.TeamID)
	})
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrAlreadyInTeam
		case errors.Is(err, pkgerrors.ErrConflictingEntry):
			return nil, ErrSoloEntryExists
		}
		s.logger.Error("create team failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}

	team.Members = []model.TeamMember{*leader}
	return toTeamResponse(team, true), nil
}

// ────────────────────── JoinByCode ──────────────────────

func (s *teamService) JoinByCode(ctx context.Context, hackathonID string, req *dto.JoinTeamRequest, actor Actor) (*dto.TeamResponse, error) {
	h, viewer, now, err := s.formationContext(ctx, hackathonID, actor)
	if err != nil {
		return nil, err
	}
	if h.MaxTeamSize <= 1 {
		return nil, ErrSoloTrack
	}
	if _, err := requireEligible(viewer); err != nil {
		return nil, err
	}
	if viewer.Membership != nil {
		return nil, ErrAlreadyInTeam
	}
	if holdsSoloEntry(viewer) {
		return nil, ErrSoloEntryExists
	}

	team, err := s.repo.Team.GetByInviteCode(ctx, strings.TrimSpace(req.InviteCode))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidInviteCode
		}
		s.logger.Error("load team by invite code failed", zap.Error(err))
		return nil, err
	}
	if team.HackathonID != h.HackathonID {
		return nil, ErrInvalidInviteCode
	}
	if team.IsLocked() {
		return nil, ErrTeamLocked
	}

	joined := now.UTC()
	member := &model.TeamMember{
		TeamID:      team.TeamID,
		HackathonID: h.HackathonID,
		UserID:      actor.UserID,
		Role:        model.MemberRoleMember,
		Status:      model.MemberActive,
		JoinedAt:    &joined,
	}
	if err := s.join(ctx, h, member, func(r *repository.Repository) error {
		return r.Team.JoinActive(ctx, member)
	}); err != nil {
		return nil, err
	}

	return s.teamResponse(ctx, team.TeamID, true)
}

// ────────────────────── Invite ──────────────────────

func (s *teamService) Invite(ctx context.Context, teamID string, req *dto.InviteMemberRequest, actor Actor) (*dto.InvitationResponse, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := s.formationContext(ctx, team.HackathonID, actor); err != nil {
		return nil, err
	}
	if team.LeaderID != actor.UserID {
		return nil, ErrNotTeamLeader
	}
	if team.IsLocked() {
		return nil, ErrTeamLocked
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load invitee failed", applog.User(req.UserID), zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Team.GetActiveMembership(ctx, team.HackathonID, req.UserID); err == nil {
		return nil, ErrAlreadyInTeam
	} else if !repository.IsNotFound(err) {
		s.logger.Error("load invitee membership failed", applog.User(req.UserID), zap.Error(err))
		return nil, err
	}

	inv := &model.TeamMember{
		TeamID:      team.TeamID,
		HackathonID: team.HackathonID,
		UserID:      req.UserID,
		Role:        model.MemberRoleMember,
		Status:      model.MemberInvited,
		InvitedBy:   &actor.UserID,
	}
	inv.CreatedBy = &actor.UserID
	if err := s.repo.Team.CreateInvitation(ctx, inv); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrLocked):
			return nil, ErrTeamLocked
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrAlreadyInvited
		}
		s.logger.Error("create invitation failed", applog.Team(team.TeamID), zap.Error(err))
		return nil, err
	}

	inv.Team = team
	resp := toInvitationResponse(inv)
	return &resp, nil
}

// ────────────────────── AcceptInvitation ──────────────────────

func (s *teamService) AcceptInvitation(ctx context.Context, memberID string, actor Actor) (*dto.TeamResponse, error) {
	inv, err := s.loadInvitation(ctx, memberID, actor)
	if err != nil {
		return nil, err
	}
	h, viewer, now, err := s.formationContext(ctx, inv.HackathonID, actor)
	if err != nil {
		return nil, err
	}
	if _, err := requireEligible(viewer); err != nil {
		return nil, err
	}
	if viewer.Membership != nil {
		return nil, ErrAlreadyInTeam
	}
	if holdsSoloEntry(viewer) {
		return nil, ErrSoloEntryExists
	}

	if err := s.join(ctx, h, inv, func(r *repository.Repository) error {
		return r.Team.AcceptInvitation(ctx, inv.MemberID, now.UTC())
	}); err != nil {
		return nil, err
	}

	return s.teamResponse(ctx, inv.TeamID, true)
}

// ────────────────────── DeclineInvitation ──────────────────────

func (s *teamService) DeclineInvitation(ctx context.Context, memberID string, actor Actor) error {
	inv, err := s.loadInvitation(ctx, memberID, actor)
	if err != nil {
		return err
	}
	return s.transition(ctx, inv, model.MemberDeclined)
}

// ────────────────────── Leave / RemoveMember ──────────────────────

func (s *teamService) Leave(ctx context.Context, teamID string, actor Actor) error {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if _, _, _, err := s.formationContext(ctx, team.HackathonID, actor); err != nil {
		return err
	}
	if team.IsLocked() {
		return ErrTeamLocked
	}

	m, err := s.repo.Team.FindMember(ctx, team.TeamID, actor.UserID, model.MemberActive)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrInvalidTransition
		}
		s.logger.Error("load membership failed", applog.Team(team.TeamID), zap.Error(err))
		return err
	}
	if m.Role == model.MemberRoleLeader {
		n, err := s.repo.Team.CountActiveMembers(ctx, team.TeamID)
		if err != nil {
			s.logger.Error("count team members failed", applog.Team(team.TeamID), zap.Error(err))
			return err
		}
		if n > 1 {
			return ErrLeaderCannotLeave
		}
	}
	return s.transition(ctx, m, model.MemberRemoved)
}

// RemoveMember is the leader's kick; managers of the hackathon may also remove members.
func (s *teamService) RemoveMember(ctx context.Context, teamID, userID string, actor Actor) error {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	h, _, _, err := s.formationContext(ctx, team.HackathonID, actor)
	if err != nil {
		return err
	}
	if team.LeaderID != actor.UserID && !canManage(h, actor) {
		return ErrNotTeamLeader
	}
	if userID == team.LeaderID {
		return ErrLeaderCannotLeave
	}
	if team.IsLocked() {
		return ErrTeamLocked
	}

	m, err := s.repo.Team.FindMember(ctx, team.TeamID, userID, model.MemberActive)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrInvalidTransition
		}
		s.logger.Error("load membership failed", applog.Team(team.TeamID), zap.Error(err))
		return err
	}
	return s.transition(ctx, m, model.MemberRemoved)
}

// ────────────────────── Lock ──────────────────────

func (s *teamService) Lock(ctx context.Context, teamID string, actor Actor) (*dto.TeamResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, team.HackathonID, actor)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != actor.UserID && !canManage(h, actor) {
		return nil, ErrNotTeamLeader
	}
	st := s.sync.ReconcileAt(ctx, h, s.now())
	if st.DerivedPhase == model.PhaseArchived || st.DerivedPhase == model.PhaseDraft {
		return nil, ErrTeamFormationClosed
	}

	if err := lockTeam(ctx, s.repo, h, team.TeamID, s.now()); err != nil {
		if !isBusinessError(err) {
			s.logger.Error("lock team failed", applog.Team(team.TeamID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("team locked", applog.Team(team.TeamID), zap.String("by", actor.UserID))
	return s.teamResponse(ctx, team.TeamID, team.LeaderID == actor.UserID)
}

// lockTeam freezes a roster, mapping repository outcomes to business errors.
// Shared with the submission flow.
func lockTeam(ctx context.Context, repo *repository.Repository, h *model.Hackathon, teamID string, now time.Time) error {
	err := repo.Team.Lock(ctx, teamID, now.UTC())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerrors.ErrLocked):
		return ErrTeamLocked
	case errors.Is(err, pkgerrors.ErrOutOfBounds):
		n, cerr := repo.Team.CountActiveMembers(ctx, teamID)
		if cerr != nil {
			return invariant(InvTeamSizeLock,
				fmt.Sprintf("active members must be between %d and %d", h.MinTeamSize, h.MaxTeamSize))
		}
		return invariant(InvTeamSizeLock,
			fmt.Sprintf("team has %d active members, needs between %d and %d", n, h.MinTeamSize, h.MaxTeamSize))
	default:
		return err
	}
}

// ── helpers ──

// formationContext loads the hackathon and viewer and checks that
// memberships may still change.
func (s *teamService) formationContext(ctx context.Context, hackathonID string, actor Actor) (*model.Hackathon, lifecycle.Viewer, time.Time, error) {
	if actor.Anonymous() {
		return nil, lifecycle.Viewer{}, time.Time{}, ErrUnauthorized
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, lifecycle.Viewer{}, time.Time{}, err
	}
	now := s.now()
	st := s.sync.ReconcileAt(ctx, h, now)
	if !lifecycle.TeamFormationOpen(st, lifecycle.ScheduleOf(h), now) {
		return nil, lifecycle.Viewer{}, time.Time{}, ErrTeamFormationClosed
	}
	viewer, _, err := loadViewer(ctx, s.repo, s.logger, h, actor)
	if err != nil {
		return nil, lifecycle.Viewer{}, time.Time{}, err
	}
	return h, viewer, now, nil
}

// holdsSoloEntry reports whether a viewer outside any team has a live solo submission.
func holdsSoloEntry(v lifecycle.Viewer) bool {
	return v.Membership == nil && v.Submission != nil && v.Submission.IsSolo() &&
		v.Submission.Status != model.SubmissionWithdrawn
}

// join runs an activating write and links the application to the team.
// The first member to join an emptied team becomes its leader.
func (s *teamService) join(ctx context.Context, h *model.Hackathon, m *model.TeamMember, write func(r *repository.Repository) error) error {
	err := inTx(ctx, s.repo, func(r *repository.Repository) error {
		if err := write(r); err != nil {
			return err
		}
		return r.Application.SetTeam(ctx, h.HackathonID, m.UserID, &m.TeamID)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerrors.ErrLocked):
		return ErrTeamLocked
	case errors.Is(err, pkgerrors.ErrCapacityReached):
		return ErrTeamFull
	case errors.Is(err, pkgerrors.ErrDuplicate):
		return ErrAlreadyInTeam
	case errors.Is(err, pkgerrors.ErrConflictingEntry):
		return ErrSoloEntryExists
	case errors.Is(err, pkgerrors.ErrStaleState):
		return ErrInvalidTransition
	}
	s.logger.Error("activate membership failed", applog.Team(m.TeamID), applog.User(m.UserID), zap.Error(err))
	return err
}

// transition applies a non-activating membership change.
func (s *teamService) transition(ctx context.Context, m *model.TeamMember, to model.MemberStatus) error {
	if !m.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	err := inTx(ctx, s.repo, func(r *repository.Repository) error {
		if err := r.Team.TransitionMember(ctx, m.MemberID, m.Status, to, s.now().UTC()); err != nil {
			return err
		}
		if m.Status == model.MemberActive {
			return r.Application.SetTeam(ctx, m.HackathonID, m.UserID, nil)
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerrors.ErrLocked):
		return ErrTeamLocked
	case errors.Is(err, pkgerrors.ErrStaleState):
		return ErrInvalidTransition
	}
	s.logger.Error("membership transition failed",
		zap.String("member_id", m.MemberID),
		zap.String("to", string(to)),
		zap.Error(err),
	)
	return err
}

func (s *teamService) loadTeam(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("load team failed", applog.Team(teamID), zap.Error(err))
		return nil, err
	}
	return team, nil
}

func (s *teamService) loadInvitation(ctx context.Context, memberID string, actor Actor) (*model.TeamMember, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	m, err := s.repo.Team.GetMember(ctx, memberID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvitationNotFound
		}
		s.logger.Error("load invitation failed", zap.String("member_id", memberID), zap.Error(err))
		return nil, err
	}
	if m.UserID != actor.UserID {
		return nil, ErrNotInvitee
	}
	if m.Status != model.MemberInvited {
		return nil, ErrInvalidTransition
	}
	return m, nil
}

func (s *teamService) teamResponse(ctx context.Context, teamID string, showInviteCode bool) (*dto.TeamResponse, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team, showInviteCode), nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// teamSlug derives a URL slug from name with a short random suffix.
func teamSlug(name string) string {
	base := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(base) > 100 {
		base = base[:100]
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	if base == "" {
		return "team-" + suffix
	}
	return base + "-" + suffix
}

// newInviteCode returns a 12 character upper-case code.
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
