package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// HackathonService hackathon reads and the organizer write path.
type HackathonService interface {
	Create(ctx context.Context, req *dto.CreateHackathonRequest, actor Actor) (*dto.HackathonResponse, error)
	List(ctx context.Context, req *dto.ListHackathonsRequest, actor Actor) ([]dto.HackathonResponse, int64, error)
	// Read is the detail read: synchronized phase, teams, submissions and the
	// viewer's permissions.
	Read(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonDetailResponse, error)
	// Update validates ordering and size invariants against the merged row and
	// the current participation before anything is written.
	Update(ctx context.Context, idOrSlug string, req *dto.UpdateHackathonRequest, actor Actor) (*dto.HackathonResponse, error)
	Publish(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonResponse, error)
	Archive(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonResponse, error)
}

type hackathonService struct {
	cfg    *config.Config
	repo   *repository.Repository
	sync   *PhaseSynchronizer
	logger *zap.Logger
	now    func() time.Time
}

// NewHackathonService creates a HackathonService.
func NewHackathonService(cfg *config.Config, repo *repository.Repository, sync *PhaseSynchronizer, logger *zap.Logger) HackathonService {
	return &hackathonService{cfg: cfg, repo: repo, sync: sync, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *hackathonService) Create(ctx context.Context, req *dto.CreateHackathonRequest, actor Actor) (*dto.HackathonResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	if !actor.Role.CanOrganize() {
		return nil, ErrNotOrganizer
	}

	h := &model.Hackathon{
		Slug:                strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:               req.Title,
		Description:         req.Description,
		BannerURL:           req.BannerURL,
		Visibility:          model.Visibility(req.Visibility),
		Phase:               model.PhaseDraft,
		ApplicationOpensAt:  req.ApplicationOpensAt.UTC(),
		ApplicationClosesAt: req.ApplicationClosesAt.UTC(),
		SubmissionOpensAt:   req.SubmissionOpensAt.UTC(),
		SubmissionClosesAt:  req.SubmissionClosesAt.UTC(),
		JudgingOpensAt:      utcPtr(req.JudgingOpensAt),
		JudgingClosesAt:     utcPtr(req.JudgingClosesAt),
		Timezone:            req.Timezone,
		MaxParticipants:     req.MaxParticipants,
		MinTeamSize:         req.MinTeamSize,
		MaxTeamSize:         req.MaxTeamSize,
		Tags:                datatypes.JSONSlice[string](normalizeTags(req.Tags)),
		PrizeSummary:        req.PrizeSummary,
		AutoAccept:          req.AutoAccept,
		QuizID:              req.QuizID,
		OrganizerID:         actor.UserID,
	}
	if h.Visibility == "" {
		h.Visibility = model.VisibilityPublic
	}
	if h.Timezone == "" {
		h.Timezone = s.cfg.Lifecycle.DefaultTimezone
	}
	if h.MinTeamSize == 0 {
		h.MinTeamSize = 1
	}
	if h.MaxTeamSize == 0 {
		h.MaxTeamSize = h.MinTeamSize
	}
	h.CreatedBy = &actor.UserID
	h.UpdatedBy = &actor.UserID

	if err := validateHackathon(h); err != nil {
		return nil, err
	}

	if err := s.repo.Hackathon.Create(ctx, h); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		s.logger.Error("create hackathon failed", zap.String("slug", h.Slug), zap.Error(err))
		return nil, err
	}

	st := lifecycle.ForHackathon(h, s.now())
	resp := toHackathonResponse(h, st, 0)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *hackathonService) List(ctx context.Context, req *dto.ListHackathonsRequest, actor Actor) ([]dto.HackathonResponse, int64, error) {
	filter := repository.HackathonFilter{
		PublishedOnly: true,
		PublicOnly:    true,
		Phase:         model.Phase(req.Phase),
	}
	if req.Mine {
		if actor.Anonymous() {
			return nil, 0, ErrUnauthorized
		}
		filter = repository.HackathonFilter{OrganizerID: actor.UserID, Phase: model.Phase(req.Phase)}
	}

	list, total, err := s.repo.Hackathon.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list hackathons failed", zap.Error(err))
		return nil, 0, err
	}

	now := s.now()
	result := make([]dto.HackathonResponse, 0, len(list))
	for i := range list {
		h := &list[i]
		st := s.sync.ReconcileAt(ctx, h, now)
		count, err := s.repo.Application.CountActive(ctx, h.HackathonID)
		if err != nil {
			s.logger.Error("count applications failed", applog.Hackathon(h.HackathonID), zap.Error(err))
			return nil, 0, err
		}
		result = append(result, toHackathonResponse(h, st, count))
	}
	return result, total, nil
}

// ────────────────────── Read ──────────────────────

func (s *hackathonService) Read(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonDetailResponse, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, idOrSlug, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := s.sync.ReconcileAt(ctx, h, now)
	schedule := lifecycle.ScheduleOf(h)

	count, err := s.repo.Application.CountActive(ctx, h.HackathonID)
	if err != nil {
		s.logger.Error("count applications failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}
	teams, err := s.repo.Team.ListByHackathon(ctx, h.HackathonID)
	if err != nil {
		s.logger.Error("list teams failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}
	submissions, err := s.repo.Submission.ListByHackathon(ctx, h.HackathonID)
	if err != nil {
		s.logger.Error("list submissions failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}
	viewer, memberships, err := loadViewer(ctx, s.repo, s.logger, h, actor)
	if err != nil {
		return nil, err
	}

	revealed := lifecycle.SubmissionsRevealed(schedule, now)
	viewerTeamID := viewer.ActiveTeamID()

	teamSubs := make(map[string]*model.Submission, len(submissions))
	soloSubs := make([]dto.SubmissionResponse, 0)
	for i := range submissions {
		sub := &submissions[i]
		if sub.TeamID != nil {
			teamSubs[*sub.TeamID] = sub
			continue
		}
		soloSubs = append(soloSubs, *toSubmissionResponse(sub, lifecycle.CanViewRepository(sub, revealed, viewer)))
	}

	var viewerTeam *dto.TeamResponse
	teamList := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		t := &teams[i]
		resp := toTeamResponse(t, t.TeamID == viewerTeamID)
		if sub, ok := teamSubs[t.TeamID]; ok {
			resp.Submission = toSubmissionResponse(sub, lifecycle.CanViewRepository(sub, revealed, viewer))
		}
		if t.TeamID == viewerTeamID {
			viewerTeam = resp
		}
		teamList = append(teamList, *resp)
	}

	detail := &dto.HackathonDetailResponse{
		Hackathon:       toHackathonResponse(h, st, count),
		Teams:           teamList,
		SoloSubmissions: soloSubs,
	}

	if !actor.Anonymous() {
		perms := lifecycle.Evaluate(lifecycle.EligibilityInput{
			State:            st,
			MaxParticipants:  h.MaxParticipants,
			ApplicationCount: count,
			MinTeamSize:      h.MinTeamSize,
			Viewer:           viewer,
		})
		uc := &dto.UserContext{
			Team:               viewerTeam,
			Permissions:        perms,
			PendingInvitations: make([]dto.InvitationResponse, 0),
		}
		if viewer.Application != nil {
			uc.Application = toApplicationResponse(viewer.Application)
		}
		if viewer.Submission != nil {
			uc.Submission = toSubmissionResponse(viewer.Submission, true)
		}
		for _, m := range lifecycle.PendingInvitations(memberships, actor.UserID) {
			uc.PendingInvitations = append(uc.PendingInvitations, toInvitationResponse(&m))
		}
		detail.UserContext = uc
	}

	return detail, nil
}

// ────────────────────── Update ──────────────────────

func (s *hackathonService) Update(ctx context.Context, idOrSlug string, req *dto.UpdateHackathonRequest, actor Actor) (*dto.HackathonResponse, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, idOrSlug, actor)
	if err != nil {
		return nil, err
	}
	if !canManage(h, actor) {
		return nil, ErrNotOrganizer
	}

	var (
		next  model.Hackathon
		count int64
	)
	err = inTx(ctx, s.repo, func(r *repository.Repository) error {
		locked, err := r.Hackathon.GetByIDForUpdate(ctx, h.HackathonID)
		if err != nil {
			return err
		}
		if locked.ArchivedAt != nil {
			return ErrHackathonArchived
		}
		if req.Version != nil && *req.Version != locked.Version {
			return ErrConcurrentUpdate
		}

		next = *locked
		applyUpdate(&next, req)
		next.UpdatedBy = &actor.UserID

		if err := validateHackathon(&next); err != nil {
			return err
		}
		if err := s.checkParticipation(ctx, r, locked, &next, &count); err != nil {
			return err
		}

		return r.Hackathon.Update(ctx, &next)
	})
	if err != nil {
		switch {
		case isBusinessError(err):
			return nil, err
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return nil, ErrConcurrentUpdate
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrSlugTaken
		case repository.IsNotFound(err):
			return nil, ErrHackathonNotFound
		}
		s.logger.Error("update hackathon failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}

	st := s.sync.ReconcileAt(ctx, &next, s.now())
	resp := toHackathonResponse(&next, st, count)
	return &resp, nil
}

// checkParticipation rejects changes that would invalidate rows already
// recorded against the hackathon: team caps below an existing roster,
// minimums above a locked roster, participant caps below the current count.
func (s *hackathonService) checkParticipation(ctx context.Context, r *repository.Repository, prev, next *model.Hackathon, count *int64) error {
	n, err := r.Application.CountActive(ctx, next.HackathonID)
	if err != nil {
		return err
	}
	*count = n

	if next.MaxParticipants != nil && !sameIntPtr(prev.MaxParticipants, next.MaxParticipants) && n > int64(*next.MaxParticipants) {
		return invariant(InvCapacityCurrent,
			fmt.Sprintf("max_participants %d is below the %d applications already recorded", *next.MaxParticipants, n))
	}

	if prev.MinTeamSize == next.MinTeamSize && prev.MaxTeamSize == next.MaxTeamSize {
		return nil
	}
	sizes, err := r.Team.TeamSizes(ctx, next.HackathonID)
	if err != nil {
		return err
	}
	for _, ts := range sizes {
		if ts.Active > next.MaxTeamSize {
			return invariant(InvTeamSizeCurrent,
				fmt.Sprintf("max_team_size %d is below a team with %d active members", next.MaxTeamSize, ts.Active))
		}
		if ts.Locked && ts.Active < next.MinTeamSize {
			return invariant(InvTeamSizeCurrent,
				fmt.Sprintf("min_team_size %d is above a locked team with %d active members", next.MinTeamSize, ts.Active))
		}
	}
	return nil
}

// ────────────────────── Publish / Archive ──────────────────────

func (s *hackathonService) Publish(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonResponse, error) {
	return s.setMarker(ctx, idOrSlug, actor, func(h *model.Hackathon, now time.Time) error {
		if h.ArchivedAt != nil {
			return ErrHackathonArchived
		}
		if h.IsPublished() {
			return ErrHackathonAlreadyPublished
		}
		if err := validateHackathon(h); err != nil {
			return err
		}
		h.PublishedAt = &now
		return nil
	})
}

// Archive is idempotent: archiving an archived hackathon returns it unchanged.
func (s *hackathonService) Archive(ctx context.Context, idOrSlug string, actor Actor) (*dto.HackathonResponse, error) {
	return s.setMarker(ctx, idOrSlug, actor, func(h *model.Hackathon, now time.Time) error {
		if h.ArchivedAt != nil {
			return errUnchanged
		}
		h.ArchivedAt = &now
		return nil
	})
}

var errUnchanged = errors.New("unchanged")

func (s *hackathonService) setMarker(ctx context.Context, idOrSlug string, actor Actor, mutate func(h *model.Hackathon, now time.Time) error) (*dto.HackathonResponse, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, idOrSlug, actor)
	if err != nil {
		return nil, err
	}
	if !canManage(h, actor) {
		return nil, ErrNotOrganizer
	}

	now := s.now().UTC()
	next := *h
	switch err := mutate(&next, now); {
	case errors.Is(err, errUnchanged):
		next = *h
	case err != nil:
		return nil, err
	default:
		next.UpdatedBy = &actor.UserID
		if err := s.repo.Hackathon.Update(ctx, &next); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return nil, ErrConcurrentUpdate
			}
			s.logger.Error("update hackathon marker failed", applog.Hackathon(h.HackathonID), zap.Error(err))
			return nil, err
		}
	}

	st := s.sync.ReconcileAt(ctx, &next, now)
	count, err := s.repo.Application.CountActive(ctx, next.HackathonID)
	if err != nil {
		s.logger.Error("count applications failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, err
	}
	resp := toHackathonResponse(&next, st, count)
	return &resp, nil
}

// ── validation ──

// validateHackathon checks the temporal ordering and size invariants of a
// fully merged row.
func validateHackathon(h *model.Hackathon) error {
	if !h.ApplicationOpensAt.Before(h.ApplicationClosesAt) {
		return invariant(InvApplicationWindow, "application_opens_at must be before application_closes_at")
	}
	if h.ApplicationClosesAt.After(h.SubmissionOpensAt) {
		return invariant(InvApplicationBeforeSub, "application_closes_at must not be after submission_opens_at")
	}
	if !h.SubmissionOpensAt.Before(h.SubmissionClosesAt) {
		return invariant(InvSubmissionWindow, "submission_opens_at must be before submission_closes_at")
	}
	if (h.JudgingOpensAt == nil) != (h.JudgingClosesAt == nil) {
		return invariant(InvJudgingPair, "judging_opens_at and judging_closes_at must be set together")
	}
	if h.HasJudging() {
		if h.JudgingOpensAt.Before(h.SubmissionClosesAt) || !h.JudgingOpensAt.Before(*h.JudgingClosesAt) {
			return invariant(InvJudgingWindow, "judging window must open at or after submission close and before it closes")
		}
	}
	if h.MinTeamSize < 1 || h.MaxTeamSize < 1 || h.MinTeamSize > h.MaxTeamSize {
		return invariant(InvTeamSizeBounds, "team sizes must satisfy 1 <= min_team_size <= max_team_size")
	}
	if _, err := time.LoadLocation(h.Timezone); err != nil || h.Timezone == "" {
		return invariant(InvTimezone, fmt.Sprintf("unknown timezone %q", h.Timezone))
	}
	return nil
}

// applyUpdate merges the non-nil request fields into h.
func applyUpdate(h *model.Hackathon, req *dto.UpdateHackathonRequest) {
	if req.Slug != nil {
		h.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Title != nil {
		h.Title = *req.Title
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.BannerURL != nil {
		h.BannerURL = *req.BannerURL
	}
	if req.Visibility != nil {
		h.Visibility = model.Visibility(*req.Visibility)
	}
	if req.ApplicationOpensAt != nil {
		h.ApplicationOpensAt = req.ApplicationOpensAt.UTC()
	}
	if req.ApplicationClosesAt != nil {
		h.ApplicationClosesAt = req.ApplicationClosesAt.UTC()
	}
	if req.SubmissionOpensAt != nil {
		h.SubmissionOpensAt = req.SubmissionOpensAt.UTC()
	}
	if req.SubmissionClosesAt != nil {
		h.SubmissionClosesAt = req.SubmissionClosesAt.UTC()
	}
	if req.ClearJudging {
		h.JudgingOpensAt, h.JudgingClosesAt = nil, nil
	}
	if req.JudgingOpensAt != nil {
		h.JudgingOpensAt = utcPtr(req.JudgingOpensAt)
	}
	if req.JudgingClosesAt != nil {
		h.JudgingClosesAt = utcPtr(req.JudgingClosesAt)
	}
	if req.Timezone != nil {
		h.Timezone = *req.Timezone
	}
	if req.ClearMaxParticipants {
		h.MaxParticipants = nil
	}
	if req.MaxParticipants != nil {
		v := *req.MaxParticipants
		h.MaxParticipants = &v
	}
	if req.MinTeamSize != nil {
		h.MinTeamSize = *req.MinTeamSize
	}
	if req.MaxTeamSize != nil {
		h.MaxTeamSize = *req.MaxTeamSize
	}
	if req.Tags != nil {
		h.Tags = datatypes.JSONSlice[string](normalizeTags(req.Tags))
	}
	if req.PrizeSummary != nil {
		h.PrizeSummary = *req.PrizeSummary
	}
	if req.AutoAccept != nil {
		h.AutoAccept = *req.AutoAccept
	}
	if req.QuizID != nil {
		h.QuizID = req.QuizID
	}
}

// ── helpers ──

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
