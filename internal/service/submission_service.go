package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// SubmissionService project submissions. Participant writes require the
// caller's current canSubmit; a team member acts on the team's submission.
type SubmissionService interface {
	Save(ctx context.Context, hackathonID string, req *dto.SaveSubmissionRequest, actor Actor) (*dto.SubmissionResponse, error)
	// Submit finalizes the draft and locks the submitter's team.
	Submit(ctx context.Context, hackathonID string, actor Actor) (*dto.SubmissionResponse, error)
	Withdraw(ctx context.Context, hackathonID string, actor Actor) (*dto.SubmissionResponse, error)
	Disqualify(ctx context.Context, submissionID string, actor Actor) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	sync   *PhaseSynchronizer
	logger *zap.Logger
	now    func() time.Time
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(repo *repository.Repository, sync *PhaseSynchronizer, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, sync: sync, logger: logger, now: time.Now}
}

// ────────────────────── Save ──────────────────────

func (s *submissionService) Save(ctx context.Context, hackathonID string, req *dto.SaveSubmissionRequest, actor Actor) (*dto.SubmissionResponse, error) {
	h, viewer, _, err := s.submitContext(ctx, hackathonID, actor)
	if err != nil {
		return nil, err
	}

	sub := viewer.Submission
	if sub != nil && sub.Status != model.SubmissionDraft {
		return nil, ErrSubmissionNotEditable
	}

	if sub == nil {
		sub = &model.Submission{
			HackathonID: h.HackathonID,
			Status:      model.SubmissionDraft,
		}
		if teamID := viewer.ActiveTeamID(); teamID != "" {
			sub.TeamID = &teamID
		} else {
			uid := actor.UserID
			sub.UserID = &uid
		}
		sub.CreatedBy = &actor.UserID
		applySubmissionFields(sub, req)
		if err := s.repo.Submission.Create(ctx, sub); err != nil {
			switch {
			case errors.Is(err, pkgerrors.ErrDuplicate):
				return nil, ErrConcurrentUpdate
			case errors.Is(err, pkgerrors.ErrConflictingEntry):
				return nil, ErrAlreadyInTeam
			}
			s.logger.Error("create submission failed", applog.Hackathon(h.HackathonID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("submission drafted",
			applog.Hackathon(h.HackathonID),
			zap.String("submission_id", sub.SubmissionID),
		)
		return toSubmissionResponse(sub, true), nil
	}

	applySubmissionFields(sub, req)
	sub.UpdatedBy = &actor.UserID
	if err := s.repo.Submission.Update(ctx, sub, model.SubmissionDraft); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrSubmissionNotEditable
		}
		s.logger.Error("update submission failed", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
		return nil, err
	}
	return toSubmissionResponse(sub, true), nil
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, hackathonID string, actor Actor) (*dto.SubmissionResponse, error) {
	h, viewer, now, err := s.submitContext(ctx, hackathonID, actor)
	if err != nil {
		return nil, err
	}

	sub := viewer.Submission
	if sub == nil {
		return nil, ErrNoSubmission
	}
	if sub.Status != model.SubmissionDraft {
		return nil, ErrSubmissionNotEditable
	}
	if strings.TrimSpace(sub.RepoURL) == "" {
		return nil, ErrNoSubmission
	}

	at := now.UTC()
	err = inTx(ctx, s.repo, func(r *repository.Repository) error {
		if sub.TeamID != nil {
			// an already locked roster was checked against the bounds when it was locked
			if err := lockTeam(ctx, r, h, *sub.TeamID, now); err != nil && !errors.Is(err, ErrTeamLocked) {
				return err
			}
		}
		sub.Status = model.SubmissionSubmitted
		sub.SubmittedAt = &at
		sub.SubmittedBy = &actor.UserID
		sub.UpdatedBy = &actor.UserID
		return r.Submission.Update(ctx, sub, model.SubmissionDraft)
	})
	if err != nil {
		sub.Status = model.SubmissionDraft
		sub.SubmittedAt = nil
		sub.SubmittedBy = nil
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrSubmissionNotEditable
		}
		if !isBusinessError(err) {
			s.logger.Error("submit failed", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("submission submitted",
		applog.Hackathon(h.HackathonID),
		zap.String("submission_id", sub.SubmissionID),
		zap.String("by", actor.UserID),
	)
	return toSubmissionResponse(sub, true), nil
}

// ────────────────────── Withdraw ──────────────────────

// Withdraw retracts the caller's submission while the window is open. For a
// team entry only the leader may withdraw; the roster stays locked.
func (s *submissionService) Withdraw(ctx context.Context, hackathonID string, actor Actor) (*dto.SubmissionResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, err
	}
	st := s.sync.ReconcileAt(ctx, h, s.now())
	if !st.IsSubmissionWindowOpen {
		return nil, ErrSubmissionClosed
	}
	viewer, _, err := loadViewer(ctx, s.repo, s.logger, h, actor)
	if err != nil {
		return nil, err
	}

	sub := viewer.Submission
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if sub.TeamID != nil && (viewer.Membership == nil || viewer.Membership.Role != model.MemberRoleLeader) {
		return nil, ErrNotTeamLeader
	}

	return s.transition(ctx, sub, model.SubmissionWithdrawn, actor)
}

// ────────────────────── Disqualify ──────────────────────

func (s *submissionService) Disqualify(ctx context.Context, submissionID string, actor Actor) (*dto.SubmissionResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	sub, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, sub.HackathonID, actor)
	if err != nil {
		return nil, err
	}
	if !canManage(h, actor) {
		return nil, ErrNotOrganizer
	}
	if h.ArchivedAt != nil {
		return nil, ErrHackathonArchived
	}

	resp, err := s.transition(ctx, sub, model.SubmissionDisqualified, actor)
	if err == nil {
		s.logger.Info("submission disqualified",
			zap.String("submission_id", sub.SubmissionID),
			zap.String("by", actor.UserID),
		)
	}
	return resp, err
}

// ── helpers ──

// submitContext loads the hackathon and viewer and enforces canSubmit.
func (s *submissionService) submitContext(ctx context.Context, hackathonID string, actor Actor) (*model.Hackathon, lifecycle.Viewer, time.Time, error) {
	if actor.Anonymous() {
		return nil, lifecycle.Viewer{}, time.Time{}, ErrUnauthorized
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, lifecycle.Viewer{}, time.Time{}, err
	}
	now := s.now()
	st := s.sync.ReconcileAt(ctx, h, now)
	if !st.IsSubmissionWindowOpen {
		return nil, lifecycle.Viewer{}, time.Time{}, ErrSubmissionClosed
	}

	viewer, _, err := loadViewer(ctx, s.repo, s.logger, h, actor)
	if err != nil {
		return nil, lifecycle.Viewer{}, time.Time{}, err
	}
	if _, err := requireEligible(viewer); err != nil {
		return nil, lifecycle.Viewer{}, time.Time{}, err
	}
	if !h.IsSoloTrack() && viewer.ActiveTeamID() == "" {
		return nil, lifecycle.Viewer{}, time.Time{}, ErrTeamRequired
	}
	return h, viewer, now, nil
}

func (s *submissionService) transition(ctx context.Context, sub *model.Submission, to model.SubmissionStatus, actor Actor) (*dto.SubmissionResponse, error) {
	if !sub.Status.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}
	from := sub.Status
	sub.Status = to
	sub.UpdatedBy = &actor.UserID
	if err := s.repo.Submission.Update(ctx, sub, from); err != nil {
		sub.Status = from
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrInvalidTransition
		}
		s.logger.Error("submission transition failed",
			zap.String("submission_id", sub.SubmissionID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return nil, err
	}
	return toSubmissionResponse(sub, true), nil
}

func applySubmissionFields(sub *model.Submission, req *dto.SaveSubmissionRequest) {
	sub.RepoURL = strings.TrimSpace(req.RepoURL)
	sub.Branch = strings.TrimSpace(req.Branch)
	sub.CommitSHA = strings.ToLower(strings.TrimSpace(req.CommitSHA))
	if req.AttemptID != nil {
		sub.AttemptID = req.AttemptID
	}
}
