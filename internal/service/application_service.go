package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/dto"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// ApplicationService participant applications and organizer review.
type ApplicationService interface {
	Apply(ctx context.Context, hackathonID string, req *dto.ApplyRequest, actor Actor) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, hackathonID string, actor Actor) (*dto.ApplicationResponse, error)
	Review(ctx context.Context, applicationID string, req *dto.ReviewApplicationRequest, actor Actor) (*dto.ApplicationResponse, error)
	List(ctx context.Context, hackathonID string, req *dto.ListApplicationsRequest, actor Actor) ([]dto.ApplicationResponse, int64, error)
}

type applicationService struct {
	repo   *repository.Repository
	sync   *PhaseSynchronizer
	logger *zap.Logger
	now    func() time.Time
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(repo *repository.Repository, sync *PhaseSynchronizer, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, sync: sync, logger: logger, now: time.Now}
}

// ────────────────────── Apply ──────────────────────

func (s *applicationService) Apply(ctx context.Context, hackathonID string, req *dto.ApplyRequest, actor Actor) (*dto.ApplicationResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := s.sync.ReconcileAt(ctx, h, now)
	if !st.IsApplicationWindowOpen {
		return nil, ErrApplicationsClosed
	}

	status := model.ApplicationPendingReview
	if h.AutoAccept {
		status = model.ApplicationAutoAccepted
	}
	app := &model.Application{
		HackathonID: h.HackathonID,
		UserID:      actor.UserID,
		Status:      status,
		Motivation:  req.Motivation,
		AppliedAt:   now.UTC(),
	}
	app.CreatedBy = &actor.UserID

	// count, duplicate check and insert happen under the hackathon row lock
	if err := s.repo.Application.CreateWithinCapacity(ctx, app); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrAlreadyApplied
		case errors.Is(err, pkgerrors.ErrCapacityReached):
			return nil, ErrApplicationCapReached
		}
		s.logger.Error("create application failed",
			applog.Hackathon(h.HackathonID),
			applog.User(actor.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("application created",
		applog.Hackathon(h.HackathonID),
		applog.User(actor.UserID),
		zap.String("status", string(status)),
	)
	return toApplicationResponse(app), nil
}

// ────────────────────── Withdraw ──────────────────────

// Withdraw releases the applicant's slot. An unlocked active membership is
// ended and a non-final solo submission is withdrawn along with it.
func (s *applicationService) Withdraw(ctx context.Context, hackathonID string, actor Actor) (*dto.ApplicationResponse, error) {
	if actor.Anonymous() {
		return nil, ErrUnauthorized
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	st := s.sync.ReconcileAt(ctx, h, now)
	if st.DerivedPhase == model.PhaseCompleted || st.DerivedPhase == model.PhaseArchived {
		return nil, ErrApplicationNotWithdrawable
	}

	viewer, _, err := loadViewer(ctx, s.repo, s.logger, h, actor)
	if err != nil {
		return nil, err
	}
	app := viewer.Application
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.Status == model.ApplicationWithdrawn || app.Status == model.ApplicationRejected {
		return nil, ErrApplicationNotWithdrawable
	}

	if m := viewer.Membership; m != nil {
		if m.Team != nil && m.Team.IsLocked() {
			return nil, ErrTeamLocked
		}
		if m.Role == model.MemberRoleLeader {
			n, err := s.repo.Team.CountActiveMembers(ctx, m.TeamID)
			if err != nil {
				s.logger.Error("count team members failed", applog.Team(m.TeamID), zap.Error(err))
				return nil, err
			}
			if n > 1 {
				return nil, ErrLeaderCannotLeave
			}
		}
	}

	err = inTx(ctx, s.repo, func(r *repository.Repository) error {
		if m := viewer.Membership; m != nil {
			if err := r.Team.TransitionMember(ctx, m.MemberID, model.MemberActive, model.MemberRemoved, now); err != nil {
				return err
			}
			if err := r.Application.SetTeam(ctx, h.HackathonID, actor.UserID, nil); err != nil {
				return err
			}
		}
		if sub := viewer.Submission; sub != nil && sub.IsOwnedByUser(actor.UserID) &&
			(sub.Status == model.SubmissionDraft || sub.Status == model.SubmissionSubmitted) {
			from := sub.Status
			sub.Status = model.SubmissionWithdrawn
			if err := r.Submission.Update(ctx, sub, from); err != nil {
				return err
			}
		}
		return r.Application.TransitionStatus(ctx, app.ApplicationID, app.Status, model.ApplicationWithdrawn, nil, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrLocked):
			return nil, ErrTeamLocked
		case errors.Is(err, pkgerrors.ErrStaleState):
			return nil, ErrApplicationNotWithdrawable
		}
		s.logger.Error("withdraw application failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
		return nil, err
	}

	app.Status = model.ApplicationWithdrawn
	app.TeamID = nil
	return toApplicationResponse(app), nil
}

// ────────────────────── Review ──────────────────────

func (s *applicationService) Review(ctx context.Context, applicationID string, req *dto.ReviewApplicationRequest, actor Actor) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("load application failed", zap.String("application_id", applicationID), zap.Error(err))
		return nil, err
	}
	h, err := loadHackathon(ctx, s.repo, s.logger, app.HackathonID, actor)
	if err != nil {
		return nil, err
	}
	if !canManage(h, actor) {
		return nil, ErrNotOrganizer
	}
	if h.ArchivedAt != nil {
		return nil, ErrHackathonArchived
	}

	decision := model.ApplicationStatus(req.Decision)
	if decision != model.ApplicationApproved && decision != model.ApplicationRejected {
		return nil, ErrInvalidDecision
	}
	if app.Status != model.ApplicationPendingReview {
		return nil, ErrApplicationNotPending
	}

	now := s.now()
	if err := s.repo.Application.TransitionStatus(ctx, app.ApplicationID, model.ApplicationPendingReview, decision, &actor.UserID, now); err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return nil, ErrApplicationNotPending
		}
		s.logger.Error("review application failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
		return nil, err
	}

	reviewedAt := now.UTC()
	app.Status = decision
	app.ReviewedAt = &reviewedAt
	app.ReviewedBy = &actor.UserID
	return toApplicationResponse(app), nil
}

// ────────────────────── List ──────────────────────

func (s *applicationService) List(ctx context.Context, hackathonID string, req *dto.ListApplicationsRequest, actor Actor) ([]dto.ApplicationResponse, int64, error) {
	h, err := loadHackathon(ctx, s.repo, s.logger, hackathonID, actor)
	if err != nil {
		return nil, 0, err
	}
	if !canManage(h, actor) {
		return nil, 0, ErrNotOrganizer
	}

	list, total, err := s.repo.Application.ListByHackathon(ctx, h.HackathonID, model.ApplicationStatus(req.Status), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list applications failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ApplicationResponse, 0, len(list))
	for i := range list {
		result = append(result, *toApplicationResponse(&list[i]))
	}
	return result, total, nil
}

// ── helpers ──

// requireEligible returns the viewer's application when it allows
// participation beyond applying.
func requireEligible(v lifecycle.Viewer) (*model.Application, error) {
	if v.Application == nil || v.Application.Status == model.ApplicationWithdrawn {
		return nil, ErrNotApplicant
	}
	if !v.Application.Status.Eligible() {
		return nil, ErrApplicationNotEligible
	}
	return v.Application, nil
}
