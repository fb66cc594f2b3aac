package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// Actor is the authenticated caller. The zero value is an anonymous reader.
type Actor struct {
	UserID string
	Role   model.Role
}

// Anonymous reports whether no identity was supplied.
func (a Actor) Anonymous() bool { return a.UserID == "" }

// canManage reports whether a may administer h.
func canManage(h *model.Hackathon, a Actor) bool {
	if a.Anonymous() {
		return false
	}
	return a.Role == model.RoleAdmin || h.IsOrganizedBy(a.UserID)
}

// loadHackathon resolves a uuid or slug. Drafts are hidden from everybody
// but their managers.
func loadHackathon(ctx context.Context, repo *repository.Repository, logger *zap.Logger, idOrSlug string, a Actor) (*model.Hackathon, error) {
	var (
		h   *model.Hackathon
		err error
	)
	if _, perr := uuid.Parse(idOrSlug); perr == nil {
		h, err = repo.Hackathon.GetByID(ctx, idOrSlug)
	} else {
		h, err = repo.Hackathon.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrHackathonNotFound
		}
		logger.Error("load hackathon failed", zap.String("hackathon", idOrSlug), zap.Error(err))
		return nil, err
	}
	if !h.IsPublished() && h.ArchivedAt == nil && !canManage(h, a) {
		return nil, ErrHackathonNotFound
	}
	return h, nil
}

// loadViewer collects the rows the eligibility engine needs for a.
func loadViewer(ctx context.Context, repo *repository.Repository, logger *zap.Logger, h *model.Hackathon, a Actor) (lifecycle.Viewer, []model.TeamMember, error) {
	v := lifecycle.Viewer{UserID: a.UserID}
	if a.Anonymous() {
		return v, nil, nil
	}

	app, err := repo.Application.GetByHackathonAndUser(ctx, h.HackathonID, a.UserID)
	switch {
	case err == nil:
		v.Application = app
	case !repository.IsNotFound(err):
		logger.Error("load viewer application failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return v, nil, err
	}

	memberships, err := repo.Team.ListMembershipsForUser(ctx, h.HackathonID, a.UserID)
	if err != nil {
		logger.Error("load viewer memberships failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return v, nil, err
	}
	for i := range memberships {
		if memberships[i].Status == model.MemberActive {
			v.Membership = &memberships[i]
			break
		}
	}

	var sub *model.Submission
	if teamID := v.ActiveTeamID(); teamID != "" {
		sub, err = repo.Submission.GetActiveForTeam(ctx, h.HackathonID, teamID)
	} else {
		sub, err = repo.Submission.GetActiveForUser(ctx, h.HackathonID, a.UserID)
	}
	switch {
	case err == nil:
		v.Submission = sub
	case !repository.IsNotFound(err):
		logger.Error("load viewer submission failed", applog.Hackathon(h.HackathonID), zap.Error(err))
		return v, nil, err
	}

	return v, memberships, nil
}

// inTx runs fn against a transactional repository. Repositories without a
// db run fn directly.
func inTx(ctx context.Context, repo *repository.Repository, fn func(r *repository.Repository) error) error {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}
	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

// isBusinessError reports whether err is one of this package's categorized errors.
func isBusinessError(err error) bool {
	var be *Error
	var ie *InvariantError
	return errors.As(err, &be) || errors.As(err, &ie)
}
