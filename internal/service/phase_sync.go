package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	applog "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
)

// PhaseSynchronizer keeps the cached hackathons.phase column in step with the
// phase clock. Corrections are compare-and-set writes bounded by a timeout;
// a failed write is logged and never reported to the caller, and the derived
// state is returned either way.
type PhaseSynchronizer struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewPhaseSynchronizer creates a PhaseSynchronizer.
func NewPhaseSynchronizer(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) *PhaseSynchronizer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PhaseSynchronizer{repo: repo, timeout: timeout, logger: logger, now: time.Now}
}

// Reconcile derives h's state at the current instant and corrects the stored phase.
func (p *PhaseSynchronizer) Reconcile(ctx context.Context, h *model.Hackathon) lifecycle.State {
	return p.ReconcileAt(ctx, h, p.now())
}

// ReconcileAt is Reconcile for a caller-supplied instant. On return h.Phase
// holds the derived phase.
func (p *PhaseSynchronizer) ReconcileAt(ctx context.Context, h *model.Hackathon, now time.Time) lifecycle.State {
	st := lifecycle.ForHackathon(h, now)
	if h.Phase == st.DerivedPhase {
		return st
	}

	// the correction outlives a cancelled request but not the timeout
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	applied, err := p.repo.Hackathon.CompareAndSetPhase(wctx, h.HackathonID, h.Phase, st.DerivedPhase)
	switch {
	case err != nil:
		p.logger.Warn("phase sync failed",
			applog.Hackathon(h.HackathonID),
			zap.String("stored", h.Phase.String()),
			zap.String("derived", st.DerivedPhase.String()),
			zap.Error(err),
		)
	case applied:
		p.logger.Info("phase advanced",
			applog.Hackathon(h.HackathonID),
			zap.String("from", h.Phase.String()),
			zap.String("to", st.DerivedPhase.String()),
		)
	}

	h.Phase = st.DerivedPhase
	return st
}

// Sweep reconciles every hackathon whose stored phase may still move.
// It returns how many stored phases differed from the derived one.
func (p *PhaseSynchronizer) Sweep(ctx context.Context) (int, error) {
	list, err := p.repo.Hackathon.ListForSweep(ctx)
	if err != nil {
		return 0, err
	}

	now := p.now()
	advanced := 0
	for i := range list {
		if ctx.Err() != nil {
			return advanced, ctx.Err()
		}
		before := list[i].Phase
		p.ReconcileAt(ctx, &list[i], now)
		if list[i].Phase != before {
			advanced++
		}
	}
	return advanced, nil
}
