// Package lifecycle derives a hackathon's phase and per-viewer permissions
// from stored data and the current instant. Nothing here performs I/O.
package lifecycle

import (
	"time"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
)

// Schedule is the input to the phase clock. Windows are half-open [opens, closes).
type Schedule struct {
	ApplicationOpensAt  time.Time
	ApplicationClosesAt time.Time
	SubmissionOpensAt   time.Time
	SubmissionClosesAt  time.Time
	JudgingOpensAt      *time.Time
	JudgingClosesAt     *time.Time
	ArchivedAt          *time.Time
}

// HasJudging reports whether both judging instants are set.
func (s Schedule) HasJudging() bool {
	return s.JudgingOpensAt != nil && s.JudgingClosesAt != nil
}

// ScheduleOf extracts the clock input from a stored hackathon.
func ScheduleOf(h *model.Hackathon) Schedule {
	return Schedule{
		ApplicationOpensAt:  h.ApplicationOpensAt,
		ApplicationClosesAt: h.ApplicationClosesAt,
		SubmissionOpensAt:   h.SubmissionOpensAt,
		SubmissionClosesAt:  h.SubmissionClosesAt,
		JudgingOpensAt:      h.JudgingOpensAt,
		JudgingClosesAt:     h.JudgingClosesAt,
		ArchivedAt:          h.ArchivedAt,
	}
}

// State is the clock output. The window flags, not DerivedPhase, gate actions:
// the phase is carried forward through gaps between windows while the
// corresponding flag is already false.
type State struct {
	DerivedPhase            model.Phase `json:"derived_phase"`
	IsApplicationWindowOpen bool        `json:"is_application_window_open"`
	IsSubmissionWindowOpen  bool        `json:"is_submission_window_open"`
	IsJudgingWindowOpen     bool        `json:"is_judging_window_open"`
}

// Derive maps a schedule and an instant to the phase and window flags.
func Derive(s Schedule, now time.Time) State {
	if s.ArchivedAt != nil {
		return State{DerivedPhase: model.PhaseArchived}
	}

	switch {
	case now.Before(s.ApplicationOpensAt):
		return State{DerivedPhase: model.PhaseUpcoming}
	case now.Before(s.ApplicationClosesAt):
		return State{DerivedPhase: model.PhaseApplications, IsApplicationWindowOpen: true}
	case now.Before(s.SubmissionOpensAt):
		return State{DerivedPhase: model.PhaseApplications}
	case now.Before(s.SubmissionClosesAt):
		return State{DerivedPhase: model.PhaseSubmission, IsSubmissionWindowOpen: true}
	}

	if !s.HasJudging() {
		return State{DerivedPhase: model.PhaseCompleted}
	}

	switch {
	case now.Before(*s.JudgingOpensAt):
		return State{DerivedPhase: model.PhaseSubmission}
	case now.Before(*s.JudgingClosesAt):
		return State{DerivedPhase: model.PhaseJudging, IsJudgingWindowOpen: true}
	default:
		return State{DerivedPhase: model.PhaseCompleted}
	}
}

// ForHackathon derives the state of a stored hackathon. An unpublished,
// unarchived hackathon stays in draft with every window closed.
func ForHackathon(h *model.Hackathon, now time.Time) State {
	if h.ArchivedAt == nil && !h.IsPublished() {
		return State{DerivedPhase: model.PhaseDraft}
	}
	return Derive(ScheduleOf(h), now)
}

// SubmissionsRevealed reports whether repository fields of every submission
// may be shown to any viewer, i.e. the submission window has ended.
func SubmissionsRevealed(s Schedule, now time.Time) bool {
	return !now.Before(s.SubmissionClosesAt)
}

// TeamFormationOpen reports whether memberships may still change: the
// hackathon is live and its submission window has not ended.
func TeamFormationOpen(st State, s Schedule, now time.Time) bool {
	switch st.DerivedPhase {
	case model.PhaseDraft, model.PhaseArchived, model.PhaseCompleted:
		return false
	}
	return now.Before(s.SubmissionClosesAt)
}
