package service

import (
	"errors"
	"fmt"
)

// ── error categories ──
//
// Every business error unwraps to exactly one category; handlers map
// categories to HTTP statuses.

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrValidationFailed = errors.New("validation failed")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrStateConflict    = errors.New("state conflict")
)

// Error is a specific business error belonging to a category.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the category.
func (e *Error) Unwrap() error { return e.kind }

// InvariantError is a ValidationFailed that names the violated invariant.
type InvariantError struct {
	Invariant string
	Message   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Invariant, e.Message)
}

// Unwrap returns ErrValidationFailed.
func (e *InvariantError) Unwrap() error { return ErrValidationFailed }

func invariant(name, msg string) error {
	return &InvariantError{Invariant: name, Message: msg}
}

// Invariant names carried by InvariantError.
const (
	InvApplicationWindow    = "application_window"
	InvApplicationBeforeSub = "application_before_submission"
	InvSubmissionWindow     = "submission_window"
	InvJudgingWindow        = "judging_window"
	InvJudgingPair          = "judging_pair"
	InvTeamSizeBounds       = "team_size_bounds"
	InvTeamSizeCurrent      = "team_size_current"
	InvCapacityCurrent      = "capacity_current"
	InvTimezone             = "timezone"
	InvTeamSizeLock         = "team_size_lock"
)

// ── not found ──

var (
	ErrHackathonNotFound   = newError(ErrNotFound, "hackathon not found")
	ErrApplicationNotFound = newError(ErrNotFound, "application not found")
	ErrTeamNotFound        = newError(ErrNotFound, "team not found")
	ErrInvitationNotFound  = newError(ErrNotFound, "invitation not found")
	ErrSubmissionNotFound  = newError(ErrNotFound, "submission not found")
	ErrUserNotFound        = newError(ErrNotFound, "user not found")
)

// ── unauthorized / forbidden ──

var (
	ErrInvalidCredentials     = newError(ErrUnauthorized, "invalid email or password")
	ErrInvalidRefreshToken    = newError(ErrUnauthorized, "invalid refresh token")
	ErrNotOrganizer           = newError(ErrForbidden, "only the organizer may do this")
	ErrNotTeamLeader          = newError(ErrForbidden, "only the team leader may do this")
	ErrNotInvitee             = newError(ErrForbidden, "invitation is addressed to another user")
	ErrApplicationNotEligible = newError(ErrForbidden, "application is not approved")
	ErrNotApplicant           = newError(ErrForbidden, "an application to this hackathon is required")
)

// ── validation ──

var (
	ErrInvalidInviteCode = newError(ErrValidationFailed, "invalid invite code")
	ErrInvalidDecision   = newError(ErrValidationFailed, "decision must be approved or rejected")
)

// ── capacity ──

var (
	ErrApplicationCapReached = newError(ErrCapacityExceeded, "hackathon has reached its participant limit")
	ErrTeamFull              = newError(ErrCapacityExceeded, "team has reached its maximum size")
)

// ── state conflicts ──

var (
	ErrApplicationsClosed         = newError(ErrStateConflict, "application window is not open")
	ErrAlreadyApplied             = newError(ErrStateConflict, "already applied to this hackathon")
	ErrApplicationNotPending      = newError(ErrStateConflict, "application is not pending review")
	ErrApplicationNotWithdrawable = newError(ErrStateConflict, "application can no longer be withdrawn")
	ErrSubmissionClosed           = newError(ErrStateConflict, "submission window is not open")
	ErrSubmissionNotEditable      = newError(ErrStateConflict, "submission is not in draft")
	ErrTeamRequired               = newError(ErrStateConflict, "an active team is required to submit")
	ErrTeamLocked                 = newError(ErrStateConflict, "team is locked")
	ErrAlreadyInTeam              = newError(ErrStateConflict, "already an active member of a team in this hackathon")
	ErrAlreadyInvited             = newError(ErrStateConflict, "user already has a pending invitation to this team")
	ErrTeamFormationClosed        = newError(ErrStateConflict, "teams can no longer change")
	ErrInvalidTransition          = newError(ErrStateConflict, "membership is not in a state that allows this action")
	ErrLeaderCannotLeave          = newError(ErrStateConflict, "leader cannot leave while other members remain")
	ErrHackathonArchived          = newError(ErrStateConflict, "hackathon is archived")
	ErrHackathonAlreadyPublished  = newError(ErrStateConflict, "hackathon is already published")
	ErrHackathonNotPublished      = newError(ErrStateConflict, "hackathon is not published")
	ErrConcurrentUpdate           = newError(ErrStateConflict, "hackathon was modified concurrently, reload and retry")
	ErrSoloTrack                  = newError(ErrStateConflict, "this hackathon is solo only")
	ErrSlugTaken                  = newError(ErrStateConflict, "slug is already in use")
	ErrNoSubmission               = newError(ErrStateConflict, "nothing to submit yet")
	ErrSoloEntryExists            = newError(ErrStateConflict, "withdraw your solo submission before joining a team")
)
