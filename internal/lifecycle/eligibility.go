package lifecycle

import (
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
)

// Permissions are the viewer-scoped actions currently allowed.
type Permissions struct {
	CanApply  bool `json:"can_apply"`
	CanSubmit bool `json:"can_submit"`
}

// Viewer is everything the engine needs to know about the requester.
// UserID is empty for anonymous readers.
type Viewer struct {
	UserID      string
	Application *model.Application
	Membership  *model.TeamMember // active membership in this hackathon, if any
	Submission  *model.Submission
}

// ActiveTeamID returns the team of the viewer's active membership, or "".
func (v Viewer) ActiveTeamID() string {
	if v.Membership == nil || v.Membership.Status != model.MemberActive {
		return ""
	}
	return v.Membership.TeamID
}

// EligibilityInput is a consistent snapshot of a hackathon and a viewer.
type EligibilityInput struct {
	State            State
	MaxParticipants  *int
	ApplicationCount int64 // non-withdrawn applications
	MinTeamSize      int
	Viewer           Viewer
}

// Evaluate computes canApply and canSubmit.
func Evaluate(in EligibilityInput) Permissions {
	if in.Viewer.UserID == "" {
		return Permissions{}
	}
	return Permissions{
		CanApply:  canApply(in),
		CanSubmit: canSubmit(in),
	}
}

func canApply(in EligibilityInput) bool {
	if !in.State.IsApplicationWindowOpen || in.Viewer.Application != nil {
		return false
	}
	return HasCapacity(in.MaxParticipants, in.ApplicationCount)
}

func canSubmit(in EligibilityInput) bool {
	if !in.State.IsSubmissionWindowOpen {
		return false
	}
	app := in.Viewer.Application
	if app == nil || !app.Status.Eligible() {
		return false
	}
	return in.MinTeamSize <= 1 || in.Viewer.ActiveTeamID() != ""
}

// HasCapacity reports whether one more application fits under the cap.
func HasCapacity(maxParticipants *int, count int64) bool {
	return maxParticipants == nil || count < int64(*maxParticipants)
}

// CanViewRepository decides whether a submission's repository, branch and
// commit are exposed to the viewer: always after the submission window has
// ended, otherwise only to the solo submitter or active members of the owning team.
func CanViewRepository(sub *model.Submission, revealed bool, v Viewer) bool {
	if revealed {
		return true
	}
	if v.UserID == "" {
		return false
	}
	if sub.IsOwnedByUser(v.UserID) {
		return true
	}
	return sub.IsOwnedByTeam(v.ActiveTeamID())
}

// PendingInvitations filters memberships addressed to the viewer that still
// await an answer. Invitations are actionable in any phase.
func PendingInvitations(memberships []model.TeamMember, viewerID string) []model.TeamMember {
	if viewerID == "" {
		return nil
	}
	pending := make([]model.TeamMember, 0, len(memberships))
	for _, m := range memberships {
		if m.UserID == viewerID && m.Status == model.MemberInvited {
			pending = append(pending, m)
		}
	}
	return pending
}
