package model

// ── Phase ──

// Phase is the displayed lifecycle stage of a hackathon.
type Phase string

const (
	PhaseDraft        Phase = "draft"
	PhaseUpcoming     Phase = "upcoming"
	PhaseApplications Phase = "applications"
	PhaseSubmission   Phase = "submission"
	PhaseJudging      Phase = "judging"
	PhaseCompleted    Phase = "completed"
	PhaseArchived     Phase = "archived"
)

var phaseOrder = map[Phase]int{
	PhaseDraft:        0,
	PhaseUpcoming:     1,
	PhaseApplications: 2,
	PhaseSubmission:   3,
	PhaseJudging:      4,
	PhaseCompleted:    5,
	PhaseArchived:     6,
}

// String returns the stored representation.
func (p Phase) String() string { return string(p) }

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// Rank orders phases along the lifecycle; unknown phases rank -1.
func (p Phase) Rank() int {
	r, ok := phaseOrder[p]
	if !ok {
		return -1
	}
	return r
}

// ── Visibility ──

// Visibility controls listing of a published hackathon.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// ── Role ──

// Role is the account role supplied by the identity provider.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployer Role = "employer"
	RoleMember   Role = "member"
)

// CanOrganize reports whether the role may create hackathons.
func (r Role) CanOrganize() bool {
	return r == RoleAdmin || r == RoleEmployer
}

// ── ApplicationStatus ──

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPendingReview ApplicationStatus = "pending_review"
	ApplicationApproved      ApplicationStatus = "approved"
	ApplicationAutoAccepted  ApplicationStatus = "auto_accepted"
	ApplicationRejected      ApplicationStatus = "rejected"
	ApplicationWithdrawn     ApplicationStatus = "withdrawn"
)

// Eligible reports whether the applicant may proceed to team formation and submission.
func (s ApplicationStatus) Eligible() bool {
	return s == ApplicationApproved || s == ApplicationAutoAccepted
}

// CountsTowardCap reports whether the application occupies a participant slot.
func (s ApplicationStatus) CountsTowardCap() bool {
	return s != ApplicationWithdrawn
}

// ── MemberRole / MemberStatus ──

// MemberRole is a member's role inside a team.
type MemberRole string

const (
	MemberRoleLeader MemberRole = "leader"
	MemberRoleMember MemberRole = "member"
)

// MemberStatus is the state of a (team, user) membership.
type MemberStatus string

const (
	MemberInvited  MemberStatus = "invited"
	MemberActive   MemberStatus = "active"
	MemberDeclined MemberStatus = "declined"
	MemberRemoved  MemberStatus = "removed"
)

var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberInvited: {MemberActive, MemberDeclined},
	MemberActive:  {MemberRemoved},
}

// CanTransitionTo reports whether the membership state machine allows s → target.
func (s MemberStatus) CanTransitionTo(target MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ── SubmissionStatus ──

// SubmissionStatus is the state of a project submission.
type SubmissionStatus string

const (
	SubmissionDraft        SubmissionStatus = "draft"
	SubmissionSubmitted    SubmissionStatus = "submitted"
	SubmissionWithdrawn    SubmissionStatus = "withdrawn"
	SubmissionDisqualified SubmissionStatus = "disqualified"
)

var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionDraft:     {SubmissionSubmitted, SubmissionWithdrawn, SubmissionDisqualified},
	SubmissionSubmitted: {SubmissionWithdrawn, SubmissionDisqualified},
}

// CanTransitionTo reports whether the submission state machine allows s → target.
func (s SubmissionStatus) CanTransitionTo(target SubmissionStatus) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
