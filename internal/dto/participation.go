package dto

import "time"

// ── applications ──

// ApplyRequest POST /hackathons/:id/applications.
type ApplyRequest struct {
	Motivation string `json:"motivation" binding:"max=2000"`
}

// ReviewApplicationRequest organizer decision on a pending application.
type ReviewApplicationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// ListApplicationsRequest organizer listing query.
type ListApplicationsRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending_review approved auto_accepted rejected withdrawn"`
}

// ApplicationResponse application info.
type ApplicationResponse struct {
	ID          string     `json:"id"`
	HackathonID string     `json:"hackathon_id"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	Status      string     `json:"status"`
	TeamID      *string    `json:"team_id,omitempty"`
	Motivation  string     `json:"motivation,omitempty"`
	AppliedAt   time.Time  `json:"applied_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

// ── teams ──

// CreateTeamRequest POST /hackathons/:id/teams.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// JoinTeamRequest joins by invite code.
type JoinTeamRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// InviteMemberRequest leader invites a user.
type InviteMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// TeamMemberResponse one roster entry.
type TeamMemberResponse struct {
	MemberID string     `json:"member_id"`
	UserID   string     `json:"user_id"`
	Name     string     `json:"name,omitempty"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

// TeamResponse team with its active roster. InviteCode is only set for members.
type TeamResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Slug       string               `json:"slug"`
	LeaderID   string               `json:"leader_id"`
	LockedAt   *time.Time           `json:"locked_at,omitempty"`
	InviteCode string               `json:"invite_code,omitempty"`
	Members    []TeamMemberResponse `json:"members"`
	Submission *SubmissionResponse  `json:"submission,omitempty"`
}

// InvitationResponse a pending invitation addressed to the viewer.
type InvitationResponse struct {
	MemberID  string    `json:"member_id"`
	TeamID    string    `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	InvitedBy *string   `json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ── submissions ──

// SaveSubmissionRequest creates or updates the caller's draft submission.
type SaveSubmissionRequest struct {
	RepoURL   string  `json:"repo_url"   binding:"required,url,max=500"`
	Branch    string  `json:"branch"     binding:"omitempty,max=200"`
	CommitSHA string  `json:"commit_sha" binding:"omitempty,hexadecimal,min=7,max=64"`
	AttemptID *string `json:"attempt_id" binding:"omitempty,uuid"`
}

// SubmissionResponse submission info. Repository fields are nil while hidden from the viewer.
type SubmissionResponse struct {
	ID          string     `json:"id"`
	HackathonID string     `json:"hackathon_id"`
	TeamID      *string    `json:"team_id,omitempty"`
	UserID      *string    `json:"user_id,omitempty"`
	Status      string     `json:"status"`
	RepoURL     *string    `json:"repo_url"`
	Branch      *string    `json:"branch"`
	CommitSHA   *string    `json:"commit_sha"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	AttemptID   *string    `json:"attempt_id,omitempty"`
}
