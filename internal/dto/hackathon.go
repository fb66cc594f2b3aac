package dto

import (
	"time"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/lifecycle"
)

// ── hackathon requests ──

// CreateHackathonRequest creates a draft hackathon.
type CreateHackathonRequest struct {
	Slug                string     `json:"slug"                  binding:"required,min=3,max=120"`
	Title               string     `json:"title"                 binding:"required,max=200"`
	Description         string     `json:"description"`
	BannerURL           string     `json:"banner_url"            binding:"omitempty,url,max=500"`
	Visibility          string     `json:"visibility"            binding:"omitempty,oneof=public unlisted"`
	ApplicationOpensAt  time.Time  `json:"application_opens_at"  binding:"required"`
	ApplicationClosesAt time.Time  `json:"application_closes_at" binding:"required"`
	SubmissionOpensAt   time.Time  `json:"submission_opens_at"   binding:"required"`
	SubmissionClosesAt  time.Time  `json:"submission_closes_at"  binding:"required"`
	JudgingOpensAt      *time.Time `json:"judging_opens_at"`
	JudgingClosesAt     *time.Time `json:"judging_closes_at"`
	Timezone            string     `json:"timezone"`
	MaxParticipants     *int       `json:"max_participants"      binding:"omitempty,min=1"`
	MinTeamSize         int        `json:"min_team_size"`
	MaxTeamSize         int        `json:"max_team_size"`
	Tags                []string   `json:"tags"                  binding:"omitempty,max=20,dive,max=40"`
	PrizeSummary        string     `json:"prize_summary"         binding:"omitempty,max=500"`
	AutoAccept          bool       `json:"auto_accept"`
	QuizID              *string    `json:"quiz_id"               binding:"omitempty,uuid"`
}

// UpdateHackathonRequest partial organizer update; nil fields are left unchanged.
type UpdateHackathonRequest struct {
	Version              *int       `json:"version"` // optimistic lock, optional
	Slug                 *string    `json:"slug"                  binding:"omitempty,min=3,max=120"`
	Title                *string    `json:"title"                 binding:"omitempty,max=200"`
	Description          *string    `json:"description"`
	BannerURL            *string    `json:"banner_url"            binding:"omitempty,max=500"`
	Visibility           *string    `json:"visibility"            binding:"omitempty,oneof=public unlisted"`
	ApplicationOpensAt   *time.Time `json:"application_opens_at"`
	ApplicationClosesAt  *time.Time `json:"application_closes_at"`
	SubmissionOpensAt    *time.Time `json:"submission_opens_at"`
	SubmissionClosesAt   *time.Time `json:"submission_closes_at"`
	JudgingOpensAt       *time.Time `json:"judging_opens_at"`
	JudgingClosesAt      *time.Time `json:"judging_closes_at"`
	ClearJudging         bool       `json:"clear_judging"`
	Timezone             *string    `json:"timezone"`
	MaxParticipants      *int       `json:"max_participants"      binding:"omitempty,min=1"`
	ClearMaxParticipants bool       `json:"clear_max_participants"`
	MinTeamSize          *int       `json:"min_team_size"`
	MaxTeamSize          *int       `json:"max_team_size"`
	Tags                 []string   `json:"tags"                  binding:"omitempty,max=20,dive,max=40"`
	PrizeSummary         *string    `json:"prize_summary"         binding:"omitempty,max=500"`
	AutoAccept           *bool      `json:"auto_accept"`
	QuizID               *string    `json:"quiz_id"               binding:"omitempty,uuid"`
}

// ListHackathonsRequest query of GET /hackathons.
type ListHackathonsRequest struct {
	PaginationRequest
	Phase string `form:"phase" binding:"omitempty,oneof=upcoming applications submission judging completed archived"`
	Mine  bool   `form:"mine"`
}

// ── hackathon responses ──

// HackathonResponse hackathon with its derived lifecycle.
type HackathonResponse struct {
	ID                  string          `json:"id"`
	Slug                string          `json:"slug"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	BannerURL           string          `json:"banner_url,omitempty"`
	Visibility          string          `json:"visibility"`
	Phase               string          `json:"phase"`
	Lifecycle           lifecycle.State `json:"lifecycle"`
	ApplicationOpensAt  time.Time       `json:"application_opens_at"`
	ApplicationClosesAt time.Time       `json:"application_closes_at"`
	SubmissionOpensAt   time.Time       `json:"submission_opens_at"`
	SubmissionClosesAt  time.Time       `json:"submission_closes_at"`
	JudgingOpensAt      *time.Time      `json:"judging_opens_at,omitempty"`
	JudgingClosesAt     *time.Time      `json:"judging_closes_at,omitempty"`
	Timezone            string          `json:"timezone"`
	MaxParticipants     *int            `json:"max_participants,omitempty"`
	ApplicationCount    int64           `json:"application_count"`
	MinTeamSize         int             `json:"min_team_size"`
	MaxTeamSize         int             `json:"max_team_size"`
	Tags                []string        `json:"tags"`
	PrizeSummary        string          `json:"prize_summary,omitempty"`
	AutoAccept          bool            `json:"auto_accept"`
	QuizID              *string         `json:"quiz_id,omitempty"`
	OrganizerID         string          `json:"organizer_id"`
	PublishedAt         *time.Time      `json:"published_at,omitempty"`
	ArchivedAt          *time.Time      `json:"archived_at,omitempty"`
	Version             int             `json:"version"`
}

// UserContext viewer-scoped part of the detail read. Nil for anonymous viewers.
type UserContext struct {
	Application        *ApplicationResponse  `json:"application"`
	Team               *TeamResponse         `json:"team"`
	Submission         *SubmissionResponse   `json:"submission"`
	Permissions        lifecycle.Permissions `json:"permissions"`
	PendingInvitations []InvitationResponse  `json:"pending_invitations"`
}

// HackathonDetailResponse GET /hackathons/:id.
type HackathonDetailResponse struct {
	Hackathon       HackathonResponse    `json:"hackathon"`
	Teams           []TeamResponse       `json:"teams"`
	SoloSubmissions []SubmissionResponse `json:"solo_submissions"`
	UserContext     *UserContext         `json:"user_context"`
}
