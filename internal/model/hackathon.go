package model

import (
	"time"

	"gorm.io/datatypes"
)

// Hackathon maps to hackathons. Phase is a cached projection of the schedule;
// only archived_at and published_at are set directly.
type Hackathon struct {
	HackathonID         string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"hackathon_id"`
	Slug                string                      `gorm:"type:varchar(120);not null"                     json:"slug"`
	Title               string                      `gorm:"type:varchar(200);not null"                     json:"title"`
	Description         string                      `gorm:"type:text;not null;default:''"                 json:"description"`
	BannerURL           string                      `gorm:"type:varchar(500);not null;default:''"         json:"banner_url"`
	Visibility          Visibility                  `gorm:"type:varchar(20);not null;default:'public'"     json:"visibility"`
	Phase               Phase                       `gorm:"type:varchar(20);not null;default:'draft'"      json:"phase"`
	ApplicationOpensAt  time.Time                   `gorm:"not null"                                       json:"application_opens_at"`
	ApplicationClosesAt time.Time                   `gorm:"not null"                                       json:"application_closes_at"`
	SubmissionOpensAt   time.Time                   `gorm:"not null"                                       json:"submission_opens_at"`
	SubmissionClosesAt  time.Time                   `gorm:"not null"                                       json:"submission_closes_at"`
	JudgingOpensAt      *time.Time                  `json:"judging_opens_at,omitempty"`
	JudgingClosesAt     *time.Time                  `json:"judging_closes_at,omitempty"`
	Timezone            string                      `gorm:"type:varchar(64);not null;default:'UTC'"        json:"timezone"` // display only
	MaxParticipants     *int                        `json:"max_participants,omitempty"`
	MinTeamSize         int                         `gorm:"not null;default:1"                             json:"min_team_size"`
	MaxTeamSize         int                         `gorm:"not null;default:1"                             json:"max_team_size"`
	Tags                datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"              json:"tags"`
	PrizeSummary        string                      `gorm:"type:varchar(500);not null;default:''"         json:"prize_summary"`
	AutoAccept          bool                        `gorm:"not null;default:false"                         json:"auto_accept"`
	QuizID              *string                     `gorm:"type:uuid"                                      json:"quiz_id,omitempty"`
	OrganizerID         string                      `gorm:"type:uuid;not null"                             json:"organizer_id"`
	PublishedAt         *time.Time                  `json:"published_at,omitempty"`
	ArchivedAt          *time.Time                  `json:"archived_at,omitempty"`
	VersionedModel
}

// TableName table name.
func (Hackathon) TableName() string { return "hackathons" }

// HasJudging reports whether both judging instants are configured.
func (h *Hackathon) HasJudging() bool {
	return h.JudgingOpensAt != nil && h.JudgingClosesAt != nil
}

// IsPublished reports whether the organizer has released the hackathon.
func (h *Hackathon) IsPublished() bool {
	return h.PublishedAt != nil
}

// IsSoloTrack reports whether a participant may submit without a team.
func (h *Hackathon) IsSoloTrack() bool {
	return h.MinTeamSize <= 1
}

// IsOrganizedBy reports whether userID owns the hackathon.
func (h *Hackathon) IsOrganizedBy(userID string) bool {
	return userID != "" && h.OrganizerID == userID
}
