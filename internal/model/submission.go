package model

import "time"

// Submission maps to submissions. Exactly one of TeamID and UserID is set.
type Submission struct {
	SubmissionID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	HackathonID  string           `gorm:"type:uuid;not null"                             json:"hackathon_id"`
	TeamID       *string          `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	UserID       *string          `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Status       SubmissionStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	RepoURL      string           `gorm:"type:varchar(500);not null;default:''"         json:"repo_url"`
	Branch       string           `gorm:"type:varchar(200);not null;default:''"         json:"branch"`
	CommitSHA    string           `gorm:"type:varchar(64);not null;default:''"          json:"commit_sha"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
	SubmittedBy  *string          `gorm:"type:uuid"                                      json:"submitted_by,omitempty"`
	AttemptID    *string          `gorm:"type:uuid"                                      json:"attempt_id,omitempty"` // scored attempt, external
	BaseModel
}

// TableName table name.
func (Submission) TableName() string { return "submissions" }

// IsSolo reports whether the submission belongs to a single user.
func (s *Submission) IsSolo() bool {
	return s.TeamID == nil
}

// IsOwnedByTeam reports whether the submission belongs to teamID.
func (s *Submission) IsOwnedByTeam(teamID string) bool {
	return s.TeamID != nil && teamID != "" && *s.TeamID == teamID
}

// IsOwnedByUser reports whether the submission is userID's solo entry.
func (s *Submission) IsOwnedByUser(userID string) bool {
	return s.UserID != nil && userID != "" && *s.UserID == userID
}
