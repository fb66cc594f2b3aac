package model

import "time"

// Application maps to applications; one row per (hackathon, user).
type Application struct {
	ApplicationID string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	HackathonID   string            `gorm:"type:uuid;not null"                             json:"hackathon_id"`
	UserID        string            `gorm:"type:uuid;not null"                             json:"user_id"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	TeamID        *string           `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	Motivation    string            `gorm:"type:text;not null;default:''"                 json:"motivation"`
	AppliedAt     time.Time         `gorm:"not null"                                       json:"applied_at"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy    *string           `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName table name.
func (Application) TableName() string { return "applications" }
