package model

import "time"

// Team maps to teams.
type Team struct {
	TeamID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	HackathonID string     `gorm:"type:uuid;not null"                             json:"hackathon_id"`
	Name        string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Slug        string     `gorm:"type:varchar(120);not null"                     json:"slug"`
	InviteCode  string     `gorm:"type:varchar(32);not null"                      json:"-"`
	LeaderID    string     `gorm:"type:uuid;not null"                             json:"leader_id"`
	LockedAt    *time.Time `json:"locked_at,omitempty"` // membership frozen once set
	BaseModel

	Members []TeamMember `gorm:"foreignKey:TeamID;references:TeamID" json:"members,omitempty"`
}

// TableName table name.
func (Team) TableName() string { return "teams" }

// IsLocked reports whether membership is frozen.
func (t *Team) IsLocked() bool {
	return t.LockedAt != nil
}

// ActiveMembers returns the loaded members whose status is active.
func (t *Team) ActiveMembers() []TeamMember {
	active := make([]TeamMember, 0, len(t.Members))
	for _, m := range t.Members {
		if m.Status == MemberActive {
			active = append(active, m)
		}
	}
	return active
}

// TeamMember maps to team_members. HackathonID is denormalized so the
// one-active-membership-per-hackathon index can be enforced by the database.
type TeamMember struct {
	MemberID    string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	TeamID      string       `gorm:"type:uuid;not null"                             json:"team_id"`
	HackathonID string       `gorm:"type:uuid;not null"                             json:"hackathon_id"`
	UserID      string       `gorm:"type:uuid;not null"                             json:"user_id"`
	Role        MemberRole   `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	Status      MemberStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	InvitedBy   *string      `gorm:"type:uuid"                                      json:"invited_by,omitempty"`
	JoinedAt    *time.Time   `json:"joined_at,omitempty"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName table name.
func (TeamMember) TableName() string { return "team_members" }

// TeamSize is an aggregate of a team's active member count.
type TeamSize struct {
	TeamID string
	Active int
	Locked bool
}
