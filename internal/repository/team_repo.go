package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// TeamRepository teams and the (team, user) membership state machine.
//
// Every write that grows or freezes a roster first share-locks the hackathon
// row and reads min_team_size/max_team_size from it, then takes the team row
// lock. Organizer updates hold the hackathon row exclusively, so the limits a
// roster write checks against cannot change before it commits. Activating a
// membership also locks the user's application row, which solo submission
// inserts lock too, so a user never holds a live solo entry and an active
// membership at once.
type TeamRepository interface {
	// CreateWithLeader inserts team and its active leader membership.
	// ErrDuplicate, ErrConflictingEntry.
	CreateWithLeader(ctx context.Context, team *model.Team, leader *model.TeamMember) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*model.Team, error)
	ListByHackathon(ctx context.Context, hackathonID string) ([]model.Team, error)

	GetMember(ctx context.Context, memberID string) (*model.TeamMember, error)
	FindMember(ctx context.Context, teamID, userID string, status model.MemberStatus) (*model.TeamMember, error)
	GetActiveMembership(ctx context.Context, hackathonID, userID string) (*model.TeamMember, error)
	ListMembershipsForUser(ctx context.Context, hackathonID, userID string) ([]model.TeamMember, error)

	// CreateInvitation inserts an invited membership. ErrLocked, ErrDuplicate.
	CreateInvitation(ctx context.Context, m *model.TeamMember) error
	// AcceptInvitation activates an invited membership. ErrLocked,
	// ErrStaleState, ErrCapacityReached, ErrDuplicate, ErrConflictingEntry.
	AcceptInvitation(ctx context.Context, memberID string, at time.Time) error
	// JoinActive adds m as an active member, reusing a pending invitation of
	// the same user if one exists. ErrLocked, ErrCapacityReached,
	// ErrDuplicate, ErrConflictingEntry.
	JoinActive(ctx context.Context, m *model.TeamMember) error
	// TransitionMember applies from → to on one membership. ErrLocked, ErrStaleState.
	TransitionMember(ctx context.Context, memberID string, from, to model.MemberStatus, at time.Time) error
	// Lock freezes the roster after checking the active count against the
	// hackathon's team size limits; outstanding invitations are declined.
	// ErrLocked, ErrOutOfBounds.
	Lock(ctx context.Context, teamID string, at time.Time) error

	CountActiveMembers(ctx context.Context, teamID string) (int64, error)
	// TeamSizes returns the active count and lock state of every team of a hackathon.
	TeamSizes(ctx context.Context, hackathonID string) ([]model.TeamSize, error)
}

type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo creates a TeamRepository.
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) CreateWithLeader(ctx context.Context, team *model.Team, leader *model.TeamMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := teamBounds(tx, team.HackathonID); err != nil {
			return err
		}
		if err := claimApplicant(tx, team.HackathonID, leader.UserID); err != nil {
			return err
		}
		if err := tx.Create(team).Error; err != nil {
			return translate(err)
		}
		leader.TeamID = team.TeamID
		leader.HackathonID = team.HackathonID
		return translate(tx.Create(leader).Error)
	})
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Where("team_id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) GetByInviteCode(ctx context.Context, code string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("invite_code = ?", code).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) ListByHackathon(ctx context.Context, hackathonID string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Preload("Members", "status = ?", model.MemberActive).
		Preload("Members.User").
		Where("hackathon_id = ?", hackathonID).
		Order("created_at ASC").
		Find(&teams).Error
	return teams, err
}

func (r *teamRepo) GetMember(ctx context.Context, memberID string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("member_id = ?", memberID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *teamRepo) FindMember(ctx context.Context, teamID, userID string, status model.MemberStatus) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, status).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *teamRepo) GetActiveMembership(ctx context.Context, hackathonID, userID string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("hackathon_id = ? AND user_id = ? AND status = ?", hackathonID, userID, model.MemberActive).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *teamRepo) ListMembershipsForUser(ctx context.Context, hackathonID, userID string) ([]model.TeamMember, error) {
	var list []model.TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// lockTeam takes the team row lock inside tx and rejects frozen teams.
func lockTeam(tx *gorm.DB, teamID string) (*model.Team, error) {
	var team model.Team
	if err := tx.Clauses(forUpdate).
		Where("team_id = ?", teamID).
		First(&team).Error; err != nil {
		return nil, err
	}
	if team.IsLocked() {
		return &team, pkgerrors.ErrLocked
	}
	return &team, nil
}

// sizeLimits team size limits of a hackathon.
type sizeLimits struct {
	Min int
	Max int
}

// teamBounds reads the hackathon's team size limits under forShare.
func teamBounds(tx *gorm.DB, hackathonID string) (sizeLimits, error) {
	var h model.Hackathon
	if err := tx.Clauses(forShare).
		Select("hackathon_id", "min_team_size", "max_team_size").
		Where("hackathon_id = ?", hackathonID).
		First(&h).Error; err != nil {
		return sizeLimits{}, err
	}
	return sizeLimits{Min: h.MinTeamSize, Max: h.MaxTeamSize}, nil
}

// claimApplicant locks the user's application row and rejects a user who
// still holds a live solo submission.
func claimApplicant(tx *gorm.DB, hackathonID, userID string) error {
	if err := lockApplication(tx, hackathonID, userID); err != nil {
		return err
	}

	var solo int64
	if err := tx.Model(&model.Submission{}).
		Where("hackathon_id = ? AND user_id = ? AND status <> ?", hackathonID, userID, model.SubmissionWithdrawn).
		Count(&solo).Error; err != nil {
		return err
	}
	if solo > 0 {
		return pkgerrors.ErrConflictingEntry
	}
	return nil
}

// promoteLeader hands an empty team to userID.
func promoteLeader(tx *gorm.DB, teamID, userID string) error {
	return tx.Model(&model.Team{}).
		Where("team_id = ?", teamID).
		Update("leader_id", userID).Error
}

func countActive(tx *gorm.DB, teamID string) (int64, error) {
	var n int64
	err := tx.Model(&model.TeamMember{}).
		Where("team_id = ? AND status = ?", teamID, model.MemberActive).
		Count(&n).Error
	return n, err
}

func (r *teamRepo) CreateInvitation(ctx context.Context, m *model.TeamMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockTeam(tx, m.TeamID); err != nil {
			return err
		}
		return translate(tx.Create(m).Error)
	})
}

func (r *teamRepo) AcceptInvitation(ctx context.Context, memberID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TeamMember
		if err := tx.Where("member_id = ?", memberID).First(&m).Error; err != nil {
			return err
		}
		limits, err := teamBounds(tx, m.HackathonID)
		if err != nil {
			return err
		}
		if _, err := lockTeam(tx, m.TeamID); err != nil {
			return err
		}
		if err := claimApplicant(tx, m.HackathonID, m.UserID); err != nil {
			return err
		}

		n, err := countActive(tx, m.TeamID)
		if err != nil {
			return err
		}
		if n >= int64(limits.Max) {
			return pkgerrors.ErrCapacityReached
		}

		updates := map[string]interface{}{
			"status":       model.MemberActive,
			"joined_at":    at,
			"responded_at": at,
			"updated_at":   at,
		}
		if n == 0 {
			updates["role"] = model.MemberRoleLeader
		}
		result := tx.Model(&model.TeamMember{}).
			Where("member_id = ? AND status = ?", memberID, model.MemberInvited).
			Updates(updates)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrStaleState
		}
		if n == 0 {
			return promoteLeader(tx, m.TeamID, m.UserID)
		}
		return nil
	})
}

func (r *teamRepo) JoinActive(ctx context.Context, m *model.TeamMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		limits, err := teamBounds(tx, m.HackathonID)
		if err != nil {
			return err
		}
		if _, err := lockTeam(tx, m.TeamID); err != nil {
			return err
		}
		if err := claimApplicant(tx, m.HackathonID, m.UserID); err != nil {
			return err
		}

		n, err := countActive(tx, m.TeamID)
		if err != nil {
			return err
		}
		if n >= int64(limits.Max) {
			return pkgerrors.ErrCapacityReached
		}
		if n == 0 {
			m.Role = model.MemberRoleLeader
		}

		var pending model.TeamMember
		err = tx.Where("team_id = ? AND user_id = ? AND status = ?", m.TeamID, m.UserID, model.MemberInvited).
			First(&pending).Error
		switch {
		case err == nil:
			if err := tx.Model(&pending).Updates(map[string]interface{}{
				"status":       model.MemberActive,
				"role":         m.Role,
				"joined_at":    m.JoinedAt,
				"responded_at": m.JoinedAt,
			}).Error; err != nil {
				return translate(err)
			}
			pending.Status = model.MemberActive
			pending.Role = m.Role
			pending.JoinedAt = m.JoinedAt
			pending.RespondedAt = m.JoinedAt
			*m = pending
		case IsNotFound(err):
			if err := tx.Create(m).Error; err != nil {
				return translate(err)
			}
		default:
			return err
		}

		if n == 0 {
			return promoteLeader(tx, m.TeamID, m.UserID)
		}
		return nil
	})
}

func (r *teamRepo) TransitionMember(ctx context.Context, memberID string, from, to model.MemberStatus, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TeamMember
		if err := tx.Where("member_id = ?", memberID).First(&m).Error; err != nil {
			return err
		}
		if _, err := lockTeam(tx, m.TeamID); err != nil {
			return err
		}

		result := tx.Model(&model.TeamMember{}).
			Where("member_id = ? AND status = ?", memberID, from).
			Updates(map[string]interface{}{
				"status":       to,
				"responded_at": at,
				"updated_at":   at,
			})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrStaleState
		}
		return nil
	})
}

func (r *teamRepo) Lock(ctx context.Context, teamID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.Select("team_id", "hackathon_id").
			Where("team_id = ?", teamID).
			First(&team).Error; err != nil {
			return err
		}
		limits, err := teamBounds(tx, team.HackathonID)
		if err != nil {
			return err
		}
		if _, err := lockTeam(tx, teamID); err != nil {
			return err
		}

		n, err := countActive(tx, teamID)
		if err != nil {
			return err
		}
		if n < int64(limits.Min) || n > int64(limits.Max) {
			return pkgerrors.ErrOutOfBounds
		}

		if err := tx.Model(&model.TeamMember{}).
			Where("team_id = ? AND status = ?", teamID, model.MemberInvited).
			Updates(map[string]interface{}{
				"status":       model.MemberDeclined,
				"responded_at": at,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.Team{}).
			Where("team_id = ?", teamID).
			Updates(map[string]interface{}{
				"locked_at":  at,
				"updated_at": at,
			}).Error
	})
}

func (r *teamRepo) CountActiveMembers(ctx context.Context, teamID string) (int64, error) {
	return countActive(r.db.WithContext(ctx), teamID)
}

// TeamSizes is read by organizer updates while they hold the hackathon row,
// which every roster write share-locks before touching a team.
func (r *teamRepo) TeamSizes(ctx context.Context, hackathonID string) ([]model.TeamSize, error) {
	var sizes []model.TeamSize
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.team_id,
		       COUNT(m.member_id) FILTER (WHERE m.status = ?) AS active,
		       t.locked_at IS NOT NULL AS locked
		FROM teams t
		LEFT JOIN team_members m ON m.team_id = t.team_id
		WHERE t.hackathon_id = ?
		GROUP BY t.team_id, t.locked_at`,
		model.MemberActive, hackathonID,
	).Scan(&sizes).Error
	return sizes, err
}
