package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// ApplicationRepository one application per (hackathon, user).
type ApplicationRepository interface {
	// CreateWithinCapacity inserts app while holding the hackathon row lock.
	// Returns ErrDuplicate when the user already applied and ErrCapacityReached
	// when the non-withdrawn count has reached max_participants.
	CreateWithinCapacity(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByHackathonAndUser(ctx context.Context, hackathonID, userID string) (*model.Application, error)
	CountActive(ctx context.Context, hackathonID string) (int64, error)
	ListByHackathon(ctx context.Context, hackathonID string, status model.ApplicationStatus, offset, limit int) ([]model.Application, int64, error)
	// TransitionStatus moves an application from one status to another.
	// Returns ErrStaleState when the row is no longer in from.
	TransitionStatus(ctx context.Context, id string, from, to model.ApplicationStatus, reviewerID *string, at time.Time) error
	SetTeam(ctx context.Context, hackathonID, userID string, teamID *string) error
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo creates an ApplicationRepository.
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) CreateWithinCapacity(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h model.Hackathon
		if err := tx.Clauses(forUpdate).
			Select("hackathon_id", "max_participants").
			Where("hackathon_id = ?", app.HackathonID).
			First(&h).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&model.Application{}).
			Where("hackathon_id = ? AND user_id = ?", app.HackathonID, app.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return pkgerrors.ErrDuplicate
		}

		if h.MaxParticipants != nil {
			var count int64
			if err := tx.Model(&model.Application{}).
				Where("hackathon_id = ? AND status <> ?", app.HackathonID, model.ApplicationWithdrawn).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*h.MaxParticipants) {
				return pkgerrors.ErrCapacityReached
			}
		}

		return translate(tx.Create(app).Error)
	})
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByHackathonAndUser(ctx context.Context, hackathonID, userID string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) CountActive(ctx context.Context, hackathonID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("hackathon_id = ? AND status <> ?", hackathonID, model.ApplicationWithdrawn).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) ListByHackathon(ctx context.Context, hackathonID string, status model.ApplicationStatus, offset, limit int) ([]model.Application, int64, error) {
	var (
		list  []model.Application
		total int64
	)

	db := r.db.WithContext(ctx).Model(&model.Application{}).Where("hackathon_id = ?", hackathonID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("User").Order("applied_at ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *applicationRepo) TransitionStatus(ctx context.Context, id string, from, to model.ApplicationStatus, reviewerID *string, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if reviewerID != nil {
		updates["reviewed_by"] = *reviewerID
		updates["reviewed_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("application_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}

func (r *applicationRepo) SetTeam(ctx context.Context, hackathonID, userID string, teamID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Update("team_id", teamID).Error
}

// lockApplication takes the row lock on a user's application, if any. Solo
// submission inserts and membership activations serialize on it.
func lockApplication(tx *gorm.DB, hackathonID, userID string) error {
	var apps []model.Application
	return tx.Clauses(forUpdate).
		Select("application_id").
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Limit(1).
		Find(&apps).Error
}
