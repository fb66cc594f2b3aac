package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// SubmissionRepository project submissions. At most one non-withdrawn row
// exists per (hackathon, team) and per (hackathon, solo user).
type SubmissionRepository interface {
	// Create inserts sub. A solo entry locks the user's application row and
	// fails with ErrConflictingEntry while the user is an active team member.
	// ErrDuplicate.
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetActiveForTeam(ctx context.Context, hackathonID, teamID string) (*model.Submission, error)
	GetActiveForUser(ctx context.Context, hackathonID, userID string) (*model.Submission, error)
	ListByHackathon(ctx context.Context, hackathonID string) ([]model.Submission, error)
	// Update writes repository fields and status where the stored status
	// still equals from. ErrStaleState otherwise.
	Update(ctx context.Context, sub *model.Submission, from model.SubmissionStatus) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo creates a SubmissionRepository.
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if sub.UserID == nil {
		return translate(r.db.WithContext(ctx).Create(sub).Error)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockApplication(tx, sub.HackathonID, *sub.UserID); err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&model.TeamMember{}).
			Where("hackathon_id = ? AND user_id = ? AND status = ?", sub.HackathonID, *sub.UserID, model.MemberActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return pkgerrors.ErrConflictingEntry
		}
		return translate(tx.Create(sub).Error)
	})
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) GetActiveForTeam(ctx context.Context, hackathonID, teamID string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND team_id = ? AND status <> ?", hackathonID, teamID, model.SubmissionWithdrawn).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) GetActiveForUser(ctx context.Context, hackathonID, userID string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND user_id = ? AND status <> ?", hackathonID, userID, model.SubmissionWithdrawn).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListByHackathon(ctx context.Context, hackathonID string) ([]model.Submission, error) {
	var list []model.Submission
	err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND status <> ?", hackathonID, model.SubmissionWithdrawn).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *submissionRepo) Update(ctx context.Context, sub *model.Submission, from model.SubmissionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND status = ?", sub.SubmissionID, from).
		Updates(map[string]interface{}{
			"status":       sub.Status,
			"repo_url":     sub.RepoURL,
			"branch":       sub.Branch,
			"commit_sha":   sub.CommitSHA,
			"submitted_at": sub.SubmittedAt,
			"submitted_by": sub.SubmittedBy,
			"attempt_id":   sub.AttemptID,
			"updated_by":   sub.UpdatedBy,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}
