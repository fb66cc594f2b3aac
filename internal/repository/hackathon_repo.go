package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// HackathonFilter narrows List. Zero values mean "any".
type HackathonFilter struct {
	PublishedOnly bool
	PublicOnly    bool
	OrganizerID   string
	Phase         model.Phase
}

// HackathonRepository hackathon rows and their cached phase column.
type HackathonRepository interface {
	Create(ctx context.Context, h *model.Hackathon) error
	GetByID(ctx context.Context, id string) (*model.Hackathon, error)
	GetBySlug(ctx context.Context, slug string) (*model.Hackathon, error)
	// GetByIDForUpdate row-locks the hackathon; only meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Hackathon, error)
	List(ctx context.Context, filter HackathonFilter, offset, limit int) ([]model.Hackathon, int64, error)
	// ListForSweep returns published hackathons whose cached phase may still move.
	ListForSweep(ctx context.Context) ([]model.Hackathon, error)
	// Update writes organizer-editable fields guarded by the version column.
	Update(ctx context.Context, h *model.Hackathon) error
	// CompareAndSetPhase writes phase=to only where phase=from.
	CompareAndSetPhase(ctx context.Context, id string, from, to model.Phase) (bool, error)
}

type hackathonRepo struct {
	db *gorm.DB
}

// NewHackathonRepo creates a HackathonRepository.
func NewHackathonRepo(db *gorm.DB) HackathonRepository {
	return &hackathonRepo{db: db}
}

func (r *hackathonRepo) Create(ctx context.Context, h *model.Hackathon) error {
	return translate(r.db.WithContext(ctx).Create(h).Error)
}

func (r *hackathonRepo) GetByID(ctx context.Context, id string) (*model.Hackathon, error) {
	var h model.Hackathon
	err := r.db.WithContext(ctx).
		Where("hackathon_id = ?", id).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hackathonRepo) GetBySlug(ctx context.Context, slug string) (*model.Hackathon, error) {
	var h model.Hackathon
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hackathonRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Hackathon, error) {
	var h model.Hackathon
	err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("hackathon_id = ?", id).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hackathonRepo) List(ctx context.Context, filter HackathonFilter, offset, limit int) ([]model.Hackathon, int64, error) {
	var (
		list  []model.Hackathon
		total int64
	)

	db := r.db.WithContext(ctx).Model(&model.Hackathon{})
	if filter.PublishedOnly {
		db = db.Where("published_at IS NOT NULL")
	}
	if filter.PublicOnly {
		db = db.Where("visibility = ?", model.VisibilityPublic)
	}
	if filter.OrganizerID != "" {
		db = db.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.Phase != "" {
		db = db.Where("phase = ?", filter.Phase)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("application_opens_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *hackathonRepo) ListForSweep(ctx context.Context) ([]model.Hackathon, error) {
	var list []model.Hackathon
	err := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL").
		Where("phase NOT IN ?", []model.Phase{model.PhaseCompleted, model.PhaseArchived}).
		Find(&list).Error
	return list, err
}

func (r *hackathonRepo) Update(ctx context.Context, h *model.Hackathon) error {
	oldVersion := h.Version
	result := r.db.WithContext(ctx).
		Model(&model.Hackathon{}).
		Where("hackathon_id = ? AND version = ?", h.HackathonID, oldVersion).
		Updates(map[string]interface{}{
			"slug":                  h.Slug,
			"title":                 h.Title,
			"description":           h.Description,
			"banner_url":            h.BannerURL,
			"visibility":            h.Visibility,
			"application_opens_at":  h.ApplicationOpensAt,
			"application_closes_at": h.ApplicationClosesAt,
			"submission_opens_at":   h.SubmissionOpensAt,
			"submission_closes_at":  h.SubmissionClosesAt,
			"judging_opens_at":      h.JudgingOpensAt,
			"judging_closes_at":     h.JudgingClosesAt,
			"timezone":              h.Timezone,
			"max_participants":      h.MaxParticipants,
			"min_team_size":         h.MinTeamSize,
			"max_team_size":         h.MaxTeamSize,
			"tags":                  h.Tags,
			"prize_summary":         h.PrizeSummary,
			"auto_accept":           h.AutoAccept,
			"quiz_id":               h.QuizID,
			"published_at":          h.PublishedAt,
			"archived_at":           h.ArchivedAt,
			"updated_by":            h.UpdatedBy,
			"updated_at":            gorm.Expr("NOW()"),
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	h.Version = oldVersion + 1
	return nil
}

func (r *hackathonRepo) CompareAndSetPhase(ctx context.Context, id string, from, to model.Phase) (bool, error) {
	if from == to {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Hackathon{}).
		Where("hackathon_id = ? AND phase = ?", id, from).
		Update("phase", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
