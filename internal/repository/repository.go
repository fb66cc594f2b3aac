package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/errors"
)

// Repository aggregates every store of the participation ledger.
type Repository struct {
	db *gorm.DB

	User        UserRepository
	Hackathon   HackathonRepository
	Application ApplicationRepository
	Team        TeamRepository
	Submission  SubmissionRepository
}

// NewRepository creates the aggregate on top of db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Hackathon:   NewHackathonRepo(db),
		Application: NewApplicationRepo(db),
		Team:        NewTeamRepo(db),
		Submission:  NewSubmissionRepo(db),
	}
}

// BeginTx starts a transaction. A Repository assembled without a db
// (service tests) returns a nil tx and no error.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository whose stores run inside tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// ── helpers ──

// forUpdate is the row lock used by every capped write.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// forShare pins a hackathon's limits while a roster write checks against
// them; organizer updates take forUpdate on the same row.
var forShare = clause.Locking{Strength: "SHARE"}

// translate maps driver-level errors onto the shared sentinels.
// Requires gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.ErrDuplicate
	default:
		return err
	}
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
