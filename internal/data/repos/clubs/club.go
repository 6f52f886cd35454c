package clubs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

type ClubRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, clubs []*types.Club) ([]*types.Club, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Club, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Club, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type clubRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClubRepo(db *gorm.DB, baseLog *logger.Logger) ClubRepo {
	repoLog := baseLog.With("repo", "ClubRepo")
	return &clubRepo{db: db, log: repoLog}
}

// Upsert inserts clubs, updating descriptive columns of existing clubs with the same name.
func (cr *clubRepo) Upsert(ctx context.Context, tx *gorm.DB, clubs []*types.Club) ([]*types.Club, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(clubs) == 0 {
		return []*types.Club{}, nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "category", "career_tags", "keywords", "instagram", "website", "active", "updated_at"}),
		}).
		Create(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

func (cr *clubRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Club, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	results := []*types.Club{}
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clubRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Club, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	results := []*types.Club{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clubRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Club{}).
		Where("id = ?", id).
		Update("active", active).Error
}
