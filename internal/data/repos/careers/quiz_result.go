package careers

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/cownect/cownect-backend/internal/domain"
	domaincareers "github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

var (
	ErrNotFound    = errors.New("quiz result not found")
	ErrNotOwner    = errors.New("quiz result belongs to another user")
	ErrUnknownClub = errors.New("club was not recommended in this result")
	ErrUnknownStep = errors.New("step is not part of this learning path")
	ErrConflict    = errors.New("quiz result changed concurrently")
)

const maxEngagementAttempts = 3

type QuizResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.QuizResult) error
	GetForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.QuizResult, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QuizResult, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)

	AddBookmark(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, clubRef string) (*types.QuizResult, error)
	RemoveBookmark(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, clubRef string) (*types.QuizResult, error)
	CompleteStep(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, stepID string) (*types.QuizResult, error)
	SetFeedback(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, fb domaincareers.Feedback) (*types.QuizResult, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	repoLog := baseLog.With("repo", "QuizResultRepo")
	return &quizResultRepo{db: db, log: repoLog}
}

func (r *quizResultRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *quizResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.QuizResult) error {
	if result == nil {
		return errors.New("quiz result is nil")
	}
	return r.conn(tx).WithContext(ctx).Create(result).Error
}

func (r *quizResultRepo) GetForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.QuizResult, error) {
	var result types.QuizResult
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrNotOwner
	}
	return &result, nil
}

func (r *quizResultRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QuizResult, error) {
	results := []*types.QuizResult{}
	q := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizResultRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.QuizResult{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *quizResultRepo) AddBookmark(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, clubRef string) (*types.QuizResult, error) {
	return r.mutate(ctx, tx, id, userID, func(res *types.QuizResult) (map[string]any, error) {
		if !slices.Contains(res.ClubRefs(), clubRef) {
			return nil, ErrUnknownClub
		}
		if slices.Contains(res.BookmarkedClubs, clubRef) {
			return nil, nil
		}
		next := append(slices.Clone([]string(res.BookmarkedClubs)), clubRef)
		return map[string]any{"bookmarked_clubs": datatypes.JSONSlice[string](next)}, nil
	})
}

func (r *quizResultRepo) RemoveBookmark(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, clubRef string) (*types.QuizResult, error) {
	return r.mutate(ctx, tx, id, userID, func(res *types.QuizResult) (map[string]any, error) {
		if !slices.Contains(res.BookmarkedClubs, clubRef) {
			return nil, nil
		}
		next := slices.DeleteFunc(slices.Clone([]string(res.BookmarkedClubs)), func(s string) bool { return s == clubRef })
		return map[string]any{"bookmarked_clubs": datatypes.JSONSlice[string](next)}, nil
	})
}

func (r *quizResultRepo) CompleteStep(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, stepID string) (*types.QuizResult, error) {
	return r.mutate(ctx, tx, id, userID, func(res *types.QuizResult) (map[string]any, error) {
		if !slices.Contains(res.TopMatch.Data().LearningPath.StepIDs(), stepID) {
			return nil, ErrUnknownStep
		}
		if slices.Contains(res.CompletedSteps, stepID) {
			return nil, nil
		}
		next := append(slices.Clone([]string(res.CompletedSteps)), stepID)
		return map[string]any{"completed_steps": datatypes.JSONSlice[string](next)}, nil
	})
}

func (r *quizResultRepo) SetFeedback(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, fb domaincareers.Feedback) (*types.QuizResult, error) {
	return r.mutate(ctx, tx, id, userID, func(res *types.QuizResult) (map[string]any, error) {
		v := datatypes.NewJSONType(fb)
		return map[string]any{"feedback": &v}, nil
	})
}

// mutate applies an engagement change with optimistic concurrency on revision. A nil
// update means the result already has the requested state.
func (r *quizResultRepo) mutate(
	ctx context.Context,
	tx *gorm.DB,
	id, userID uuid.UUID,
	change func(*types.QuizResult) (map[string]any, error),
) (*types.QuizResult, error) {
	for attempt := 0; attempt < maxEngagementAttempts; attempt++ {
		res, err := r.GetForUser(ctx, tx, id, userID)
		if err != nil {
			return nil, err
		}
		updates, err := change(res)
		if err != nil {
			return nil, err
		}
		if updates == nil {
			return res, nil
		}
		updates["revision"] = res.Revision + 1
		out := r.conn(tx).WithContext(ctx).
			Model(&types.QuizResult{}).
			Where("id = ? AND user_id = ? AND revision = ?", id, userID, res.Revision).
			Updates(updates)
		if out.Error != nil {
			return nil, out.Error
		}
		if out.RowsAffected == 1 {
			return r.GetForUser(ctx, tx, id, userID)
		}
		r.log.Debug("engagement update lost a race, retrying", "result_id", id, "attempt", attempt+1)
	}
	return nil, ErrConflict
}
