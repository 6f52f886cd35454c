package repos

import (
	"gorm.io/gorm"

	"github.com/cownect/cownect-backend/internal/data/repos/careers"
	"github.com/cownect/cownect-backend/internal/data/repos/clubs"
	"github.com/cownect/cownect-backend/internal/data/repos/user"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type ClubRepo = clubs.ClubRepo
type QuizResultRepo = careers.QuizResultRepo

var (
	ErrResultNotFound = careers.ErrNotFound
	ErrNotOwner       = careers.ErrNotOwner
	ErrUnknownClub    = careers.ErrUnknownClub
	ErrUnknownStep    = careers.ErrUnknownStep
	ErrConflict       = careers.ErrConflict
)

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewClubRepo(db *gorm.DB, baseLog *logger.Logger) ClubRepo { return clubs.NewClubRepo(db, baseLog) }
func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return careers.NewQuizResultRepo(db, baseLog)
}

// Repos bundles every repository over one database handle.
type Repos struct {
	Users   UserRepo
	Clubs   ClubRepo
	Results QuizResultRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) Repos {
	return Repos{
		Users:   NewUserRepo(db, baseLog),
		Clubs:   NewClubRepo(db, baseLog),
		Results: NewQuizResultRepo(db, baseLog),
	}
}
