package domain

import (
	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/clubs"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/domain/user"
)

type User = user.User
type Club = clubs.Club
type QuizResult = careers.QuizResult

type QuizLevel = quiz.Level
type QuizQuestion = quiz.Question
type QuizAnswer = quiz.Answer

// Models lists every persisted record, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Club{},
		&QuizResult{},
	}
}
