package questions

import (
	"fmt"
	"strings"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
)

// ValidationError lists every problem found in a submission so the caller can fix
// them in one round trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid submission"
	}
	return "invalid submission: " + strings.Join(e.Problems, "; ")
}

// maxProblems bounds the detail returned for badly malformed submissions.
const maxProblems = 20

// ValidateAnswers checks a submission against the set: the answer count must equal the
// question count, each answer must reference the question at its position, and each
// payload must match that question's type.
func (s *Set) ValidateAnswers(answers []quiz.Answer) error {
	if s.Len() == 0 {
		return ErrQuestionSetMissing
	}
	if len(answers) != len(s.Questions) {
		return &ValidationError{Problems: []string{
			fmt.Sprintf("expected %d answers for level %s, got %d", len(s.Questions), s.Level, len(answers)),
		}}
	}

	var problems []string
	add := func(format string, args ...any) {
		if len(problems) < maxProblems {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}
	for i, a := range answers {
		q := s.Questions[i]
		switch {
		case a.QuestionID == "":
			add("answer %d: questionId is required", i+1)
			continue
		case a.QuestionID != q.ID:
			if _, ok := s.byID[a.QuestionID]; ok {
				add("answer %d: question %s is out of order (expected %s)", i+1, a.QuestionID, q.ID)
			} else {
				add("answer %d: unknown question %s", i+1, a.QuestionID)
			}
			continue
		}
		if !a.Fits(q) {
			add("answer %d (%s): payload does not match question type %s", i+1, q.ID, q.Type)
			continue
		}
		if p, ok := a.Payload.(quiz.ScaleAnswer); ok && q.Scale != nil {
			if p.Value < float64(q.Scale.Min) || p.Value > float64(q.Scale.Max) {
				add("answer %d (%s): value %g outside %d-%d", i+1, q.ID, p.Value, q.Scale.Min, q.Scale.Max)
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
