package questions

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
)

const questionsDirEnv = "QUIZ_QUESTIONS_DIR"

//go:embed sets/*.yaml
var setsFS embed.FS

var (
	ErrUnknownLevel       = errors.New("unknown quiz level")
	ErrQuestionSetMissing = errors.New("question set missing for level")
)

// Set is the ordered question list for one level. Answers are matched to it by position.
type Set struct {
	Level     quiz.Level      `yaml:"level" json:"level"`
	Version   int             `yaml:"version" json:"version"`
	Questions []quiz.Question `yaml:"questions" json:"questions"`

	byID map[string]int
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Questions)
}

func (s *Set) Question(id string) (quiz.Question, bool) {
	if s == nil {
		return quiz.Question{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return quiz.Question{}, false
	}
	return s.Questions[i], true
}

// Bank holds every loaded question set keyed by level.
type Bank struct {
	sets map[quiz.Level]*Set
}

func NewBank(sets ...*Set) *Bank {
	b := &Bank{sets: make(map[quiz.Level]*Set, len(sets))}
	for _, s := range sets {
		if s != nil {
			b.sets[s.Level] = s
		}
	}
	return b
}

// LoadBank reads one YAML file per level from QUIZ_QUESTIONS_DIR when set, else the
// embedded sets. Every level must be present.
func LoadBank() (*Bank, error) {
	dir := strings.TrimSpace(os.Getenv(questionsDirEnv))
	sets := make([]*Set, 0, len(quiz.Levels))
	for _, level := range quiz.Levels {
		name := string(level) + ".yaml"
		var (
			data []byte
			err  error
		)
		if dir != "" {
			data, err = os.ReadFile(filepath.Join(dir, name))
		} else {
			data, err = setsFS.ReadFile("sets/" + name)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrQuestionSetMissing, level, err)
		}
		s, err := ParseSet(data)
		if err != nil {
			return nil, fmt.Errorf("question set %s: %w", level, err)
		}
		if s.Level != level {
			return nil, fmt.Errorf("question set %s: file declares level %q", level, s.Level)
		}
		sets = append(sets, s)
	}
	return NewBank(sets...), nil
}

func ParseSet(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse question set: %w", err)
	}
	if err := validateSet(&s); err != nil {
		return nil, err
	}
	s.byID = make(map[string]int, len(s.Questions))
	for i, q := range s.Questions {
		s.byID[q.ID] = i
	}
	return &s, nil
}

// Set resolves the question set for a level.
func (b *Bank) Set(level quiz.Level) (*Set, error) {
	if _, ok := quiz.ParseLevel(string(level)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuestionSetMissing, level)
	}
	s, ok := b.sets[level]
	if !ok || s.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrQuestionSetMissing, level)
	}
	return s, nil
}

// SetFor parses a raw level name and resolves its set.
func (b *Bank) SetFor(raw string) (*Set, error) {
	level, ok := quiz.ParseLevel(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
	}
	return b.Set(level)
}

func validateSet(s *Set) error {
	if _, ok := quiz.ParseLevel(string(s.Level)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, s.Level)
	}
	if len(s.Questions) == 0 {
		return errors.New("no questions defined")
	}
	seen := map[string]bool{}
	for i, q := range s.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return fmt.Errorf("question %d: id is required", i+1)
		}
		if seen[id] {
			return fmt.Errorf("duplicate question id: %s", id)
		}
		seen[id] = true
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %s: prompt is required", id)
		}
		if q.MultiSelect && q.Type != quiz.TypeMultipleChoice {
			return fmt.Errorf("question %s: multi_select requires type %s", id, quiz.TypeMultipleChoice)
		}
		switch q.Type {
		case quiz.TypeMultipleChoice, quiz.TypeScenario, quiz.TypeVisualChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %s: needs at least two options", id)
			}
			opts := map[string]bool{}
			for _, o := range q.Options {
				if o.ID == "" || opts[o.ID] {
					return fmt.Errorf("question %s: option ids must be unique and non-empty", id)
				}
				opts[o.ID] = true
			}
		case quiz.TypeScale:
			if q.Scale == nil || q.Scale.Min >= q.Scale.Max {
				return fmt.Errorf("question %s: scale needs min < max", id)
			}
		case quiz.TypeRanking:
			if len(q.Items) < 2 {
				return fmt.Errorf("question %s: ranking needs at least two items", id)
			}
		case quiz.TypeShortResponse:
		default:
			return fmt.Errorf("question %s: unknown type %q", id, q.Type)
		}
	}
	return nil
}
