package quiz

import "strings"

type Level string

const (
	LevelBeginner      Level = "beginner"
	LevelIntermediate  Level = "intermediate"
	LevelAdvanced      Level = "advanced"
	LevelComprehensive Level = "comprehensive"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelComprehensive}

func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

type QuestionType string

const (
	TypeShortResponse  QuestionType = "short_response"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeScenario       QuestionType = "scenario"
	TypeVisualChoice   QuestionType = "visual_choice"
	TypeScale          QuestionType = "scale"
	TypeRanking        QuestionType = "ranking"
)

// IsChoice reports whether answers to this type carry selected option objects.
func (t QuestionType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeScenario || t == TypeVisualChoice
}
