package quiz

import (
	"bytes"
	"encoding/json"
	"time"
)

// Payload is the closed set of answer shapes. Consumers dispatch through Accept so a
// new shape cannot be added without every PayloadVisitor growing a method for it.
type Payload interface {
	Accept(v PayloadVisitor)
	sealed()
}

type PayloadVisitor interface {
	VisitText(TextAnswer)
	VisitChoice(ChoiceAnswer)
	VisitMultiChoice(MultiChoiceAnswer)
	VisitScale(ScaleAnswer)
	VisitRanking(RankingAnswer)
}

type SelectedOption struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

type TextAnswer struct{ Text string }

type ChoiceAnswer struct{ Option SelectedOption }

type MultiChoiceAnswer struct{ Options []SelectedOption }

type ScaleAnswer struct{ Value float64 }

type RankingAnswer struct{ ItemIDs []string }

func (a TextAnswer) Accept(v PayloadVisitor)        { v.VisitText(a) }
func (a ChoiceAnswer) Accept(v PayloadVisitor)      { v.VisitChoice(a) }
func (a MultiChoiceAnswer) Accept(v PayloadVisitor) { v.VisitMultiChoice(a) }
func (a ScaleAnswer) Accept(v PayloadVisitor)       { v.VisitScale(a) }
func (a RankingAnswer) Accept(v PayloadVisitor)     { v.VisitRanking(a) }

func (TextAnswer) sealed()        {}
func (ChoiceAnswer) sealed()      {}
func (MultiChoiceAnswer) sealed() {}
func (ScaleAnswer) sealed()       {}
func (RankingAnswer) sealed()     {}

// Answer is one answered question. Payload is nil when the submitted value did not
// decode into the shape its Type calls for.
type Answer struct {
	QuestionID       string
	Type             QuestionType
	Payload          Payload
	TimeSpentSeconds float64
	SubmittedAt      time.Time
}

// Fits reports whether the answer's payload shape is valid for q.
func (a Answer) Fits(q Question) bool {
	if a.Type != q.Type {
		return false
	}
	switch a.Payload.(type) {
	case TextAnswer:
		return q.Type == TypeShortResponse
	case ChoiceAnswer:
		return q.Type.IsChoice()
	case MultiChoiceAnswer:
		return q.Type == TypeMultipleChoice && q.MultiSelect
	case ScaleAnswer:
		return q.Type == TypeScale
	case RankingAnswer:
		return q.Type == TypeRanking
	}
	return false
}

type answerWire struct {
	QuestionID string          `json:"questionId"`
	Type       QuestionType    `json:"type"`
	Answer     json.RawMessage `json:"answer"`
	TimeSpent  float64         `json:"timeSpent,omitempty"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
}

func (a Answer) MarshalJSON() ([]byte, error) {
	var raw any
	switch p := a.Payload.(type) {
	case TextAnswer:
		raw = p.Text
	case ChoiceAnswer:
		raw = p.Option
	case MultiChoiceAnswer:
		raw = p.Options
	case ScaleAnswer:
		raw = p.Value
	case RankingAnswer:
		raw = p.ItemIDs
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	w := answerWire{QuestionID: a.QuestionID, Type: a.Type, Answer: b, TimeSpent: a.TimeSpentSeconds}
	if !a.SubmittedAt.IsZero() {
		ts := a.SubmittedAt
		w.Timestamp = &ts
	}
	return json.Marshal(w)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var w answerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Answer{
		QuestionID:       w.QuestionID,
		Type:             w.Type,
		Payload:          decodePayload(w.Type, w.Answer),
		TimeSpentSeconds: w.TimeSpent,
	}
	if w.Timestamp != nil {
		a.SubmittedAt = *w.Timestamp
	}
	return nil
}

func decodePayload(t QuestionType, raw json.RawMessage) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch {
	case t == TypeShortResponse:
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return TextAnswer{Text: s}
		}
	case t.IsChoice():
		switch raw[0] {
		case '[':
			var opts []SelectedOption
			if json.Unmarshal(raw, &opts) == nil {
				return MultiChoiceAnswer{Options: opts}
			}
		case '{':
			var opt SelectedOption
			if json.Unmarshal(raw, &opt) == nil && opt.ID != "" {
				return ChoiceAnswer{Option: opt}
			}
		case '"':
			var id string
			if json.Unmarshal(raw, &id) == nil && id != "" {
				return ChoiceAnswer{Option: SelectedOption{ID: id}}
			}
		}
	case t == TypeScale:
		var v float64
		if json.Unmarshal(raw, &v) == nil {
			return ScaleAnswer{Value: v}
		}
	case t == TypeRanking:
		var ids []string
		if json.Unmarshal(raw, &ids) == nil {
			return RankingAnswer{ItemIDs: ids}
		}
	}
	return nil
}
