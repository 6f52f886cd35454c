package profile

import (
	"strings"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/questions"
)

// Extractor turns a submission into a Profile using the question effect table.
// It is stateless apart from the table and safe for concurrent use.
type Extractor struct {
	effects *questions.Effects
	vocab   []string
}

func NewExtractor(effects *questions.Effects) *Extractor {
	x := &Extractor{effects: effects}
	if effects != nil {
		seen := map[string]bool{}
		for _, list := range [][]string{effects.TextKeywords, effects.SkillKeywords} {
			for _, t := range list {
				if !seen[t] {
					seen[t] = true
					x.vocab = append(x.vocab, t)
				}
			}
		}
	}
	return x
}

// Extract pairs answers with questions by id, falling back to position for answers
// that carry no id. Answers without a question, or whose payload does not fit the
// question, are skipped.
func (x *Extractor) Extract(answers []quiz.Answer, qs []quiz.Question) Profile {
	p := New()
	byID := make(map[string]quiz.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	for i, a := range answers {
		var (
			q  quiz.Question
			ok bool
		)
		if a.QuestionID != "" {
			q, ok = byID[a.QuestionID]
		} else if i < len(qs) {
			q, ok = qs[i], true
			a.QuestionID, a.Type = q.ID, q.Type
		}
		if !ok || a.Payload == nil || !a.Fits(q) {
			continue
		}
		v := &answerVisitor{x: x, p: &p, q: q}
		a.Payload.Accept(v)
		p.Answered++
		if v.signal {
			p.Signals++
		}
	}
	return p
}

type answerVisitor struct {
	x      *Extractor
	p      *Profile
	q      quiz.Question
	signal bool
}

func (v *answerVisitor) VisitChoice(a quiz.ChoiceAnswer) {
	if v.q.MultiSelect {
		v.VisitMultiChoice(quiz.MultiChoiceAnswer{Options: []quiz.SelectedOption{a.Option}})
		return
	}
	if table, mapped := v.x.effects.ChoiceTable(v.q.ID); mapped {
		if eff, ok := table[a.Option.ID]; ok {
			v.apply(eff)
		}
		return
	}
	// Unmapped question: scan whatever text describes the option for skill keywords.
	text := []string{a.Option.Label, a.Option.Description}
	if opt, ok := v.q.Option(a.Option.ID); ok {
		text = append(text, opt.Label, opt.Description, strings.Join(opt.Signals, " "))
	}
	for _, skill := range MatchTerms(strings.Join(text, " "), v.skillVocab()) {
		v.p.TechnicalSkills[skill]++
		v.signal = true
	}
}

func (v *answerVisitor) VisitMultiChoice(a quiz.MultiChoiceAnswer) {
	for _, opt := range a.Options {
		impacts, ok := v.x.effects.ImpactOption(opt.ID)
		if !ok {
			continue
		}
		for theme, w := range impacts {
			v.p.ImpactPreferences[theme] += w
			v.signal = true
		}
	}
}

func (v *answerVisitor) VisitScale(a quiz.ScaleAnswer) {
	rule, ok := v.x.effects.ScaleRule(v.q.Category)
	if !ok {
		return
	}
	target := v.scalar(rule.Target)
	if target == nil {
		return
	}
	val := clamp01(a.Value / 10)
	if rule.Mode == questions.ModeBlend {
		*target = blend(*target, val)
	} else {
		*target = val
	}
	v.signal = true
}

func (v *answerVisitor) VisitText(a quiz.TextAnswer) {
	hits := MatchTerms(a.Text, v.x.vocab)
	if len(hits) == 0 {
		return
	}
	v.p.TextInsights = append(v.p.TextInsights, TextInsight{
		QuestionID: v.q.ID,
		Prompt:     v.q.Prompt,
		Text:       a.Text,
		Keywords:   hits,
	})
	for _, k := range hits {
		v.p.TechnicalSkills[k]++
	}
	v.signal = true
}

func (v *answerVisitor) VisitRanking(a quiz.RankingAnswer) {
	if len(a.ItemIDs) == 0 {
		return
	}
	v.p.Rankings = append(v.p.Rankings, Ranking{
		QuestionID: v.q.ID,
		Category:   v.q.Category,
		ItemIDs:    append([]string(nil), a.ItemIDs...),
	})
	v.signal = true
}

func (v *answerVisitor) apply(eff questions.Effect) {
	for k, w := range eff.Domains {
		v.p.DomainInterests[k] += w
	}
	for k, w := range eff.Impacts {
		v.p.ImpactPreferences[k] += w
	}
	for k, w := range eff.Skills {
		v.p.TechnicalSkills[strings.ToLower(k)] += w
	}
	if eff.Balance != nil {
		v.p.HardwareVsSoftware = blend(v.p.HardwareVsSoftware, *eff.Balance)
	}
	if eff.Collaboration != nil {
		v.p.CollaborationStyle = blend(v.p.CollaborationStyle, *eff.Collaboration)
	}
	if eff.Autonomy != nil {
		v.p.AutonomyLevel = blend(v.p.AutonomyLevel, *eff.Autonomy)
	}
	if eff.Risk != nil {
		v.p.RiskTolerance = blend(v.p.RiskTolerance, *eff.Risk)
	}
	v.signal = !eff.Empty()
}

func (v *answerVisitor) scalar(t questions.ScaleTarget) *float64 {
	switch t {
	case questions.TargetCollaboration:
		return &v.p.CollaborationStyle
	case questions.TargetAutonomy:
		return &v.p.AutonomyLevel
	case questions.TargetRisk:
		return &v.p.RiskTolerance
	case questions.TargetBalance:
		return &v.p.HardwareVsSoftware
	}
	return nil
}

func (v *answerVisitor) skillVocab() []string {
	if v.x.effects == nil {
		return nil
	}
	return v.x.effects.SkillKeywords
}
