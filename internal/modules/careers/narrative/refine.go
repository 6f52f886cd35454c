package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/prompts"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/observability"
)

// Refinement is the outcome of asking the model to reorder the heuristic top-N.
type Refinement struct {
	Scores    []scoring.CareerScore
	Reasoning map[string]string
	Refined   bool
}

type rankingReply struct {
	Ranking []struct {
		Career    string `json:"career"`
		Reasoning string `json:"reasoning"`
	} `json:"ranking"`
}

type candidateView struct {
	Career   string   `json:"career"`
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Factors  []string `json:"factors"`
}

// Refine lets the model reorder candidates. The reply must name every candidate
// exactly once; anything else keeps the heuristic order. Scores are never changed.
func (g *Generator) Refine(ctx context.Context, candidates []scoring.CareerScore, meta scoring.UserMeta, p profile.Profile, level quiz.Level) Refinement {
	keep := Refinement{Scores: candidates}
	if !g.Available() || len(candidates) < 2 {
		return keep
	}

	views := make([]candidateView, 0, len(candidates))
	for _, c := range candidates {
		views = append(views, candidateView{Career: c.Career, Category: c.Category, Score: c.Score, Factors: c.Factors})
	}
	cj, _ := json.Marshal(views)
	in := prompts.Input{
		Level:          string(level),
		Major:          meta.Major,
		ProfileSummary: SummarizeProfile(p),
		TextInsights:   summarizeInsights(p.TextInsights),
		CandidatesJSON: string(cj),
	}

	reply, err := requestJSON[rankingReply](ctx, g, prompts.PromptRankingRefinement, in)
	if err == nil {
		var out Refinement
		out, err = applyRanking(candidates, reply)
		if err == nil {
			return out
		}
		err = &outputError{issue: observability.IssueRanking, err: err}
	}
	var oe *outputError
	if errors.As(err, &oe) {
		observability.ReportOutputQuality(ctx, g.log, "ranking_refinement", oe.issue, oe.Error())
	}
	g.log.Warn("ranking refinement rejected, keeping heuristic order", "error", err)
	return keep
}

func applyRanking(candidates []scoring.CareerScore, reply rankingReply) (Refinement, error) {
	if len(reply.Ranking) != len(candidates) {
		return Refinement{}, fmt.Errorf("ranking has %d careers, want %d", len(reply.Ranking), len(candidates))
	}
	byName := make(map[string]scoring.CareerScore, len(candidates))
	for _, c := range candidates {
		byName[c.Career] = c
	}
	out := Refinement{
		Scores:    make([]scoring.CareerScore, 0, len(candidates)),
		Reasoning: make(map[string]string, len(candidates)),
		Refined:   true,
	}
	for _, r := range reply.Ranking {
		c, ok := byName[r.Career]
		if !ok {
			return Refinement{}, fmt.Errorf("ranking names unknown or repeated career %q", r.Career)
		}
		delete(byName, r.Career)
		out.Scores = append(out.Scores, c)
		if !blank(r.Reasoning) {
			out.Reasoning[r.Career] = r.Reasoning
		}
	}
	return out, nil
}
