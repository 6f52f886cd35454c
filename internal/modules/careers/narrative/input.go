package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/prompts"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
)

const summaryTopN = 5

func buildInput(def catalog.CareerDefinition, p profile.Profile, level quiz.Level, meta scoring.UserMeta) prompts.Input {
	ref, _ := json.Marshal(def)
	return prompts.Input{
		Career:         def.Name,
		Category:       def.Category,
		Level:          string(level),
		Major:          strings.TrimSpace(meta.Major),
		ProfileSummary: SummarizeProfile(p),
		TextInsights:   summarizeInsights(p.TextInsights),
		Strengths:      strings.Join(keys(profile.Top(p.TechnicalSkills, summaryTopN)), ", "),
		ReferenceJSON:  string(ref),
	}
}

// SummarizeProfile renders the profile as short labelled lines for prompts.
func SummarizeProfile(p profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- hardware/software balance: %.2f (0 = pure hardware, 1 = pure software)\n", p.HardwareVsSoftware)
	fmt.Fprintf(&b, "- collaboration: %.2f, autonomy: %.2f, risk tolerance: %.2f (0 to 1)\n",
		p.CollaborationStyle, p.AutonomyLevel, p.RiskTolerance)
	writeWeights(&b, "domain interests", profile.Top(p.DomainInterests, summaryTopN))
	writeWeights(&b, "impact themes", profile.Top(p.ImpactPreferences, summaryTopN))
	writeWeights(&b, "technical skills", profile.Top(p.TechnicalSkills, summaryTopN))
	for _, r := range p.Rankings {
		fmt.Fprintf(&b, "- ranked %s: %s\n", r.Category, strings.Join(r.ItemIDs, " > "))
	}
	fmt.Fprintf(&b, "- answers with usable signal: %d of %d", p.Signals, p.Answered)
	return b.String()
}

func writeWeights(b *strings.Builder, label string, ws []profile.Weighted) {
	if len(ws) == 0 {
		fmt.Fprintf(b, "- %s: none\n", label)
		return
	}
	parts := make([]string, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, fmt.Sprintf("%s (%.1f)", w.Key, w.Weight))
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, ", "))
}

func summarizeInsights(in []profile.TextInsight) string {
	lines := make([]string, 0, len(in))
	for _, ti := range in {
		lines = append(lines, fmt.Sprintf("- %q: %q (topics: %s)", ti.Prompt, ti.Text, strings.Join(ti.Keywords, ", ")))
	}
	return strings.Join(lines, "\n")
}

func keys(ws []profile.Weighted) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Key)
	}
	return out
}
