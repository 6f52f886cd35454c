package profile

import "sort"

// Neutral is the starting value for every style scalar.
const Neutral = 0.5

// Blending keeps 70% of the running value and takes 30% of the new signal.
const (
	blendKeep = 0.7
	blendNew  = 0.3
)

// Profile is the normalized aggregate of one submission's answers. It is built fresh
// per submission and never persisted on its own.
type Profile struct {
	// HardwareVsSoftware is 0 for pure hardware and 1 for pure software.
	HardwareVsSoftware float64            `json:"hardwareVsSoftware"`
	DomainInterests    map[string]float64 `json:"domainInterests"`
	ImpactPreferences  map[string]float64 `json:"impactPreferences"`
	TechnicalSkills    map[string]float64 `json:"technicalSkills"`
	CollaborationStyle float64            `json:"collaborationStyle"`
	AutonomyLevel      float64            `json:"autonomyLevel"`
	RiskTolerance      float64            `json:"riskTolerance"`
	TextInsights       []TextInsight      `json:"textInsights"`
	Rankings           []Ranking          `json:"rankings"`

	// Answered counts answers that were paired with a question; Signals counts those
	// that moved at least one profile value.
	Answered int `json:"answered"`
	Signals  int `json:"signals"`
}

// TextInsight records keyword hits from one free-text answer.
type TextInsight struct {
	QuestionID string   `json:"questionId"`
	Prompt     string   `json:"prompt"`
	Text       string   `json:"text"`
	Keywords   []string `json:"keywords"`
}

// Ranking is stored as submitted; nothing scores it yet.
type Ranking struct {
	QuestionID string   `json:"questionId"`
	Category   string   `json:"category"`
	ItemIDs    []string `json:"itemIds"`
}

func New() Profile {
	return Profile{
		HardwareVsSoftware: Neutral,
		DomainInterests:    map[string]float64{},
		ImpactPreferences:  map[string]float64{},
		TechnicalSkills:    map[string]float64{},
		CollaborationStyle: Neutral,
		AutonomyLevel:      Neutral,
		RiskTolerance:      Neutral,
	}
}

// Keywords returns every distinct free-text keyword in first-seen order.
func (p Profile) Keywords() []string {
	seen := map[string]bool{}
	var out []string
	for _, ti := range p.TextInsights {
		for _, k := range ti.Keywords {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// Weighted is one (key, weight) pair from a profile map.
type Weighted struct {
	Key    string
	Weight float64
}

// Sorted returns m's entries ordered by key so sums over it are reproducible.
func Sorted(m map[string]float64) []Weighted {
	out := make([]Weighted, 0, len(m))
	for k, w := range m {
		out = append(out, Weighted{Key: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Top returns up to n entries of m by descending weight, ties by key.
func Top(m map[string]float64, n int) []Weighted {
	out := Sorted(m)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func blend(old, incoming float64) float64 {
	return clamp01(old*blendKeep + incoming*blendNew)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
