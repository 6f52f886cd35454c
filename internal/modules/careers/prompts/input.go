package prompts

// Input carries every field a careers prompt may render.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Career   string
	Category string
	Level    string
	Major    string

	// Profile summary lines and the user's own words
	ProfileSummary string
	TextInsights   string
	Strengths      string

	// Static catalog excerpt for grounding
	ReferenceJSON string

	// Ranking refinement
	CandidatesJSON string
}
