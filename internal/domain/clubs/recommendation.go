package clubs

// Recommendation is one club suggested for a career match. RelevanceScore is nil
// when the recommender could not rank the club.
type Recommendation struct {
	ClubID           string   `json:"clubId"`
	Name             string   `json:"name"`
	RelevanceScore   *float64 `json:"relevanceScore,omitempty"`
	Reasoning        string   `json:"reasoning"`
	SuggestedActions []string `json:"suggestedActions"`
}
