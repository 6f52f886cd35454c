package quiz

// Question is one entry of a level's question set. Which payload fields are set
// depends on Type: choice types use Options, scale uses Scale, ranking uses Items,
// short_response uses MaxLength.
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Type        QuestionType `yaml:"type" json:"type"`
	Category    string       `yaml:"category" json:"category"`
	Prompt      string       `yaml:"prompt" json:"prompt"`
	Options     []Option     `yaml:"options,omitempty" json:"options,omitempty"`
	MultiSelect bool         `yaml:"multi_select,omitempty" json:"multiSelect,omitempty"`
	Scale       *Scale       `yaml:"scale,omitempty" json:"scale,omitempty"`
	Items       []RankItem   `yaml:"items,omitempty" json:"items,omitempty"`
	MaxLength   int          `yaml:"max_length,omitempty" json:"maxLength,omitempty"`
}

type Option struct {
	ID          string   `yaml:"id" json:"id"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Signals     []string `yaml:"signals,omitempty" json:"signals,omitempty"`
}

type Scale struct {
	Min      int    `yaml:"min" json:"min"`
	Max      int    `yaml:"max" json:"max"`
	MinLabel string `yaml:"min_label" json:"minLabel"`
	MaxLabel string `yaml:"max_label" json:"maxLabel"`
}

type RankItem struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
