package careers

// Reference blocks shared by the static catalog and the composed result.

type Education struct {
	PrimaryPath     string   `yaml:"primary_path" json:"primaryPath"`
	AlternativePath string   `yaml:"alternative_path" json:"alternativePath"`
	RequiredCourses []string `yaml:"required_courses" json:"requiredCourses"`
}

type TechnicalSkills struct {
	Required  []string `yaml:"required" json:"required"`
	Preferred []string `yaml:"preferred" json:"preferred"`
	Tools     []string `yaml:"tools" json:"tools"`
}

type Experience struct {
	Portfolio   string   `yaml:"portfolio" json:"portfolio"`
	Internships string   `yaml:"internships" json:"internships"`
	Projects    []string `yaml:"projects" json:"projects"`
}

type Certifications struct {
	Optional    []string `yaml:"optional" json:"optional"`
	Recommended []string `yaml:"recommended" json:"recommended"`
}

type InstitutionResources struct {
	Clubs           []string `yaml:"clubs" json:"clubs"`
	Courses         []string `yaml:"courses" json:"courses"`
	Events          []string `yaml:"events" json:"events"`
	FacultyContacts []string `yaml:"faculty_contacts" json:"facultyContacts"`
}

func (r InstitutionResources) Empty() bool {
	return len(r.Clubs) == 0 && len(r.Courses) == 0 && len(r.Events) == 0 && len(r.FacultyContacts) == 0
}

type ProgressionStep struct {
	Level       string `yaml:"level" json:"level"`
	Title       string `yaml:"title" json:"title"`
	SalaryRange string `yaml:"salary" json:"salaryRange"`
	YearRange   string `yaml:"years" json:"yearRange"`
}

type SalaryBands struct {
	Entry  string `yaml:"entry" json:"entry"`
	Mid    string `yaml:"mid" json:"mid"`
	Senior string `yaml:"senior" json:"senior"`
}

type MarketData struct {
	Salary           SalaryBands `yaml:"salary" json:"salary"`
	GrowthRate       string      `yaml:"growth_rate" json:"growthRate"`
	TotalJobs        int         `yaml:"total_jobs" json:"totalJobs"`
	RemotePercentage int         `yaml:"remote_percentage" json:"remotePercentage"`
	TopLocations     []string    `yaml:"top_locations" json:"topLocations"`
	DemandLevel      string      `yaml:"demand_level" json:"demandLevel"`
}

// MarketSnippet is the short market summary attached to alternate matches.
type MarketSnippet struct {
	MedianSalary string `json:"medianSalary"`
	GrowthRate   string `json:"growthRate"`
	DemandLevel  string `json:"demandLevel"`
}

func (m MarketData) Snippet() MarketSnippet {
	return MarketSnippet{MedianSalary: m.Salary.Mid, GrowthRate: m.GrowthRate, DemandLevel: m.DemandLevel}
}
