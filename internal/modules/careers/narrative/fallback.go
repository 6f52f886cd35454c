package narrative

import (
	"fmt"
	"strings"

	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
)

var genericEntry = careers.EntryRequirements{
	Education: careers.Education{
		PrimaryPath:     "Bachelor's degree in a related engineering or computing field",
		AlternativePath: "Community college transfer or an intensive certificate program backed by a project portfolio",
		RequiredCourses: []string{"Introductory programming", "Data structures", "Discrete mathematics"},
	},
	TechnicalSkills: careers.TechnicalSkills{
		Required:  []string{"Programming fundamentals", "Problem solving", "Version control with Git"},
		Preferred: []string{"Technical writing", "Working in a shared codebase"},
		Tools:     []string{"Git", "A modern IDE"},
	},
	Experience: careers.Experience{
		Portfolio:   "Two or three projects that show the core skills of the role",
		Internships: "One internship or research position before graduation",
		Projects:    []string{"A course project extended beyond the assignment", "A team project from a hackathon or club"},
	},
	Certifications: careers.Certifications{
		Optional:    []string{"Platform or vendor certificates used by employers in this field"},
		Recommended: []string{},
	},
}

var categoryTrends = map[string][]string{
	"software":       {"AI-assisted development tools", "Cloud-native and serverless architectures", "Stronger focus on secure-by-default code"},
	"data":           {"Real-time analytics pipelines", "Data governance and privacy engineering", "Lakehouse platforms"},
	"ai":             {"Large language model applications", "Responsible and explainable AI", "Efficient on-device inference"},
	"security":       {"Zero-trust architectures", "Cloud security posture management", "AI-driven threat detection"},
	"infrastructure": {"Platform engineering teams", "Infrastructure as code everywhere", "Cost-aware cloud operations"},
	"hardware":       {"Custom silicon and accelerators", "Edge and IoT devices", "Hardware-software co-design"},
	"biomedical":     {"Wearable health monitoring", "Computational genomics", "Regulated medical software"},
	"aerospace":      {"Commercial space launch growth", "Autonomous flight systems", "Small satellite constellations"},
	"design":         {"Design systems at scale", "Accessibility as a baseline requirement", "AI-assisted prototyping"},
	"product":        {"Data-informed product decisions", "AI features in every product", "Product-led growth"},
	"research":       {"Open-source research tooling", "Interdisciplinary computing research", "Quantum and high-performance computing"},
}

var categoryEmployers = map[string][]string{
	"software":       {"Large technology companies", "Venture-backed startups", "Enterprise software vendors"},
	"data":           {"Technology companies", "Financial services firms", "Healthcare and biotech organizations"},
	"ai":             {"AI research labs", "Large technology companies", "AI-focused startups"},
	"security":       {"Security vendors", "Financial institutions", "Government and defense agencies"},
	"infrastructure": {"Cloud providers", "Large technology companies", "Managed service providers"},
	"hardware":       {"Semiconductor companies", "Consumer electronics makers", "Automotive and EV manufacturers"},
	"biomedical":     {"Medical device companies", "Biotech and pharmaceutical firms", "Research hospitals"},
	"aerospace":      {"Aerospace manufacturers", "Commercial space companies", "Government research labs"},
	"design":         {"Product companies", "Design agencies", "Consultancies"},
	"product":        {"Technology companies", "Startups", "Enterprise software vendors"},
	"research":       {"Universities", "National laboratories", "Corporate research labs"},
}

var defaultTrends = []string{"Growing use of AI tools across the field", "More remote and hybrid teams", "Demand for interdisciplinary skills"}

var defaultEmployers = []string{"Technology companies", "Startups", "Public sector and research organizations"}

// Fallback builds the static bundle for def. It depends only on its inputs.
func Fallback(def catalog.CareerDefinition, p profile.Profile, level quiz.Level) Bundle {
	name := def.Name
	if strings.TrimSpace(name) == "" {
		name = "this career"
	}
	entry := fillEntry(def.EntryRequirements())
	b := Bundle{
		EntryRequirements:    entry,
		SkillGapAnalysis:     fallbackSkillGap(name, entry, def, p, level),
		Progression:          fallbackProgression(name, def.Progression, level),
		LearningPath:         fallbackLearningPath(name, entry, def.Resources).Numbered(),
		MarketInsights:       fallbackMarket(name, def.Category, def.Market),
		PersonalizedAdvice:   fallbackAdvice(name, p),
		InstitutionResources: def.Resources,
		Sources:              make(map[Section]Source, len(Sections)),
	}
	for _, s := range Sections {
		b.Sources[s] = SourceFallback
	}
	return b
}

func fillEntry(e careers.EntryRequirements) careers.EntryRequirements {
	g := genericEntry
	if blank(e.Education.PrimaryPath) {
		e.Education.PrimaryPath = g.Education.PrimaryPath
	}
	if blank(e.Education.AlternativePath) {
		e.Education.AlternativePath = g.Education.AlternativePath
	}
	e.Education.RequiredCourses = orList(e.Education.RequiredCourses, g.Education.RequiredCourses)
	e.TechnicalSkills.Required = orList(e.TechnicalSkills.Required, g.TechnicalSkills.Required)
	e.TechnicalSkills.Preferred = orList(e.TechnicalSkills.Preferred, g.TechnicalSkills.Preferred)
	e.TechnicalSkills.Tools = orList(e.TechnicalSkills.Tools, g.TechnicalSkills.Tools)
	if blank(e.Experience.Portfolio) {
		e.Experience.Portfolio = g.Experience.Portfolio
	}
	if blank(e.Experience.Internships) {
		e.Experience.Internships = g.Experience.Internships
	}
	e.Experience.Projects = orList(e.Experience.Projects, g.Experience.Projects)
	e.Certifications.Optional = orList(e.Certifications.Optional, g.Certifications.Optional)
	e.Certifications.Recommended = orList(e.Certifications.Recommended, g.Certifications.Recommended)
	return e
}

func fallbackSkillGap(name string, entry careers.EntryRequirements, def catalog.CareerDefinition, p profile.Profile, level quiz.Level) careers.SkillGapAnalysis {
	var have, missing []string
	for _, req := range entry.TechnicalSkills.Required {
		if hasSkill(p, req) {
			have = append(have, req)
		} else {
			missing = append(missing, req)
		}
	}

	ratio := float64(len(have)) / float64(len(entry.TechnicalSkills.Required))
	readiness := "early"
	switch {
	case ratio >= 0.75 && level == quiz.LevelAdvanced:
		readiness = "ready"
	case ratio >= 0.75:
		readiness = "nearly_ready"
	case ratio >= 0.4:
		readiness = "developing"
	}

	gaps := make([]careers.SkillGap, 0, 3)
	for i, skill := range missing {
		if i == 3 {
			break
		}
		importance := "important"
		if i == 0 {
			importance = "critical"
		}
		gaps = append(gaps, careers.SkillGap{
			Skill:      skill,
			Importance: importance,
			HowToClose: fmt.Sprintf("Take a course or build a small project that uses %s.", skill),
		})
	}

	strengths := have
	if len(strengths) == 0 {
		for _, w := range profile.Top(p.DomainInterests, 2) {
			strengths = append(strengths, "Interest in "+w.Key)
		}
	}
	if len(strengths) == 0 {
		strengths = []string{"Curiosity about " + name}
	}

	focus := "the core skills of the role"
	if len(missing) > 0 {
		focus = missing[0]
	}
	quickWins := []string{
		fmt.Sprintf("Finish a short hands-on tutorial on %s", focus),
		fmt.Sprintf("Start a portfolio project: %s", first(entry.Experience.Projects, "a small end-to-end project")),
	}
	if club := first(def.Resources.Clubs, ""); club != "" {
		quickWins = append(quickWins, "Attend a meeting of "+club)
	}

	longTerm := []string{
		"Complete " + strings.Join(entry.Education.RequiredCourses, ", "),
		entry.Experience.Internships,
	}
	if cert := first(entry.Certifications.Recommended, ""); cert != "" {
		longTerm = append(longTerm, "Earn the "+cert+" certification")
	}

	return careers.SkillGapAnalysis{
		OverallReadiness: readiness,
		ReadinessDescription: fmt.Sprintf(
			"Your answers show %d of the %d core skills employers look for in %s. Focus first on the gaps below; they are the fastest way to become a strong candidate.",
			len(have), len(entry.TechnicalSkills.Required), name),
		CriticalGaps:        gaps,
		ExistingStrengths:   strengths,
		QuickWins:           quickWins,
		LongTermDevelopment: longTerm,
	}
}

func hasSkill(p profile.Profile, required string) bool {
	for k := range p.TechnicalSkills {
		if profile.ContainsTerm(required, k) {
			return true
		}
	}
	return false
}

func fallbackProgression(name string, ladder []careers.ProgressionStep, level quiz.Level) careers.ProgressionOutlook {
	var ms []careers.ProgressionMilestone
	for _, step := range ladder {
		ms = append(ms, careers.ProgressionMilestone{
			Stage:     step.Title,
			Timeframe: step.YearRange + " years",
			Focus:     focusFor(step.Level),
		})
	}
	if len(ms) == 0 {
		ms = []careers.ProgressionMilestone{
			{Stage: "Entry level", Timeframe: "0-2 years", Focus: focusFor("Entry")},
			{Stage: "Mid level", Timeframe: "2-5 years", Focus: focusFor("Mid")},
			{Stage: "Senior", Timeframe: "5+ years", Focus: focusFor("Senior")},
		}
	}
	summary := fmt.Sprintf("Most people in %s start as %s and can reach %s with steady growth.",
		name, ms[0].Stage, ms[len(ms)-1].Stage)
	if level == quiz.LevelBeginner {
		summary += " You have plenty of time: early coursework and projects count toward the first step."
	}
	return careers.ProgressionOutlook{
		Summary:    summary,
		Milestones: ms,
		AdvancementTips: []string{
			"Ask for ownership of a small project early and see it through",
			"Find a mentor one or two levels above you",
			"Keep a running record of your impact for reviews",
		},
	}
}

func focusFor(level string) string {
	switch strings.ToLower(level) {
	case "entry":
		return "Learn the codebase and tools, ship well-scoped tasks, ask good questions"
	case "mid":
		return "Own features end to end and start reviewing others' work"
	case "senior":
		return "Lead designs, mentor newer teammates, handle ambiguous problems"
	default:
		return "Set technical direction across teams and grow other leaders"
	}
}

func fallbackLearningPath(name string, entry careers.EntryRequirements, res careers.InstitutionResources) careers.LearningPath {
	var foundations []careers.LearningStep
	for _, c := range limit(entry.Education.RequiredCourses, 3) {
		foundations = append(foundations, careers.LearningStep{
			Title:       "Take " + c,
			Description: "Core coursework most " + name + " roles build on.",
			Resource:    c,
		})
	}
	tool := first(entry.TechnicalSkills.Tools, "official documentation")
	var core []careers.LearningStep
	for _, s := range limit(entry.TechnicalSkills.Required, 3) {
		core = append(core, careers.LearningStep{
			Title:       "Practice " + s,
			Description: "Work through exercises until you can use " + s + " without a tutorial.",
			Resource:    tool,
		})
	}
	club := first(res.Clubs, "a student engineering club")
	var portfolio []careers.LearningStep
	for _, pr := range limit(entry.Experience.Projects, 3) {
		portfolio = append(portfolio, careers.LearningStep{
			Title:       pr,
			Description: "Build it, write it up, and publish the code.",
			Resource:    club,
		})
	}
	launch := []careers.LearningStep{{
		Title:       "Apply for internships",
		Description: entry.Experience.Internships,
		Resource:    first(res.Events, "your campus career fair"),
	}}
	if cert := first(entry.Certifications.Recommended, ""); cert != "" {
		launch = append(launch, careers.LearningStep{
			Title:       "Earn " + cert,
			Description: "A recognized credential that backs up your coursework.",
			Resource:    cert,
		})
	}
	return careers.LearningPath{
		Summary: fmt.Sprintf("A four-phase path from coursework to your first %s role.", name),
		Phases: []careers.LearningPhase{
			{Title: "Foundations", Duration: "1-3 months", Steps: foundations},
			{Title: "Core skills", Duration: "2-4 months", Steps: core},
			{Title: "Portfolio", Duration: "3-6 months", Steps: portfolio},
			{Title: "Career launch", Duration: "ongoing", Steps: launch},
		},
	}
}

func fallbackMarket(name, category string, m careers.MarketData) careers.MarketInsights {
	demand := m.DemandLevel
	if blank(demand) {
		demand = "steady"
	}
	summary := fmt.Sprintf("Demand for %s is %s.", name, strings.ToLower(demand))
	if !blank(m.GrowthRate) {
		summary = fmt.Sprintf("Demand for %s is %s, with about %s projected growth.", name, strings.ToLower(demand), m.GrowthRate)
	}
	if m.TotalJobs > 0 {
		summary += fmt.Sprintf(" There are roughly %d jobs in this field in the US.", m.TotalJobs)
	}
	salary := "Salaries vary widely by location and employer."
	if !blank(m.Salary.Entry) {
		salary = fmt.Sprintf("Typical pay runs from about %s at entry level to %s mid-career and %s for senior roles.",
			m.Salary.Entry, orString(m.Salary.Mid, m.Salary.Entry), orString(m.Salary.Senior, m.Salary.Mid))
	}
	outlook := fmt.Sprintf("Hiring demand is %s", strings.ToLower(demand))
	if len(m.TopLocations) > 0 {
		outlook += ", concentrated in " + strings.Join(limit(m.TopLocations, 3), ", ")
	}
	trends, ok := categoryTrends[category]
	if !ok {
		trends = defaultTrends
	}
	employers, ok := categoryEmployers[category]
	if !ok {
		employers = defaultEmployers
	}
	return careers.MarketInsights{
		Summary:        summary,
		DemandOutlook:  outlook + ".",
		SalaryOutlook:  salary,
		EmergingTrends: append([]string(nil), trends...),
		TopEmployers:   append([]string(nil), employers...),
	}
}

func fallbackAdvice(name string, p profile.Profile) careers.PersonalizedAdvice {
	team := "You balance independent work with collaboration"
	switch {
	case p.CollaborationStyle > 0.6:
		team = "You do your best work with a team"
	case p.CollaborationStyle < 0.4:
		team = "You prefer to dig into problems on your own"
	}
	risk := "and like a mix of stability and new challenges."
	switch {
	case p.RiskTolerance > 0.6:
		risk = "and are comfortable taking on uncertain, fast-moving problems."
	case p.RiskTolerance < 0.4:
		risk = "and value clear structure and stable goals."
	}
	workStyle := "A mix of guided and self-directed work suits you."
	switch {
	case p.AutonomyLevel > 0.7:
		workStyle = "You thrive with autonomy and room to set your own direction."
	case p.AutonomyLevel < 0.4:
		workStyle = "Clear goals and regular feedback help you do your best work."
	}

	var motivation []string
	for _, w := range profile.Top(p.ImpactPreferences, 3) {
		motivation = append(motivation, humanize(w.Key))
	}
	if len(motivation) == 0 {
		motivation = []string{"Building things that work", "Learning new skills"}
	}

	return careers.PersonalizedAdvice{
		PersonalityProfile: team + " " + risk,
		WorkStyle:          workStyle,
		MotivationFactors:  motivation,
		Advice: []string{
			fmt.Sprintf("Talk to two people working as %s about their day-to-day work", name),
			"Pick one portfolio project and finish it before starting another",
			"Use campus clubs and events to practice with real teams",
		},
		NextSteps: []string{
			"Save the learning path below and mark the first step done this week",
			"Join one recommended club",
			"Update your resume with your strongest project",
		},
	}
}

func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orList(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return append([]string(nil), def...)
}

func orString(v, def string) string {
	if blank(v) {
		return def
	}
	return v
}

func first(in []string, def string) string {
	if len(in) > 0 && !blank(in[0]) {
		return in[0]
	}
	return def
}

func limit(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
