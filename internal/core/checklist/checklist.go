// Package checklist defines the checklist configuration model: ordered
// sections of yes/no questions with per-tier feedback strings. The
// definition is immutable for the duration of an evaluation session and
// editable only between sessions.
package checklist

import "fmt"

// Feedback holds the result strings keyed by compliance tier.
type Feedback struct {
	Critical string `json:"critical" yaml:"critical"`
	Warning  string `json:"warning" yaml:"warning"`
	Optimal  string `json:"optimal" yaml:"optimal"`
}

// Section is a named group of checklist questions.
type Section struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Icon      string   `json:"icon" yaml:"icon"`
	Questions []string `json:"questions" yaml:"questions"`
	Feedback  Feedback `json:"feedback" yaml:"feedback"`
}

// SectionByID finds a section in the definition. Returns false when
// the id is unknown.
func SectionByID(sections []Section, id string) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Validate checks a checklist definition for structural problems:
// at least one section, non-empty unique ids, a title, and at least one
// non-empty question per section.
func Validate(sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("checklist has no sections")
	}
	seen := make(map[string]bool, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("section %d has an empty id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" {
			return fmt.Errorf("section %q has an empty title", s.ID)
		}
		if len(s.Questions) == 0 {
			return fmt.Errorf("section %q has no questions", s.ID)
		}
		for qi, q := range s.Questions {
			if q == "" {
				return fmt.Errorf("section %q question %d is empty", s.ID, qi)
			}
		}
	}
	return nil
}

// Tier classifies a compliance percentage.
type Tier string

// Tier constants
const (
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierOptimal  Tier = "optimal"
)

// TierFor maps a compliance percentage to its tier:
// below 70 critical, below 90 warning, otherwise optimal.
func TierFor(compliance float64) Tier {
	switch {
	case compliance < 70:
		return TierCritical
	case compliance < 90:
		return TierWarning
	default:
		return TierOptimal
	}
}

// FeedbackFor returns the section feedback string for a tier.
func (s Section) FeedbackFor(t Tier) string {
	switch t {
	case TierCritical:
		return s.Feedback.Critical
	case TierWarning:
		return s.Feedback.Warning
	default:
		return s.Feedback.Optimal
	}
}
