package derive

import (
	"strings"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

// TeamPeriodLimit caps how many plays the team period runs.
const TeamPeriodLimit = 8

var passingKeywords = []string{
	"pass", "vertical", "verts", "smash", "stick", "mesh",
	"flood", "slant", "curl", "drive", "dagger", "cross",
}

// PracticePeriod is one timed block of a practice script.
type PracticePeriod struct {
	Number      int            `json:"number"`
	Name        string         `json:"name"`
	StartMinute int            `json:"startMinute"`
	Duration    int            `json:"duration"`
	Focus       string         `json:"focus"`
	SituationID string         `json:"situationId,omitempty"`
	Plays       []PracticePlay `json:"plays"`
}

type PracticePlay struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Formation string `json:"formation"`
	Concept   string `json:"concept"`
	SectionID string `json:"sectionId"`
}

// IsPassingConcept reports whether a concept name reads as a pass play.
func IsPassingConcept(concept string) bool {
	c := strings.ToLower(concept)
	for _, k := range passingKeywords {
		if strings.Contains(c, k) {
			return true
		}
	}
	return false
}

// GeneratePracticePeriods buckets the plan's plays into the fixed practice
// periods. Plays keep section order inside every period.
func GeneratePracticePeriods(data gameplan.GamePlanData) []PracticePeriod {
	var completed, passing, team, install []PracticePlay
	for _, s := range data.Sections {
		for _, p := range s.Plays {
			pp := PracticePlay{ID: p.ID, Name: p.Name, Formation: p.Formation, Concept: p.Concept, SectionID: s.ID}
			if s.InstallStatus == gameplan.InstallCompleted {
				completed = append(completed, pp)
			} else {
				install = append(install, pp)
			}
			if IsPassingConcept(p.Concept) {
				passing = append(passing, pp)
			}
			if len(team) < TeamPeriodLimit {
				team = append(team, pp)
			}
		}
	}

	periods := []PracticePeriod{
		{Name: "Individual", Duration: 15, Focus: "Position fundamentals"},
		{Name: "Completed Review", Duration: 10, Focus: "Rep installed plays", Plays: completed},
		{Name: "7-on-7", Duration: 15, Focus: "Passing game", Plays: passing},
		{Name: "Team", Duration: 20, Focus: "Full team script", Plays: team},
		{Name: "New Install", Duration: 15, Focus: "Teach this week's additions", Plays: install},
	}
	start := 0
	for i := range periods {
		periods[i].Number = i + 1
		periods[i].StartMinute = start
		start += periods[i].Duration
		if periods[i].Plays == nil {
			periods[i].Plays = []PracticePlay{}
		}
		periods[i].SituationID = singleSection(periods[i].Plays)
	}
	return periods
}

func singleSection(plays []PracticePlay) string {
	if len(plays) == 0 {
		return ""
	}
	id := plays[0].SectionID
	for _, p := range plays[1:] {
		if p.SectionID != id {
			return ""
		}
	}
	return id
}
