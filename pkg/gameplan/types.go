package gameplan

import (
	"fmt"
	"time"
)

// DateLayout is the calendar format used for plan dates.
const DateLayout = "2006-01-02"

// PlanStatus tracks where a weekly plan is in its lifecycle.
type PlanStatus string

const (
	StatusPlanning  PlanStatus = "planning"
	StatusReady     PlanStatus = "ready"
	StatusCompleted PlanStatus = "completed"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// InstallStatus tracks whether a section's plays have been taught to the team.
type InstallStatus string

const (
	InstallNotStarted InstallStatus = "not-started"
	InstallInProgress InstallStatus = "in-progress"
	InstallCompleted  InstallStatus = "completed"
)

func (s InstallStatus) Valid() bool {
	switch s {
	case InstallNotStarted, InstallInProgress, InstallCompleted:
		return true
	}
	return false
}

// GamePlan is the header of a weekly plan. Week is the natural key.
type GamePlan struct {
	ID       string     `json:"id" yaml:"id"`
	Week     int        `json:"week" yaml:"week"`
	Opponent string     `json:"opponent" yaml:"opponent"`
	Date     string     `json:"date" yaml:"date"`
	Location string     `json:"location" yaml:"location"`
	Status   PlanStatus `json:"status" yaml:"status"`
	Weather  string     `json:"weather,omitempty" yaml:"weather,omitempty"`
	Wind     string     `json:"wind,omitempty" yaml:"wind,omitempty"`
}

// GamePlanData holds the situational sections of one plan.
type GamePlanData struct {
	ID       string    `json:"id" yaml:"id"`
	Week     int       `json:"week" yaml:"week"`
	Opponent string    `json:"opponent" yaml:"opponent"`
	Date     string    `json:"date,omitempty" yaml:"date,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
	// Version is set by the store and grows with every write.
	Version int64 `json:"version" yaml:"-"`
}

// Section groups plays by situation id.
type Section struct {
	ID            string        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	Plays         []Play        `json:"plays" yaml:"plays"`
	Priority      int           `json:"priority" yaml:"priority"`
	InstallStatus InstallStatus `json:"installStatus" yaml:"installStatus"`
}

// Play is a single call. Inside a section it is owned by that section; in the
// playbook it also carries Type and CreatedAt.
type Play struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Formation string    `json:"formation" yaml:"formation"`
	Concept   string    `json:"concept" yaml:"concept"`
	Type      string    `json:"type,omitempty" yaml:"type,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"-"`
}

// Situation is a down/distance/field-position context owned by one coach.
type Situation struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Down          int       `json:"down" yaml:"down"`
	Distance      int       `json:"distance" yaml:"distance"`
	FieldPosition string    `json:"fieldPosition" yaml:"fieldPosition"`
	TimeRemaining string    `json:"timeRemaining,omitempty" yaml:"timeRemaining,omitempty"`
	Notes         string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt" yaml:"-"`
}

// PlayScript is an ordered list of playbook play ids for a plan. Ids are not
// checked against the playbook.
type PlayScript struct {
	ID        string    `json:"id" yaml:"id"`
	PlanID    string    `json:"planId" yaml:"planId"`
	Name      string    `json:"name" yaml:"name"`
	Plays     []string  `json:"plays" yaml:"plays"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// User is a coach account for the HTTP API.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DataID builds the week-and-opponent key older callers use to address plan data.
func DataID(week int, opponent string) string {
	return fmt.Sprintf("week%d-%s", week, opponent)
}

// Clone returns a deep copy of d.
func (d GamePlanData) Clone() GamePlanData {
	out := d
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of s.
func (s Section) Clone() Section {
	out := s
	out.Plays = make([]Play, len(s.Plays))
	for i, p := range s.Plays {
		out.Plays[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of p.
func (p Play) Clone() Play {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

func (d *GamePlanData) section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}
