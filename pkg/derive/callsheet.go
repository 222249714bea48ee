// Package derive turns plan data into the structures printed for game day
// (call sheets) and practice (period scripts).
package derive

import (
	"strings"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

// DefaultPersonnel is used when no formation keyword matches.
const DefaultPersonnel = "11"

// personnelTable is checked in order; the first keyword found as a whole word
// in the formation wins, so more specific groupings come first.
var personnelTable = []struct {
	keyword   string
	personnel string
}{
	{"empty", "10"},
	{"jumbo", "23"},
	{"goal line", "22"},
	{"i-form", "21"},
	{"pro", "21"},
	{"ace", "12"},
	{"singleback", "11"},
	{"pistol", "11"},
	{"shotgun", "11"},
}

// CallSheet is the per-situation table a play caller carries on game day.
type CallSheet struct {
	PlanID   string             `json:"planId"`
	Week     int                `json:"week"`
	Opponent string             `json:"opponent"`
	Date     string             `json:"date,omitempty"`
	Sections []CallSheetSection `json:"sections"`
}

type CallSheetSection struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Priority int             `json:"priority"`
	Plays    []CallSheetPlay `json:"plays"`
}

type CallSheetPlay struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Formation string   `json:"formation"`
	Concept   string   `json:"concept"`
	Personnel string   `json:"personnel"`
	Hash      string   `json:"hash"`
	Tags      []string `json:"tags,omitempty"`
}

// Personnel maps a formation name to its personnel grouping.
func Personnel(formation string) string {
	f := " " + strings.Join(strings.Fields(strings.ToLower(formation)), " ") + " "
	for _, row := range personnelTable {
		if strings.Contains(f, " "+row.keyword+" ") {
			return row.personnel
		}
	}
	return DefaultPersonnel
}

// Hash returns the hash-mark annotation carried in a play's tags.
func Hash(tags []string) string {
	for _, t := range tags {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "left-hash":
			return "L"
		case "right-hash":
			return "R"
		case "middle":
			return "M"
		}
	}
	return "Any"
}

// GenerateCallSheet builds a call sheet from plan data. Sections keep their
// order and empty sections are kept so the sheet still shows every situation.
func GenerateCallSheet(data gameplan.GamePlanData) CallSheet {
	sheet := CallSheet{
		PlanID:   data.ID,
		Week:     data.Week,
		Opponent: data.Opponent,
		Date:     data.Date,
		Sections: make([]CallSheetSection, 0, len(data.Sections)),
	}
	for _, s := range data.Sections {
		cs := CallSheetSection{
			ID:       s.ID,
			Title:    s.Title,
			Priority: s.Priority,
			Plays:    make([]CallSheetPlay, 0, len(s.Plays)),
		}
		for _, p := range s.Plays {
			cs.Plays = append(cs.Plays, CallSheetPlay{
				ID:        p.ID,
				Name:      p.Name,
				Formation: p.Formation,
				Concept:   p.Concept,
				Personnel: Personnel(p.Formation),
				Hash:      Hash(p.Tags),
				Tags:      append([]string(nil), p.Tags...),
			})
		}
		sheet.Sections = append(sheet.Sections, cs)
	}
	return sheet
}
