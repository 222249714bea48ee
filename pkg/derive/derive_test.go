package derive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

func section(id string, status gameplan.InstallStatus, plays ...gameplan.Play) gameplan.Section {
	if plays == nil {
		plays = []gameplan.Play{}
	}
	return gameplan.Section{ID: id, Title: id, Plays: plays, InstallStatus: status}
}

func play(id, formation, concept string, tags ...string) gameplan.Play {
	return gameplan.Play{ID: id, Name: id, Formation: formation, Concept: concept, Tags: tags}
}

func TestPersonnel(t *testing.T) {
	tests := []struct {
		formation string
		want      string
	}{
		{"Shotgun", "11"},
		{"Shotgun Trips Right", "11"},
		{"Gun Empty", "10"},
		{"I-Form Pro", "21"},
		{"Pro Set", "21"},
		{"Ace", "12"},
		{"Jumbo", "23"},
		{"Goal Line", "22"},
		{"Wildcat", DefaultPersonnel},
		{"Space", DefaultPersonnel},
		{"", DefaultPersonnel},
	}
	for _, tt := range tests {
		if got := Personnel(tt.formation); got != tt.want {
			t.Fatalf("Personnel(%q) = %s, want %s", tt.formation, got, tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, "Any"},
		{[]string{"shot"}, "Any"},
		{[]string{"shot", "Left-Hash"}, "L"},
		{[]string{"right-hash"}, "R"},
		{[]string{"middle"}, "M"},
	}
	for _, tt := range tests {
		if got := Hash(tt.tags); got != tt.want {
			t.Fatalf("Hash(%v) = %s, want %s", tt.tags, got, tt.want)
		}
	}
}

func TestGenerateCallSheet(t *testing.T) {
	data := gameplan.GamePlanData{
		ID:       "plan-1",
		Week:     2,
		Opponent: "Bears",
		Sections: []gameplan.Section{
			section("1st-10", gameplan.InstallNotStarted, play("p1", "Shotgun", "Mesh", "left-hash")),
			section("red-zone", gameplan.InstallNotStarted),
			section("goal-line", gameplan.InstallNotStarted, play("p2", "Wishbone", "Dive")),
		},
	}
	want := CallSheet{
		PlanID:   "plan-1",
		Week:     2,
		Opponent: "Bears",
		Sections: []CallSheetSection{
			{ID: "1st-10", Title: "1st-10", Plays: []CallSheetPlay{
				{ID: "p1", Name: "p1", Formation: "Shotgun", Concept: "Mesh", Personnel: "11", Hash: "L", Tags: []string{"left-hash"}},
			}},
			{ID: "red-zone", Title: "red-zone", Plays: []CallSheetPlay{}},
			{ID: "goal-line", Title: "goal-line", Plays: []CallSheetPlay{
				{ID: "p2", Name: "p2", Formation: "Wishbone", Concept: "Dive", Personnel: "11", Hash: "Any"},
			}},
		},
	}
	if diff := cmp.Diff(want, GenerateCallSheet(data)); diff != "" {
		t.Fatalf("call sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratePracticePeriods(t *testing.T) {
	var many []gameplan.Play
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"} {
		many = append(many, play(id, "Singleback", "Inside Zone"))
	}
	data := gameplan.GamePlanData{
		ID: "plan-1",
		Sections: []gameplan.Section{
			section("1st-10", gameplan.InstallCompleted, play("c1", "Shotgun", "Smash"), play("c2", "I-Form", "Power")),
			section("2nd-long", gameplan.InstallInProgress, many...),
		},
	}

	periods := GeneratePracticePeriods(data)
	names := make([]string, len(periods))
	for i, p := range periods {
		names[i] = p.Name
	}
	if diff := cmp.Diff([]string{"Individual", "Completed Review", "7-on-7", "Team", "New Install"}, names); diff != "" {
		t.Fatalf("period names (-want +got):\n%s", diff)
	}

	ids := func(p PracticePeriod) []string {
		out := []string{}
		for _, pl := range p.Plays {
			out = append(out, pl.ID)
		}
		return out
	}
	if diff := cmp.Diff([]string{}, ids(periods[0])); diff != "" {
		t.Fatalf("individual period should have no plays:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "c2"}, ids(periods[1])); diff != "" {
		t.Fatalf("completed review (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1"}, ids(periods[2])); diff != "" {
		t.Fatalf("7-on-7 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "c2", "r1", "r2", "r3", "r4", "r5", "r6"}, ids(periods[3])); diff != "" {
		t.Fatalf("team (-want +got):\n%s", diff)
	}
	if len(periods[4].Plays) != 7 {
		t.Fatalf("expected 7 new install plays, got %d", len(periods[4].Plays))
	}

	if periods[1].SituationID != "1st-10" || periods[3].SituationID != "" {
		t.Fatalf("unexpected situation ids %q / %q", periods[1].SituationID, periods[3].SituationID)
	}
	start := 0
	for i, p := range periods {
		if p.Number != i+1 || p.StartMinute != start {
			t.Fatalf("period %d has number %d start %d, want %d/%d", i, p.Number, p.StartMinute, i+1, start)
		}
		start += p.Duration
	}
	if start != 75 {
		t.Fatalf("expected a 75 minute practice, got %d", start)
	}
}

func TestIsPassingConcept(t *testing.T) {
	for _, c := range []string{"Four Verticals", "SMASH", "Stick Nod", "Mesh"} {
		if !IsPassingConcept(c) {
			t.Fatalf("expected %q to be a passing concept", c)
		}
	}
	for _, c := range []string{"Inside Zone", "Power", "Counter"} {
		if IsPassingConcept(c) {
			t.Fatalf("expected %q not to be a passing concept", c)
		}
	}
}
