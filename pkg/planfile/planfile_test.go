package planfile

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/storage"
)

type memScripts struct {
	scripts []gameplan.PlayScript
}

func (m *memScripts) ListScripts(_ context.Context, planID string) ([]gameplan.PlayScript, error) {
	out := []gameplan.PlayScript{}
	for _, s := range m.scripts {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScripts) PutScript(_ context.Context, s gameplan.PlayScript) (gameplan.PlayScript, error) {
	if s.ID == "" {
		s.ID = "script-" + s.Name
	}
	m.scripts = append(m.scripts, s)
	return s, nil
}

func newService() *Service {
	store := storage.NewMemStore()
	return &Service{
		Registry: gameplan.NewRegistry(store, store),
		Content:  gameplan.NewContent(store),
		Scripts:  &memScripts{},
	}
}

func TestExportImportAcrossStores(t *testing.T) {
	ctx := context.Background()
	src := newService()

	plan, err := src.Registry.AddGamePlan(ctx, gameplan.GamePlan{Week: 2, Opponent: "Bears", Date: "2024-01-22", Location: "Away"})
	if err != nil {
		t.Fatalf("AddGamePlan: %v", err)
	}
	if _, err := src.Content.InitializeGamePlanData(ctx, plan.ID, plan.Week, plan.Opponent, plan.Date); err != nil {
		t.Fatalf("InitializeGamePlanData: %v", err)
	}
	if _, err := src.Content.AddPlayToSection(ctx, plan.ID, "red-zone", gameplan.Play{Name: "Fade", Formation: "Shotgun", Tags: []string{"left-hash"}}); err != nil {
		t.Fatalf("AddPlayToSection: %v", err)
	}
	if _, err := src.Scripts.PutScript(ctx, gameplan.PlayScript{PlanID: plan.ID, Name: "Openers", Plays: []string{"a", "b"}}); err != nil {
		t.Fatalf("PutScript: %v", err)
	}

	f, err := src.Export(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "opponent: Bears") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}

	read, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	dst := newService()
	imported, err := dst.Import(ctx, read)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.ID == "" || imported.ID == plan.ID || imported.Opponent != "Bears" || imported.Location != "Away" {
		t.Fatalf("unexpected imported plan %+v", imported)
	}

	data, err := dst.Content.GetGamePlanData(ctx, imported.ID)
	if err != nil {
		t.Fatalf("GetGamePlanData: %v", err)
	}
	var fade *gameplan.Play
	for _, s := range data.Sections {
		if s.ID == "red-zone" && len(s.Plays) == 1 {
			fade = &s.Plays[0]
		}
	}
	if fade == nil || fade.Name != "Fade" || fade.Tags[0] != "left-hash" {
		t.Fatalf("red-zone play not imported: %+v", data.Sections)
	}

	scripts, _ := dst.Scripts.ListScripts(ctx, imported.ID)
	if len(scripts) != 1 || scripts[0].Name != "Openers" || len(scripts[0].Plays) != 2 {
		t.Fatalf("scripts not imported: %+v", scripts)
	}
}

func TestExportWithoutSections(t *testing.T) {
	ctx := context.Background()
	s := newService()
	plan, err := s.Registry.AddGamePlan(ctx, gameplan.GamePlan{Week: 1, Opponent: "Lions", Date: "2024-01-15", Location: "Home"})
	if err != nil {
		t.Fatalf("AddGamePlan: %v", err)
	}
	f, err := s.Export(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(f.Sections) != 0 || f.Version != Version {
		t.Fatalf("unexpected file %+v", f)
	}
	if _, err := s.Export(ctx, "missing"); !errors.Is(err, gameplan.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "version: 1\nplan:\n  week: 1\nbogus: true\n"},
		{"not yaml", "plan: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.doc)); !errors.Is(err, gameplan.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestImportNewerVersion(t *testing.T) {
	s := newService()
	_, err := s.Import(context.Background(), File{Version: Version + 1})
	if !errors.Is(err, gameplan.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestImportRejectsBadSectionsBeforeAddingPlan(t *testing.T) {
	ctx := context.Background()
	s := newService()
	f := File{
		Version:  Version,
		Plan:     gameplan.GamePlan{Week: 1, Opponent: "Lions", Date: "2024-01-15", Location: "Home"},
		Sections: []gameplan.Section{{ID: "1st-10", InstallStatus: "halfway"}},
	}
	if _, err := s.Import(ctx, f); !errors.Is(err, gameplan.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	plans, _ := s.Registry.GetGamePlans(ctx)
	if len(plans) != 0 {
		t.Fatalf("rejected import left plans behind: %+v", plans)
	}
}

func TestSituationsFile(t *testing.T) {
	var buf bytes.Buffer
	in := []gameplan.Situation{{ID: "s1", Name: "Backed up", Down: 1, Distance: 10, FieldPosition: "own 2"}}
	if err := WriteSituations(&buf, in); err != nil {
		t.Fatalf("WriteSituations: %v", err)
	}
	out, err := ReadSituations(&buf)
	if err != nil {
		t.Fatalf("ReadSituations: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	empty, err := ReadSituations(strings.NewReader(""))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", empty, err)
	}
}
