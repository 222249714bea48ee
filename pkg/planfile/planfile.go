// Package planfile moves a whole game plan (header, sections and scripts) in and
// out of a single YAML document.
package planfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"gopkg.in/yaml.v3"
)

// Version is written into every exported file.
const Version = 1

type File struct {
	Version  int                   `yaml:"version"`
	Plan     gameplan.GamePlan     `yaml:"plan"`
	Sections []gameplan.Section    `yaml:"sections"`
	Scripts  []gameplan.PlayScript `yaml:"scripts,omitempty"`
}

// ScriptStore is the part of the store planfile needs for scripts.
type ScriptStore interface {
	ListScripts(ctx context.Context, planID string) ([]gameplan.PlayScript, error)
	PutScript(ctx context.Context, s gameplan.PlayScript) (gameplan.PlayScript, error)
}

type Service struct {
	Registry *gameplan.Registry
	Content  *gameplan.Content
	Scripts  ScriptStore
}

// Export collects a plan into a File. A plan without section data exports with
// no sections.
func (s *Service) Export(ctx context.Context, planID string) (File, error) {
	plan, err := s.Registry.GetGamePlan(ctx, planID)
	if err != nil {
		return File{}, err
	}
	f := File{Version: Version, Plan: plan, Sections: []gameplan.Section{}}

	data, err := s.Content.GetGamePlanData(ctx, planID)
	switch {
	case err == nil:
		f.Sections = data.Sections
	case !errors.Is(err, gameplan.ErrNotFound):
		return File{}, err
	}

	if s.Scripts != nil {
		scripts, err := s.Scripts.ListScripts(ctx, planID)
		if err != nil {
			return File{}, err
		}
		f.Scripts = scripts
	}
	return f, nil
}

// Import stores f as a new plan. Ids in the file are discarded; a plan already
// holding the file's week is replaced.
func (s *Service) Import(ctx context.Context, f File) (gameplan.GamePlan, error) {
	if f.Version > Version {
		return gameplan.GamePlan{}, fmt.Errorf("plan file version %d is newer than supported %d: %w", f.Version, Version, gameplan.ErrInvalid)
	}
	if err := gameplan.ValidateSections(f.Sections); err != nil {
		return gameplan.GamePlan{}, err
	}
	plan := f.Plan
	plan.ID = ""
	plan, err := s.Registry.AddGamePlan(ctx, plan)
	if err != nil {
		return gameplan.GamePlan{}, err
	}

	if len(f.Sections) > 0 {
		data := gameplan.GamePlanData{
			ID:       plan.ID,
			Week:     plan.Week,
			Opponent: plan.Opponent,
			Date:     plan.Date,
			Sections: f.Sections,
		}
		for i := range data.Sections {
			if data.Sections[i].Plays == nil {
				data.Sections[i].Plays = []gameplan.Play{}
			}
			if data.Sections[i].InstallStatus == "" {
				data.Sections[i].InstallStatus = gameplan.InstallNotStarted
			}
		}
		if err := s.Content.SaveGamePlanData(ctx, data); err != nil {
			return gameplan.GamePlan{}, err
		}
	}

	if s.Scripts != nil {
		for _, script := range f.Scripts {
			script.ID = ""
			script.PlanID = plan.ID
			if _, err := s.Scripts.PutScript(ctx, script); err != nil {
				return gameplan.GamePlan{}, fmt.Errorf("script %q: %w", script.Name, err)
			}
		}
	}
	return plan, nil
}

func Write(w io.Writer, f File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

func Read(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("reading plan file: %v: %w", err, gameplan.ErrInvalid)
	}
	return f, nil
}
