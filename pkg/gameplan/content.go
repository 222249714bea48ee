package gameplan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/huddleup/gameplan/pkg/reorder"
)

// DefaultSections are the situational sections every new plan starts with.
var DefaultSections = []Section{
	{ID: "1st-10", Title: "1st & 10", Priority: 1},
	{ID: "2nd-short", Title: "2nd & Short", Priority: 2},
	{ID: "2nd-long", Title: "2nd & Long", Priority: 3},
	{ID: "3rd-short", Title: "3rd & Short", Priority: 4},
	{ID: "3rd-medium", Title: "3rd & Medium", Priority: 5},
	{ID: "3rd-long", Title: "3rd & Long", Priority: 6},
	{ID: "red-zone", Title: "Red Zone", Priority: 7},
	{ID: "goal-line", Title: "Goal Line", Priority: 8},
}

// IsKnownSection reports whether id is one of the default situation ids.
func IsKnownSection(id string) bool {
	for _, s := range DefaultSections {
		if s.ID == id {
			return true
		}
	}
	return false
}

func defaultSections() []Section {
	out := make([]Section, len(DefaultSections))
	for i, s := range DefaultSections {
		out[i] = s.Clone()
		out[i].Plays = []Play{}
		out[i].InstallStatus = InstallNotStarted
	}
	return out
}

// Content manages the sections and plays of each plan.
type Content struct {
	store DataStore
}

func NewContent(store DataStore) *Content {
	return &Content{store: store}
}

func (c *Content) GetGamePlanData(ctx context.Context, id string) (GamePlanData, error) {
	return c.store.GetPlanData(ctx, id)
}

// SaveGamePlanData stores data as given once its sections pass validation.
func (c *Content) SaveGamePlanData(ctx context.Context, data GamePlanData) error {
	if data.ID == "" {
		return fmt.Errorf("game plan data id is required: %w", ErrInvalid)
	}
	if err := ValidateSections(data.Sections); err != nil {
		return err
	}
	return c.store.PutPlanData(ctx, data)
}

// ValidateSections rejects duplicate section ids and unknown install statuses.
// An empty status is stored as not-started.
func ValidateSections(sections []Section) error {
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id %q: %w", s.ID, ErrInvalid)
		}
		seen[s.ID] = true
		if s.InstallStatus != "" && !s.InstallStatus.Valid() {
			return fmt.Errorf("section %s: unknown install status %q: %w", s.ID, s.InstallStatus, ErrInvalid)
		}
	}
	return nil
}

func (c *Content) DeleteGamePlanData(ctx context.Context, id string) error {
	return c.store.DeletePlanData(ctx, id)
}

// InitializeGamePlanData returns the data stored under id, creating it with the
// default sections first if there is none.
func (c *Content) InitializeGamePlanData(ctx context.Context, id string, week int, opponent, date string) (GamePlanData, error) {
	if id == "" {
		return GamePlanData{}, fmt.Errorf("game plan data id is required: %w", ErrInvalid)
	}
	existing, err := c.store.GetPlanData(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return GamePlanData{}, err
	}
	return c.store.InitPlanData(ctx, GamePlanData{
		ID:       id,
		Week:     week,
		Opponent: opponent,
		Date:     date,
		Sections: defaultSections(),
	})
}

// AddPlayToSection appends play to a section and returns it with its id set.
func (c *Content) AddPlayToSection(ctx context.Context, id, sectionID string, play Play) (Play, error) {
	play.Name = strings.TrimSpace(play.Name)
	if play.Name == "" {
		return Play{}, fmt.Errorf("play name is required: %w", ErrInvalid)
	}
	if play.ID == "" {
		play.ID = uuid.NewString()
	}
	err := c.mutate(ctx, id, func(data *GamePlanData) error {
		section, err := findSection(data, sectionID)
		if err != nil {
			return err
		}
		for _, p := range section.Plays {
			if p.ID == play.ID {
				return fmt.Errorf("play %s is already in section %s: %w", play.ID, sectionID, ErrInvalid)
			}
		}
		section.Plays = append(section.Plays, play.Clone())
		return nil
	})
	if err != nil {
		return Play{}, err
	}
	return play, nil
}

func (c *Content) RemovePlayFromSection(ctx context.Context, id, sectionID, playID string) error {
	return c.mutate(ctx, id, func(data *GamePlanData) error {
		section, err := findSection(data, sectionID)
		if err != nil {
			return err
		}
		kept := section.Plays[:0]
		found := false
		for _, p := range section.Plays {
			if p.ID == playID {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return fmt.Errorf("play %s in section %s: %w", playID, sectionID, ErrNotFound)
		}
		section.Plays = kept
		return nil
	})
}

func (c *Content) UpdateSectionInstallStatus(ctx context.Context, id, sectionID string, status InstallStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown install status %q: %w", status, ErrInvalid)
	}
	return c.mutate(ctx, id, func(data *GamePlanData) error {
		section, err := findSection(data, sectionID)
		if err != nil {
			return err
		}
		section.InstallStatus = status
		return nil
	})
}

// MovePlay drops the play at from into to. Containers are section ids.
func (c *Content) MovePlay(ctx context.Context, id string, from, to reorder.Position) error {
	return c.mutate(ctx, id, func(data *GamePlanData) error {
		containers := make(map[string][]Play, len(data.Sections))
		for _, s := range data.Sections {
			containers[s.ID] = s.Plays
		}
		if err := reorder.DragAndDrop(containers, from, to); err != nil {
			return fmt.Errorf("move play: %w: %w", ErrInvalid, err)
		}
		for i := range data.Sections {
			data.Sections[i].Plays = containers[data.Sections[i].ID]
		}
		return nil
	})
}

func (c *Content) mutate(ctx context.Context, id string, fn func(*GamePlanData) error) error {
	_, err := c.store.UpdatePlanData(ctx, id, fn)
	return err
}

func findSection(data *GamePlanData, sectionID string) (*Section, error) {
	s := data.section(sectionID)
	if s == nil {
		return nil, fmt.Errorf("section %s in plan data %s: %w", sectionID, data.ID, ErrNotFound)
	}
	return s, nil
}
