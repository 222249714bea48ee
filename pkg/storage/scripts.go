package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/reorder"
)

func scanScript(row rowScanner) (gameplan.PlayScript, error) {
	var (
		s         gameplan.PlayScript
		plays     string
		createdAt string
	)
	if err := row.Scan(&s.ID, &s.PlanID, &s.Name, &plays, &createdAt); err != nil {
		return gameplan.PlayScript{}, err
	}
	s.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(plays), &s.Plays); err != nil {
		return gameplan.PlayScript{}, fmt.Errorf("script %s plays: %w", s.ID, err)
	}
	if s.Plays == nil {
		s.Plays = []string{}
	}
	return s, nil
}

func (d *DB) ListScripts(ctx context.Context, planID string) ([]gameplan.PlayScript, error) {
	rows, err := d.sql.QueryContext(ctx, d.rebind("SELECT id, plan_id, name, plays, created_at FROM play_scripts WHERE plan_id = ? ORDER BY created_at"), planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gameplan.PlayScript{}
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (d *DB) GetScript(ctx context.Context, id string) (gameplan.PlayScript, error) {
	s, err := scanScript(d.sql.QueryRowContext(ctx, d.rebind("SELECT id, plan_id, name, plays, created_at FROM play_scripts WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return gameplan.PlayScript{}, fmt.Errorf("script %s: %w", id, gameplan.ErrNotFound)
	}
	return s, err
}

// PutScript inserts or replaces a script.
func (d *DB) PutScript(ctx context.Context, s gameplan.PlayScript) (gameplan.PlayScript, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.PlanID == "" || s.Name == "" {
		return gameplan.PlayScript{}, fmt.Errorf("script needs a plan and a name: %w", gameplan.ErrInvalid)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Plays == nil {
		s.Plays = []string{}
	}
	plays, err := json.Marshal(s.Plays)
	if err != nil {
		return gameplan.PlayScript{}, err
	}
	_, err = d.sql.ExecContext(ctx, d.rebind(`INSERT INTO play_scripts(id, plan_id, name, plays, created_at) VALUES(?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET plan_id = excluded.plan_id, name = excluded.name, plays = excluded.plays`),
		s.ID, s.PlanID, s.Name, string(plays), formatTime(s.CreatedAt))
	if err != nil {
		return gameplan.PlayScript{}, err
	}
	return s, nil
}

func (d *DB) DeleteScript(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, d.rebind("DELETE FROM play_scripts WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("script %s: %w", id, gameplan.ErrNotFound)
	}
	return nil
}

// ReorderScript moves one entry of a script from index from to index to.
func (d *DB) ReorderScript(ctx context.Context, id string, from, to int) (gameplan.PlayScript, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	var out gameplan.PlayScript
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		s, err := scanScript(tx.QueryRowContext(ctx, d.rebind("SELECT id, plan_id, name, plays, created_at FROM play_scripts WHERE id = ?"+d.forUpdate()), id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("script %s: %w", id, gameplan.ErrNotFound)
		}
		if err != nil {
			return err
		}
		containers := map[string][]string{id: s.Plays}
		if err := reorder.DragAndDrop(containers, reorder.Position{Container: id, Index: from}, reorder.Position{Container: id, Index: to}); err != nil {
			return fmt.Errorf("reorder script: %w: %w", gameplan.ErrInvalid, err)
		}
		s.Plays = containers[id]
		plays, err := json.Marshal(s.Plays)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, d.rebind("UPDATE play_scripts SET plays = ? WHERE id = ?"), string(plays), id); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return gameplan.PlayScript{}, err
	}
	return out, nil
}

// ResolveScript returns the playbook entries a script lists, in script order.
// Ids that no longer exist in the playbook are skipped.
func (d *DB) ResolveScript(ctx context.Context, s gameplan.PlayScript) ([]gameplan.Play, error) {
	byID, err := d.PlaysByID(ctx, s.Plays)
	if err != nil {
		return nil, err
	}
	out := make([]gameplan.Play, 0, len(s.Plays))
	for _, id := range s.Plays {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
