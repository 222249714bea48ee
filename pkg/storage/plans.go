package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

const planColumns = "id, week, opponent, date, location, status, weather, wind"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (gameplan.GamePlan, error) {
	var (
		p             gameplan.GamePlan
		status        string
		weather, wind sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Week, &p.Opponent, &p.Date, &p.Location, &status, &weather, &wind); err != nil {
		return gameplan.GamePlan{}, err
	}
	p.Status = gameplan.PlanStatus(status)
	p.Weather = weather.String
	p.Wind = wind.String
	return p, nil
}

func (d *DB) ListPlans(ctx context.Context) ([]gameplan.GamePlan, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+planColumns+" FROM game_plans ORDER BY week")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gameplan.GamePlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) GetPlan(ctx context.Context, id string) (gameplan.GamePlan, error) {
	p, err := scanPlan(d.sql.QueryRowContext(ctx, d.rebind("SELECT "+planColumns+" FROM game_plans WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return gameplan.GamePlan{}, fmt.Errorf("game plan %s: %w", id, gameplan.ErrNotFound)
	}
	return p, err
}

func (d *DB) PlanByWeek(ctx context.Context, week int) (gameplan.GamePlan, error) {
	p, err := scanPlan(d.sql.QueryRowContext(ctx, d.rebind("SELECT "+planColumns+" FROM game_plans WHERE week = ?"), week))
	if errors.Is(err, sql.ErrNoRows) {
		return gameplan.GamePlan{}, fmt.Errorf("game plan for week %d: %w", week, gameplan.ErrNotFound)
	}
	return p, err
}

// PutPlan inserts or updates a plan and logs the change.
func (d *DB) PutPlan(ctx context.Context, p gameplan.GamePlan) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		var holder string
		err := tx.QueryRowContext(ctx, d.rebind("SELECT id FROM game_plans WHERE week = ?"), p.Week).Scan(&holder)
		switch {
		case err == nil && holder != p.ID:
			return fmt.Errorf("week %d is held by plan %s: %w", p.Week, holder, gameplan.ErrConflict)
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return err
		}

		var existing int
		if err := tx.QueryRowContext(ctx, d.rebind("SELECT COUNT(*) FROM game_plans WHERE id = ?"), p.ID).Scan(&existing); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, d.rebind(`INSERT INTO game_plans(`+planColumns+`) VALUES(?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET week = excluded.week, opponent = excluded.opponent, date = excluded.date,
  location = excluded.location, status = excluded.status, weather = excluded.weather, wind = excluded.wind`),
			p.ID, p.Week, p.Opponent, p.Date, p.Location, string(p.Status), nullIfEmpty(p.Weather), nullIfEmpty(p.Wind))
		if err != nil {
			return err
		}
		changeType := "added"
		if existing > 0 {
			changeType = "updated"
		}
		return d.recordChange(ctx, tx, p, changeType)
	})
}

// DeletePlan removes a plan header and its scripts.
func (d *DB) DeletePlan(ctx context.Context, id string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		p, err := scanPlan(tx.QueryRowContext(ctx, d.rebind("SELECT "+planColumns+" FROM game_plans WHERE id = ?"), id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("game plan %s: %w", id, gameplan.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, d.rebind("DELETE FROM game_plans WHERE id = ?"), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, d.rebind("DELETE FROM play_scripts WHERE plan_id = ?"), id); err != nil {
			return err
		}
		return d.recordChange(ctx, tx, p, "removed")
	})
}

func (d *DB) recordChange(ctx context.Context, tx *sql.Tx, p gameplan.GamePlan, changeType string) error {
	_, err := tx.ExecContext(ctx, d.rebind(`INSERT INTO plan_changes(occurred_at, plan_id, week, opponent, change_type) VALUES(?,?,?,?,?)`),
		formatTime(time.Now()), p.ID, p.Week, p.Opponent, changeType)
	return err
}

// ListRecentChanges returns the most recent N plan changes.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, d.rebind("SELECT occurred_at, plan_id, week, opponent, change_type FROM plan_changes ORDER BY occurred_at DESC LIMIT ?"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAt string
		if err := rows.Scan(&occurredAt, &c.PlanID, &c.Week, &c.Opponent, &c.ChangeType); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTime(occurredAt)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
