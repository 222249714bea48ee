package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huddleup/gameplan/pkg/gameplan"
)

// ListSituations returns a user's situations in creation order.
func (d *DB) ListSituations(ctx context.Context, userID string) ([]gameplan.Situation, error) {
	rows, err := d.sql.QueryContext(ctx, d.rebind(`SELECT id, name, down, distance, field_position, time_remaining, notes, created_at
FROM situations WHERE user_id = ? ORDER BY created_at, position`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gameplan.Situation{}
	for rows.Next() {
		var (
			s                       gameplan.Situation
			field, remaining, notes sql.NullString
			createdAt               string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Down, &s.Distance, &field, &remaining, &notes, &createdAt); err != nil {
			return nil, err
		}
		s.FieldPosition = field.String
		s.TimeRemaining = remaining.String
		s.Notes = notes.String
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceSituations deletes all of a user's situations and inserts the given
// ones in a single transaction.
func (d *DB) ReplaceSituations(ctx context.Context, userID string, situations []gameplan.Situation) ([]gameplan.Situation, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", gameplan.ErrInvalid)
	}
	now := time.Now()
	out := make([]gameplan.Situation, 0, len(situations))
	for i, s := range situations {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("situation %d has no name: %w", i, gameplan.ErrInvalid)
		}
		if s.Down < 0 || s.Down > 4 {
			return nil, fmt.Errorf("situation %q: down %d out of range: %w", s.Name, s.Down, gameplan.ErrInvalid)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.CreatedAt = now
		out = append(out, s)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, d.rebind("DELETE FROM situations WHERE user_id = ?"), userID); err != nil {
			return err
		}
		for i, s := range out {
			_, err := tx.ExecContext(ctx, d.rebind(`INSERT INTO situations(id, user_id, name, down, distance, field_position, time_remaining, notes, position, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?)`),
				s.ID, userID, s.Name, s.Down, s.Distance, nullIfEmpty(s.FieldPosition), nullIfEmpty(s.TimeRemaining), nullIfEmpty(s.Notes), i, formatTime(s.CreatedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
