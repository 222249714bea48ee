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

func scanPlaybookPlay(row rowScanner) (gameplan.Play, error) {
	var (
		p                             gameplan.Play
		formation, concept, typ, tags sql.NullString
		createdAt                     string
	)
	if err := row.Scan(&p.ID, &p.Name, &formation, &concept, &typ, &tags, &createdAt); err != nil {
		return gameplan.Play{}, err
	}
	p.Formation = formation.String
	p.Concept = concept.String
	p.Type = typ.String
	p.CreatedAt = parseTime(createdAt)
	var err error
	if p.Tags, err = decodeList(tags); err != nil {
		return gameplan.Play{}, err
	}
	return p, nil
}

// ListPlays returns the playbook ordered by name.
func (d *DB) ListPlays(ctx context.Context) ([]gameplan.Play, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, formation, concept, type, tags, created_at FROM plays ORDER BY name, created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gameplan.Play{}
	for rows.Next() {
		p, err := scanPlaybookPlay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddPlay stores a new playbook entry.
func (d *DB) AddPlay(ctx context.Context, p gameplan.Play) (gameplan.Play, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return gameplan.Play{}, fmt.Errorf("play name is required: %w", gameplan.ErrInvalid)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	tags, err := encodeList(p.Tags)
	if err != nil {
		return gameplan.Play{}, err
	}
	_, err = d.sql.ExecContext(ctx, d.rebind("INSERT INTO plays(id, name, formation, concept, type, tags, created_at) VALUES(?,?,?,?,?,?,?)"),
		p.ID, p.Name, nullIfEmpty(p.Formation), nullIfEmpty(p.Concept), nullIfEmpty(p.Type), tags, formatTime(p.CreatedAt))
	if err != nil {
		return gameplan.Play{}, err
	}
	return p, nil
}

// DeletePlay removes a playbook entry. Scripts that list it keep the dangling id.
func (d *DB) DeletePlay(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, d.rebind("DELETE FROM plays WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("play %s: %w", id, gameplan.ErrNotFound)
	}
	return nil
}

// PlaysByID looks up playbook entries. Unknown ids are absent from the map.
func (d *DB) PlaysByID(ctx context.Context, ids []string) (map[string]gameplan.Play, error) {
	out := make(map[string]gameplan.Play, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := "SELECT id, name, formation, concept, type, tags, created_at FROM plays WHERE id IN (?" + strings.Repeat(",?", len(ids)-1) + ")"
	rows, err := d.sql.QueryContext(ctx, d.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPlaybookPlay(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
