package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huddleup/gameplan/pkg/gameplan"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (d *DB) GetPlanData(ctx context.Context, id string) (gameplan.GamePlanData, error) {
	return d.getPlanData(ctx, d.sql, id, false)
}

// PlanDataVersion returns the version of the data stored under id without
// loading its sections.
func (d *DB) PlanDataVersion(ctx context.Context, id string) (int64, error) {
	var v int64
	err := d.sql.QueryRowContext(ctx, d.rebind("SELECT version FROM plan_data WHERE id = ?"), id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("game plan data %s: %w", id, gameplan.ErrNotFound)
	}
	return v, err
}

// getPlanData loads one record through q. With lock set the header row is
// locked for the rest of the transaction on PostgreSQL; SQLite write
// transactions already hold the database lock.
func (d *DB) getPlanData(ctx context.Context, q querier, id string, lock bool) (gameplan.GamePlanData, error) {
	var (
		data gameplan.GamePlanData
		date sql.NullString
	)
	query := "SELECT id, week, opponent, date, version FROM plan_data WHERE id = ?"
	if lock {
		query += d.forUpdate()
	}
	err := q.QueryRowContext(ctx, d.rebind(query), id).
		Scan(&data.ID, &data.Week, &data.Opponent, &date, &data.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return gameplan.GamePlanData{}, fmt.Errorf("game plan data %s: %w", id, gameplan.ErrNotFound)
	}
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	data.Date = date.String

	rows, err := q.QueryContext(ctx, d.rebind("SELECT id, title, priority, install_status FROM plan_sections WHERE data_id = ? ORDER BY position"), id)
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	index := make(map[string]int)
	data.Sections = []gameplan.Section{}
	for rows.Next() {
		var s gameplan.Section
		var status string
		if err := rows.Scan(&s.ID, &s.Title, &s.Priority, &status); err != nil {
			rows.Close()
			return gameplan.GamePlanData{}, err
		}
		s.InstallStatus = gameplan.InstallStatus(status)
		s.Plays = []gameplan.Play{}
		index[s.ID] = len(data.Sections)
		data.Sections = append(data.Sections, s)
	}
	if err := rows.Close(); err != nil {
		return gameplan.GamePlanData{}, err
	}

	playRows, err := q.QueryContext(ctx, d.rebind("SELECT section_id, play_id, name, formation, concept, tags FROM section_plays WHERE data_id = ? ORDER BY section_id, position"), id)
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	defer playRows.Close()
	for playRows.Next() {
		var (
			sectionID                string
			p                        gameplan.Play
			formation, concept, tags sql.NullString
		)
		if err := playRows.Scan(&sectionID, &p.ID, &p.Name, &formation, &concept, &tags); err != nil {
			return gameplan.GamePlanData{}, err
		}
		p.Formation = formation.String
		p.Concept = concept.String
		if p.Tags, err = decodeList(tags); err != nil {
			return gameplan.GamePlanData{}, err
		}
		i, ok := index[sectionID]
		if !ok {
			continue
		}
		data.Sections[i].Plays = append(data.Sections[i].Plays, p)
	}
	return data, playRows.Err()
}

// PutPlanData replaces everything stored under data.ID.
func (d *DB) PutPlanData(ctx context.Context, data gameplan.GamePlanData) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := d.putPlanData(ctx, tx, data)
		return err
	})
}

// UpdatePlanData applies fn to the stored record and writes it back inside one
// transaction.
func (d *DB) UpdatePlanData(ctx context.Context, id string, fn func(*gameplan.GamePlanData) error) (gameplan.GamePlanData, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	var out gameplan.GamePlanData
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		data, err := d.getPlanData(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(&data); err != nil {
			return err
		}
		data.ID = id
		out, err = d.putPlanData(ctx, tx, data)
		return err
	})
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	return out, nil
}

// InitPlanData inserts data unless a record with its id exists.
func (d *DB) InitPlanData(ctx context.Context, data gameplan.GamePlanData) (gameplan.GamePlanData, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	var out gameplan.GamePlanData
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := d.getPlanData(ctx, tx, data.ID, true)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, gameplan.ErrNotFound) {
			return err
		}
		out, err = d.putPlanData(ctx, tx, data)
		return err
	})
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	return out, nil
}

// putPlanData rewrites the record under a version newer than the stored one.
func (d *DB) putPlanData(ctx context.Context, tx *sql.Tx, data gameplan.GamePlanData) (gameplan.GamePlanData, error) {
	var prev int64
	err := tx.QueryRowContext(ctx, d.rebind("SELECT version FROM plan_data WHERE id = ?"), data.ID).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return gameplan.GamePlanData{}, err
	}
	data.Version = nextVersion(prev)

	if err := d.deletePlanData(ctx, tx, data.ID); err != nil {
		return gameplan.GamePlanData{}, err
	}
	if _, err := tx.ExecContext(ctx, d.rebind("INSERT INTO plan_data(id, week, opponent, date, version) VALUES(?,?,?,?,?)"),
		data.ID, data.Week, data.Opponent, nullIfEmpty(data.Date), data.Version); err != nil {
		return gameplan.GamePlanData{}, err
	}
	for si, s := range data.Sections {
		status := s.InstallStatus
		if status == "" {
			status = gameplan.InstallNotStarted
		}
		if _, err := tx.ExecContext(ctx, d.rebind("INSERT INTO plan_sections(data_id, id, title, priority, install_status, position) VALUES(?,?,?,?,?,?)"),
			data.ID, s.ID, s.Title, s.Priority, string(status), si); err != nil {
			return gameplan.GamePlanData{}, err
		}
		for pi, p := range s.Plays {
			tags, err := encodeList(p.Tags)
			if err != nil {
				return gameplan.GamePlanData{}, err
			}
			if _, err := tx.ExecContext(ctx, d.rebind("INSERT INTO section_plays(data_id, section_id, position, play_id, name, formation, concept, tags) VALUES(?,?,?,?,?,?,?,?)"),
				data.ID, s.ID, pi, p.ID, p.Name, nullIfEmpty(p.Formation), nullIfEmpty(p.Concept), tags); err != nil {
				return gameplan.GamePlanData{}, err
			}
		}
	}
	return data, nil
}

// nextVersion is clock based so a record deleted and created again never
// reuses an old version.
func nextVersion(prev int64) int64 {
	v := time.Now().UnixNano()
	if v <= prev {
		v = prev + 1
	}
	return v
}

func (d *DB) DeletePlanData(ctx context.Context, id string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		return d.deletePlanData(ctx, tx, id)
	})
}

func (d *DB) deletePlanData(ctx context.Context, tx *sql.Tx, id string) error {
	for _, q := range []string{
		"DELETE FROM section_plays WHERE data_id = ?",
		"DELETE FROM plan_sections WHERE data_id = ?",
		"DELETE FROM plan_data WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, d.rebind(q), id); err != nil {
			return err
		}
	}
	return nil
}
