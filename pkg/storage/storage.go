package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// DB is the SQL-backed store. It implements gameplan.PlanStore and
// gameplan.DataStore and also holds situations, the playbook, scripts, users
// and the plan change log.
type DB struct {
	sql     *sql.DB
	dialect dialect

	// writeMu serialises read-modify-write transactions within the process.
	writeMu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS game_plans (
  id       TEXT PRIMARY KEY,
  week     INTEGER NOT NULL UNIQUE,
  opponent TEXT NOT NULL,
  date     TEXT NOT NULL,
  location TEXT NOT NULL,
  status   TEXT NOT NULL,
  weather  TEXT,
  wind     TEXT
);
CREATE TABLE IF NOT EXISTS plan_data (
  id       TEXT PRIMARY KEY,
  week     INTEGER NOT NULL,
  opponent TEXT NOT NULL,
  date     TEXT,
  version  BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS plan_sections (
  data_id        TEXT NOT NULL,
  id             TEXT NOT NULL,
  title          TEXT NOT NULL,
  priority       INTEGER NOT NULL,
  install_status TEXT NOT NULL CHECK (install_status IN ('not-started','in-progress','completed')),
  position       INTEGER NOT NULL,
  PRIMARY KEY (data_id, id)
);
CREATE TABLE IF NOT EXISTS section_plays (
  data_id    TEXT NOT NULL,
  section_id TEXT NOT NULL,
  position   INTEGER NOT NULL,
  play_id    TEXT NOT NULL,
  name       TEXT NOT NULL,
  formation  TEXT,
  concept    TEXT,
  tags       TEXT,
  PRIMARY KEY (data_id, section_id, position)
);
CREATE TABLE IF NOT EXISTS plays (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  formation  TEXT,
  concept    TEXT,
  type       TEXT,
  tags       TEXT,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS situations (
  id             TEXT NOT NULL,
  user_id        TEXT NOT NULL,
  name           TEXT NOT NULL,
  down           INTEGER NOT NULL,
  distance       INTEGER NOT NULL,
  field_position TEXT,
  time_remaining TEXT,
  notes          TEXT,
  position       INTEGER NOT NULL,
  created_at     TEXT NOT NULL,
  PRIMARY KEY (user_id, id)
);
CREATE INDEX IF NOT EXISTS idx_situations_user ON situations(user_id, created_at, position);
CREATE TABLE IF NOT EXISTS play_scripts (
  id         TEXT PRIMARY KEY,
  plan_id    TEXT NOT NULL,
  name       TEXT NOT NULL,
  plays      TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scripts_plan ON play_scripts(plan_id, created_at);
CREATE TABLE IF NOT EXISTS plan_changes (
  occurred_at TEXT NOT NULL,
  plan_id     TEXT NOT NULL,
  week        INTEGER NOT NULL,
  opponent    TEXT NOT NULL,
  change_type TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON plan_changes(occurred_at);
`

// Open connects to dsn and makes sure the schema exists. postgres:// and
// postgresql:// URLs use PostgreSQL; anything else is a SQLite file path.
// SQLite transactions begin IMMEDIATE so concurrent writers queue on
// busy_timeout instead of failing on lock upgrade.
func Open(dsn string) (*DB, error) {
	driver, source, d := "sqlite", "file:"+dsn+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", dialectSQLite
	if IsPostgresDSN(dsn) {
		driver, source, d = "postgres", dsn, dialectPostgres
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db, dialect: d}, nil
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func (d *DB) rebind(q string) string {
	if d.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate is the row-locking suffix for SELECTs inside write transactions.
func (d *DB) forUpdate() string {
	if d.dialect == dialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func (d *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats summarises what the database holds.
type Stats struct {
	Plans         int
	SectionPlays  int
	PlaybookPlays int
	Situations    int
	Scripts       int
	Users         int
}

func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	counts := []struct {
		table string
		dst   *int
	}{
		{"game_plans", &s.Plans},
		{"section_plays", &s.SectionPlays},
		{"plays", &s.PlaybookPlays},
		{"situations", &s.Situations},
		{"play_scripts", &s.Scripts},
		{"users", &s.Users},
	}
	for _, c := range counts {
		if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return Stats{}, err
		}
	}
	return s, nil
}
