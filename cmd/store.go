package cmd

import (
	"fmt"

	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/storage"
	"github.com/spf13/viper"
)

// session bundles an open store with the plan services built on it.
type session struct {
	db       *storage.DB
	registry *gameplan.Registry
	content  *gameplan.Content
	lock     *utils.DBLock
}

// dbTarget returns the configured DSN: a postgres URL as is, or the resolved
// SQLite file path.
func dbTarget() (string, error) {
	dsn := viper.GetString("db.path")
	if storage.IsPostgresDSN(dsn) {
		return dsn, nil
	}
	return utils.GetAbsDBPath(dsn)
}

// openSession opens the configured store. Writers on a SQLite file hold the
// flock writer lock until close.
func openSession(write bool) (*session, error) {
	dsn, err := dbTarget()
	if err != nil {
		return nil, err
	}

	s := &session{}
	if write && !storage.IsPostgresDSN(dsn) {
		lock, err := utils.NewDBLock(dsn)
		if err != nil {
			return nil, err
		}
		if err := lock.Lock(); err != nil {
			return nil, err
		}
		s.lock = lock
	}

	db, err := storage.Open(dsn)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	utils.Log.Debugf("Opened database %s", dsn)
	s.db = db
	s.registry = gameplan.NewRegistry(db, db)
	s.content = gameplan.NewContent(db)
	return s, nil
}

func (s *session) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			utils.Log.WithError(err).Warn("Could not release database lock")
		}
	}
}
