package utils

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func TestNewDBLockCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "gameplan.sqlite")

	l, err := NewDBLock(dbPath)
	require.NoError(t, err)
	require.Equal(t, dbPath+lockFileSuffix, l.path)

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, l.Lock())
	_, err = os.Stat(l.path)
	require.NoError(t, err)

	other, err := NewDBLock(dbPath)
	require.NoError(t, err)
	locked, err := other.lock.TryLock()
	require.NoError(t, err)
	require.False(t, locked, "second lock must not be granted while the first is held")

	require.NoError(t, l.Unlock())
	locked, err = other.lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	require.NoError(t, other.Unlock())
}

func TestGetAbsDBPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := GetAbsDBPath("~/plans/gameplan.sqlite")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "plans", "gameplan.sqlite"), got)

	got, err = GetAbsDBPath("relative.sqlite")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.Equal(t, "relative.sqlite", filepath.Base(got))

	t.Setenv("HOME", t.TempDir())
	userHome, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = GetAbsDBPath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(userHome, ".config", "gameplan", "gameplan.sqlite"), got)
}
