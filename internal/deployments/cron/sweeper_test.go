package cronjob

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/scratch"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunOnce(t *testing.T) {
	space, err := scratch.NewSpace(t.TempDir())
	require.NoError(t, err)

	stale := filepath.Join(space.Root(), "orphan")
	require.NoError(t, os.Mkdir(stale, 0o755))
	held, err := space.Acquire()
	require.NoError(t, err)

	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(held.Path, old, old))

	sweeper := NewSweeper(space, "@every 1h", time.Hour, zerolog.Nop())
	removed, err := sweeper.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)
	assert.DirExists(t, held.Path, "a directory in use by a deploy survives the sweep")
}

func TestSweeper_UsesInjectedClock(t *testing.T) {
	space, err := scratch.NewSpace(t.TempDir())
	require.NoError(t, err)
	dir := filepath.Join(space.Root(), "orphan")
	require.NoError(t, os.Mkdir(dir, 0o755))

	sweeper := NewSweeper(space, "@every 1h", time.Hour, zerolog.Nop())
	sweeper.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	removed, err := sweeper.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, removed)
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	space, err := scratch.NewSpace(t.TempDir())
	require.NoError(t, err)

	sweeper := NewSweeper(space, "not a schedule", time.Hour, zerolog.Nop())
	assert.Error(t, sweeper.Start())
	sweeper.Stop()
}

func TestSweeper_StartStop(t *testing.T) {
	space, err := scratch.NewSpace(t.TempDir())
	require.NoError(t, err)

	sweeper := NewSweeper(space, "0 */15 * * * *", time.Hour, zerolog.Nop())
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
