package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/loadshed-guard/internal/config"
	"github.com/oshokin/loadshed-guard/internal/domain/outage"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	s, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, s)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal record.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(file)

	loc := time.FixedZone("SAST", 2*60*60)
	want := &outage.Shutdown{
		DeviceID:     "ac-1",
		ScheduledFor: time.Date(2024, time.March, 5, 6, 0, 0, 0, loc),
		FiredAt:      time.Date(2024, time.March, 5, 6, 0, 0, 1500, loc),
		Error:        "device offline",
		DryRun:       true,
		Actor: &outage.Actor{
			Hostname: "pantry-pi",
			Username: "guard",
		},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.DeviceID, got.DeviceID)
	require.True(t, want.ScheduledFor.Equal(got.ScheduledFor))
	require.True(t, want.FiredAt.Equal(got.FiredAt))
	require.Equal(t, want.Error, got.Error)
	require.True(t, got.DryRun)
	require.Equal(t, want.Actor, got.Actor)

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(config.DefaultFilePermissions), info.Mode().Perm())

	_, err = os.Stat(file + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_Overwrite keeps only the latest record and tolerates a missing actor.
func TestFileRepository_Overwrite(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"))

	first := &outage.Shutdown{DeviceID: "ac-1", FiredAt: time.Unix(100, 0).UTC()}
	second := &outage.Shutdown{DeviceID: "ac-1", FiredAt: time.Unix(200, 0).UTC()}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))
	require.NoError(t, repo.Save(context.Background(), nil))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(200), got.FiredAt.Unix())
	require.Nil(t, got.Actor)
	require.True(t, got.ScheduledFor.IsZero())
	require.True(t, got.Succeeded())
}

// TestFileRepository_Corrupt reports undecodable files.
func TestFileRepository_Corrupt(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_Format writes snake_case keys with RFC 3339 timestamps and rejects mistyped fields.
func TestFileRepository_Format(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(file)

	require.NoError(t, repo.Save(context.Background(), &outage.Shutdown{
		DeviceID:     "ac-1",
		ScheduledFor: time.Date(2024, time.March, 5, 4, 0, 0, 0, time.UTC),
		FiredAt:      time.Date(2024, time.March, 5, 4, 0, 2, 0, time.UTC),
		Actor:        &outage.Actor{Hostname: "pantry-pi"},
	}))

	contents, err := os.ReadFile(file)
	require.NoError(t, err)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(contents, &stored))
	require.Equal(t, "ac-1", stored["device_id"])
	require.Equal(t, "2024-03-05T04:00:00Z", stored["scheduled_for"])
	require.Equal(t, "2024-03-05T04:00:02Z", stored["fired_at"])
	require.Equal(t, map[string]any{"hostname": "pantry-pi"}, stored["actor"])

	require.NoError(t, os.WriteFile(file, []byte(`{"device_id":"ac-1","dry_run":"yes"}`), 0o600))

	_, err = repo.Load(context.Background())
	require.ErrorContains(t, err, "decode state file")
}
