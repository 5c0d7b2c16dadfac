package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tablepub/internal/dataset"
	"github.com/davetashner/tablepub/internal/render"
)

func uploadedSession() *State {
	s := New()
	s.SetDataset(&dataset.Dataset{
		Columns: []string{"Name", "Score"},
		Rows:    [][]string{{"Alice", "10"}, {"Bob", "20"}},
	})
	return s
}

func TestConfirm_FreezesSnapshot(t *testing.T) {
	s := uploadedSession()
	s.Draft.Title = "Standings"

	now := time.Date(2026, time.August, 26, 10, 0, 0, 0, time.UTC)
	snap, err := s.Confirm(now)
	require.NoError(t, err)

	assert.Contains(t, snap.HTML, "Standings")
	assert.Equal(t, now, snap.ConfirmedAt)

	// Later edits must not leak into the snapshot.
	s.Draft.Title = "Changed"
	s.Uploaded.Rows[0][0] = "Mallory"
	assert.Equal(t, "Standings", snap.Config.Title)
	assert.Equal(t, "Alice", snap.Dataset.Rows[0][0])
}

func TestConfirm_SnapshotSharesNoConfigStorage(t *testing.T) {
	s := uploadedSession()
	s.Draft.BarColumns = []string{"Score"}
	s.Draft.BarMaxOverrides = map[string]float64{"Score": 50}

	_, err := s.Confirm(time.Now())
	require.NoError(t, err)

	// Mutating the draft's slice and map in place must not alias into the
	// frozen snapshot.
	s.Draft.BarColumns[0] = "Name"
	s.Draft.BarMaxOverrides["Score"] = 9000
	assert.Equal(t, []string{"Score"}, s.Confirmed.Config.BarColumns)
	assert.Equal(t, map[string]float64{"Score": 50}, s.Confirmed.Config.BarMaxOverrides)
}

func TestConfirm_RequiresDataset(t *testing.T) {
	s := New()
	_, err := s.Confirm(time.Now())
	assert.ErrorIs(t, err, ErrNothingToConfirm)
}

func TestDirty(t *testing.T) {
	s := uploadedSession()
	assert.True(t, s.Dirty(), "no snapshot yet")

	_, err := s.Confirm(time.Now())
	require.NoError(t, err)
	assert.False(t, s.Dirty())

	s.Draft.Striped = !s.Draft.Striped
	assert.True(t, s.Dirty(), "config drifted from snapshot")
}

func TestSetDataset_ResetsConfirmedState(t *testing.T) {
	s := uploadedSession()
	_, err := s.Confirm(time.Now())
	require.NoError(t, err)
	s.LastURL = "https://x"
	s.LastEmbed = "<iframe>"

	s.SetDataset(&dataset.Dataset{Columns: []string{"a"}, Rows: [][]string{{"1"}}})

	assert.Nil(t, s.Confirmed)
	assert.Empty(t, s.LastURL)
	assert.Empty(t, s.LastEmbed)
	assert.True(t, s.Dirty())
}

func TestConfigHash_StableAndSensitive(t *testing.T) {
	a := render.DefaultConfig()
	b := render.DefaultConfig()
	assert.Equal(t, ConfigHash(a), ConfigHash(b))

	b.CellAlign = render.AlignLeft
	assert.NotEqual(t, ConfigHash(a), ConfigHash(b))

	a.BarMaxOverrides = map[string]float64{"x": 1, "y": 2}
	b = a
	b.BarMaxOverrides = map[string]float64{"y": 2, "x": 1}
	assert.Equal(t, ConfigHash(a), ConfigHash(b), "map order must not affect the hash")
}

func TestSnapshot_Manifest(t *testing.T) {
	s := uploadedSession()
	s.Draft.Brand = "VegasInsider"
	snap, err := s.Confirm(time.Now())
	require.NoError(t, err)

	at := time.Date(2026, time.August, 26, 15, 4, 5, 0, time.UTC)
	out, err := snap.Manifest("amybc", "pub-123", at)
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "pub-123", m.PublishID)
	assert.Equal(t, "amybc", m.Publisher)
	assert.Equal(t, "2026-08-26T15:04:05Z", m.PublishedAt)
	assert.Equal(t, "VegasInsider", m.Brand)
	assert.Equal(t, snap.Config, m.Config)
}
