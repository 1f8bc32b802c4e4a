package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/league/leaguetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "seasons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTable(t *testing.T) *league.Table {
	t.Helper()
	tbl, err := league.Load(leaguetest.WriteSample(t), league.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func TestSaveAndLoadSeasonRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tbl := sampleTable(t)

	require.NoError(t, s.SaveSeason(ctx, "2022-23", tbl))
	got, err := s.LoadSeason(ctx, "2022-23", league.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "2022-23", got.Name)
	if diff := cmp.Diff(tbl, got, cmpopts.IgnoreUnexported(league.Table{}), cmpopts.IgnoreFields(league.Table{}, "Name")); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
	season, err := got.Season(league.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 65.0, season.Wins[0])
}

func TestSaveSeasonReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveSeason(ctx, "2022-23", sampleTable(t)))

	small, err := league.Load(leaguetest.WriteFile(t, "small.csv", "Team,W\nA,1\nB,2\n"), league.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, s.SaveSeason(ctx, "2022-23", small))

	seasons, err := s.ListSeasons(ctx)
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 2, seasons[0].Teams)
	assert.Equal(t, "small.csv", seasons[0].Source)
	assert.False(t, seasons[0].ImportedAt.IsZero())
}

func TestListAndDeleteSeasons(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tbl := sampleTable(t)
	require.NoError(t, s.SaveSeason(ctx, "2023-24", tbl))
	require.NoError(t, s.SaveSeason(ctx, "2022-23", tbl))

	seasons, err := s.ListSeasons(ctx)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, "2022-23", seasons[0].Name)
	assert.Equal(t, 8, seasons[1].Teams)

	require.NoError(t, s.DeleteSeason(ctx, "2022-23"))
	assert.ErrorIs(t, s.DeleteSeason(ctx, "2022-23"), ErrSeasonNotFound)
	_, err = s.LoadSeason(ctx, "2022-23", league.DefaultOptions())
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestSaveSeasonRequiresName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveSeason(context.Background(), "", sampleTable(t)))
}
