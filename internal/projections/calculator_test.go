package projections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/puckcap/internal/types"
)

func rateRow(playerID int64, date string, goals, assists, toi float64) types.RawStatRow {
	return types.RawStatRow{
		PlayerID:   playerID,
		Name:       "Player",
		Team:       "TOR",
		Position:   types.PositionForward,
		Date:       date,
		TOIPerGame: toi,
		Goals60:    goals,
		Assists60:  assists,
	}
}

func TestCalculateWeightedProjections_MidSeasonBlend(t *testing.T) {
	table := statTable(
		rateRow(1, "2024-11-01", 1, 0.5, 30),
		rateRow(1, "2024-11-03", 3, 1.5, 30),
	)
	result, err := BuildFeatures(table, seasonStart, testLog())
	require.NoError(t, err)

	weights := types.ProjectionWeights{
		types.SignalCurrentSeason: 0.40,
		types.SignalRolling5:      0.30,
		types.SignalRolling10:     0.30,
	}

	projections := CalculateWeightedProjections(result.Features, result.History, weights, testLog())
	require.Len(t, projections, 1)

	p := projections[0]
	// Mean and both rolling windows are all 2.0 with two observations, so
	// the blend is 2.0 per 60; at 30 minutes a game that is 1.0 per game.
	assert.InDelta(t, 1.0, p.ProjGoalsPerGame, 1e-9)
	assert.InDelta(t, 0.5, p.ProjAssistsPerGame, 1e-9)
	assert.InDelta(t, 30.0, p.TOIPerGame, 1e-9)
}

func TestCalculateWeightedProjections_HistoricalSignals(t *testing.T) {
	table := statTable(
		rateRow(1, "2024-03-01", 2, 1, 60),
		rateRow(1, "2024-03-05", 4, 2, 60),
		rateRow(1, "2024-11-01", 0, 0, 60),
	)
	result, err := BuildFeatures(table, seasonStart, testLog())
	require.NoError(t, err)

	weights := types.ProjectionWeights{
		types.SignalLast20:     0.40,
		types.SignalLastSeason: 0.35,
		types.SignalCareer:     0.25,
	}

	projections := CalculateWeightedProjections(result.Features, result.History, weights, testLog())
	require.Len(t, projections, 1)

	// last_season=4 (latest historical), career=3, last_20=3.
	want := 0.40*3 + 0.35*4 + 0.25*3
	assert.InDelta(t, want, projections[0].ProjGoalsPerGame, 1e-9)
}

func TestCalculateWeightedProjections_MissingSignalContributesZero(t *testing.T) {
	// Rookie: current-season rows only, so every historical signal is
	// absent. Under a historical blend the remaining weights are NOT
	// renormalized and the projection collapses to zero.
	table := statTable(rateRow(1, "2024-11-01", 5, 2, 60))
	result, err := BuildFeatures(table, seasonStart, testLog())
	require.NoError(t, err)

	weights := types.ProjectionWeights{
		types.SignalLast20:     0.40,
		types.SignalLastSeason: 0.35,
		types.SignalCareer:     0.25,
	}

	projections := CalculateWeightedProjections(result.Features, result.History, weights, testLog())
	require.Len(t, projections, 1)
	assert.Zero(t, projections[0].ProjGoalsPerGame)
	assert.Zero(t, projections[0].ProjAssistsPerGame)
}

func TestBuildSignals_Last20TrailsHistory(t *testing.T) {
	historical := make([]types.ParsedStatRow, 30)
	for i := range historical {
		historical[i] = types.ParsedStatRow{Goals60: float64(i)}
	}

	signals := buildSignals(nil, historical, types.StatLine{},
		func(r types.ParsedStatRow) float64 { return r.Goals60 })

	require.True(t, signals.Last20.Valid)
	// Mean of values 10..29.
	assert.InDelta(t, 19.5, signals.Last20.Value, 1e-9)
	assert.InDelta(t, 29.0, signals.LastSeason.Value, 1e-9)
	assert.InDelta(t, 14.5, signals.Career.Value, 1e-9)
	assert.False(t, signals.CurrentSeason.Valid)
	assert.False(t, signals.Rolling5.Valid)
}

func TestSignalSet_Get(t *testing.T) {
	s := types.SignalSet{Career: types.Signal{Value: 7, Valid: true}}

	assert.Equal(t, types.Signal{Value: 7, Valid: true}, s.Get(types.SignalCareer))
	assert.False(t, s.Get(types.SignalCurrentSeason).Valid)
	assert.False(t, s.Get(types.SignalName("unknown")).Valid)
}
