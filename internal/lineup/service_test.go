package lineup

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/puckcap/internal/config"
	"github.com/stitts-dev/puckcap/internal/types"
)

type stubStore struct {
	stats     types.RawStatTable
	salaries  []types.SalaryRow
	injuries  []types.InjuryRow
	standings []types.StandingRow
	games     []types.GameRow
}

func (s *stubStore) PlayerStats(ctx context.Context) (types.RawStatTable, error) {
	return s.stats, nil
}
func (s *stubStore) Salaries(ctx context.Context) ([]types.SalaryRow, error) {
	return s.salaries, nil
}
func (s *stubStore) ActiveInjuries(ctx context.Context) ([]types.InjuryRow, error) {
	return s.injuries, nil
}
func (s *stubStore) Standings(ctx context.Context) ([]types.StandingRow, error) {
	return s.standings, nil
}
func (s *stubStore) SeasonGames(ctx context.Context) ([]types.GameRow, error) {
	return s.games, nil
}

type recordingCache struct {
	stored map[string]*types.LineupSolution
	gets   int
	sets   int
}

func (c *recordingCache) GetLineup(ctx context.Context, key string) (*types.LineupSolution, error) {
	c.gets++
	return c.stored[key], nil
}

func (c *recordingCache) SetLineup(ctx context.Context, key string, solution *types.LineupSolution, ttl time.Duration) error {
	c.sets++
	if c.stored == nil {
		c.stored = make(map[string]*types.LineupSolution)
	}
	c.stored[key] = solution
	return nil
}

var testToday = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		SeasonStart: time.Date(2024, time.October, 4, 0, 0, 0, 0, time.UTC),
		SeasonYear:  2025,
		TeamAbbreviations: map[string]string{
			"Toronto Maple Leafs": "TOR",
			"Boston Bruins":       "BOS",
		},
		League: config.LeagueConfig{
			AvgShutoutFreq: 0.05,
			AvgOTLossFreq:  0.1,
		},
	}
}

func testSettings() types.LeagueSettings {
	return types.LeagueSettings{
		MaxSalaryCap:    20,
		MinSalaryCapPct: 0,
		NumForwards:     2,
		NumDefense:      1,
		NumGoalies:      1,
		PointsGoal:      2,
		PointsAssist:    1,
		PointsGoalieWin: 2,
		PointsShutout:   2,
		PointsOTLoss:    1,
	}
}

func fixtureStore() *stubStore {
	mkRows := func(playerID int64, team, position string, goals float64) []types.RawStatRow {
		dates := []string{"2025-01-02", "2025-01-04", "2025-01-06", "2025-01-08", "2025-01-10"}
		rows := make([]types.RawStatRow, len(dates))
		for i, d := range dates {
			rows[i] = types.RawStatRow{
				PlayerID:   playerID,
				Name:       "Player",
				Team:       team,
				Position:   position,
				Date:       d,
				TOIPerGame: 18,
				Goals60:    goals,
				Assists60:  goals / 2,
			}
		}
		return rows
	}

	var rows []types.RawStatRow
	rows = append(rows, mkRows(1, "TOR", types.PositionForward, 2.0)...)
	rows = append(rows, mkRows(2, "BOS", types.PositionForward, 1.5)...)
	rows = append(rows, mkRows(3, "TOR", types.PositionForward, 1.0)...)
	rows = append(rows, mkRows(4, "BOS", types.PositionDefense, 0.8)...)
	rows = append(rows, mkRows(5, "TOR", types.PositionDefense, 0.5)...)

	return &stubStore{
		stats: types.RawStatTable{Columns: types.RequiredStatColumns, Rows: rows},
		salaries: []types.SalaryRow{
			{PlayerID: 1, Team: "TOR", Salary: 8},
			{PlayerID: 2, Team: "BOS", Salary: 6},
			{PlayerID: 3, Team: "TOR", Salary: 4},
			{PlayerID: 4, Team: "BOS", Salary: 5},
			{PlayerID: 5, Team: "TOR", Salary: 3},
		},
		standings: []types.StandingRow{
			{Team: "TOR", PointsPercentage: 0.5},
			{Team: "BOS", PointsPercentage: 0.25},
		},
		games: []types.GameRow{
			{Date: testToday.AddDate(0, 0, 1), Visitor: "Toronto Maple Leafs", Home: "Boston Bruins"},
			{Date: testToday.AddDate(0, 0, 3), Visitor: "Boston Bruins", Home: "Toronto Maple Leafs"},
			{Date: testToday.AddDate(0, 0, 5), Visitor: "Toronto Maple Leafs", Home: "Boston Bruins"},
		},
	}
}

func newTestService(store Store, cache Cache) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(store, cache, testConfig(), logger)
	svc.now = func() time.Time { return testToday }
	return svc
}

func TestServiceOptimize_EndToEnd(t *testing.T) {
	svc := newTestService(fixtureStore(), nil)

	solution, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	require.NoError(t, err)

	assert.Len(t, solution.Forwards, 2)
	assert.Len(t, solution.Defense, 1)
	assert.Len(t, solution.Goalies, 1)
	assert.True(t, solution.Goalies[0].PseudoGoalie)
	assert.LessOrEqual(t, solution.TotalSalary, 20.0)
	assert.Greater(t, solution.TotalPoints, 0.0)

	for _, c := range solution.Players() {
		if !c.PseudoGoalie {
			assert.Greater(t, c.Salary, 0.0)
		}
	}
}

func TestServiceOptimize_InjuredPlayerContributesNothing(t *testing.T) {
	store := fixtureStore()
	store.injuries = []types.InjuryRow{{PlayerID: 1, Active: true}}
	svc := newTestService(store, nil)

	solution, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	require.NoError(t, err)

	for _, c := range solution.Players() {
		if c.PlayerID == 1 {
			assert.Zero(t, c.ProjectedPoints)
		}
	}
}

func TestServiceOptimize_ForceAndExclude(t *testing.T) {
	svc := newTestService(fixtureStore(), nil)

	solution, err := svc.Optimize(context.Background(), testSettings(), []int64{1}, []int64{3})
	require.NoError(t, err)

	ids := make(map[int64]bool)
	for _, c := range solution.Players() {
		ids[c.PlayerID] = true
	}
	assert.False(t, ids[1], "excluded player must not be rostered")
	assert.True(t, ids[3], "forced player must be rostered")
}

func TestServiceOptimize_UnknownForceID(t *testing.T) {
	svc := newTestService(fixtureStore(), nil)

	_, err := svc.Optimize(context.Background(), testSettings(), nil, []int64{999})
	assert.ErrorIs(t, err, types.ErrUnresolvedReference)
}

func TestServiceOptimize_NoStats(t *testing.T) {
	store := fixtureStore()
	store.stats = types.RawStatTable{Columns: types.RequiredStatColumns}
	svc := newTestService(store, nil)

	_, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestServiceOptimize_SameDayGamesStillScheduled(t *testing.T) {
	// The only remaining game is tonight; the midday clock must not turn
	// that into a no-games failure.
	store := fixtureStore()
	store.games = []types.GameRow{
		{
			Date:    time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
			Visitor: "Toronto Maple Leafs",
			Home:    "Boston Bruins",
		},
	}
	svc := newTestService(store, nil)

	solution, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, solution.Players(), 4)
}

func TestServiceOptimize_NoScheduledGames(t *testing.T) {
	store := fixtureStore()
	store.games = nil
	svc := newTestService(store, nil)

	_, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	assert.ErrorIs(t, err, types.ErrNoScheduledGames)
}

func TestServiceOptimize_CacheRoundTrip(t *testing.T) {
	cache := &recordingCache{}
	svc := newTestService(fixtureStore(), cache)

	first, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Optimize(context.Background(), testSettings(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second request must be served from cache")
	assert.Equal(t, first, second)
}

func TestServiceCacheKey(t *testing.T) {
	svc := newTestService(fixtureStore(), nil)
	settings := testSettings()

	base := svc.cacheKey(settings, nil, nil, testToday)

	// Force/exclude order must not matter.
	assert.Equal(t,
		svc.cacheKey(settings, []int64{2, 1}, nil, testToday),
		svc.cacheKey(settings, []int64{1, 2}, nil, testToday))

	// Different overrides, settings or date each produce a different key.
	assert.NotEqual(t, base, svc.cacheKey(settings, []int64{1}, nil, testToday))
	changed := settings
	changed.MaxSalaryCap = 99
	assert.NotEqual(t, base, svc.cacheKey(changed, nil, nil, testToday))
	assert.NotEqual(t, base, svc.cacheKey(settings, nil, nil, testToday.AddDate(0, 0, 1)))
}
