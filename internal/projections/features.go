package projections

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

// FeatureResult is the feature builder output: one feature row per player
// with current-season observations, the parsed history backing the
// projection signals, and the count of rows dropped for unparseable dates.
type FeatureResult struct {
	Features    []types.PlayerFeatureRow
	History     *types.StatHistory
	DroppedRows int
}

// BuildFeatures turns the raw per-date stat table into one feature row per
// player: the most recent raw value of each tracked statistic plus its
// trailing 5- and 10-observation rolling averages. Only current-season rows
// feed the rolling windows; players with no current-season rows are absent
// from the output rather than zero-filled.
func BuildFeatures(table types.RawStatTable, seasonStart time.Time, log *logrus.Entry) (*FeatureResult, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: empty player statistics table", types.ErrInsufficientData)
	}
	if missing := missingColumns(table.Columns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %v", types.ErrInsufficientData, missing)
	}

	history := &types.StatHistory{
		Current:    make(map[int64][]types.ParsedStatRow),
		Historical: make(map[int64][]types.ParsedStatRow),
	}

	dropped := 0
	for _, raw := range table.Rows {
		date, ok := parseStatDate(raw.Date)
		if !ok {
			dropped++
			continue
		}
		row := types.ParsedStatRow{
			PlayerID:        raw.PlayerID,
			Name:            raw.Name,
			Team:            raw.Team,
			Position:        raw.Position,
			Date:            date,
			TOIPerGame:      raw.TOIPerGame,
			Goals60:         raw.Goals60,
			Assists60:       raw.Assists60,
			Shots60:         raw.Shots60,
			ExpectedGoals60: raw.ExpectedGoals60,
		}
		if !date.Before(seasonStart) {
			history.Current[raw.PlayerID] = append(history.Current[raw.PlayerID], row)
		} else {
			history.Historical[raw.PlayerID] = append(history.Historical[raw.PlayerID], row)
		}
	}
	if dropped > 0 {
		log.WithField("dropped_rows", dropped).Warn("Removed rows with invalid dates")
	}

	for _, rows := range history.Current {
		sortByDate(rows)
	}
	for _, rows := range history.Historical {
		sortByDate(rows)
	}

	features := make([]types.PlayerFeatureRow, 0, len(history.Current))
	for playerID, rows := range history.Current {
		features = append(features, buildPlayerFeatures(playerID, rows))
	}
	sort.Slice(features, func(i, j int) bool {
		return features[i].PlayerID < features[j].PlayerID
	})

	log.WithFields(logrus.Fields{
		"players_current":    len(history.Current),
		"players_historical": len(history.Historical),
		"dropped_rows":       dropped,
	}).Debug("Player features built")

	return &FeatureResult{Features: features, History: history, DroppedRows: dropped}, nil
}

func buildPlayerFeatures(playerID int64, rows []types.ParsedStatRow) types.PlayerFeatureRow {
	last := rows[len(rows)-1]
	feature := types.PlayerFeatureRow{
		PlayerID:    playerID,
		Name:        last.Name,
		Team:        last.Team,
		Position:    last.Position,
		LastDate:    last.Date,
		GamesPlayed: len(rows),
	}

	feature.TOIPerGame = statLine(rows, func(r types.ParsedStatRow) float64 { return r.TOIPerGame })
	feature.Goals60 = statLine(rows, func(r types.ParsedStatRow) float64 { return r.Goals60 })
	feature.Assists60 = statLine(rows, func(r types.ParsedStatRow) float64 { return r.Assists60 })
	feature.Shots60 = statLine(rows, func(r types.ParsedStatRow) float64 { return r.Shots60 })
	feature.ExpectedGoals60 = statLine(rows, func(r types.ParsedStatRow) float64 { return r.ExpectedGoals60 })

	return feature
}

func statLine(rows []types.ParsedStatRow, value func(types.ParsedStatRow) float64) types.StatLine {
	series := make([]float64, len(rows))
	for i, r := range rows {
		series[i] = value(r)
	}
	last := len(series) - 1
	return types.StatLine{
		Latest:    series[last],
		Rolling5:  rollingMean(series, 5)[last],
		Rolling10: rollingMean(series, 10)[last],
	}
}

// rollingMean computes the trailing mean over the last window observations,
// inclusive of the current one. The window shrinks at the start of the
// series instead of being undefined, so every index has a value backed by
// at least one observation.
func rollingMean(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

func sortByDate(rows []types.ParsedStatRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}

func missingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range types.RequiredStatColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// parseStatDate coerces a feed date into a calendar date. Feeds normally
// report ISO dates; some historical exports report an eight-digit season
// code, which collapses to January 1 of its leading year.
func parseStatDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if len(s) == 8 {
		if year, err := strconv.Atoi(s[:4]); err == nil {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
