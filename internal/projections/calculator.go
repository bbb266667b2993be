package projections

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/puckcap/internal/types"
)

// CalculateWeightedProjections blends the projection signals for the two
// scoring rate statistics into per-game goal and assist projections. Every
// signal is computed unconditionally into a tagged optional; a signal a
// player lacks contributes zero to the blend, with no renormalization of
// the remaining weights.
func CalculateWeightedProjections(
	features []types.PlayerFeatureRow,
	history *types.StatHistory,
	weights types.ProjectionWeights,
	log *logrus.Entry,
) []types.PlayerProjection {
	projections := make([]types.PlayerProjection, 0, len(features))

	for _, f := range features {
		current := history.Current[f.PlayerID]
		historical := history.Historical[f.PlayerID]

		goals := buildSignals(current, historical, f.Goals60,
			func(r types.ParsedStatRow) float64 { return r.Goals60 })
		assists := buildSignals(current, historical, f.Assists60,
			func(r types.ParsedStatRow) float64 { return r.Assists60 })

		toiFraction := f.TOIPerGame.Latest / 60

		projections = append(projections, types.PlayerProjection{
			PlayerID:           f.PlayerID,
			Name:               f.Name,
			Team:               f.Team,
			Position:           f.Position,
			TOIPerGame:         f.TOIPerGame.Latest,
			ProjGoalsPerGame:   blend(goals, weights) * toiFraction,
			ProjAssistsPerGame: blend(assists, weights) * toiFraction,
		})
	}

	log.WithFields(logrus.Fields{
		"players": len(projections),
		"signals": len(weights),
	}).Debug("Weighted projections calculated")

	return projections
}

// buildSignals computes the full signal set for one player and statistic.
// Rolling signals come from the feature row; the current-season mean from
// the current rows; last-season, career and trailing-20 from history.
func buildSignals(
	current, historical []types.ParsedStatRow,
	line types.StatLine,
	value func(types.ParsedStatRow) float64,
) types.SignalSet {
	var s types.SignalSet

	if len(current) > 0 {
		s.CurrentSeason = types.Signal{Value: meanOf(current, value), Valid: true}
		s.Rolling5 = types.Signal{Value: line.Rolling5, Valid: true}
		s.Rolling10 = types.Signal{Value: line.Rolling10, Valid: true}
	}
	if len(historical) > 0 {
		s.LastSeason = types.Signal{Value: value(historical[len(historical)-1]), Valid: true}
		s.Career = types.Signal{Value: meanOf(historical, value), Valid: true}

		tail := historical
		if len(tail) > 20 {
			tail = tail[len(tail)-20:]
		}
		s.Last20 = types.Signal{Value: meanOf(tail, value), Valid: true}
	}

	return s
}

func blend(signals types.SignalSet, weights types.ProjectionWeights) float64 {
	total := 0.0
	for name, weight := range weights {
		if sig := signals.Get(name); sig.Valid {
			total += weight * sig.Value
		}
	}
	return total
}

func meanOf(rows []types.ParsedStatRow, value func(types.ParsedStatRow) float64) float64 {
	series := make([]float64, len(rows))
	for i, r := range rows {
		series[i] = value(r)
	}
	return stat.Mean(series, nil)
}
