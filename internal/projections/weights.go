package projections

import (
	"time"

	"github.com/stitts-dev/puckcap/internal/types"
)

// WeightsForDate returns the projection blend for the given date relative
// to season start. Pure function: each season phase populates a disjoint
// subset of the signal vocabulary.
func WeightsForDate(today, seasonStart time.Time) types.ProjectionWeights {
	if today.Before(seasonStart) {
		return preseasonWeights()
	}
	weeks := int(today.Sub(seasonStart).Hours()/24) / 7
	if weeks < 4 {
		return earlySeasonWeights(weeks)
	}
	return midseasonWeights()
}

func preseasonWeights() types.ProjectionWeights {
	return types.ProjectionWeights{
		types.SignalLast20:     0.40,
		types.SignalLastSeason: 0.35,
		types.SignalCareer:     0.25,
	}
}

// earlySeasonWeights transitions from historical to current-season signals
// as sample size grows. The rolling windows are present but zeroed: too few
// games for a 5- or 10-game window to mean anything.
func earlySeasonWeights(weeks int) types.ProjectionWeights {
	currentWeight := float64(weeks) * 0.175
	if currentWeight > 0.70 {
		currentWeight = 0.70
	}
	historicalWeight := 1 - currentWeight

	return types.ProjectionWeights{
		types.SignalCurrentSeason: currentWeight,
		types.SignalRolling5:      0,
		types.SignalRolling10:     0,
		types.SignalLastSeason:    historicalWeight * 0.7,
		types.SignalCareer:        historicalWeight * 0.3,
	}
}

func midseasonWeights() types.ProjectionWeights {
	return types.ProjectionWeights{
		types.SignalCurrentSeason: 0.40,
		types.SignalRolling5:      0.30,
		types.SignalRolling10:     0.30,
	}
}
