package projections

import (
	"fmt"
	"sort"

	"github.com/stitts-dev/puckcap/internal/types"
)

// GoalieParams are the tunable constants of the goaltending estimator.
type GoalieParams struct {
	WinPoints      float64
	ShutoutBonus   float64
	OTLossPoints   float64
	AvgShutoutFreq float64
	AvgOTLossFreq  float64
}

// EstimateTeamGoaltending synthesizes one zero-cost goaltending candidate
// per team with a schedule multiplier. Expected wins scale inversely with
// the multiplier: a tough schedule means fewer wins. Shutout and
// overtime-loss contributions come from league-wide frequencies.
func EstimateTeamGoaltending(info types.ScheduleInfo, params GoalieParams) []types.Candidate {
	teams := make([]string, 0, len(info.Multipliers))
	for team := range info.Multipliers {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	candidates := make([]types.Candidate, 0, len(teams))
	for _, team := range teams {
		multiplier := info.Multipliers[team]
		games := info.GamesThisPeriod[team]

		projectedWins := 0.0
		if multiplier > 0 {
			projectedWins = float64(games) / multiplier
		}
		projectedShutouts := float64(games) * params.AvgShutoutFreq

		totalPoints := projectedWins*params.WinPoints +
			projectedShutouts*params.ShutoutBonus +
			params.AvgOTLossFreq*params.OTLossPoints

		candidates = append(candidates, types.Candidate{
			Name:            fmt.Sprintf("%s Goaltending", team),
			Team:            team,
			Position:        types.PositionGoalie,
			ProjectedPoints: totalPoints,
			Salary:          0, // goalie pseudo-players never count against the cap
			GamesThisPeriod: games,
			PseudoGoalie:    true,
		})
	}

	return candidates
}
