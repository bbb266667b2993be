package projections

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

// WeeklyGamesCount counts remaining games per team for the scoring week
// starting at weekStart. Comparisons run at date granularity: games already
// played (before today's date) are skipped, games later today still count.
// Full franchise names are mapped through the abbreviation table; games for
// unknown names are ignored.
func WeeklyGamesCount(games []types.GameRow, weekStart, today time.Time, abbreviations map[string]string) map[string]int {
	weekStart = startOfDay(weekStart)
	today = startOfDay(today)
	weekEnd := weekStart.AddDate(0, 0, 6)
	counts := make(map[string]int)

	for _, g := range games {
		if g.Date.Before(weekStart) || g.Date.After(weekEnd) || g.Date.Before(today) {
			continue
		}
		if abbr, ok := abbreviations[g.Visitor]; ok {
			counts[abbr]++
		}
		if abbr, ok := abbreviations[g.Home]; ok {
			counts[abbr]++
		}
	}

	return counts
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Multipliers derives the schedule-strength multiplier for every team with
// games remaining and a standings entry: 0.5 divided by the team's points
// percentage, so weaker opposition reads as denser scoring opportunity.
// Teams absent from the standings get no multiplier at all.
func Multipliers(standings []types.StandingRow, gamesCount map[string]int) map[string]float64 {
	pointsPct := make(map[string]float64, len(standings))
	for _, s := range standings {
		pointsPct[s.Team] = s.PointsPercentage
	}

	multipliers := make(map[string]float64)
	for team, count := range gamesCount {
		if count <= 0 {
			continue
		}
		pct, ok := pointsPct[team]
		if !ok || pct <= 0 {
			continue
		}
		multipliers[team] = 0.5 / pct
	}

	return multipliers
}

// AdjustForSchedule folds schedule volume and strength into the per-game
// projections, producing final projected fantasy points per player. Players
// on teams without schedule info are excluded from the pool entirely.
// Fails when no team has games remaining this period.
func AdjustForSchedule(
	projections []types.PlayerProjection,
	info types.ScheduleInfo,
	pointsGoal, pointsAssist float64,
	log *logrus.Entry,
) ([]types.PlayerProjection, error) {
	if info.TotalGames() == 0 {
		return nil, fmt.Errorf("%w: no remaining games this week", types.ErrNoScheduledGames)
	}

	adjusted := make([]types.PlayerProjection, 0, len(projections))
	excluded := 0

	for _, p := range projections {
		games, ok := info.GamesThisPeriod[p.Team]
		multiplier, okMult := info.Multipliers[p.Team]
		if !ok || !okMult {
			excluded++
			continue
		}

		p.GamesThisPeriod = games
		p.Multiplier = multiplier
		p.ProjFantasyPoints = (p.ProjGoalsPerGame*pointsGoal + p.ProjAssistsPerGame*pointsAssist) *
			float64(games) * multiplier
		adjusted = append(adjusted, p)
	}

	log.WithFields(logrus.Fields{
		"players_adjusted": len(adjusted),
		"players_excluded": excluded,
		"teams_with_games": len(info.GamesThisPeriod),
	}).Debug("Schedule adjustment applied")

	return adjusted, nil
}
