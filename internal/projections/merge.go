package projections

import (
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

type salaryKey struct {
	playerID int64
	team     string
}

// MergeCandidates joins the schedule-adjusted projections against injuries
// and salaries and appends the goaltending pseudo-candidates. Injured
// players stay in the pool with projected points forced to exactly zero so
// the optimizer avoids them without a hard exclusion. Skaters without a
// resolvable salary are dropped: the optimizer cannot price them.
func MergeCandidates(
	projections []types.PlayerProjection,
	injuries []types.InjuryRow,
	salaries []types.SalaryRow,
	goalies []types.Candidate,
	log *logrus.Entry,
) []types.Candidate {
	injured := make(map[int64]bool, len(injuries))
	for _, inj := range injuries {
		if inj.Active {
			injured[inj.PlayerID] = true
		}
	}

	salaryByKey := make(map[salaryKey]float64, len(salaries))
	for _, s := range salaries {
		salaryByKey[salaryKey{playerID: s.PlayerID, team: s.Team}] = s.Salary
	}

	candidates := make([]types.Candidate, 0, len(projections)+len(goalies))
	unpriced := 0
	zeroed := 0

	for _, p := range projections {
		salary, ok := salaryByKey[salaryKey{playerID: p.PlayerID, team: p.Team}]
		if !ok {
			unpriced++
			continue
		}

		points := p.ProjFantasyPoints
		isInjured := injured[p.PlayerID]
		if isInjured {
			points = 0
			zeroed++
		}

		candidates = append(candidates, types.Candidate{
			PlayerID:        p.PlayerID,
			Name:            p.Name,
			Team:            p.Team,
			Position:        p.Position,
			ProjectedPoints: points,
			Salary:          salary,
			GamesThisPeriod: p.GamesThisPeriod,
			Injured:         isInjured,
		})
	}

	candidates = append(candidates, goalies...)

	log.WithFields(logrus.Fields{
		"candidates":      len(candidates),
		"unpriced_count":  unpriced,
		"injured_zeroed":  zeroed,
		"goalie_entries":  len(goalies),
	}).Debug("Candidate pool merged")

	return candidates
}
