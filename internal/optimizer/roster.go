package optimizer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

var positionRank = map[string]int{
	types.PositionForward: 0,
	types.PositionDefense: 1,
	types.PositionGoalie:  2,
}

// Solve formulates the roster selection as a 0/1 integer program and
// maximizes total projected points under the cap, position-count and
// per-team constraints. Candidates are ordered (position, player id, name)
// before the solve, which together with the deterministic branch-and-bound
// search makes repeated solves on the same pool return the same roster.
// Returns ErrInfeasibleRoster when no legal roster exists, never a partial
// one.
func Solve(pool []types.Candidate, cons types.RosterConstraints, log *logrus.Entry) (*types.LineupSolution, error) {
	started := time.Now()

	cands := make([]types.Candidate, len(pool))
	copy(cands, pool)
	sort.SliceStable(cands, func(i, j int) bool {
		if positionRank[cands[i].Position] != positionRank[cands[j].Position] {
			return positionRank[cands[i].Position] < positionRank[cands[j].Position]
		}
		if cands[i].PlayerID != cands[j].PlayerID {
			return cands[i].PlayerID < cands[j].PlayerID
		}
		return cands[i].Name < cands[j].Name
	})

	pinned, err := resolvePins(cands, cons)
	if err != nil {
		return nil, err
	}

	prog := buildProgram(cands, cons)

	x, objective, err := prog.solve(pinned)
	if err != nil {
		if errors.Is(err, errNoSolution) {
			return nil, fmt.Errorf("%w: pool of %d candidates", types.ErrInfeasibleRoster, len(cands))
		}
		return nil, fmt.Errorf("roster solve failed: %w", err)
	}

	selected := make([]types.Candidate, 0, cons.NumForwards+cons.NumDefense+cons.NumGoalies)
	for i, v := range x {
		if v > 0.5 {
			selected = append(selected, cands[i])
		}
	}

	solution := Assemble(selected)

	log.WithFields(logrus.Fields{
		"pool_size":     len(cands),
		"selected":      len(selected),
		"total_points":  solution.TotalPoints,
		"total_salary":  solution.TotalSalary,
		"objective":     objective,
		"solve_time_ms": time.Since(started).Milliseconds(),
	}).Info("Roster optimization completed")

	return solution, nil
}

// resolvePins maps the force/exclude id lists onto candidate indices. Any
// referenced id missing from the pool is an error: a silent no-op would
// make typos unobservable. An id on both lists is a contradiction, reported
// as infeasible.
func resolvePins(cands []types.Candidate, cons types.RosterConstraints) (map[int]float64, error) {
	byID := make(map[int64]int, len(cands))
	for i, c := range cands {
		if c.PlayerID != 0 {
			byID[c.PlayerID] = i
		}
	}

	var unresolved []int64
	pinned := make(map[int]float64)

	for _, id := range cons.ForceIDs {
		idx, ok := byID[id]
		if !ok {
			unresolved = append(unresolved, id)
			continue
		}
		pinned[idx] = 1
	}
	for _, id := range cons.ExcludeIDs {
		idx, ok := byID[id]
		if !ok {
			unresolved = append(unresolved, id)
			continue
		}
		if pinned[idx] == 1 {
			return nil, fmt.Errorf("%w: player %d is both forced and excluded", types.ErrInfeasibleRoster, id)
		}
		pinned[idx] = 0
	}

	if len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: ids %v", types.ErrUnresolvedReference, unresolved)
	}
	return pinned, nil
}

func buildProgram(cands []types.Candidate, cons types.RosterConstraints) *program {
	prog := &program{obj: make([]float64, len(cands))}

	salaryCoefs := make(map[int]float64, len(cands))
	positionCoefs := map[string]map[int]float64{
		types.PositionForward: {},
		types.PositionDefense: {},
		types.PositionGoalie:  {},
	}
	teamCoefs := make(map[string]map[int]float64)
	teamDefense := make(map[string]map[int]float64)
	teamForwards := make(map[string]map[int]float64)

	for i, c := range cands {
		prog.obj[i] = c.ProjectedPoints
		if c.Salary != 0 {
			salaryCoefs[i] = c.Salary
		}
		if coefs, ok := positionCoefs[c.Position]; ok {
			coefs[i] = 1
		}
		if teamCoefs[c.Team] == nil {
			teamCoefs[c.Team] = make(map[int]float64)
		}
		teamCoefs[c.Team][i] = 1

		switch c.Position {
		case types.PositionDefense:
			if teamDefense[c.Team] == nil {
				teamDefense[c.Team] = make(map[int]float64)
			}
			teamDefense[c.Team][i] = 1
		case types.PositionForward:
			if teamForwards[c.Team] == nil {
				teamForwards[c.Team] = make(map[int]float64)
			}
			teamForwards[c.Team][i] = 1
		}
	}

	prog.addLe(salaryCoefs, cons.MaxCost)
	prog.addGe(salaryCoefs, cons.MinCost)

	prog.addEq(positionCoefs[types.PositionForward], float64(cons.NumForwards))
	prog.addEq(positionCoefs[types.PositionDefense], float64(cons.NumDefense))
	prog.addEq(positionCoefs[types.PositionGoalie], float64(cons.NumGoalies))

	if cons.MaxPlayersPerTeam > 0 {
		for _, team := range sortedTeams(teamCoefs) {
			prog.addLe(teamCoefs[team], float64(cons.MaxPlayersPerTeam))
		}
	}
	if cons.MaxDefensePerTeam > 0 {
		for _, team := range sortedTeams(teamDefense) {
			prog.addLe(teamDefense[team], float64(cons.MaxDefensePerTeam))
		}
	}
	if cons.MaxForwardsPerTeam > 0 {
		for _, team := range sortedTeams(teamForwards) {
			prog.addLe(teamForwards[team], float64(cons.MaxForwardsPerTeam))
		}
	}

	return prog
}

func sortedTeams(byTeam map[string]map[int]float64) []string {
	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
