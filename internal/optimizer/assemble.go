package optimizer

import "github.com/stitts-dev/puckcap/internal/types"

// Assemble partitions the selected candidates by position and computes the
// aggregate totals. No further business logic happens here.
func Assemble(selected []types.Candidate) *types.LineupSolution {
	solution := &types.LineupSolution{}

	for _, c := range selected {
		switch c.Position {
		case types.PositionForward:
			solution.Forwards = append(solution.Forwards, c)
		case types.PositionDefense:
			solution.Defense = append(solution.Defense, c)
		case types.PositionGoalie:
			solution.Goalies = append(solution.Goalies, c)
		}
		solution.TotalPoints += c.ProjectedPoints
		solution.TotalSalary += c.Salary
	}

	return solution
}
