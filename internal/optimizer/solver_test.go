package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramSolve_Knapsack(t *testing.T) {
	// maximize 5a + 4b + 3c subject to 2a + 3b + c <= 2.
	// The LP relaxation puts half of a in the basket; the integral optimum
	// takes a alone.
	p := &program{obj: []float64{5, 4, 3}}
	p.addLe(map[int]float64{0: 2, 1: 3, 2: 1}, 2)

	x, obj, err := p.solve(nil)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, obj, 1e-6)
	assert.Equal(t, []float64{1, 0, 0}, x)
}

func TestProgramSolve_EqualityConstraint(t *testing.T) {
	// Pick exactly two of three; the top-valued pair wins.
	p := &program{obj: []float64{10, 1, 7}}
	p.addEq(map[int]float64{0: 1, 1: 1, 2: 1}, 2)

	x, obj, err := p.solve(nil)
	require.NoError(t, err)

	assert.InDelta(t, 17.0, obj, 1e-6)
	assert.Equal(t, []float64{1, 0, 1}, x)
}

func TestProgramSolve_Infeasible(t *testing.T) {
	// Two binary variables cannot sum to five.
	p := &program{obj: []float64{1, 1}}
	p.addEq(map[int]float64{0: 1, 1: 1}, 5)

	_, _, err := p.solve(nil)
	assert.ErrorIs(t, err, errNoSolution)
}

func TestProgramSolve_PinnedVariables(t *testing.T) {
	p := &program{obj: []float64{5, 4, 3}}
	p.addLe(map[int]float64{0: 2, 1: 3, 2: 1}, 3)

	t.Run("exclusion shifts the optimum", func(t *testing.T) {
		x, obj, err := p.solve(map[int]float64{0: 0})
		require.NoError(t, err)
		assert.Zero(t, x[0])
		assert.InDelta(t, 4.0, obj, 1e-6)
	})

	t.Run("forced variable stays selected", func(t *testing.T) {
		x, obj, err := p.solve(map[int]float64{1: 1})
		require.NoError(t, err)
		assert.Equal(t, 1.0, x[1])
		// b fills the constraint on its own; nothing else fits.
		assert.InDelta(t, 4.0, obj, 1e-6)
	})

	t.Run("pin conflicting with constraints is infeasible", func(t *testing.T) {
		q := &program{obj: []float64{1, 1}}
		q.addLe(map[int]float64{0: 1, 1: 1}, 1)
		q.addGe(map[int]float64{0: 1, 1: 1}, 2)

		_, _, err := q.solve(nil)
		assert.ErrorIs(t, err, errNoSolution)
	})
}

func TestProgramSolve_AllVariablesPinned(t *testing.T) {
	p := &program{obj: []float64{3, 2}}
	p.addLe(map[int]float64{0: 1, 1: 1}, 2)

	x, obj, err := p.solve(map[int]float64{0: 1, 1: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, x)
	assert.InDelta(t, 5.0, obj, 1e-6)
}

func TestProgramSolve_GreaterEqual(t *testing.T) {
	// Minimizing flavor through the objective: cheap variable must still be
	// taken to satisfy the floor.
	p := &program{obj: []float64{-2, -1}}
	p.addGe(map[int]float64{0: 1, 1: 1}, 1)

	x, obj, err := p.solve(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, x)
	assert.InDelta(t, -1.0, obj, 1e-6)
}
