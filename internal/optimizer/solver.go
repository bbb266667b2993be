package optimizer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// intTol is the integrality tolerance on relaxation solutions.
	intTol = 1e-6
	// boundTol absorbs floating-point noise in constraint residuals.
	boundTol = 1e-9
)

var errNoSolution = errors.New("no integral solution")

// row is one linear constraint over the binary decision variables, stored
// sparsely as variable index -> coefficient.
type row struct {
	coefs map[int]float64
	rhs   float64
}

// program is a 0/1 integer linear program: maximize obj subject to the
// equality and inequality rows, every variable binary.
type program struct {
	obj []float64
	eq  []row
	le  []row
	ge  []row
}

func (p *program) addEq(coefs map[int]float64, rhs float64) {
	p.eq = append(p.eq, row{coefs: coefs, rhs: rhs})
}

func (p *program) addLe(coefs map[int]float64, rhs float64) {
	p.le = append(p.le, row{coefs: coefs, rhs: rhs})
}

func (p *program) addGe(coefs map[int]float64, rhs float64) {
	p.ge = append(p.ge, row{coefs: coefs, rhs: rhs})
}

// solve maximizes the program by branch-and-bound on the LP relaxation.
// The search is deterministic: at each node the lowest-index fractional
// variable is branched on, fix-to-one explored first, and a node is pruned
// when its relaxation bound cannot beat the incumbent. Variables listed in
// initial are pinned before the search starts.
func (p *program) solve(initial map[int]float64) ([]float64, float64, error) {
	bestObj := math.Inf(-1)
	var bestX []float64
	nodes := 0

	var visit func(fixed map[int]float64) error
	visit = func(fixed map[int]float64) error {
		nodes++
		x, obj, err := p.solveRelaxation(fixed)
		if err != nil {
			if errors.Is(err, lp.ErrInfeasible) {
				return nil
			}
			return fmt.Errorf("lp relaxation failed: %w", err)
		}
		if obj <= bestObj+intTol {
			return nil
		}

		branch := -1
		for i, v := range x {
			if math.Abs(v-math.Round(v)) > intTol {
				branch = i
				break
			}
		}
		if branch < 0 {
			bestObj = obj
			bestX = x
			return nil
		}

		for _, v := range []float64{1, 0} {
			child := make(map[int]float64, len(fixed)+1)
			for k, kv := range fixed {
				child[k] = kv
			}
			child[branch] = v
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(initial); err != nil {
		return nil, 0, err
	}
	if bestX == nil {
		return nil, 0, errNoSolution
	}

	// Snap to exact binaries before handing the solution back.
	for i, v := range bestX {
		bestX[i] = math.Round(v)
	}
	return bestX, bestObj, nil
}

// solveRelaxation solves the LP relaxation with the given variables fixed.
// The relaxation is assembled in standard form (equalities over nonnegative
// variables, one slack per inequality and per x<=1 bound) and handed to
// gonum's simplex. It returns the full-length solution vector and the
// objective value of the original maximization.
func (p *program) solveRelaxation(fixed map[int]float64) ([]float64, float64, error) {
	n := len(p.obj)
	free := make([]int, 0, n)
	col := make(map[int]int, n)
	for i := 0; i < n; i++ {
		if _, ok := fixed[i]; !ok {
			col[i] = len(free)
			free = append(free, i)
		}
	}
	nf := len(free)

	type stdRow struct {
		coefs []float64
		slack float64 // +1 for <=, -1 for >=, 0 for equality
		rhs   float64
	}
	rows := make([]stdRow, 0, nf+len(p.eq)+len(p.le)+len(p.ge))

	// appendRow substitutes fixed variables into a constraint. Rows left
	// with no free variables are checked directly; an unsatisfiable one
	// makes the whole node infeasible.
	appendRow := func(r row, slack float64) bool {
		sr := stdRow{coefs: make([]float64, nf), slack: slack}
		residual := r.rhs
		empty := true
		for idx, c := range r.coefs {
			if v, ok := fixed[idx]; ok {
				residual -= c * v
				continue
			}
			sr.coefs[col[idx]] = c
			empty = false
		}
		sr.rhs = residual
		if empty {
			switch {
			case slack > 0:
				return residual >= -boundTol
			case slack < 0:
				return residual <= boundTol
			default:
				return math.Abs(residual) <= boundTol
			}
		}
		rows = append(rows, sr)
		return true
	}

	for _, r := range p.eq {
		if !appendRow(r, 0) {
			return nil, 0, lp.ErrInfeasible
		}
	}
	for _, r := range p.le {
		if !appendRow(r, 1) {
			return nil, 0, lp.ErrInfeasible
		}
	}
	for _, r := range p.ge {
		if !appendRow(r, -1) {
			return nil, 0, lp.ErrInfeasible
		}
	}

	x := make([]float64, n)
	for i, v := range fixed {
		x[i] = v
	}

	if nf == 0 {
		// Everything pinned; the residual checks above already validated
		// feasibility.
		return x, p.objective(x), nil
	}

	// Upper bound x_j <= 1 for every free variable.
	for j := 0; j < nf; j++ {
		sr := stdRow{coefs: make([]float64, nf), slack: 1, rhs: 1}
		sr.coefs[j] = 1
		rows = append(rows, sr)
	}

	m := len(rows)
	slackCount := 0
	for _, r := range rows {
		if r.slack != 0 {
			slackCount++
		}
	}
	cols := nf + slackCount

	a := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	c := make([]float64, cols)
	for j, idx := range free {
		c[j] = -p.obj[idx] // simplex minimizes
	}

	slackCol := nf
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for j, v := range r.coefs {
			if v != 0 {
				a.Set(i, j, sign*v)
			}
		}
		if r.slack != 0 {
			a.Set(i, slackCol, sign*r.slack)
			slackCol++
		}
		b[i] = sign * r.rhs
	}

	_, xStd, err := lp.Simplex(c, a, b, 1e-10, nil)
	if err != nil {
		return nil, 0, err
	}

	for j, idx := range free {
		x[idx] = xStd[j]
	}
	return x, p.objective(x), nil
}

func (p *program) objective(x []float64) float64 {
	total := 0.0
	for i, v := range x {
		total += p.obj[i] * v
	}
	return total
}
