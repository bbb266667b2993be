package types

import "errors"

// Pipeline failure kinds. Stages wrap these with context; the API boundary
// maps them to response codes with errors.Is.
var (
	// ErrInsufficientData means a required feed was empty or missing
	// required columns, so no projections can be produced.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoScheduledGames means no team has games remaining this scoring
	// period, so there is nothing to optimize for.
	ErrNoScheduledGames = errors.New("no scheduled games this period")

	// ErrInfeasibleRoster means the constraints cannot be simultaneously
	// satisfied by any subset of the candidate pool.
	ErrInfeasibleRoster = errors.New("no feasible roster satisfies the constraints")

	// ErrUnresolvedReference means a forced or excluded player id does not
	// resolve to any candidate in the pool.
	ErrUnresolvedReference = errors.New("referenced player not in candidate pool")
)
