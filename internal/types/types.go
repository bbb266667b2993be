package types

import "time"

// Position codes used throughout the pipeline.
const (
	PositionForward = "F"
	PositionDefense = "D"
	PositionGoalie  = "G"
)

// RequiredStatColumns is the set of feed columns the feature builder needs.
// Feeds missing any of these cannot produce projections.
var RequiredStatColumns = []string{
	"Date", "Player", "Team", "Goals/60", "Total Assists/60",
	"Shots/60", "ixG/60", "TOI/GP",
}

// RawStatRow is one per-date per-player observation of rate statistics.
// Date is kept in the feed's raw form; some feeds report a season code
// instead of a calendar date and coercion happens in the feature builder.
type RawStatRow struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	Date     string  `json:"date"`

	TOIPerGame      float64 `json:"toi_per_game"`
	Goals60         float64 `json:"goals_per_60"`
	Assists60       float64 `json:"assists_per_60"`
	Shots60         float64 `json:"shots_per_60"`
	ExpectedGoals60 float64 `json:"ixg_per_60"`
}

// RawStatTable carries the rows together with the column headers the
// upstream feed supplied, so the feature builder can validate presence.
type RawStatTable struct {
	Columns []string     `json:"columns"`
	Rows    []RawStatRow `json:"rows"`
}

// ParsedStatRow is a RawStatRow after date coercion.
type ParsedStatRow struct {
	PlayerID int64
	Name     string
	Team     string
	Position string
	Date     time.Time

	TOIPerGame      float64
	Goals60         float64
	Assists60       float64
	Shots60         float64
	ExpectedGoals60 float64
}

// StatHistory holds every successfully parsed row partitioned at the season
// start, grouped per player and sorted by date ascending. Historical rows
// feed the last-season/career/last-20 signals; current rows feed the
// current-season mean and the rolling windows.
type StatHistory struct {
	Current    map[int64][]ParsedStatRow
	Historical map[int64][]ParsedStatRow
}

// StatLine is the latest observation of a statistic plus its trailing
// rolling averages over the last 5 and 10 dated observations.
type StatLine struct {
	Latest    float64 `json:"latest"`
	Rolling5  float64 `json:"rolling_5"`
	Rolling10 float64 `json:"rolling_10"`
}

// PlayerFeatureRow is one row per player with current-season features.
// Players without current-season observations never get a row.
type PlayerFeatureRow struct {
	PlayerID    int64     `json:"player_id"`
	Name        string    `json:"name"`
	Team        string    `json:"team"`
	Position    string    `json:"position"`
	LastDate    time.Time `json:"last_date"`
	GamesPlayed int       `json:"games_played"`

	TOIPerGame      StatLine `json:"toi_per_game"`
	Goals60         StatLine `json:"goals_per_60"`
	Assists60       StatLine `json:"assists_per_60"`
	Shots60         StatLine `json:"shots_per_60"`
	ExpectedGoals60 StatLine `json:"ixg_per_60"`
}

// SignalName identifies one blendable projection signal.
type SignalName string

const (
	SignalCurrentSeason SignalName = "current_season"
	SignalRolling5      SignalName = "rolling_5"
	SignalRolling10     SignalName = "rolling_10"
	SignalLastSeason    SignalName = "last_season"
	SignalCareer        SignalName = "career"
	SignalLast20        SignalName = "last_20_games"
)

// ProjectionWeights maps signal names to blend coefficients. Each season
// phase populates a disjoint subset of the vocabulary.
type ProjectionWeights map[SignalName]float64

// Signal is a tagged optional: a per-player signal value that may be absent
// when the player has no observations backing it. Absence is a typed fact,
// never inferred from control flow.
type Signal struct {
	Value float64
	Valid bool
}

// SignalSet holds every signal for one player and one statistic, computed
// unconditionally regardless of which weights are in play.
type SignalSet struct {
	CurrentSeason Signal
	Rolling5      Signal
	Rolling10     Signal
	LastSeason    Signal
	Career        Signal
	Last20        Signal
}

// Get returns the signal for a name; unknown names are invalid signals.
func (s SignalSet) Get(name SignalName) Signal {
	switch name {
	case SignalCurrentSeason:
		return s.CurrentSeason
	case SignalRolling5:
		return s.Rolling5
	case SignalRolling10:
		return s.Rolling10
	case SignalLastSeason:
		return s.LastSeason
	case SignalCareer:
		return s.Career
	case SignalLast20:
		return s.Last20
	}
	return Signal{}
}

// PlayerProjection is the per-player per-game projection, later scaled by
// schedule volume and strength into final fantasy points.
type PlayerProjection struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`

	TOIPerGame         float64 `json:"toi_per_game"`
	ProjGoalsPerGame   float64 `json:"proj_goals_per_game"`
	ProjAssistsPerGame float64 `json:"proj_assists_per_game"`
	GamesThisPeriod    int     `json:"games_this_period"`
	Multiplier         float64 `json:"schedule_multiplier"`
	ProjFantasyPoints  float64 `json:"proj_fantasy_pts"`
}

// ScheduleInfo maps team abbreviations to remaining games this scoring
// period and the standings-derived strength multiplier. Teams absent from
// either map are excluded downstream, never defaulted.
type ScheduleInfo struct {
	GamesThisPeriod map[string]int
	Multipliers     map[string]float64
}

// TotalGames returns the number of games remaining league-wide.
func (s ScheduleInfo) TotalGames() int {
	total := 0
	for _, n := range s.GamesThisPeriod {
		total += n
	}
	return total
}

// GameRow is one scheduled game with full team names as the league
// publishes them.
type GameRow struct {
	Date    time.Time `json:"date"`
	Visitor string    `json:"visitor"`
	Home    string    `json:"home"`
}

// StandingRow is one team's standings entry keyed by abbreviation.
type StandingRow struct {
	Team             string  `json:"team"`
	PointsPercentage float64 `json:"points_percentage"`
}

// SalaryRow is one player's cap cost keyed by (player, team).
type SalaryRow struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	Salary   float64 `json:"salary"`
}

// InjuryRow is one injury record; only active records zero a projection.
type InjuryRow struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Status   string `json:"status"`
	Active   bool   `json:"active"`
}

// Candidate is the unit the optimizer selects over: a priced, projected
// player or a synthetic per-team goaltending entry. Candidates live only
// within one optimization call.
type Candidate struct {
	PlayerID        int64   `json:"player_id"`
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	Position        string  `json:"position"`
	ProjectedPoints float64 `json:"projected_points"`
	Salary          float64 `json:"salary"`
	GamesThisPeriod int     `json:"games_this_period"`
	Injured         bool    `json:"injured"`
	PseudoGoalie    bool    `json:"pseudo_goalie"`
}

// RosterConstraints bound the integer program. Position counts are exact,
// not upper bounds. Zero-valued per-team position caps are unset.
type RosterConstraints struct {
	MinCost            float64
	MaxCost            float64
	NumForwards        int
	NumDefense         int
	NumGoalies         int
	MaxPlayersPerTeam  int
	MaxDefensePerTeam  int
	MaxForwardsPerTeam int
	ForceIDs           []int64
	ExcludeIDs         []int64
}

// LineupSolution is the solved roster partitioned by position.
type LineupSolution struct {
	Forwards    []Candidate `json:"forwards"`
	Defense     []Candidate `json:"defense"`
	Goalies     []Candidate `json:"goalies"`
	TotalPoints float64     `json:"total_points"`
	TotalSalary float64     `json:"total_salary"`
}

// Players returns every selected candidate across positions.
func (l *LineupSolution) Players() []Candidate {
	out := make([]Candidate, 0, len(l.Forwards)+len(l.Defense)+len(l.Goalies))
	out = append(out, l.Forwards...)
	out = append(out, l.Defense...)
	out = append(out, l.Goalies...)
	return out
}

// LeagueSettings is the caller-supplied league configuration.
type LeagueSettings struct {
	MaxSalaryCap       float64 `json:"max_salary_cap" binding:"required"`
	MinSalaryCapPct    float64 `json:"min_salary_cap_pct"`
	NumForwards        int     `json:"num_forwards" binding:"required"`
	NumDefense         int     `json:"num_defense" binding:"required"`
	NumGoalies         int     `json:"num_goalies"`
	MaxPlayersPerTeam  int     `json:"max_players_per_team"`
	MaxDefensePerTeam  int     `json:"max_defense_per_team"`
	MaxForwardsPerTeam int     `json:"max_forwards_per_team"`
	PointsGoal         float64 `json:"points_goal"`
	PointsAssist       float64 `json:"points_assist"`
	PointsGoalieWin    float64 `json:"points_goalie_win"`
	PointsShutout      float64 `json:"points_shutout"`
	PointsOTLoss       float64 `json:"points_ot_loss"`
}

// Constraints derives the optimizer constraints from the settings plus the
// caller's force/exclude overrides.
func (s LeagueSettings) Constraints(excludeIDs, forceIDs []int64) RosterConstraints {
	return RosterConstraints{
		MinCost:            s.MaxSalaryCap * s.MinSalaryCapPct,
		MaxCost:            s.MaxSalaryCap,
		NumForwards:        s.NumForwards,
		NumDefense:         s.NumDefense,
		NumGoalies:         s.NumGoalies,
		MaxPlayersPerTeam:  s.MaxPlayersPerTeam,
		MaxDefensePerTeam:  s.MaxDefensePerTeam,
		MaxForwardsPerTeam: s.MaxForwardsPerTeam,
		ForceIDs:           forceIDs,
		ExcludeIDs:         excludeIDs,
	}
}
