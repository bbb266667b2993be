package store

import "time"

// Player is a skater identity row; stats, salaries and injuries hang off it.
type Player struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"index"`
	Team     string
	Position string

	Stats    []PlayerStat   `gorm:"foreignKey:PlayerID"`
	Salaries []PlayerSalary `gorm:"foreignKey:PlayerID"`
	Injuries []PlayerInjury `gorm:"foreignKey:PlayerID"`
}

// PlayerStat is one per-date observation of per-60 rate statistics. The
// date is stored as the feed delivered it; coercion happens in the feature
// builder.
type PlayerStat struct {
	ID       int64 `gorm:"primaryKey"`
	PlayerID int64 `gorm:"index"`
	Date     string

	TOIPerGame      float64 `gorm:"column:toi_per_game"`
	Goals60         float64 `gorm:"column:goals_per_60"`
	Assists60       float64 `gorm:"column:assists_per_60"`
	Shots60         float64 `gorm:"column:shots_per_60"`
	ExpectedGoals60 float64 `gorm:"column:ixg_per_60"`
}

// PlayerSalary is a player's cap cost in millions.
type PlayerSalary struct {
	ID        int64 `gorm:"primaryKey"`
	PlayerID  int64 `gorm:"index"`
	Salary    float64
	UpdatedAt time.Time
}

// PlayerInjury is one injury record; only active records affect
// projections.
type PlayerInjury struct {
	ID             int64 `gorm:"primaryKey"`
	PlayerID       int64 `gorm:"index"`
	Status         string
	Description    string
	ExpectedReturn *time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TeamStanding is one team's standings entry keyed by abbreviation.
type TeamStanding struct {
	ID               int64  `gorm:"primaryKey"`
	Team             string `gorm:"uniqueIndex"`
	PointsPercentage float64
	UpdatedAt        time.Time
}

// Game is one scheduled game with full franchise names.
type Game struct {
	ID      int64 `gorm:"primaryKey"`
	Date    time.Time
	Visitor string
	Home    string
}

// LeagueSettingsRecord is the persisted league configuration.
type LeagueSettingsRecord struct {
	ID                 int64 `gorm:"primaryKey"`
	MaxSalaryCap       float64
	MinSalaryCapPct    float64
	NumForwards        int
	NumDefense         int
	NumGoalies         int
	MaxPlayersPerTeam  int
	MaxDefensePerTeam  int
	MaxForwardsPerTeam int
	PointsGoal         float64
	PointsAssist       float64
	PointsGoalieWin    float64
	PointsShutout      float64
	PointsOTLoss       float64
	UpdatedAt          time.Time
}

func (LeagueSettingsRecord) TableName() string { return "league_settings" }
