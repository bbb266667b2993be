package store

import (
	"context"
	"fmt"
	"time"

	"github.com/stitts-dev/puckcap/internal/types"
)

// statsWindow bounds the raw statistics fetch: the trailing year covers the
// current season plus enough history for the historical signals.
const statsWindow = 365 * 24 * time.Hour

// Provider serves the read-only tables the pipeline consumes. The core
// never writes through it; settings CRUD is the only mutation on this type.
type Provider struct {
	db *DB
}

// NewProvider creates a data provider over the database connection.
func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

// PlayerStats returns the trailing-year per-date stat rows joined with
// player identity, together with the canonical column headers.
func (p *Provider) PlayerStats(ctx context.Context) (types.RawStatTable, error) {
	cutoff := time.Now().Add(-statsWindow).Format("2006-01-02")

	var rows []types.RawStatRow
	err := p.db.WithContext(ctx).
		Table("player_stats").
		Select(`players.id AS player_id, players.name, players.team, players.position,
			player_stats.date, player_stats.toi_per_game, player_stats.goals_per_60,
			player_stats.assists_per_60, player_stats.shots_per_60, player_stats.ixg_per_60`).
		Joins("JOIN players ON players.id = player_stats.player_id").
		Where("player_stats.date >= ?", cutoff).
		Scan(&rows).Error
	if err != nil {
		return types.RawStatTable{}, fmt.Errorf("failed to fetch player stats: %w", err)
	}

	return types.RawStatTable{
		Columns: types.RequiredStatColumns,
		Rows:    rows,
	}, nil
}

// Salaries returns the latest salary per player joined with identity.
func (p *Provider) Salaries(ctx context.Context) ([]types.SalaryRow, error) {
	var rows []types.SalaryRow
	err := p.db.WithContext(ctx).
		Table("player_salaries").
		Select(`players.id AS player_id, players.name, players.team, players.position,
			player_salaries.salary`).
		Joins("JOIN players ON players.id = player_salaries.player_id").
		Order("player_salaries.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salaries: %w", err)
	}
	return rows, nil
}

// ActiveInjuries returns currently active injury records.
func (p *Provider) ActiveInjuries(ctx context.Context) ([]types.InjuryRow, error) {
	var rows []types.InjuryRow
	err := p.db.WithContext(ctx).
		Table("player_injuries").
		Select(`players.id AS player_id, players.name, players.team,
			player_injuries.status, player_injuries.is_active AS active`).
		Joins("JOIN players ON players.id = player_injuries.player_id").
		Where("player_injuries.is_active = ?", true).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch injuries: %w", err)
	}
	return rows, nil
}

// Standings returns the team standings table.
func (p *Provider) Standings(ctx context.Context) ([]types.StandingRow, error) {
	var rows []types.StandingRow
	err := p.db.WithContext(ctx).
		Model(&TeamStanding{}).
		Select("team, points_percentage").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", err)
	}
	return rows, nil
}

// SeasonGames returns the scheduled games table.
func (p *Provider) SeasonGames(ctx context.Context) ([]types.GameRow, error) {
	var rows []types.GameRow
	err := p.db.WithContext(ctx).
		Model(&Game{}).
		Select("date, visitor, home").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}
	return rows, nil
}

// SavedSettings returns the most recently saved league settings, or nil
// when none have been persisted.
func (p *Provider) SavedSettings(ctx context.Context) (*types.LeagueSettings, error) {
	var rec LeagueSettingsRecord
	result := p.db.WithContext(ctx).Order("updated_at DESC").Limit(1).Find(&rec)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	settings := recordToSettings(rec)
	return &settings, nil
}

// SaveSettings persists league settings as a new row.
func (p *Provider) SaveSettings(ctx context.Context, settings types.LeagueSettings) error {
	rec := settingsToRecord(settings)
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func recordToSettings(rec LeagueSettingsRecord) types.LeagueSettings {
	return types.LeagueSettings{
		MaxSalaryCap:       rec.MaxSalaryCap,
		MinSalaryCapPct:    rec.MinSalaryCapPct,
		NumForwards:        rec.NumForwards,
		NumDefense:         rec.NumDefense,
		NumGoalies:         rec.NumGoalies,
		MaxPlayersPerTeam:  rec.MaxPlayersPerTeam,
		MaxDefensePerTeam:  rec.MaxDefensePerTeam,
		MaxForwardsPerTeam: rec.MaxForwardsPerTeam,
		PointsGoal:         rec.PointsGoal,
		PointsAssist:       rec.PointsAssist,
		PointsGoalieWin:    rec.PointsGoalieWin,
		PointsShutout:      rec.PointsShutout,
		PointsOTLoss:       rec.PointsOTLoss,
	}
}

func settingsToRecord(settings types.LeagueSettings) LeagueSettingsRecord {
	return LeagueSettingsRecord{
		MaxSalaryCap:       settings.MaxSalaryCap,
		MinSalaryCapPct:    settings.MinSalaryCapPct,
		NumForwards:        settings.NumForwards,
		NumDefense:         settings.NumDefense,
		NumGoalies:         settings.NumGoalies,
		MaxPlayersPerTeam:  settings.MaxPlayersPerTeam,
		MaxDefensePerTeam:  settings.MaxDefensePerTeam,
		MaxForwardsPerTeam: settings.MaxForwardsPerTeam,
		PointsGoal:         settings.PointsGoal,
		PointsAssist:       settings.PointsAssist,
		PointsGoalieWin:    settings.PointsGoalieWin,
		PointsShutout:      settings.PointsShutout,
		PointsOTLoss:       settings.PointsOTLoss,
	}
}
