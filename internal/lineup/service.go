package lineup

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/puckcap/internal/config"
	"github.com/stitts-dev/puckcap/internal/optimizer"
	"github.com/stitts-dev/puckcap/internal/projections"
	"github.com/stitts-dev/puckcap/internal/types"
)

const cacheTTL = 15 * time.Minute

// Store is the read-only data collaborator. All fetches are issued
// concurrently for one optimization request and must complete before
// feature building begins.
type Store interface {
	PlayerStats(ctx context.Context) (types.RawStatTable, error)
	Salaries(ctx context.Context) ([]types.SalaryRow, error)
	ActiveInjuries(ctx context.Context) ([]types.InjuryRow, error)
	Standings(ctx context.Context) ([]types.StandingRow, error)
	SeasonGames(ctx context.Context) ([]types.GameRow, error)
}

// Cache is the lookaside cache for solved lineups.
type Cache interface {
	GetLineup(ctx context.Context, key string) (*types.LineupSolution, error)
	SetLineup(ctx context.Context, key string, solution *types.LineupSolution, ttl time.Duration) error
}

// Service runs the projection-and-optimization pipeline. Each request is an
// independent sequential batch; nothing is shared across in-flight calls.
type Service struct {
	store  Store
	cache  Cache
	cfg    *config.Config
	logger *logrus.Logger

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewService creates the lineup optimization service. cache may be nil, in
// which case every request solves from scratch.
func NewService(store Store, cache Cache, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Optimize runs the full pipeline: fetch, feature building, weighted
// projection, schedule adjustment, goaltending synthesis, injury/salary
// merge, and the integer-program solve. The result is either a fully
// constraint-satisfying roster or an error; no partial lineup is ever
// returned.
func (s *Service) Optimize(
	ctx context.Context,
	settings types.LeagueSettings,
	excludeIDs, forceIDs []int64,
) (*types.LineupSolution, error) {
	runID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"component":       "lineup_service",
		"optimization_id": runID,
	})

	today := s.now()
	cacheKey := s.cacheKey(settings, excludeIDs, forceIDs, today)

	if s.cache != nil {
		if cached, err := s.cache.GetLineup(ctx, cacheKey); err == nil && cached != nil {
			log.WithField("cache_key", cacheKey).Info("Returning cached lineup")
			return cached, nil
		}
	}

	log.WithFields(logrus.Fields{
		"num_forwards": settings.NumForwards,
		"num_defense":  settings.NumDefense,
		"num_goalies":  settings.NumGoalies,
		"max_cap":      settings.MaxSalaryCap,
	}).Info("Starting lineup optimization")

	var (
		statTable types.RawStatTable
		salaries  []types.SalaryRow
		injuries  []types.InjuryRow
		standings []types.StandingRow
		games     []types.GameRow
	)

	g, fetchCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statTable, err = s.store.PlayerStats(fetchCtx)
		return err
	})
	g.Go(func() error {
		var err error
		salaries, err = s.store.Salaries(fetchCtx)
		return err
	})
	g.Go(func() error {
		var err error
		injuries, err = s.store.ActiveInjuries(fetchCtx)
		return err
	})
	g.Go(func() error {
		var err error
		standings, err = s.store.Standings(fetchCtx)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.store.SeasonGames(fetchCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("data fetch failed: %w", err)
	}

	features, err := projections.BuildFeatures(statTable, s.cfg.SeasonStart, log)
	if err != nil {
		return nil, err
	}
	if len(features.Features) == 0 {
		return nil, fmt.Errorf("%w: no players with current-season observations", types.ErrInsufficientData)
	}

	weights := projections.WeightsForDate(today, s.cfg.SeasonStart)
	projected := projections.CalculateWeightedProjections(features.Features, features.History, weights, log)

	gamesCount := projections.WeeklyGamesCount(games, today, today, s.cfg.TeamAbbreviations)
	info := types.ScheduleInfo{
		GamesThisPeriod: gamesCount,
		Multipliers:     projections.Multipliers(standings, gamesCount),
	}

	adjusted, err := projections.AdjustForSchedule(projected, info, settings.PointsGoal, settings.PointsAssist, log)
	if err != nil {
		return nil, err
	}

	goalies := projections.EstimateTeamGoaltending(info, projections.GoalieParams{
		WinPoints:      settings.PointsGoalieWin,
		ShutoutBonus:   settings.PointsShutout,
		OTLossPoints:   settings.PointsOTLoss,
		AvgShutoutFreq: s.cfg.League.AvgShutoutFreq,
		AvgOTLossFreq:  s.cfg.League.AvgOTLossFreq,
	})

	candidates := projections.MergeCandidates(adjusted, injuries, salaries, goalies, log)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: empty candidate pool after merge", types.ErrInsufficientData)
	}

	solution, err := optimizer.Solve(candidates, settings.Constraints(excludeIDs, forceIDs), log)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLineup(ctx, cacheKey, solution, cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache lineup")
		}
	}

	return solution, nil
}

// cacheKey digests the settings, overrides and calendar date; any change in
// inputs produces a different key.
func (s *Service) cacheKey(settings types.LeagueSettings, excludeIDs, forceIDs []int64, today time.Time) string {
	exclude := append([]int64(nil), excludeIDs...)
	force := append([]int64(nil), forceIDs...)
	sort.Slice(exclude, func(i, j int) bool { return exclude[i] < exclude[j] })
	sort.Slice(force, func(i, j int) bool { return force[i] < force[j] })

	payload, _ := json.Marshal(struct {
		Settings types.LeagueSettings `json:"settings"`
		Exclude  []int64              `json:"exclude"`
		Force    []int64              `json:"force"`
		Date     string               `json:"date"`
	}{settings, exclude, force, today.Format("2006-01-02")})

	return fmt.Sprintf("%x", sha256.Sum256(payload))
}
