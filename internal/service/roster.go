package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/datasource"
	"github.com/yourusername/smart-starter/internal/metrics"
	"github.com/yourusername/smart-starter/internal/models"
)

// RosterService aggregates player data from all configured sources into a
// candidate pool for the projection engine. Source failures degrade the
// pool instead of failing the run: a source that errors contributes
// nothing and the remaining sources still count.
type RosterService struct {
	sources   []datasource.RosterSource
	validator *PlayerValidator
	logger    *logrus.Logger
}

// RosterResult summarizes a roster fetch across all sources
type RosterResult struct {
	Players       []models.Player
	SourcesOK     int
	SourcesFailed int
	Skipped       int
	Duration      time.Duration
}

// NewRosterService creates a new roster aggregation service
func NewRosterService(sources []datasource.RosterSource, logger *logrus.Logger) *RosterService {
	return &RosterService{
		sources:   sources,
		validator: NewPlayerValidator(),
		logger:    logger,
	}
}

// FetchPool fetches players for every position from every enabled source and
// merges them by player identity. Later sources never overwrite a baseline
// projection already contributed by an earlier one, so sources should be
// ordered most-trusted first.
func (s *RosterService) FetchPool(ctx context.Context, format models.ScoringFormat) (*RosterResult, error) {
	start := time.Now()
	result := &RosterResult{}

	pool := make(map[string]models.Player)
	order := make([]string, 0, 64)

	for _, source := range s.sources {
		if !source.IsEnabled() {
			continue
		}

		failed := false
		for _, position := range models.AllPositions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			rankings, err := source.FetchPlayers(ctx, position, format)
			if err != nil {
				failed = true
				metrics.RecordRosterFetchError(source.Name())
				s.logger.WithFields(logrus.Fields{
					"source":   source.Name(),
					"position": position,
					"error":    err,
				}).Warn("Roster fetch failed, continuing with remaining sources")
				continue
			}

			for _, ranking := range rankings {
				player := ranking.Player()
				if err := s.validator.Validate(player); err != nil {
					result.Skipped++
					s.logger.WithFields(logrus.Fields{
						"source": source.Name(),
						"player": ranking.Name,
						"error":  err,
					}).Debug("Skipping invalid player record")
					continue
				}

				key := playerKey(player)
				existing, seen := pool[key]
				if !seen {
					pool[key] = player
					order = append(order, key)
					continue
				}
				pool[key] = mergePlayer(existing, player)
			}
		}

		if failed {
			result.SourcesFailed++
		} else {
			result.SourcesOK++
		}
	}

	result.Players = make([]models.Player, 0, len(order))
	for _, key := range order {
		result.Players = append(result.Players, pool[key])
	}
	result.Duration = time.Since(start)

	s.logger.WithFields(logrus.Fields{
		"players":        len(result.Players),
		"sources_ok":     result.SourcesOK,
		"sources_failed": result.SourcesFailed,
		"skipped":        result.Skipped,
		"duration":       result.Duration,
	}).Info("Roster pool assembled")

	if len(result.Players) == 0 && result.SourcesFailed > 0 {
		return result, fmt.Errorf("all roster sources failed")
	}

	return result, nil
}

// playerKey identifies a player across sources by name and position
func playerKey(p models.Player) string {
	return strings.ToLower(p.Name) + ":" + string(p.Position)
}

// mergePlayer fills gaps in an existing record from a later source without
// overwriting values the earlier source already supplied
func mergePlayer(existing, incoming models.Player) models.Player {
	if existing.BaseProjection == 0 {
		existing.BaseProjection = incoming.BaseProjection
	}
	if existing.Team == "" {
		existing.Team = incoming.Team
	}
	if existing.Opponent == "" {
		existing.Opponent = incoming.Opponent
	}
	if existing.SnapShare == 0 {
		existing.SnapShare = incoming.SnapShare
	}
	return existing
}
