package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/astrofauna/totemeter/internal/scoring"
	"github.com/astrofauna/totemeter/internal/types"
)

// Service records completed analyses and serves history queries.
type Service struct {
	repo *Repository
	db   *DB
}

// NewService creates a new history service
func NewService(db *DB) *Service {
	return &Service{
		repo: NewRepository(db),
		db:   db,
	}
}

// RecordAnalysis persists one completed analysis. Chart placements and
// the full ranking are stored as JSON columns.
func (s *Service) RecordAnalysis(req types.AnalyzeRequest, utc time.Time, result *scoring.Result, ip, userAgent string) (*AnalysisRecord, error) {
	if len(result.Rankings) == 0 {
		return nil, fmt.Errorf("cannot record analysis without rankings")
	}

	chartJSON, err := json.Marshal(result.Chart)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart: %w", err)
	}

	rankingsJSON, err := json.Marshal(result.Rankings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rankings: %w", err)
	}

	top := result.Rankings[0]

	rec := NewAnalysisRecord()
	rec.SubjectName = req.Name
	rec.BirthDate = req.Date
	rec.BirthTime = req.Time
	rec.Latitude = req.Lat
	rec.Longitude = req.Lon
	rec.Timezone = req.Timezone
	rec.UTCMoment = utc
	rec.Chart = string(chartJSON)
	rec.TopAnimal = top.Animal
	rec.TopScore = top.Total
	rec.TopPercentage = top.Percentage
	rec.Rankings = string(rankingsJSON)
	rec.IPAddress = ip
	rec.UserAgent = userAgent

	if err := s.repo.Insert(rec); err != nil {
		return nil, err
	}

	slog.Debug("Analysis recorded", "id", rec.ID, "top_animal", rec.TopAnimal)

	return rec, nil
}

// Get returns one stored analysis, or nil when the ID is unknown
func (s *Service) Get(id string) (*AnalysisRecord, error) {
	return s.repo.GetByID(id)
}

// Recent returns the latest stored analyses, newest first
func (s *Service) Recent(limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Recent(limit)
}

// TotemStats returns top-animal frequency aggregates
func (s *Service) TotemStats(limit int) ([]*TotemStat, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.TotemCounts(limit)
}

// Stats returns history storage statistics
func (s *Service) Stats() map[string]interface{} {
	count, err := s.repo.Count()
	if err != nil {
		slog.Warn("Failed to count analyses", "error", err)
	}

	return map[string]interface{}{
		"total_analyses": count,
		"pool":           s.db.GetPoolStats(),
	}
}
