package history

import (
	"database/sql"
	"fmt"
)

// Repository handles analysis history database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Insert persists one analysis record
func (r *Repository) Insert(rec *AnalysisRecord) error {
	stmt, err := r.db.GetPreparedStatement("insert_analysis")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		rec.ID, rec.SubjectName, rec.BirthDate, rec.BirthTime,
		rec.Latitude, rec.Longitude, rec.Timezone, rec.UTCMoment,
		rec.Chart, rec.TopAnimal, rec.TopScore, rec.TopPercentage,
		rec.Rankings, rec.IPAddress, rec.UserAgent, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	return nil
}

// GetByID retrieves one analysis record by its ID
func (r *Repository) GetByID(id string) (*AnalysisRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_analysis")
	if err != nil {
		return nil, err
	}

	var rec AnalysisRecord
	err = stmt.QueryRow(id).Scan(
		&rec.ID, &rec.SubjectName, &rec.BirthDate, &rec.BirthTime,
		&rec.Latitude, &rec.Longitude, &rec.Timezone, &rec.UTCMoment,
		&rec.Chart, &rec.TopAnimal, &rec.TopScore, &rec.TopPercentage,
		&rec.Rankings, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return &rec, nil
}

// Recent returns the most recent analysis records, newest first
func (r *Repository) Recent(limit int) ([]*AnalysisRecord, error) {
	stmt, err := r.db.GetPreparedStatement("recent_analyses")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(
			&rec.ID, &rec.SubjectName, &rec.BirthDate, &rec.BirthTime,
			&rec.Latitude, &rec.Longitude, &rec.Timezone, &rec.UTCMoment,
			&rec.Chart, &rec.TopAnimal, &rec.TopScore, &rec.TopPercentage,
			&rec.Rankings, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// TotemCounts aggregates top-animal frequencies across all analyses
func (r *Repository) TotemCounts(limit int) ([]*TotemStat, error) {
	stmt, err := r.db.GetPreparedStatement("totem_counts")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query totem counts: %w", err)
	}
	defer rows.Close()

	var stats []*TotemStat
	for rows.Next() {
		var s TotemStat
		if err := rows.Scan(&s.Animal, &s.Count, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("failed to scan totem stat: %w", err)
		}
		stats = append(stats, &s)
	}

	return stats, rows.Err()
}

// Count returns the total number of stored analyses
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}
