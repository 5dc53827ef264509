package history

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is one persisted chart analysis.
type AnalysisRecord struct {
	ID            string    `json:"id"`
	SubjectName   string    `json:"subject_name,omitempty"`
	BirthDate     string    `json:"birth_date"`
	BirthTime     string    `json:"birth_time"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Timezone      string    `json:"timezone,omitempty"`
	UTCMoment     time.Time `json:"utc_moment"`
	Chart         string    `json:"chart"`    // JSON point -> sign placements
	TopAnimal     string    `json:"top_animal"`
	TopScore      float64   `json:"top_score"`
	TopPercentage float64   `json:"top_percentage"`
	Rankings      string    `json:"rankings"` // JSON ranked animal scores
	IPAddress     string    `json:"-"`
	UserAgent     string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAnalysisRecord creates a record with a fresh ID and timestamp.
func NewAnalysisRecord() *AnalysisRecord {
	return &AnalysisRecord{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
}

// TotemStat aggregates how often an animal topped the rankings.
type TotemStat struct {
	Animal   string  `json:"animal"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}
