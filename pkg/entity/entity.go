package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// ActivityKind is a closed set of supported activity categories.
type ActivityKind string

const (
	KindRunning       ActivityKind = "Running"
	KindCycling       ActivityKind = "Cycling"
	KindWeightlifting ActivityKind = "Weightlifting"
	KindSwimming      ActivityKind = "Swimming"
	KindWalking       ActivityKind = "Walking"
)

func (k ActivityKind) Valid() bool {
	switch k {
	case KindRunning, KindCycling, KindWeightlifting, KindSwimming, KindWalking:
		return true
	}
	return false
}

// RequiresDistance reports whether the kind cannot be logged without a
// distance value. Weightlifting is the only kind where distance is optional.
func (k ActivityKind) RequiresDistance() bool {
	switch k {
	case KindRunning, KindCycling, KindSwimming, KindWalking:
		return true
	}
	return false
}

type Activity struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"uid"`
	Kind      ActivityKind `json:"activity_type"`
	Duration  int          `json:"duration"`
	Distance  *float64     `json:"distance,omitempty"`
	Calories  int          `json:"calories_burned"`
	Date      time.Time    `json:"date"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// LeaderboardEntry is a per-user monthly rollup. It is a snapshot: values
// reflect the activities as of the last explicit recompute and stay stale
// until the next one.
type LeaderboardEntry struct {
	UserID          uuid.UUID `json:"user"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	TotalActivities int       `json:"total_activities"`
	TotalDistance   float64   `json:"total_distance"`
	TotalCalories   int       `json:"total_calories_burned"`
}

// ActivityMetrics are lifetime aggregates for one user, computed on read.
// TotalDistance sums only rows that carry a distance.
type ActivityMetrics struct {
	TotalDuration     int     `json:"total_duration"`
	TotalDistance     float64 `json:"total_distance"`
	TotalCalories     int     `json:"total_calories_burned"`
	WeeklyActivities  int     `json:"weekly_activities"`
	MonthlyActivities int     `json:"monthly_activities"`
}
