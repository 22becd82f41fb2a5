package models

import (
	"time"

	"gorm.io/gorm"
)

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is one sporting event synced from The Odds API.
// OddsData holds the raw bookmaker blob; it is only interpreted by
// oddsService.ParseMatchOdds at the display boundary.
type Match struct {
	gorm.Model
	ID           uint        `gorm:"primaryKey"`
	ExternalID   string      `gorm:"uniqueIndex;size:255"`
	SportKey     string      `gorm:"index;size:100"`
	SportTitle   string      `gorm:"size:100"`
	HomeTeam     string      `gorm:"size:255"`
	AwayTeam     string      `gorm:"size:255"`
	CommenceTime time.Time   `gorm:"index"`
	Status       MatchStatus `gorm:"index;size:20;default:upcoming"`
	OddsData     *string     `gorm:"type:json"`
	HomeScore    *int
	AwayScore    *int
	CompletedAt  *time.Time
	Picks        []Pick `gorm:"foreignKey:MatchID"`
}
