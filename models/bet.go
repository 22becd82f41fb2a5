package models

import (
	"time"

	"gorm.io/gorm"
)

type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetPush      BetStatus = "push"
	BetCancelled BetStatus = "cancelled"
)

// Terminal reports whether the status is final. A bet or pick never
// transitions out of a terminal state.
func (s BetStatus) Terminal() bool {
	return s == BetWon || s == BetLost || s == BetPush || s == BetCancelled
}

// Bet is a wager placed by a user. A parlay is a bet with more than one
// pick; all legs must win (or push) for any payout.
type Bet struct {
	gorm.Model
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index"`
	IsParlay        bool
	TotalPicks      int
	Stake           int
	PotentialPayout float64
	ActualPayout    float64
	Status          BetStatus `gorm:"index;size:20;default:pending"`
	PlacedAt        time.Time `gorm:"index"`
	SettledAt       *time.Time
	Picks           []Pick `gorm:"foreignKey:BetID"`
}
