package models

import (
	"time"

	"gorm.io/gorm"
)

// LeaderboardEntry is one (user, sport category) aggregate, created lazily
// on the first settled bet for the pair. Only the settlement engine and bet
// cancellation mutate it.
type LeaderboardEntry struct {
	gorm.Model
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;uniqueIndex:unique_user_sport_leaderboard"`
	SportCategory string `gorm:"index;size:50;uniqueIndex:unique_user_sport_leaderboard"`

	TotalBets    int
	TotalParlays int

	BetsWon    int
	BetsLost   int
	BetsPushed int

	TotalWagered int
	TotalWon     int
	NetProfit    int

	// Over decided bets only; pushes and cancellations excluded.
	WinPercentage float64

	// Positive = consecutive wins, negative = consecutive losses.
	CurrentStreak   int
	BestWinStreak   int
	WorstLossStreak int

	BiggestWin        float64
	BiggestParlayHits int

	LastBetAt *time.Time
}
