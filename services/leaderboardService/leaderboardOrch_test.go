package leaderboardService

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"svidnetSportsbook/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func wonBet(stake int, payout float64) *models.Bet {
	return &models.Bet{Stake: stake, ActualPayout: payout, Status: models.BetWon}
}

func lostBet(stake int) *models.Bet {
	return &models.Bet{Stake: stake, Status: models.BetLost}
}

func TestApplyNetProfitIdentity(t *testing.T) {
	var entry models.LeaderboardEntry

	apply(&entry, wonBet(10, 25.00))
	apply(&entry, lostBet(20))
	apply(&entry, &models.Bet{Stake: 15, ActualPayout: 15, Status: models.BetPush})

	if entry.TotalWagered != 45 {
		t.Errorf("TotalWagered = %d, want 45", entry.TotalWagered)
	}
	if entry.TotalWon != 40 {
		t.Errorf("TotalWon = %d, want 40", entry.TotalWon)
	}
	if entry.NetProfit != entry.TotalWon-entry.TotalWagered {
		t.Errorf("NetProfit = %d, want %d", entry.NetProfit, entry.TotalWon-entry.TotalWagered)
	}
}

func TestApplyStreaks(t *testing.T) {
	var entry models.LeaderboardEntry

	apply(&entry, wonBet(10, 20))
	apply(&entry, wonBet(10, 20))
	apply(&entry, wonBet(10, 20))
	if entry.CurrentStreak != 3 || entry.BestWinStreak != 3 {
		t.Errorf("after 3 wins: current=%d best=%d, want 3/3", entry.CurrentStreak, entry.BestWinStreak)
	}

	apply(&entry, lostBet(10))
	apply(&entry, lostBet(10))
	if entry.CurrentStreak != -2 || entry.WorstLossStreak != -2 {
		t.Errorf("after 2 losses: current=%d worst=%d, want -2/-2", entry.CurrentStreak, entry.WorstLossStreak)
	}
	if entry.BestWinStreak != 3 {
		t.Errorf("BestWinStreak = %d, losses must not erode it", entry.BestWinStreak)
	}

	// A push leaves the streak where it stands.
	apply(&entry, &models.Bet{Stake: 10, ActualPayout: 10, Status: models.BetPush})
	if entry.CurrentStreak != -2 {
		t.Errorf("CurrentStreak = %d after push, want -2", entry.CurrentStreak)
	}

	apply(&entry, wonBet(10, 20))
	if entry.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d after win off a cold streak, want 1", entry.CurrentStreak)
	}
}

func TestApplyWinPercentageExcludesPushes(t *testing.T) {
	var entry models.LeaderboardEntry

	apply(&entry, wonBet(10, 20))
	apply(&entry, lostBet(10))
	apply(&entry, lostBet(10))
	apply(&entry, &models.Bet{Stake: 10, ActualPayout: 10, Status: models.BetPush})

	if entry.WinPercentage != 33.33 {
		t.Errorf("WinPercentage = %v, want 33.33", entry.WinPercentage)
	}
	if entry.BetsPushed != 1 {
		t.Errorf("BetsPushed = %d, want 1", entry.BetsPushed)
	}
}

func TestApplyParlayCounters(t *testing.T) {
	var entry models.LeaderboardEntry

	parlay := &models.Bet{
		Stake:        10,
		ActualPayout: 91.12,
		Status:       models.BetWon,
		IsParlay:     true,
		TotalPicks:   3,
	}
	apply(&entry, parlay)

	if entry.TotalParlays != 1 {
		t.Errorf("TotalParlays = %d, want 1", entry.TotalParlays)
	}
	if entry.BiggestParlayHits != 3 {
		t.Errorf("BiggestParlayHits = %d, want 3", entry.BiggestParlayHits)
	}
	if entry.BiggestWin != 91.12 {
		t.Errorf("BiggestWin = %v, want 91.12", entry.BiggestWin)
	}

	// A smaller parlay later does not shrink the high-water marks.
	apply(&entry, &models.Bet{Stake: 5, ActualPayout: 20, Status: models.BetWon, IsParlay: true, TotalPicks: 2})
	if entry.BiggestParlayHits != 3 || entry.BiggestWin != 91.12 {
		t.Errorf("high-water marks moved: hits=%d win=%v", entry.BiggestParlayHits, entry.BiggestWin)
	}
}

func TestReverseCancellationWithoutEntry(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `leaderboard_entries`").
		WithArgs(uint(1), "football", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "sport_category"}))

	bet := &models.Bet{Stake: 10, Status: models.BetCancelled}
	if err := ReverseCancellation(db, 1, "football", bet); err != nil {
		t.Fatalf("expected no-op for missing entry, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
