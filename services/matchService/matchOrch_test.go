package matchService

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"svidnetSportsbook/models"
	"svidnetSportsbook/models/external"
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

func sampleEvent() external.OddsAPI_Event {
	return external.OddsAPI_Event{
		ID:           "abc123",
		SportKey:     "americanfootball_nfl",
		SportTitle:   "NFL",
		HomeTeam:     "Kansas City Chiefs",
		AwayTeam:     "Buffalo Bills",
		CommenceTime: time.Now().UTC().Add(24 * time.Hour),
		Bookmakers:   json.RawMessage(`[]`),
	}
}

func TestUpsertCreatesNewMatch(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `matches`").
		WithArgs("abc123", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `matches`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := Upsert(db, "americanfootball_nfl", sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for first sighting")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertRefreshesExistingMatch(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `matches`").
		WithArgs("abc123", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "status", "home_team", "away_team"}).
			AddRow(7, "abc123", "upcoming", "Kansas City Chiefs", "Buffalo Bills"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `matches`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := Upsert(db, "americanfootball_nfl", sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for a known event")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListRecentOrdersByStartTime(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `matches`.*ORDER BY commence_time DESC.*LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id"}).
			AddRow(2, "later").
			AddRow(1, "earlier"))

	matches, err := ListRecent(db, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ExternalID != "later" {
		t.Errorf("first match is %q, want newest first", matches[0].ExternalID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecordResultRejectsCompletedMatch(t *testing.T) {
	db, _ := newMockDB(t)

	match := &models.Match{Status: models.MatchCompleted, ExternalID: "abc123"}
	err := RecordResult(db, match, 27, 20)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestPurgeStaleSkipsMatchesWithPicks(t *testing.T) {
	db, mock := newMockDB(t)

	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `matches` SET `deleted_at`.*NOT EXISTS \\(SELECT 1 FROM picks").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	purged, err := PurgeStale(db, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 3 {
		t.Errorf("purged = %d, want 3", purged)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
