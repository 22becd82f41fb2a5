package scheduler

import (
	"testing"
	"time"
)

func TestTimeOfDayString(t *testing.T) {
	if got := (TimeOfDay{Hour: 6, Minute: 0}).String(); got != "06:00" {
		t.Errorf("String() = %q, want 06:00", got)
	}
	if got := (TimeOfDay{Hour: 15, Minute: 5}).String(); got != "15:05" {
		t.Errorf("String() = %q, want 15:05", got)
	}
}

func TestDueSyncTime(t *testing.T) {
	times := []TimeOfDay{{Hour: 6, Minute: 0}, {Hour: 15, Minute: 0}}
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 1, 15, hour, minute, 0, 0, time.UTC)
	}

	t.Run("fires on the configured minute", func(t *testing.T) {
		fired := map[string]bool{}
		got, due := dueSyncTime(at(6, 0), times, fired)
		if !due || got != times[0] {
			t.Errorf("dueSyncTime = %v/%v, want %v/true", got, due, times[0])
		}
	})

	t.Run("does not fire twice in the same day", func(t *testing.T) {
		fired := map[string]bool{"06:00": true}
		if _, due := dueSyncTime(at(6, 0), times, fired); due {
			t.Error("expected already-fired time to be skipped")
		}
	})

	t.Run("second configured time is independent", func(t *testing.T) {
		fired := map[string]bool{"06:00": true}
		got, due := dueSyncTime(at(15, 0), times, fired)
		if !due || got != times[1] {
			t.Errorf("dueSyncTime = %v/%v, want %v/true", got, due, times[1])
		}
	})

	t.Run("off-minute wakeups do nothing", func(t *testing.T) {
		fired := map[string]bool{}
		if _, due := dueSyncTime(at(6, 1), times, fired); due {
			t.Error("expected no trigger one minute past the configured time")
		}
	})
}

func TestSettlementDue(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	interval := 30 * time.Minute

	if !settlementDue(now, time.Time{}, interval) {
		t.Error("expected first tick to settle immediately")
	}
	if settlementDue(now, now.Add(-29*time.Minute), interval) {
		t.Error("expected no settlement before the interval elapses")
	}
	if !settlementDue(now, now.Add(-30*time.Minute), interval) {
		t.Error("expected settlement exactly at the interval")
	}
	if !settlementDue(now, now.Add(-2*time.Hour), interval) {
		t.Error("expected settlement after a long gap")
	}
}
