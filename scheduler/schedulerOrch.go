package scheduler

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"svidnetSportsbook/services/betService"
	"svidnetSportsbook/services/common"
	"svidnetSportsbook/services/syncService"
)

// TimeOfDay is a wall-clock trigger time in the configured zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Config carries every scheduler tunable. It is assembled by the
// composition root; nothing in here reads the environment.
type Config struct {
	Enabled            bool
	SyncTimes          []TimeOfDay
	Timezone           string
	SettlementInterval time.Duration
}

// Feed is everything the background loop needs from the odds provider.
type Feed interface {
	syncService.EventFeed
	betService.ScoreFeed
}

// Scheduler is the single background loop behind catalog refresh and bet
// settlement. One cron entry wakes it every minute; sync fires at the
// configured times of day at most once per calendar day, settlement fires
// on its own interval measured from the loop's last settlement run.
type Scheduler struct {
	cfg  Config
	db   *gorm.DB
	feed Feed

	cron *cron.Cron
	loc  *time.Location

	mu             sync.Mutex
	currentDay     string
	firedSyncTimes map[string]bool
	lastSettlement time.Time
}

func New(cfg Config, db *gorm.DB, feed Feed) *Scheduler {
	return &Scheduler{
		cfg:            cfg,
		db:             db,
		feed:           feed,
		firedSyncTimes: make(map[string]bool),
	}
}

// Start brings the loop up. It returns immediately; all work happens off
// the request path.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		log.Println("auto-sync is disabled, scheduler not started")
		return nil
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", s.cfg.Timezone, err)
	}
	s.loc = loc

	s.cron = cron.New(cron.WithSeconds())
	if _, err := s.cron.AddFunc("0 * * * * *", s.tick); err != nil {
		return err
	}
	s.cron.Start()

	log.Printf("scheduler started, syncing at %v %s, settling every %v",
		s.cfg.SyncTimes, s.cfg.Timezone, s.cfg.SettlementInterval)
	return nil
}

// Stop halts the cron loop and waits boundedly for a running iteration.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		log.Println("scheduler stop timed out waiting for running job")
	}
	log.Println("scheduler stopped")
}

// tick is one wake-up of the loop. Any panic or error inside a trigger is
// caught and logged so the loop survives to its next minute; there is no
// scheduler-fatal condition short of process shutdown.
func (s *Scheduler) tick() {
	if !s.mu.TryLock() {
		// Previous iteration still running; skip this wake-up.
		return
	}
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered in scheduler tick: %v", r)
			debug.PrintStack()
			common.LogError(s.db, "scheduler", fmt.Errorf("panic in tick: %v", r))
		}
	}()

	now := time.Now().In(s.loc)

	day := now.Format("2006-01-02")
	if day != s.currentDay {
		s.currentDay = day
		s.firedSyncTimes = make(map[string]bool)
	}

	if syncTime, due := dueSyncTime(now, s.cfg.SyncTimes, s.firedSyncTimes); due {
		s.runSync(syncTime)
		s.firedSyncTimes[syncTime.String()] = true
	}

	if settlementDue(now, s.lastSettlement, s.cfg.SettlementInterval) {
		s.runSettlement()
		s.lastSettlement = now
	}
}

// dueSyncTime returns the configured time-of-day matching the current
// minute, unless it already fired today.
func dueSyncTime(now time.Time, times []TimeOfDay, fired map[string]bool) (TimeOfDay, bool) {
	for _, t := range times {
		if now.Hour() == t.Hour && now.Minute() == t.Minute {
			if fired[t.String()] {
				return TimeOfDay{}, false
			}
			return t, true
		}
	}
	return TimeOfDay{}, false
}

// settlementDue measures the interval from the loop's own last settlement
// run, not from any request activity. A zero lastRun fires immediately on
// the first tick.
func settlementDue(now, lastRun time.Time, interval time.Duration) bool {
	return now.Sub(lastRun) >= interval
}

func (s *Scheduler) runSync(at TimeOfDay) {
	runID := uuid.New().String()[:8]
	log.Printf("[sync %s] scheduled sync fired for %s %s", runID, at, s.cfg.Timezone)

	result, err := syncService.RunSync(s.db, s.feed, "")
	if err != nil {
		common.LogError(s.db, "scheduler", fmt.Errorf("sync run %s: %w", runID, err))
		return
	}
	log.Printf("[sync %s] %d new, %d updated, %d purged",
		runID, result.NewMatches, result.UpdatedMatches, result.Purged)
}

func (s *Scheduler) runSettlement() {
	runID := uuid.New().String()[:8]
	log.Printf("[settle %s] settlement trigger fired", runID)

	matches, bets, err := betService.SettleCompletedMatches(s.db, s.feed)
	if err != nil {
		common.LogError(s.db, "scheduler", fmt.Errorf("settlement run %s: %w", runID, err))
		return
	}
	log.Printf("[settle %s] %d matches, %d bets settled", runID, matches, bets)
}
