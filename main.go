package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"svidnetSportsbook/handlers"
	"svidnetSportsbook/models"
	"svidnetSportsbook/scheduler"
	"svidnetSportsbook/services/oddsService"
)

var db *gorm.DB

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatalf("DATABASE_URL not set in environment variables")
	}

	u, err := dburl.Parse(connString)
	if err != nil {
		log.Fatalf("invalid DATABASE_URL: %v", err)
	}

	db, err = gorm.Open(mysql.Open(u.DSN+"?charset=utf8mb4&parseTime=True&loc=Local"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Match{},
		&models.Bet{},
		&models.Pick{},
		&models.LeaderboardEntry{},
		&models.SyncMetadata{},
		&models.ErrorLog{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func main() {
	apiKey := os.Getenv("ODDS_API_KEY")
	if apiKey == "" {
		log.Fatalf("ODDS_API_KEY not set in environment variables")
	}

	baseURL := envOr("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4")
	cacheTTL := time.Duration(envInt("ODDS_CACHE_TTL_MINUTES", 5)) * time.Minute
	feed := oddsService.New(baseURL, apiKey, cacheTTL)

	schedCfg := scheduler.Config{
		Enabled:            envOr("AUTO_SYNC_ENABLED", "true") == "true",
		Timezone:           envOr("SYNC_TIMEZONE", "America/New_York"),
		SyncTimes:          parseSyncTimes(envOr("SYNC_TIMES", "06:00,15:00")),
		SettlementInterval: time.Duration(envInt("SETTLEMENT_INTERVAL_MINUTES", 30)) * time.Minute,
	}

	sched := scheduler.New(schedCfg, db, feed)
	if err := sched.Start(); err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{AppName: "svidnet-sportsbook"})
	handlers.SetupSportsRoutes(app, db, feed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + envOr("PORT", "8080")
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	log.Println("Sportsbook is running. Press CTRL+C to exit.")
	<-ctx.Done()

	log.Println("shutting down")
	sched.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, raw)
	}
	return value
}

// parseSyncTimes reads a comma-separated list of HH:MM wall-clock times.
func parseSyncTimes(raw string) []scheduler.TimeOfDay {
	var times []scheduler.TimeOfDay
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		pieces := strings.SplitN(part, ":", 2)
		if len(pieces) != 2 {
			log.Fatalf("invalid sync time %q, expected HH:MM", part)
		}
		hour, err := strconv.Atoi(pieces[0])
		if err != nil || hour < 0 || hour > 23 {
			log.Fatalf("invalid sync time %q, expected HH:MM", part)
		}
		minute, err := strconv.Atoi(pieces[1])
		if err != nil || minute < 0 || minute > 59 {
			log.Fatalf("invalid sync time %q, expected HH:MM", part)
		}
		times = append(times, scheduler.TimeOfDay{Hour: hour, Minute: minute})
	}
	return times
}
