package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"svidnetSportsbook/middleware"
	"svidnetSportsbook/models"
	"svidnetSportsbook/services/betService"
	"svidnetSportsbook/services/common"
	"svidnetSportsbook/services/leaderboardService"
	"svidnetSportsbook/services/matchService"
	"svidnetSportsbook/services/oddsService"
	"svidnetSportsbook/services/syncService"
)

type pickPayload struct {
	MatchID   uint     `json:"match_id"`
	BetType   string   `json:"bet_type"`
	Selection string   `json:"selection"`
	Odds      int      `json:"odds"`
	Point     *float64 `json:"point"`
}

type placeBetPayload struct {
	Stake int           `json:"stake"`
	Picks []pickPayload `json:"picks"`
}

type manualResultPayload struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

type forceSettlePayload struct {
	Outcome string `json:"outcome"`
}

// SetupSportsRoutes wires the user and operator surfaces. All routes sit
// behind the gateway identity middleware; the admin group adds the role
// gate on top.
func SetupSportsRoutes(app *fiber.App, db *gorm.DB, feed *oddsService.Adapter) {
	api := app.Group("/api/sports", middleware.UserContext())

	api.Get("/today", func(c *fiber.Ctx) error {
		since := time.Now().UTC()
		category := c.Query("category")

		var matches []models.Match
		var err error
		if category != "" {
			sportKeys, known := common.SportCategories[category]
			if !known {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "unknown sport category " + category,
				})
			}
			matches, err = matchService.FindUpcomingForSports(db, since, sportKeys)
		} else {
			matches, err = matchService.FindUpcoming(db, since)
		}
		if err != nil {
			return writeServiceError(c, err)
		}

		out := make([]fiber.Map, 0, len(matches))
		for i := range matches {
			out = append(out, matchResponse(&matches[i], true))
		}
		return c.JSON(fiber.Map{"matches": out, "count": len(out)})
	})

	api.Post("/bets", func(c *fiber.Ctx) error {
		var payload placeBetPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
		}

		picks := make([]betService.PickRequest, 0, len(payload.Picks))
		for _, p := range payload.Picks {
			picks = append(picks, betService.PickRequest{
				MatchID:   p.MatchID,
				BetType:   models.BetType(p.BetType),
				Selection: models.BetSelection(p.Selection),
				Odds:      p.Odds,
				Point:     p.Point,
			})
		}

		bet, err := betService.PlaceBet(db, currentUserID(c), picks, payload.Stake)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(betResponse(bet))
	})

	api.Get("/bets/my", func(c *fiber.Ctx) error {
		bets, err := betService.ListBets(db, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"bets": betListResponse(bets)})
	})

	api.Delete("/bets/:id", func(c *fiber.Ctx) error {
		betID, err := paramUint(c, "id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bet id"})
		}

		elevated, _ := c.Locals("is_admin").(bool)
		bet, err := betService.CancelBet(db, betID, currentUserID(c), elevated)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(betResponse(bet))
	})

	api.Get("/sync-status", func(c *fiber.Ctx) error {
		meta, err := syncService.Status(db)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"last_sync_time": meta.LastSyncTime,
			"sync_status":    meta.SyncStatus,
			"games_synced":   meta.GamesSynced,
			"error_message":  meta.ErrorMessage,
		})
	})

	api.Get("/leaderboard/:category", func(c *fiber.Ctx) error {
		category := c.Params("category")
		limit, _ := strconv.Atoi(c.Query("limit", "25"))

		entries, err := leaderboardService.Top(db, category, limit)
		if err != nil {
			return writeServiceError(c, err)
		}

		out := make([]fiber.Map, 0, len(entries))
		for i := range entries {
			out = append(out, leaderboardResponse(&entries[i], i+1))
		}
		return c.JSON(fiber.Map{"category": category, "entries": out})
	})

	admin := api.Group("/admin", middleware.RequireAdmin())

	admin.Post("/sync-matches", func(c *fiber.Ctx) error {
		category := c.Query("category")
		if category != "" {
			if _, known := common.SportCategories[category]; !known {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "unknown sport category " + category,
				})
			}
		}

		result, err := syncService.RunSync(db, feed, category)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"new_matches":     result.NewMatches,
			"updated_matches": result.UpdatedMatches,
			"purged":          result.Purged,
		})
	})

	admin.Post("/settle-bets", func(c *fiber.Ctx) error {
		matches, bets, err := betService.SettleCompletedMatches(db, feed)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"matches_settled": matches, "bets_settled": bets})
	})

	admin.Post("/bets/:id/force-settle", func(c *fiber.Ctx) error {
		betID, err := paramUint(c, "id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bet id"})
		}

		var payload forceSettlePayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
		}

		bet, err := betService.ForceSettle(db, betID, models.BetStatus(payload.Outcome))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(betResponse(bet))
	})

	admin.Post("/matches/:id/result", func(c *fiber.Ctx) error {
		matchID, err := paramUint(c, "id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
		}

		var payload manualResultPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
		}

		settled, err := betService.ApplyManualResult(db, matchID, payload.HomeScore, payload.AwayScore)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"bets_settled": settled})
	})

	admin.Get("/bets", func(c *fiber.Ctx) error {
		var statusFilter *models.BetStatus
		if raw := c.Query("status"); raw != "" {
			status := models.BetStatus(raw)
			statusFilter = &status
		}

		bets, err := betService.ListAllBets(db, statusFilter)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"bets": betListResponse(bets)})
	})

	admin.Get("/matches", func(c *fiber.Ctx) error {
		matches, err := matchService.ListRecent(db, 200)
		if err != nil {
			return writeServiceError(c, err)
		}

		out := make([]fiber.Map, 0, len(matches))
		for i := range matches {
			out = append(out, matchResponse(&matches[i], false))
		}
		return c.JSON(fiber.Map{"matches": out, "count": len(out)})
	})

	admin.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := collectStats(db)
		if err != nil {
			return writeServiceError(c, err)
		}

		if sports, err := feed.CheckQuota(); err != nil {
			stats["upstream_ok"] = false
		} else {
			stats["upstream_ok"] = true
			stats["upstream_sports"] = sports
		}

		return c.JSON(stats)
	})
}

func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("user_id").(uint)
	return userID
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// writeServiceError maps service-layer error types onto HTTP statuses.
// Validation problems are 400, stale preconditions 409, ownership 403,
// missing rows 404; anything else is a 500 with the detail kept out of
// the response.
func writeServiceError(c *fiber.Ctx, err error) error {
	var validationErr *betService.ValidationError
	var preconditionErr *betService.PreconditionError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Msg})
	case errors.As(err, &preconditionErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": preconditionErr.Msg})
	case errors.Is(err, betService.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func collectStats(db *gorm.DB) (fiber.Map, error) {
	var totalMatches, upcomingMatches, completedMatches int64
	if err := db.Model(&models.Match{}).Count(&totalMatches).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Match{}).Where("status = ?", models.MatchUpcoming).Count(&upcomingMatches).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Match{}).Where("status = ?", models.MatchCompleted).Count(&completedMatches).Error; err != nil {
		return nil, err
	}

	var totalBets, pendingBets int64
	if err := db.Model(&models.Bet{}).Count(&totalBets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Bet{}).Where("status = ?", models.BetPending).Count(&pendingBets).Error; err != nil {
		return nil, err
	}

	var totalWagered int64
	if err := db.Model(&models.Bet{}).Select("COALESCE(SUM(stake), 0)").Scan(&totalWagered).Error; err != nil {
		return nil, err
	}

	return fiber.Map{
		"total_matches":     totalMatches,
		"upcoming_matches":  upcomingMatches,
		"completed_matches": completedMatches,
		"total_bets":        totalBets,
		"pending_bets":      pendingBets,
		"total_wagered":     totalWagered,
	}, nil
}
