package common

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"svidnetSportsbook/models"
)

// SportCategories maps a leaderboard category to The Odds API sport keys
// it covers. Keys not listed here fall into "other".
var SportCategories = map[string][]string{
	"football": {
		"americanfootball_nfl",
		"americanfootball_ncaaf",
		"americanfootball_cfl",
		"australianfootball_afl",
	},
	"basketball": {
		"basketball_nba",
		"basketball_ncaab",
		"basketball_wnba",
		"basketball_euroleague",
	},
	"baseball": {
		"baseball_mlb",
		"baseball_kbo",
		"baseball_npb",
	},
	"hockey": {
		"icehockey_nhl",
		"icehockey_ahl",
		"icehockey_shl",
		"icehockey_allsvenskan",
		"icehockey_liiga",
	},
	"soccer": {
		"soccer_epl",
		"soccer_germany_bundesliga",
		"soccer_spain_la_liga",
		"soccer_italy_serie_a",
		"soccer_france_ligue_one",
		"soccer_brazil_campeonato",
		"soccer_uefa_champs_league",
		"soccer_uefa_europa_league",
	},
}

// SportCategory returns the leaderboard category for a sport key.
func SportCategory(sportKey string) string {
	for category, keys := range SportCategories {
		for _, key := range keys {
			if key == sportKey {
				return category
			}
		}
	}
	return "other"
}

// LogError records an error both to the process log and the error_logs
// table so background failures stay visible after the fact.
func LogError(db *gorm.DB, source string, err error) {
	log.Printf("[%s] %v", source, err)

	errLog := models.ErrorLog{
		Source:  source,
		Message: err.Error(),
	}
	if dbErr := db.Create(&errLog).Error; dbErr != nil {
		log.Printf("[%s] failed to persist error log: %v", source, dbErr)
	}
}

// OddsAPIWrapper performs a GET against The Odds API with a bounded
// timeout. Callers own closing the response body.
func OddsAPIWrapper(requestUrl string) (*http.Response, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("GET", requestUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("odds api returned status %d", resp.StatusCode)
	}
	return resp, nil
}
