package external

import (
	"encoding/json"
	"time"
)

// OddsAPI_Event is one event from GET /v4/sports/{sport}/odds.
// Bookmakers is kept as raw JSON so the blob can be stored on the match
// untouched; only the display parser looks inside it.
type OddsAPI_Event struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   json.RawMessage `json:"bookmakers"`
}

type OddsAPI_Bookmaker struct {
	Key     string           `json:"key"`
	Title   string           `json:"title"`
	Markets []OddsAPI_Market `json:"markets"`
}

type OddsAPI_Market struct {
	Key      string            `json:"key"`
	Outcomes []OddsAPI_Outcome `json:"outcomes"`
}

type OddsAPI_Outcome struct {
	Name  string       `json:"name"`
	Price int          `json:"price"`
	Point *json.Number `json:"point"`
}
