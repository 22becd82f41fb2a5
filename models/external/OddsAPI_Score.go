package external

import "time"

// OddsAPI_ScoreEvent is one event from GET /v4/sports/{sport}/scores.
// Score values arrive as strings and are sometimes missing or junk;
// settlement skips events it cannot parse both sides of.
type OddsAPI_ScoreEvent struct {
	ID           string               `json:"id"`
	SportKey     string               `json:"sport_key"`
	SportTitle   string               `json:"sport_title"`
	CommenceTime time.Time            `json:"commence_time"`
	Completed    bool                 `json:"completed"`
	HomeTeam     string               `json:"home_team"`
	AwayTeam     string               `json:"away_team"`
	Scores       []OddsAPI_ScoreEntry `json:"scores"`
	LastUpdate   *time.Time           `json:"last_update"`
}

type OddsAPI_ScoreEntry struct {
	Name  string  `json:"name"`
	Score *string `json:"score"`
}
