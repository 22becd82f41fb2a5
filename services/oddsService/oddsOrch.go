package oddsService

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"svidnetSportsbook/models/external"
	"svidnetSportsbook/services/common"
)

// Adapter wraps The Odds API. Fetch failures are absorbed here: they are
// logged and an empty list comes back, because no request handler is ever
// waiting on feed data.
type Adapter struct {
	baseURL  string
	apiKey   string
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func New(baseURL, apiKey string, cacheTTL time.Duration) *Adapter {
	return &Adapter{
		baseURL:  baseURL,
		apiKey:   apiKey,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

func (a *Adapter) cached(key string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.cache[key]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

func (a *Adapter) store(key string, body []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[key] = cacheEntry{body: body, expires: time.Now().Add(a.cacheTTL)}
}

// get fetches an endpoint with the API key appended, consulting the
// short-lived cache first to avoid burning upstream quota on repeat calls.
func (a *Adapter) get(endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	cacheKey := endpoint + "?" + params.Encode()

	if body, ok := a.cached(cacheKey); ok {
		return body, nil
	}

	params.Set("apiKey", a.apiKey)
	requestUrl := fmt.Sprintf("%s/%s?%s", a.baseURL, endpoint, params.Encode())

	resp, err := common.OddsAPIWrapper(requestUrl)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, body)
	return body, nil
}

// FetchEvents returns upcoming events with bookmaker odds for one sport.
func (a *Adapter) FetchEvents(sportKey string) []external.OddsAPI_Event {
	params := url.Values{}
	params.Set("regions", "us")
	params.Set("markets", "h2h,spreads,totals")
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")

	body, err := a.get(fmt.Sprintf("sports/%s/odds", sportKey), params)
	if err != nil {
		log.Printf("odds fetch failed for %s: %v", sportKey, err)
		return nil
	}

	var events []external.OddsAPI_Event
	if err := json.Unmarshal(body, &events); err != nil {
		log.Printf("odds payload unparseable for %s: %v", sportKey, err)
		return nil
	}
	return events
}

// FetchScores returns score events for one sport, looking daysBack days
// into the past so recently finished games are included.
func (a *Adapter) FetchScores(sportKey string, daysBack int) []external.OddsAPI_ScoreEvent {
	params := url.Values{}
	params.Set("daysFrom", fmt.Sprintf("%d", daysBack))
	params.Set("dateFormat", "iso")

	body, err := a.get(fmt.Sprintf("sports/%s/scores", sportKey), params)
	if err != nil {
		log.Printf("score fetch failed for %s: %v", sportKey, err)
		return nil
	}

	var events []external.OddsAPI_ScoreEvent
	if err := json.Unmarshal(body, &events); err != nil {
		log.Printf("score payload unparseable for %s: %v", sportKey, err)
		return nil
	}
	return events
}

// FetchCategory returns events for every sport key in one category.
func (a *Adapter) FetchCategory(category string) map[string][]external.OddsAPI_Event {
	keys, ok := common.SportCategories[category]
	if !ok {
		log.Printf("unknown sport category: %s", category)
		return nil
	}

	results := make(map[string][]external.OddsAPI_Event)
	for _, sportKey := range keys {
		events := a.FetchEvents(sportKey)
		if len(events) > 0 {
			results[sportKey] = events
		}
	}
	return results
}

// FetchAllUpcoming returns events for every tracked sport, keyed by sport.
func (a *Adapter) FetchAllUpcoming() map[string][]external.OddsAPI_Event {
	all := make(map[string][]external.OddsAPI_Event)
	for category := range common.SportCategories {
		for sportKey, events := range a.FetchCategory(category) {
			all[sportKey] = events
		}
	}
	return all
}

// CheckQuota makes a minimal request so the operator surface can confirm
// the upstream key still works.
func (a *Adapter) CheckQuota() (int, error) {
	body, err := a.get("sports", nil)
	if err != nil {
		return 0, err
	}

	var sports []struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &sports); err != nil {
		return 0, err
	}
	return len(sports), nil
}
