package schedule

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hellwatch/hellwatch/pkg/models"
)

// scheduleResponse mirrors the JSON body of the schedule API.
type scheduleResponse struct {
	Helltide  []rawOccurrence `json:"helltide"`
	Legion    []rawOccurrence `json:"legion"`
	WorldBoss []rawOccurrence `json:"world_boss"`
}

// rawOccurrence is one schedule entry before validation. The API is loose
// about types: ids may be strings or numbers, start times epoch millis or
// RFC3339 strings.
type rawOccurrence struct {
	ID    json.RawMessage `json:"id"`
	Start json.RawMessage `json:"start"`
	Name  string          `json:"name"`
}

func parseResponse(body []byte) (map[models.Category][]models.Occurrence, error) {
	var resp scheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid schedule json: %w", err)
	}

	out := map[models.Category][]models.Occurrence{
		models.Helltide:  parseOccurrences(models.Helltide, resp.Helltide),
		models.Legion:    parseOccurrences(models.Legion, resp.Legion),
		models.WorldBoss: parseOccurrences(models.WorldBoss, resp.WorldBoss),
	}
	return out, nil
}

// parseOccurrences converts raw entries, dropping those without a usable
// start time. A malformed entry is skipped with a log line, never an error.
func parseOccurrences(cat models.Category, raws []rawOccurrence) []models.Occurrence {
	occs := make([]models.Occurrence, 0, len(raws))
	for _, raw := range raws {
		start, ok := parseStart(raw.Start)
		if !ok {
			log.Printf("schedule: skipping %s entry with unparseable start %s", cat, string(raw.Start))
			continue
		}
		id := parseID(raw.ID)
		if id == "" {
			// Fallback: deterministic-enough id so dedup still works for
			// the lifetime of this occurrence.
			id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(cat.String()+start.Format(time.RFC3339))).String()
		}
		occs = append(occs, models.Occurrence{
			ID:        id,
			Category:  cat,
			StartTime: start,
			BossName:  raw.Name,
		})
	}
	return occs
}

func parseID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// parseStart accepts epoch milliseconds, epoch seconds, or an RFC3339 string.
func parseStart(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		// Heuristic: values past the year 2286 in seconds are milliseconds.
		if n > 9_999_999_999 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
