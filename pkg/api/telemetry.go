// Package api pkg/api/telemetry.go

package api

import (
	"net/http"
	"strconv"

	"github.com/Aboubacarelhacen/silo/pkg/models"
	"github.com/Aboubacarelhacen/silo/pkg/silo"
)

func (s *Server) getCurrentLevel(w http.ResponseWriter, r *http.Request) {
	// An empty store reads as 0.0, matching the pre-first-poll default.
	sample, _ := s.store.Latest(models.StreamLevel)

	writeJSON(w, http.StatusOK, currentLevelResponse{
		LevelPercent: sample.Value,
		Status:       silo.LevelStatus(sample.Value),
	})
}

func (s *Server) getLevelHistory(w http.ResponseWriter, r *http.Request) {
	maxCount, ok := historyCount(w, r)
	if !ok {
		return
	}

	samples := s.store.Recent(models.StreamLevel, maxCount)

	entries := make([]levelHistoryEntry, 0, len(samples))
	for _, sample := range samples {
		entries = append(entries, levelHistoryEntry{
			Timestamp:    sample.Timestamp,
			LevelPercent: sample.Value,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) getCurrentTemperature(w http.ResponseWriter, r *http.Request) {
	sample, _ := s.store.Latest(models.StreamTemperature)

	writeJSON(w, http.StatusOK, currentTemperatureResponse{
		TemperatureC: sample.Value,
		Status:       silo.TemperatureStatus(sample.Value),
	})
}

func (s *Server) getTemperatureHistory(w http.ResponseWriter, r *http.Request) {
	maxCount, ok := historyCount(w, r)
	if !ok {
		return
	}

	samples := s.store.Recent(models.StreamTemperature, maxCount)

	entries := make([]temperatureHistoryEntry, 0, len(samples))
	for _, sample := range samples {
		entries = append(entries, temperatureHistoryEntry{
			Timestamp:    sample.Timestamp,
			TemperatureC: sample.Value,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

// historyCount parses the maxCount query parameter. Writes a 400 and
// returns false on malformed input.
func historyCount(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("maxCount")
	if raw == "" {
		return defaultHistoryCount, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "maxCount must be a non-negative integer")
		return 0, false
	}

	return n, true
}
