package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"sentinel/internal/api/dto"
	"sentinel/internal/database"
	"sentinel/internal/domain"
)

const (
	minQueryLimit     = 1
	maxQueryLimit     = 10000
	defaultQueryLimit = 100
)

func (s *Server) processEvents(w http.ResponseWriter, r *http.Request) {
	var requests []dto.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Validate the whole batch up front so a malformed entry rejects the
	// request before anything is persisted.
	events := make([]domain.Event, 0, len(requests))
	for i, request := range requests {
		event, err := request.Validate()
		if err != nil {
			writeError(w, fmt.Sprintf("Event %d: %v", i, err), http.StatusBadRequest)
			return
		}
		events = append(events, event)
	}

	results, err := s.engine.ProcessBatch(r.Context(), events)
	if err != nil {
		log.Error("Could not process events", "error", err)
		writeError(w, "Failed to process events", http.StatusInternalServerError)
		return
	}

	responses := make([]dto.EventResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, dto.EventResponse{
			User:         result.Username,
			IP:           result.SourceIP,
			IsSuspicious: result.Suspicious,
		})
	}

	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) getSuspiciousEvents(w http.ResponseWriter, r *http.Request) {
	query := database.EventQuery{Limit: defaultQueryLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < minQueryLimit || limit > maxQueryLimit {
			writeError(w, fmt.Sprintf("limit must be between %d and %d", minQueryLimit, maxQueryLimit), http.StatusBadRequest)
			return
		}
		query.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, "offset must be zero or positive", http.StatusBadRequest)
			return
		}
		query.Offset = offset
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "start_date must be RFC 3339", http.StatusBadRequest)
			return
		}
		query.Start = &start
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "end_date must be RFC 3339", http.StatusBadRequest)
			return
		}
		query.End = &end
	}

	events, err := s.events.Suspicious(r.Context(), query)
	if err != nil {
		log.Error("Could not query suspicious events", "error", err)
		writeError(w, "Failed to query suspicious events", http.StatusInternalServerError)
		return
	}

	records := make([]dto.EventRecord, 0, len(events))
	for _, event := range events {
		records = append(records, dto.EventRecordFrom(event))
	}

	writeJSON(w, http.StatusOK, records)
}
