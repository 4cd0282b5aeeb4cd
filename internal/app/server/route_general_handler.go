package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"sentinel/internal/api/dto"
	"sentinel/internal/app/version"
)

func (s *Server) getOverviewStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, suspicious, err := s.events.Count(ctx)
	if err != nil {
		log.Error("Could not count events", "error", err)
		writeError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	rangeCount, err := s.ranges.Count(ctx)
	if err != nil {
		log.Error("Could not count ranges", "error", err)
		writeError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	userCount, err := s.flags.CountUsers(ctx)
	if err != nil {
		log.Error("Could not count flagged users", "error", err)
		writeError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	ipCount, err := s.flags.CountIPs(ctx)
	if err != nil {
		log.Error("Could not count flagged ips", "error", err)
		writeError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.OverviewStats{
		TotalEvents:      total,
		SuspiciousEvents: suspicious,
		SuspiciousRanges: rangeCount,
		FlaggedUsers:     userCount,
		FlaggedIPs:       ipCount,
	})
}

func getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo())
}

func (s *Server) refreshFeeds(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.feeds.Refresh(r.Context())
	if err != nil {
		log.Error("Manual feed refresh failed", "error", err)
		writeError(w, "Feed refresh failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}
