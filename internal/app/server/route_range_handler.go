package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"sentinel/internal/api/dto"
	"sentinel/internal/database"
	"sentinel/internal/support"
)

func (s *Server) addIPRange(w http.ResponseWriter, r *http.Request) {
	var ipRange dto.IPRange
	if err := json.NewDecoder(r.Body).Decode(&ipRange); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	_, err := s.ranges.Add(r.Context(), ipRange.Cidr)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"message": "IP range added"})
	case errors.Is(err, support.ErrInvalidCIDR):
		writeError(w, "Invalid CIDR notation", http.StatusBadRequest)
	case errors.Is(err, database.ErrDuplicateRange):
		writeError(w, "This IP range already exists", http.StatusConflict)
	default:
		log.Error("Could not add IP range", "cidr", ipRange.Cidr, "error", err)
		writeError(w, "Failed to add IP range", http.StatusInternalServerError)
	}
}

func (s *Server) getIPRanges(w http.ResponseWriter, r *http.Request) {
	cidrs, err := s.ranges.List(r.Context())
	if err != nil {
		log.Error("Could not list IP ranges", "error", err)
		writeError(w, "Failed to list IP ranges", http.StatusInternalServerError)
		return
	}

	ipRanges := make([]dto.IPRange, 0, len(cidrs))
	for _, cidr := range cidrs {
		ipRanges = append(ipRanges, dto.IPRange{Cidr: cidr})
	}

	writeJSON(w, http.StatusOK, ipRanges)
}

func (s *Server) deleteIPRange(w http.ResponseWriter, r *http.Request) {
	cidr := r.URL.Query().Get("cidr")
	if cidr == "" {
		writeError(w, "Missing cidr query parameter", http.StatusBadRequest)
		return
	}

	err := s.ranges.Delete(r.Context(), cidr)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "IP range deleted"})
	case errors.Is(err, support.ErrInvalidCIDR):
		writeError(w, "Invalid CIDR notation", http.StatusBadRequest)
	case errors.Is(err, database.ErrRangeNotFound):
		writeError(w, "IP range not found", http.StatusNotFound)
	default:
		log.Error("Could not delete IP range", "cidr", cidr, "error", err)
		writeError(w, "Failed to delete IP range", http.StatusInternalServerError)
	}
}
