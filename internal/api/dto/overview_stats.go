package dto

// OverviewStats is the /stats payload: row counts across the four tables.
type OverviewStats struct {
	TotalEvents      int64 `json:"total_events"`
	SuspiciousEvents int64 `json:"suspicious_events"`
	SuspiciousRanges int64 `json:"suspicious_ranges"`
	FlaggedUsers     int64 `json:"flagged_users"`
	FlaggedIPs       int64 `json:"flagged_ips"`
}
