package domain

// FlaggedIP marks a single address (not a range) that was implicated in a
// suspicious event. Same lifecycle as FlaggedUser: insert once, never removed.
type FlaggedIP struct {
	IP string `gorm:"primaryKey;size:45;not null"` // IPv6 support
}
