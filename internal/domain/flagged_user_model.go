package domain

// FlaggedUser marks a username that was implicated in a suspicious event.
// Rows are only ever inserted; there is no unflag path.
type FlaggedUser struct {
	Username string `gorm:"primaryKey;size:255;not null"`
}
