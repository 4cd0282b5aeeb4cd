package domain

// SuspiciousIPRange stores a normalized CIDR network. Host bits are collapsed
// before insert, so the string itself is the identity of the range.
// Overlapping ranges are allowed and stored independently.
type SuspiciousIPRange struct {
	CIDR string `gorm:"column:cidr;primaryKey;size:64;not null"`
}
