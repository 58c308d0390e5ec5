package store

import "time"

// Appointment is one booked slot. The ID is the confirmation id handed to
// the client (BK-prefixed).
type Appointment struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"index" json:"date"`
	Time        string    `json:"time"`
	Service     string    `json:"service"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailabilitySlot is one open bookable (date, time) pair. Position keeps
// the seed ordering of time labels within a date. The unique index makes a
// concurrent double-release of the same slot a no-op rather than a duplicate.
type AvailabilitySlot struct {
	ID       uint   `gorm:"primaryKey"`
	Date     string `gorm:"uniqueIndex:idx_date_time"`
	Time     string `gorm:"uniqueIndex:idx_date_time"`
	Position int
}
