package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Booking failure modes. The booking tool maps these onto the alternative
// availability text it hands back to the engine.
var (
	// ErrNoAvailability means the requested date has no open slots at all.
	ErrNoAvailability = errors.New("no availability on date")
	// ErrSlotTaken means the date has open slots but not the requested time.
	ErrSlotTaken = errors.New("time slot not available")
)

// Store is the persistence boundary for appointments and availability.
// Slot removal is atomic with appointment creation: two concurrent bookings
// of the same (date, time) cannot both succeed.
type Store interface {
	// SeedAvailability inserts the given date -> ordered time labels mapping,
	// skipping dates that already have slots recorded.
	SeedAvailability(ctx context.Context, slots map[string][]string) error

	// SlotsOn returns the open time labels for a date in stored order.
	SlotsOn(ctx context.Context, date string) ([]string, error)

	// NextAvailableDates scans forward from the day after 'after' up to
	// 'days' days and returns at most 'limit' dates that have open slots,
	// in chronological order.
	NextAvailableDates(ctx context.Context, after time.Time, days, limit int) ([]string, error)

	// BookSlot removes (appt.Date, appt.Time) from availability and records
	// the appointment in one transaction. Returns ErrNoAvailability or
	// ErrSlotTaken when the slot cannot be claimed.
	BookSlot(ctx context.Context, appt *Appointment) error

	// ReleaseSlot restores a previously booked slot. Cancellation hook;
	// no tool currently drives it.
	ReleaseSlot(ctx context.Context, date, timeLabel string) error

	// AppointmentsOn returns appointments for a date in stored order.
	AppointmentsOn(ctx context.Context, date string) ([]Appointment, error)

	// RecentAppointments returns the most recent 'limit' appointments in
	// stored (oldest-first) order.
	RecentAppointments(ctx context.Context, limit int) ([]Appointment, error)

	// DB exposes the underlying handle so sibling subsystems (the knowledge
	// index) can share the same database file.
	DB() *gorm.DB

	// Close releases the underlying database handle.
	Close() error
}
