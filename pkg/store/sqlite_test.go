package store

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "store-test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	s, err := NewSQLiteStore(Config{DatabasePath: tmpFile.Name()})
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		os.Remove(tmpFile.Name())
	})

	err = s.SeedAvailability(context.Background(), map[string][]string{
		"2024-01-15": {"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM"},
		"2024-01-16": {"10:00 AM", "1:00 PM", "3:00 PM"},
		"2024-01-17": {"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM", "5:00 PM"},
	})
	require.NoError(t, err)

	return s
}

func TestSlotsOnPreservesSeedOrder(t *testing.T) {
	s := setupTestStore(t)

	slots, err := s.SlotsOn(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM"}, slots)
}

func TestSeedAvailabilityIsIdempotent(t *testing.T) {
	s := setupTestStore(t)

	err := s.SeedAvailability(context.Background(), map[string][]string{
		"2024-01-15": {"8:00 AM"},
	})
	require.NoError(t, err)

	slots, err := s.SlotsOn(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM"}, slots)
}

func TestBookSlotRemovesOnlyThatSlot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	appt := &Appointment{
		ID:         "BK20240115110000-0001",
		Date:       "2024-01-15",
		Time:       "11:00 AM",
		Service:    "Consultation",
		ClientName: "Jane Doe",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.BookSlot(ctx, appt))

	slots, err := s.SlotsOn(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "2:00 PM", "4:00 PM"}, slots)

	// Other dates untouched.
	slots, err = s.SlotsOn(ctx, "2024-01-16")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM", "1:00 PM", "3:00 PM"}, slots)
}

func TestBookSlotRejectsDoubleBooking(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := &Appointment{ID: "BK1", Date: "2024-01-16", Time: "1:00 PM", ClientName: "A", CreatedAt: time.Now()}
	require.NoError(t, s.BookSlot(ctx, first))

	second := &Appointment{ID: "BK2", Date: "2024-01-16", Time: "1:00 PM", ClientName: "B", CreatedAt: time.Now()}
	err := s.BookSlot(ctx, second)
	assert.ErrorIs(t, err, ErrSlotTaken)

	appts, err := s.AppointmentsOn(ctx, "2024-01-16")
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestBookSlotUnknownDate(t *testing.T) {
	s := setupTestStore(t)

	appt := &Appointment{ID: "BK3", Date: "2024-02-01", Time: "9:00 AM", CreatedAt: time.Now()}
	err := s.BookSlot(context.Background(), appt)
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestBookSlotConcurrentSameSlot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			appt := &Appointment{
				ID:        "BK-conc-" + string(rune('a'+n)),
				Date:      "2024-01-17",
				Time:      "5:00 PM",
				CreatedAt: time.Now(),
			}
			errs[n] = s.BookSlot(ctx, appt)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		}
	}
	assert.Equal(t, 1, won, "exactly one concurrent booking may claim a slot")

	appts, err := s.AppointmentsOn(ctx, "2024-01-17")
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestNextAvailableDates(t *testing.T) {
	s := setupTestStore(t)

	after, err := time.Parse("2006-01-02", "2024-01-14")
	require.NoError(t, err)

	dates, err := s.NextAvailableDates(context.Background(), after, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15", "2024-01-16", "2024-01-17"}, dates)
}

func TestNextAvailableDatesOutsideWindow(t *testing.T) {
	s := setupTestStore(t)

	after, err := time.Parse("2006-01-02", "2024-03-01")
	require.NoError(t, err)

	dates, err := s.NextAvailableDates(context.Background(), after, 7, 3)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestReleaseSlotRestoresAvailability(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	appt := &Appointment{ID: "BK4", Date: "2024-01-15", Time: "9:00 AM", CreatedAt: time.Now()}
	require.NoError(t, s.BookSlot(ctx, appt))
	require.NoError(t, s.ReleaseSlot(ctx, "2024-01-15", "9:00 AM"))

	slots, err := s.SlotsOn(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, slots, "9:00 AM")
}

func TestRecentAppointmentsOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Now()
	bookings := []struct{ id, date, slot string }{
		{"BK-a", "2024-01-15", "9:00 AM"},
		{"BK-b", "2024-01-15", "11:00 AM"},
		{"BK-c", "2024-01-16", "10:00 AM"},
	}
	for i, b := range bookings {
		appt := &Appointment{ID: b.id, Date: b.date, Time: b.slot, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, s.BookSlot(ctx, appt))
	}

	appts, err := s.RecentAppointments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, "BK-b", appts[0].ID)
	assert.Equal(t, "BK-c", appts[1].ID)
}
