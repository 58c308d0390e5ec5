package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingIDFormat(t *testing.T) {
	id := BookingID(time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^BK20240115110000-[0-9a-f]{4}$`, id)
}

func TestBookingIDUniqueAtSameInstant(t *testing.T) {
	now := time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := BookingID(now)
		assert.False(t, seen[id], "id %s reused", id)
		seen[id] = true
	}
}
