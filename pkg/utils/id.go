package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idCounter uint32

// BookingID generates a booking confirmation id of the form
// BK20240115110000-a3f2. The wall-clock part alone collides under rapid
// repeated bookings, so a monotonic counter is folded into the suffix.
func BookingID(now time.Time) string {
	c := atomic.AddUint32(&idCounter, 1) & 0xFFFF
	return fmt.Sprintf("BK%s-%04x", now.Format("20060102150405"), c)
}
