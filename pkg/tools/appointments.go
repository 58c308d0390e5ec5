package tools

import (
	"context"
	"fmt"
	"strings"

	"frontdesk/pkg/api"
	"frontdesk/pkg/store"
)

// recentAppointmentsLimit caps the unfiltered listing.
const recentAppointmentsLimit = 5

// AppointmentsTool lists scheduled appointments, optionally filtered by date.
type AppointmentsTool struct {
	store store.Store
}

func NewAppointmentsTool(s store.Store) *AppointmentsTool {
	return &AppointmentsTool{store: s}
}

func (t *AppointmentsTool) Name() string { return "get_appointments" }

func (t *AppointmentsTool) Description() string {
	return "Get scheduled appointments, optionally filtered by date"
}

func (t *AppointmentsTool) Parameters() (map[string]api.Param, []string) {
	return map[string]api.Param{
		"date": {Type: "string", Description: "Date to filter appointments (YYYY-MM-DD format), optional"},
	}, nil
}

func (t *AppointmentsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	date, _ := args["date"].(string)

	if date != "" {
		appts, err := t.store.AppointmentsOn(ctx, date)
		if err != nil {
			return fmt.Sprintf("Error retrieving appointments: %v", err), nil
		}
		if len(appts) == 0 {
			return fmt.Sprintf("No appointments scheduled for %s", date), nil
		}

		lines := make([]string, 0, len(appts))
		for _, apt := range appts {
			lines = append(lines, fmt.Sprintf("%s - %s (%s)", apt.Time, apt.Service, apt.ClientName))
		}
		return fmt.Sprintf("Appointments for %s:\n%s", date, strings.Join(lines, "\n")), nil
	}

	appts, err := t.store.RecentAppointments(ctx, recentAppointmentsLimit)
	if err != nil {
		return fmt.Sprintf("Error retrieving appointments: %v", err), nil
	}
	if len(appts) == 0 {
		return "No appointments currently scheduled", nil
	}

	lines := make([]string, 0, len(appts))
	for _, apt := range appts {
		lines = append(lines, fmt.Sprintf("%s at %s - %s (%s)", apt.Date, apt.Time, apt.Service, apt.ClientName))
	}
	return fmt.Sprintf("Recent appointments:\n%s", strings.Join(lines, "\n")), nil
}
