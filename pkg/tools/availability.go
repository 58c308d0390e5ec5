package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"frontdesk/pkg/api"
	"frontdesk/pkg/store"
)

const (
	// forwardSearchDays is how far ahead the tool scans when the requested
	// date has nothing open.
	forwardSearchDays = 7
	// forwardSearchLimit caps the number of alternative dates offered.
	forwardSearchLimit = 3
)

// AvailabilityTool reports open slots for a date, offering nearby
// alternatives when the date is fully booked.
type AvailabilityTool struct {
	store     store.Store
	validator *validator.Validate
}

type availabilityInput struct {
	Date string `json:"date" validate:"required"`
}

func NewAvailabilityTool(s store.Store) *AvailabilityTool {
	return &AvailabilityTool{
		store:     s,
		validator: validator.New(),
	}
}

func (t *AvailabilityTool) Name() string { return "check_availability" }

func (t *AvailabilityTool) Description() string {
	return "Check appointment availability for a specific date"
}

func (t *AvailabilityTool) Parameters() (map[string]api.Param, []string) {
	return map[string]api.Param{
		"date": {Type: "string", Description: "Date to check in YYYY-MM-DD format"},
	}, []string{"date"}
}

func (t *AvailabilityTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var input availabilityInput
	if err := decodeArgs(args, t.validator, &input); err != nil {
		return fmt.Sprintf("Error checking availability: %v", err), nil
	}

	slots, err := t.store.SlotsOn(ctx, input.Date)
	if err != nil {
		return fmt.Sprintf("Error checking availability: %v", err), nil
	}
	if len(slots) > 0 {
		return fmt.Sprintf("✅ Available time slots for %s: %s", input.Date, strings.Join(slots, ", ")), nil
	}

	base, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return fmt.Sprintf("Error checking availability: %v", err), nil
	}

	futureDates, err := t.store.NextAvailableDates(ctx, base, forwardSearchDays, forwardSearchLimit)
	if err != nil {
		return fmt.Sprintf("Error checking availability: %v", err), nil
	}
	if len(futureDates) > 0 {
		return fmt.Sprintf("No availability on %s. Next available dates: %s",
			input.Date, strings.Join(futureDates, ", ")), nil
	}

	return fmt.Sprintf("No availability on %s. Please call %s to check further dates.", input.Date, officePhone), nil
}
