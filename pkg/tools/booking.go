package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"frontdesk/pkg/api"
	"frontdesk/pkg/store"
	"frontdesk/pkg/utils"
)

// BookingTool books an appointment against the availability store.
type BookingTool struct {
	store     store.Store
	validator *validator.Validate
	now       func() time.Time
}

type bookingInput struct {
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Service     string `json:"service"`
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"omitempty,email"`
}

func NewBookingTool(s store.Store) *BookingTool {
	return &BookingTool{
		store:     s,
		validator: validator.New(),
		now:       time.Now,
	}
}

func (t *BookingTool) Name() string { return "book_appointment" }

func (t *BookingTool) Description() string { return "Book an appointment for a client" }

func (t *BookingTool) Parameters() (map[string]api.Param, []string) {
	return map[string]api.Param{
		"date":         {Type: "string", Description: "Date in YYYY-MM-DD format"},
		"time":         {Type: "string", Description: "Time in HH:MM AM/PM format"},
		"service":      {Type: "string", Description: "Type of service (e.g., Consultation, Cloud Migration, AI Solutions)"},
		"client_name":  {Type: "string", Description: "Client's full name"},
		"client_email": {Type: "string", Description: "Client's email address (optional)"},
	}, []string{"date", "time", "service", "client_name"}
}

func (t *BookingTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var input bookingInput
	if err := decodeArgs(args, t.validator, &input); err != nil {
		return fmt.Sprintf("Sorry, I couldn't book the appointment. Error: %v", err), nil
	}
	if input.Service == "" {
		input.Service = "Consultation"
	}

	slots, err := t.store.SlotsOn(ctx, input.Date)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't book the appointment. Error: %v", err), nil
	}
	if len(slots) == 0 {
		return t.dateUnavailable(input.Date), nil
	}
	if !containsSlot(slots, input.Time) {
		return t.timeUnavailable(input.Date, input.Time, slots), nil
	}

	appt := &store.Appointment{
		ID:          utils.BookingID(t.now()),
		Date:        input.Date,
		Time:        input.Time,
		Service:     input.Service,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		CreatedAt:   t.now(),
	}

	switch err := t.store.BookSlot(ctx, appt); {
	case errors.Is(err, store.ErrNoAvailability):
		return t.dateUnavailable(input.Date), nil
	case errors.Is(err, store.ErrSlotTaken):
		// Lost a race; report what is still open.
		remaining, lerr := t.store.SlotsOn(ctx, input.Date)
		if lerr != nil {
			remaining = nil
		}
		return t.timeUnavailable(input.Date, input.Time, remaining), nil
	case err != nil:
		return fmt.Sprintf("Sorry, I couldn't book the appointment. Error: %v", err), nil
	}

	return fmt.Sprintf(
		"✅ Appointment booked successfully! Confirmation ID: %s. %s scheduled for %s at %s for %s. We'll send a confirmation email if provided.",
		appt.ID, appt.Service, appt.Date, appt.Time, appt.ClientName,
	), nil
}

func (t *BookingTool) dateUnavailable(date string) string {
	return fmt.Sprintf("Sorry, we don't have availability on %s. Please choose another date.", date)
}

func (t *BookingTool) timeUnavailable(date, timeLabel string, available []string) string {
	return fmt.Sprintf("Sorry, %s is not available on %s. Available times: %s",
		timeLabel, date, strings.Join(available, ", "))
}

func containsSlot(slots []string, timeLabel string) bool {
	for _, s := range slots {
		if s == timeLabel {
			return true
		}
	}
	return false
}
