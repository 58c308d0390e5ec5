package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"frontdesk/pkg/api"
	"frontdesk/pkg/mail"
)

// EmailTool sends an email on the client's behalf through the configured
// transport.
type EmailTool struct {
	transport mail.Transport
	validator *validator.Validate
}

type emailInput struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func NewEmailTool(transport mail.Transport) *EmailTool {
	return &EmailTool{
		transport: transport,
		validator: validator.New(),
	}
}

func (t *EmailTool) Name() string { return "send_email" }

func (t *EmailTool) Description() string { return "Send an email to a recipient" }

func (t *EmailTool) Parameters() (map[string]api.Param, []string) {
	return map[string]api.Param{
		"to":      {Type: "string", Description: "Recipient email address"},
		"subject": {Type: "string", Description: "Email subject line"},
		"message": {Type: "string", Description: "Email content/body"},
	}, []string{"to", "subject", "message"}
}

func (t *EmailTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var input emailInput
	if err := decodeArgs(args, t.validator, &input); err != nil {
		return "❌ Missing required email fields (to, subject, message)", nil
	}

	id, err := t.transport.Send(ctx, input.To, input.Subject, mail.Envelope(input.Message))
	if err != nil {
		slog.ErrorContext(ctx, "Email delivery failed", "to", input.To, "error", err)
		return fmt.Sprintf("❌ Failed to send email: %v", err), nil
	}

	slog.InfoContext(ctx, "Email delivered", "to", input.To, "delivery_id", id)
	return fmt.Sprintf("✅ Email sent successfully to %s with subject '%s'", input.To, input.Subject), nil
}
