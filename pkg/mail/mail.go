package mail

import "context"

// Transport delivers one email and returns the provider's delivery id.
// Implementations surface transport problems as errors; the email tool
// converts those into failure text for the reasoning engine.
type Transport interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}
