package notification

import "context"

// Template names for outbound resident email.
const (
	TemplateVerificationApproved = "verification_approved"
	TemplateVerificationDeclined = "verification_declined"
)

// Notifier sends a templated message to one recipient. Sends are
// fire-and-forget from the caller's point of view: a failure must never
// block the state transition that triggered it, only degrade its result.
type Notifier interface {
	Send(ctx context.Context, toEmail, toName, template string, params map[string]string) error
}

// NopNotifier discards every send. Used when no SMTP host is configured.
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, toEmail, toName, template string, params map[string]string) error {
	return nil
}
