package notification

import "context"

// Mailer delivers one planned notification. Implementations own
// transport concerns (retries, timeouts); planning never touches the
// network.
type Mailer interface {
	Send(ctx context.Context, recipients []string, template TemplateKind, variables map[string]string) error
}
