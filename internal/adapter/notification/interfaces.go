package notification

import "context"

//go:generate mockgen -source=interfaces.go -destination=../../mocks/notification_mocks.go -package=mocks

// Publisher puts an encoded message on the notification queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

type MailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
