package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrBadJob marks a message that can never be delivered and must not be
// requeued.
var ErrBadJob = errors.New("bad email job")

type Worker struct {
	sender     MailSender
	appName    string
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewWorker builds a worker that waits retryDelay before handing a failed
// send back to the broker.
func NewWorker(sender MailSender, appName string, retryDelay time.Duration, logger *zap.Logger) *Worker {
	return &Worker{sender: sender, appName: appName, retryDelay: retryDelay, logger: logger}
}

// Handle decodes one job, renders it and sends it.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decoding: %w", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	mail, err := render(job.Template, templateData{
		AppName: w.appName,
		Name:    job.Data["name"],
		Email:   job.Data["email"],
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadJob, err)
	}

	return w.sender.Send(ctx, job.To, mail.Subject, mail.Text, mail.HTML)
}

// Run processes deliveries until the channel closes or ctx is done. Bad jobs
// are dropped. Send failures are requeued after the retry delay.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			w.process(ctx, msg)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg amqp.Delivery) {
	err := w.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			w.logger.Error("ack failed", zap.Error(ackErr))
		}
	case errors.Is(err, ErrBadJob):
		w.logger.Warn("dropping email job", zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			w.logger.Error("nack failed", zap.Error(nackErr))
		}
	default:
		w.logger.Warn("email send failed, requeueing",
			zap.Error(err),
			zap.Duration("retry_delay", w.retryDelay),
		)
		w.backoff(ctx)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			w.logger.Error("nack failed", zap.Error(nackErr))
		}
	}
}

// backoff holds the failed delivery for the retry delay. A cancelled ctx cuts
// it short so the message goes back to the queue on shutdown.
func (w *Worker) backoff(ctx context.Context) {
	if w.retryDelay <= 0 {
		return
	}
	timer := time.NewTimer(w.retryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
