package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marcos-nsantos/account-api/internal/domain/entity"
)

// QueueSink turns signup notifications into welcome email jobs.
type QueueSink struct {
	publisher Publisher
}

func NewQueueSink(publisher Publisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

func (s *QueueSink) NotifySignup(ctx context.Context, email string, user entity.User) error {
	body, err := json.Marshal(EmailJob{
		To:       email,
		Template: TemplateWelcome,
		Data: map[string]string{
			"name":  user.Name,
			"email": user.Email,
		},
	})
	if err != nil {
		return fmt.Errorf("encoding email job: %w", err)
	}

	if err := s.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("publishing welcome email: %w", err)
	}
	return nil
}
