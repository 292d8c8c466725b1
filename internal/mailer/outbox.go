// Package mailer hands outgoing mail to an external delivery worker through a
// redis list. The worker owns SMTP and templates; this side only enqueues.
package mailer

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const TemplatePasswordReset = "password_reset"

type Message struct {
	ID       string            `json:"id"`
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
	QueuedAt time.Time         `json:"queued_at"`
}

type Outbox struct {
	redis    *redis.Client
	queue    string
	resetURL string
}

func NewOutbox(redisClient *redis.Client, queue, resetURL string) *Outbox {
	return &Outbox{redis: redisClient, queue: queue, resetURL: resetURL}
}

// SendPasswordReset queues the reset mail and returns its message id. Without
// redis the message is only logged, which keeps local development usable.
func (o *Outbox) SendPasswordReset(ctx context.Context, email, token string) (string, error) {
	msg := Message{
		ID:       uuid.NewString(),
		To:       email,
		Template: TemplatePasswordReset,
		Data: map[string]string{
			"token": token,
			"link":  o.resetLink(email, token),
		},
		QueuedAt: time.Now().UTC(),
	}
	return msg.ID, o.enqueue(ctx, msg)
}

func (o *Outbox) enqueue(ctx context.Context, msg Message) error {
	entry := log.WithFields(log.Fields{"mail_id": msg.ID, "template": msg.Template, "to": msg.To})
	if o.redis == nil {
		entry.Warn("no mail queue configured, message not delivered")
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := o.redis.RPush(ctx, o.queue, payload).Err(); err != nil {
		return err
	}
	entry.Info("mail queued")
	return nil
}

func (o *Outbox) resetLink(email, token string) string {
	if o.resetURL == "" {
		return ""
	}
	u, err := url.Parse(o.resetURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("email", email)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
