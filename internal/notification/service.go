package notification

import (
	"context"
	"encoding/json"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Broadcaster pushes a payload to the live connections of a recipient.
type Broadcaster interface {
	Broadcast(key string, payload []byte)
}

type Service struct {
	db  db.Querier
	hub Broadcaster
}

func NewService(db db.Querier, hub Broadcaster) *Service {
	return &Service{db: db, hub: hub}
}

// Create stores n unless a notification with the same type, actor and post
// already exists. It reports whether a row was inserted; only new
// notifications are pushed to the recipient.
func (s *Service) Create(ctx context.Context, n Notification) (Notification, bool, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	rows, err := s.db.Query(ctx, `
		INSERT INTO notifications (id, type, action_by, post_id, message, user_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (type, action_by, post_id) DO NOTHING
		RETURNING created_at
	`, n.ID, n.Type, n.ActionBy, n.PostID, n.Message, n.UserID)
	if err != nil {
		return Notification{}, false, err
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&n.CreatedAt); err != nil {
			return Notification{}, false, err
		}
		inserted = true
	}
	if err := rows.Err(); err != nil {
		return Notification{}, false, err
	}
	if !inserted {
		return n, false, nil
	}

	if s.hub != nil {
		payload, err := json.Marshal(n)
		if err != nil {
			log.WithError(err).Warn("encode notification")
		} else {
			s.hub.Broadcast(n.UserID, payload)
		}
	}
	return n, true, nil
}

// List returns the notifications addressed to username, newest first.
func (s *Service) List(ctx context.Context, username string) ([]Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, type, action_by, post_id, message, user_id, created_at
		FROM notifications
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.ActionBy, &n.PostID, &n.Message, &n.UserID, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
