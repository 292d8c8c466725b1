package notification

import "time"

const TypeLike = "like"

// Notification is addressed to UserID, which holds the recipient's username.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActionBy  string    `json:"actionBy"`
	PostID    string    `json:"postId"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
