package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/monitoring"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/notification"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/post"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotLiked     = errors.New("user has not liked the post")
)

type Notifier interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, bool, error)
}

type Service struct {
	db       db.Querier
	posts    *post.Service
	notifier Notifier
}

func NewService(db db.Querier, posts *post.Service, notifier Notifier) *Service {
	return &Service{db: db, posts: posts, notifier: notifier}
}

// Result is the outcome of a like or unlike. Changed is false when a like was
// already present and nothing was written.
type Result struct {
	LikesCount int
	Changed    bool
}

// Like records userID's like on postID. The post row stays locked until the
// like row and the counter are both written, so concurrent likes and unlikes
// of the same post serialize. Liking twice is a no-op returning the current
// count.
func (s *Service) Like(ctx context.Context, postID, userID string) (Result, error) {
	var (
		res      Result
		title    string
		owner    string
		username string
	)
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, postID).Scan(&title, &owner, &res.LikesCount); err != nil {
			return notFound(err, ErrPostNotFound)
		}
		err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, userID).Scan(&username)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id, username)
			VALUES ($1,$2,$3)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, postID, userID, username)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		res.Changed = true
		return tx.QueryRow(ctx,
			`UPDATE posts SET likes_count = likes_count + 1 WHERE id=$1 RETURNING likes_count`,
			postID).Scan(&res.LikesCount)
	})
	if err != nil {
		return Result{}, err
	}
	if !res.Changed {
		return res, nil
	}

	monitoring.PostLikes.WithLabelValues("like").Inc()
	s.notifyLike(ctx, postID, userID, username, title, owner)
	return res, nil
}

// Unlike removes userID's like from postID. It fails with ErrNotLiked and
// leaves the counter untouched when there is nothing to remove.
func (s *Service) Unlike(ctx context.Context, postID, userID string) (Result, error) {
	var res Result
	err := db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var title, owner string
		if err := lockPost(ctx, tx, postID).Scan(&title, &owner, &res.LikesCount); err != nil {
			return notFound(err, ErrPostNotFound)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotLiked
		}

		res.Changed = true
		return tx.QueryRow(ctx,
			`UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id=$1 RETURNING likes_count`,
			postID).Scan(&res.LikesCount)
	})
	if err != nil {
		return Result{}, err
	}
	monitoring.PostLikes.WithLabelValues("unlike").Inc()
	return res, nil
}

func (s *Service) LikedPosts(ctx context.Context, userID string) ([]post.Post, error) {
	return s.posts.LikedBy(ctx, userID)
}

// notifyLike tells the post owner about a new like. Failures are logged; the
// like itself is already committed.
func (s *Service) notifyLike(ctx context.Context, postID, userID, username, title, owner string) {
	if s.notifier == nil {
		return
	}
	_, _, err := s.notifier.Create(ctx, notification.Notification{
		Type:     notification.TypeLike,
		ActionBy: userID,
		PostID:   postID,
		Message:  fmt.Sprintf("%s is Interested in your event!\n %s", username, title),
		UserID:   owner,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"post_id": postID, "user_id": userID}).Warn("like notification failed")
	}
}

func lockPost(ctx context.Context, tx pgx.Tx, postID string) pgx.Row {
	return tx.QueryRow(ctx, `SELECT title, username, likes_count FROM posts WHERE id=$1 FOR UPDATE`, postID)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
