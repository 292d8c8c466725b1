package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"

	"github.com/google/uuid"
)

const KindPostImage = "post_image"

// ErrStoreFailed wraps every error coming back from the image store.
var ErrStoreFailed = errors.New("image store failed")

// Store puts image bytes somewhere public and returns the URL.
type Store interface {
	Put(ctx context.Context, image string) (string, error)
}

type Service struct {
	db    db.Querier
	store Store
}

func NewService(db db.Querier, store Store) *Service {
	return &Service{db: db, store: store}
}

// Upload pushes a post image to the store and records it against the user.
func (s *Service) Upload(ctx context.Context, userID, image string) (string, error) {
	_, url, err := s.UploadKind(ctx, userID, image, KindPostImage)
	return url, err
}

// UploadKind pushes the image to the store and records it with the given kind. It
// returns the ledger id and the public URL.
func (s *Service) UploadKind(ctx context.Context, userID, image, kind string) (string, string, error) {
	url, err := s.store.Put(ctx, image)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	id, err := s.SaveObject(ctx, userID, url, kind)
	if err != nil {
		return "", "", err
	}
	return id, url, nil
}

func (s *Service) SaveObject(ctx context.Context, userID, url, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", err
	}
	return id, nil
}
