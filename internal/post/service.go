package post

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidPatch = errors.New("invalid patch")
)

// ImageUploader stores a client supplied image (a data URI or remote URL) and
// returns the public URL it can be served from.
type ImageUploader interface {
	Upload(ctx context.Context, userID, image string) (string, error)
}

type Service struct {
	db       db.Querier
	uploader ImageUploader
}

func NewService(db db.Querier, uploader ImageUploader) *Service {
	return &Service{db: db, uploader: uploader}
}

const postColumns = `id, title, description, date, event_date, location, tags, img_url, username, likes_count`

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Post, error) {
	var username string
	err := s.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, userID).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrUserNotFound
	}
	if err != nil {
		return Post{}, err
	}

	var imgURL string
	if req.Image != "" && s.uploader != nil {
		imgURL, err = s.uploader.Upload(ctx, userID, req.Image)
		if err != nil {
			return Post{}, fmt.Errorf("upload image: %w", err)
		}
	}

	p := Post{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    orEmpty(req.Location),
		Tags:        orEmpty(req.Tags),
		ImgURL:      imgURL,
		Username:    username,
		Likes:       []Like{},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, title, description, event_date, location, tags, img_url, username)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING date
	`, p.ID, p.Title, p.Description, p.EventDate, p.Location, p.Tags, p.ImgURL, p.Username)
	if err := row.Scan(&p.Date); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) All(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date`)
}

func (s *Service) ByTag(ctx context.Context, tag string) ([]Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE $1 = ANY(tags) ORDER BY date`, tag)
}

// LikedBy returns the posts whose like list contains userID.
func (s *Service) LikedBy(ctx context.Context, userID string) ([]Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE id IN (SELECT post_id FROM post_likes WHERE user_id=$1)
		ORDER BY date
	`, userID)
}

// Filter loads every post and applies Filter to them.
func (s *Service) Filter(ctx context.Context, req FilterRequest) ([]Post, error) {
	posts, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(posts, req), nil
}

// Get returns a post with its likes; like usernames are resolved against the
// current users table and fall back to the snapshot taken at like time.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return s.withLikes(ctx, p)
}

// Patch updates the given fields. Keys use the JSON names of Post; unknown
// keys are ignored.
func (s *Service) Patch(ctx context.Context, id string, fields map[string]any) (Post, error) {
	columns, args, err := patchAssignments(fields)
	if err != nil {
		return Post{}, err
	}

	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s=$%d", col, i+2)
	}
	row := s.db.QueryRow(ctx,
		`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id=$1 RETURNING `+postColumns,
		append([]any{id}, args...)...)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return s.withLikes(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *Service) queryPosts(ctx context.Context, sql string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	var ids []string
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	likes, err := s.loadLikes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Likes = orEmpty(likes[posts[i].ID])
	}
	return posts, nil
}

func (s *Service) withLikes(ctx context.Context, p Post) (Post, error) {
	likes, err := s.loadLikes(ctx, []string{p.ID})
	if err != nil {
		return Post{}, err
	}
	p.Likes = orEmpty(likes[p.ID])
	return p, nil
}

func (s *Service) loadLikes(ctx context.Context, postIDs []string) (map[string][]Like, error) {
	if len(postIDs) == 0 {
		return map[string][]Like{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT pl.post_id, pl.user_id, COALESCE(u.username, pl.username), pl.created_at
		FROM post_likes pl
		LEFT JOIN users u ON u.id = pl.user_id
		WHERE pl.post_id = ANY($1)
		ORDER BY pl.created_at
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := map[string][]Like{}
	for rows.Next() {
		var postID string
		var l Like
		if err := rows.Scan(&postID, &l.User, &l.Username, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes[postID] = append(likes[postID], l)
	}
	return likes, rows.Err()
}

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Date, &p.EventDate, &p.Location, &p.Tags, &p.ImgURL, &p.Username, &p.LikesCount)
	p.Location = orEmpty(p.Location)
	p.Tags = orEmpty(p.Tags)
	return p, err
}

var patchColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"location":    "location",
	"tags":        "tags",
	"eventDate":   "event_date",
	"imgUrl":      "img_url",
}

func patchAssignments(fields map[string]any) ([]string, []any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := patchColumns[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("%w: no updatable fields", ErrInvalidPatch)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		v, err := patchValue(k, fields[k])
		if err != nil {
			return nil, nil, err
		}
		columns = append(columns, patchColumns[k])
		args = append(args, v)
	}
	return columns, args, nil
}

func patchValue(key string, raw any) (any, error) {
	switch key {
	case "location":
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: location must be an array of numbers", ErrInvalidPatch)
		}
		loc := make([]float64, len(items))
		for i, item := range items {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: location must be an array of numbers", ErrInvalidPatch)
			}
			loc[i] = f
		}
		return loc, nil
	case "tags":
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: tags must be an array of strings", ErrInvalidPatch)
		}
		tags := make([]string, len(items))
		for i, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: tags must be an array of strings", ErrInvalidPatch)
			}
			tags[i] = str
		}
		return tags, nil
	case "eventDate":
		if raw == nil {
			return (*time.Time)(nil), nil
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: eventDate must be a timestamp", ErrInvalidPatch)
		}
		t, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return nil, fmt.Errorf("%w: eventDate: %v", ErrInvalidPatch, err)
		}
		return &t, nil
	default:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidPatch, key)
		}
		return str, nil
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
