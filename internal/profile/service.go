package profile

import (
	"context"
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, age, bio, country, travel_preferences, interests
		FROM profiles WHERE user_id=$1
	`, userID)
	return scanProfile(row)
}

// Update merges the non-nil fields of u into the stored profile.
func (s *Service) Update(ctx context.Context, userID string, u Update) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE profiles SET
			first_name         = COALESCE($2, first_name),
			last_name          = COALESCE($3, last_name),
			age                = COALESCE($4, age),
			bio                = COALESCE($5, bio),
			country            = COALESCE($6, country),
			travel_preferences = COALESCE($7, travel_preferences),
			interests          = COALESCE($8, interests)
		WHERE user_id=$1
		RETURNING user_id, first_name, last_name, age, bio, country, travel_preferences, interests
	`, userID, u.FirstName, u.LastName, u.Age, u.Bio, u.Country, u.TravelPreferences, u.Interests)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Age, &p.Bio, &p.Country, &p.TravelPreferences, &p.Interests)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
