package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

var (
	ErrMailerNotConfigured = errors.New("password reset mail is not configured")
	ErrMissingFields       = errors.New("firstName, lastName, userName, email, password required")
	ErrInvalidCredentials  = errors.New("Email/Username or Password does not exist")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidResetToken   = errors.New("invalid token")
)

// ExistsError is returned by Signup when the username or email is taken.
type ExistsError struct {
	UsernameExists bool
	EmailExists    bool
}

func (e *ExistsError) Error() string { return "User already exists" }

// ResetMailer hands a password reset token to whatever delivers mail and
// returns an identifier for the queued message.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) (string, error)
}

type Service struct {
	secret []byte
	ttl    time.Duration
	db     db.Querier
	mailer ResetMailer
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, ttl time.Duration, db db.Querier, mailer ResetMailer) *Service {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		db:     db,
		mailer: mailer,
	}
}

// Signup creates the user and an empty profile in one transaction.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, TokenResponse, error) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return User{}, TokenResponse{}, ErrMissingFields
	}

	var takenUsername, takenEmail string
	err := s.db.QueryRow(ctx, `
		SELECT username, email FROM users
		WHERE username = $1 OR email = $2
		LIMIT 1
	`, req.Username, req.Email).Scan(&takenUsername, &takenEmail)
	switch {
	case err == nil:
		return User{}, TokenResponse{}, &ExistsError{
			UsernameExists: takenUsername == req.Username,
			EmailExists:    takenEmail == req.Email,
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return User{}, TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	err = db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (id, first_name, last_name, username, email, password_hash, password_reset)
			VALUES ($1,$2,$3,$4,$5,$6,'')
			RETURNING created_at
		`, user.ID, user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash)
		if err := row.Scan(&user.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (user_id, first_name, last_name)
			VALUES ($1,$2,$3)
		`, user.ID, user.FirstName, user.LastName)
		return err
	})
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, TokenResponse{Token: token, UserID: user.ID}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	if req.Identifier == "" || req.Password == "" {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	column := "username"
	if strings.Contains(req.Identifier, "@") {
		column = "email"
	}
	row := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, username, email, password_hash, created_at
		FROM users WHERE `+column+` = $1
	`, req.Identifier)

	var user User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, TokenResponse{Token: token, UserID: user.ID}, nil
}

// RequestPasswordReset stores a fresh reset token for the user and queues the
// reset mail. It returns the mailer's message id.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if s.mailer == nil {
		return "", ErrMailerNotConfigured
	}

	var userID string
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if _, err := s.db.Exec(ctx, `UPDATE users SET password_reset=$2 WHERE id=$1`, userID, token); err != nil {
		return "", err
	}
	return s.mailer.SendPasswordReset(ctx, email, token)
}

// ResetPassword consumes a reset token. A user without a pending token can
// never match.
func (s *Service) ResetPassword(ctx context.Context, req ResetRequest) error {
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		return ErrInvalidResetToken
	}

	var userID, pending string
	err := s.db.QueryRow(ctx, `
		SELECT id, COALESCE(password_reset, '') FROM users WHERE email = $1
	`, req.Email).Scan(&userID, &pending)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if pending == "" || subtle.ConstantTimeCompare([]byte(pending), []byte(req.Token)) != 1 {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE users SET password_hash=$2, password_reset=NULL WHERE id=$1
	`, userID, string(hash))
	return err
}

// Username returns the current username of userID.
func (s *Service) Username(ctx context.Context, userID string) (string, error) {
	var username string
	err := s.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, userID).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return username, err
}

// ValidateToken returns the user id carried by a token signed with the
// service secret.
func (s *Service) ValidateToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
