// Package services contains server-side business logic. This file implements
// UserService, which handles token-gated registration, login, and issuing
// bearer credentials.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"classtrack-server/internal/common"
	"classtrack-server/internal/dbx"
	"classtrack-server/internal/server/auth"
	"classtrack-server/internal/server/config"
	"classtrack-server/internal/server/models"
	"classtrack-server/internal/server/repositories/repomanager"
)

// bcryptCost is the adaptive hashing cost factor for stored passwords.
const bcryptCost = 10

// minPasswordLength is the registration password policy.
const minPasswordLength = 5

// UserService provides authentication-related operations:
// - Register: consume an admission token and create a user
// - Login: verify credentials and mint a bearer credential
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register consumes the admission token and creates the user in a single
// transaction, so a token is only burned when registration actually succeeds
// and can never admit two accounts.
//
// Failure modes: common.ErrRegistrationNotAllowed (unknown or already consumed
// token), common.ValidationError (password policy), common.ErrorAlreadyExists
// (duplicate email).
func (s *UserService) Register(ctx context.Context, email, password, registerToken string) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RegisterTokens(tx).Consume(ctx, registerToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrRegistrationNotAllowed
			}
			return fmt.Errorf("error consuming register token: %w", err)
		}

		if email == "" {
			return common.NewValidationError("User must have an email")
		}
		if len(password) < minPasswordLength {
			return common.NewValidationError(fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password against the stored hash and, on success, returns
// a signed bearer credential. Unknown emails yield common.ErrorNotFound,
// wrong passwords common.ErrWrongPassword.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrWrongPassword
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
