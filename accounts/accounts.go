// Package accounts owns users: registration, credential checks, profile
// changes and account deletion.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"draftmode/models"
)

const MinPasswordLength = 6

// MaxPasswordLength is the most bcrypt will hash.
const MaxPasswordLength = 72

type Store struct {
	db   *gorm.DB
	log  zerolog.Logger
	cost int
}

// NewStore returns a Store hashing with the given bcrypt cost. A cost outside
// bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewStore(db *gorm.DB, log zerolog.Logger, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		db:   db,
		log:  log.With().Str("component", "accounts").Logger(),
		cost: cost,
	}
}

// ProfileUpdate carries optional profile changes. Empty fields are left as they are.
type ProfileUpdate struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return "", ErrWeakPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrWeakPassword
	}
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *Store) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	// the unique index decides, so two concurrent signups cannot both win
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error().Err(err).Msg("error creating user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Msg("user created")
	return &user, nil
}

// Verify returns the user owning email when password matches, and nil
// otherwise. An unknown email and a wrong password look the same.
func (s *Store) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		return nil, nil
	}
	return &user, nil
}

func (s *Store) Get(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != "" {
		name := strings.TrimSpace(upd.Name)
		if name == "" {
			return nil, ErrValidation
		}
		user.Name = name
	}
	if upd.Email != "" {
		email := normalizeEmail(upd.Email)
		if email == "" {
			return nil, ErrValidation
		}
		user.Email = email
	}
	if upd.NewPassword != "" {
		if upd.CurrentPassword == "" || !checkPasswordHash(upd.CurrentPassword, user.PasswordHash) {
			return nil, ErrWrongPassword
		}
		passwordHash, err := s.hashPassword(upd.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error().Err(err).Int("user_id", userID).Msg("error updating profile")
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Int("user_id", userID).Bool("password_changed", upd.NewPassword != "").Msg("profile updated")
	return user, nil
}

// Delete removes the user together with every draft and version they own.
// The password is re-checked first.
func (s *Store) Delete(ctx context.Context, userID int, password string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if password == "" || !checkPasswordHash(password, user.PasswordHash) {
		return ErrWrongPassword
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draftIDs := tx.Model(&models.Draft{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("draft_id IN (?)", draftIDs).Delete(&models.Version{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Draft{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("error deleting account")
		return fmt.Errorf("delete account: %w", err)
	}

	s.log.Info().Int("user_id", userID).Msg("account deleted")
	return nil
}
