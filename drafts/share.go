package drafts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"draftmode/models"
)

const (
	shareTokenBytes  = 16
	maxTokenAttempts = 5
)

var errTokenCollision = errors.New("could not mint a unique share token")

func newShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateShareToken returns the version's share token, minting one on first
// use. A token is written only where none exists yet, so it never changes
// once assigned.
func (s *Store) GenerateShareToken(ctx context.Context, ownerID, versionID int) (string, error) {
	db := s.db.WithContext(ctx)

	version, err := ownedVersion(db, ownerID, versionID)
	if err != nil {
		return "", s.fail(err, "generate share token", versionID)
	}
	if version.IsShared() {
		return *version.ShareToken, nil
	}

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("mint share token: %w", err)
		}

		result := db.Model(&models.Version{}).
			Where("id = ? AND share_token IS NULL", version.ID).
			UpdateColumn("share_token", token)
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			s.log.Warn().Int("version_id", versionID).Int("attempt", attempt).Msg("share token collision, retrying")
			continue
		}
		if result.Error != nil {
			return "", s.fail(result.Error, "generate share token", versionID)
		}

		if result.RowsAffected == 0 {
			// another request shared it first
			var current models.Version
			if err := db.First(&current, version.ID).Error; err != nil {
				return "", s.fail(err, "generate share token", versionID)
			}
			if current.IsShared() {
				return *current.ShareToken, nil
			}
			continue
		}

		s.log.Debug().Int("version_id", versionID).Msg("share token generated")
		return token, nil
	}

	s.log.Error().Int("version_id", versionID).Msg("giving up on share token")
	return "", errTokenCollision
}

// SharedVersion is what a share token reveals: the version, its draft's
// title and description, and the author's name.
type SharedVersion struct {
	VersionID        int        `json:"-"`
	Token            string     `json:"token"`
	VersionName      string     `json:"version_name"`
	DisplayName      string     `json:"display_name"`
	Tag              models.Tag `json:"tag"`
	Content          string     `json:"content"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DraftTitle       string     `json:"draft_title"`
	DraftDescription string     `json:"draft_description"`
	AuthorName       string     `json:"author_name"`
}

// ResolveShareToken looks a version up by its share token. No owner is needed.
func (s *Store) ResolveShareToken(ctx context.Context, token string) (*SharedVersion, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var version models.Version
	err := s.db.WithContext(ctx).
		Preload("Draft.User").
		Where("share_token = ?", token).
		First(&version).Error
	if err != nil {
		return nil, notFound(err, "resolve share token")
	}

	shared := &SharedVersion{
		VersionID:   version.ID,
		Token:       token,
		VersionName: version.Name,
		DisplayName: version.DisplayName(),
		Tag:         version.Tag,
		Content:     version.Content,
		UpdatedAt:   version.UpdatedAt,
	}
	if version.Draft != nil {
		shared.DraftTitle = version.Draft.Title
		shared.DraftDescription = version.Draft.Description
		if version.Draft.User != nil {
			shared.AuthorName = version.Draft.User.Name
		}
	}
	return shared, nil
}
