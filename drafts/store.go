// Package drafts stores blog drafts and their versions.
//
// Every mutation runs in a single transaction and keeps these invariants:
// a draft with versions has exactly one current version, each exclusive tag
// is held by at most one version per draft, the last version of a draft
// cannot be deleted, and share tokens are never reassigned.
//
// Lookups always filter by owner in the same query, so entities owned by
// someone else are reported as ErrNotFound.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"draftmode/models"
)

const SeedVersionName = "v1.0"

// SeedContent is the body of the first version of a new draft.
func SeedContent(title string) string {
	return fmt.Sprintf("# %s\n\nStart writing your blog post here...", title)
}

type Store struct {
	db       *gorm.DB
	log      zerolog.Logger
	now      func() time.Time
	newToken func() (string, error)
}

func NewStore(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{
		db:       db,
		log:      log.With().Str("component", "drafts").Logger(),
		now:      time.Now,
		newToken: newShareToken,
	}
}

// newestFirst orders versions by creation time, newest first.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

func ownedDraft(tx *gorm.DB, ownerID, draftID int) (*models.Draft, error) {
	var draft models.Draft
	if err := tx.Where("id = ? AND user_id = ?", draftID, ownerID).First(&draft).Error; err != nil {
		return nil, notFound(err, "load draft")
	}
	return &draft, nil
}

func ownedVersion(tx *gorm.DB, ownerID, versionID int) (*models.Version, error) {
	var version models.Version
	err := tx.Joins("JOIN drafts ON drafts.id = versions.draft_id").
		Where("versions.id = ? AND drafts.user_id = ?", versionID, ownerID).
		First(&version).Error
	if err != nil {
		return nil, notFound(err, "load version")
	}
	return &version, nil
}

func touchDraft(tx *gorm.DB, draftID int, now time.Time) error {
	return tx.Model(&models.Draft{}).Where("id = ?", draftID).UpdateColumn("updated_at", now).Error
}

// insertCurrent adds v to its draft as the current version, clearing the flag
// on every sibling in the same transaction.
func insertCurrent(tx *gorm.DB, v *models.Version, now time.Time) error {
	err := tx.Model(&models.Version{}).
		Where("draft_id = ? AND is_current = ?", v.DraftID, true).
		UpdateColumn("is_current", false).Error
	if err != nil {
		return err
	}

	v.IsCurrent = true
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Tag == "" {
		v.Tag = models.TagDraft
	}
	if err := tx.Create(v).Error; err != nil {
		return err
	}
	return touchDraft(tx, v.DraftID, now)
}

// CreateDraft creates a draft together with its seed version, which starts
// as the current one.
func (s *Store) CreateDraft(ctx context.Context, ownerID int, title, description string) (*models.Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrValidation
	}

	now := s.now()
	draft := models.Draft{
		UserID:      ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}
		seed := models.Version{
			DraftID: draft.ID,
			Name:    SeedVersionName,
			Content: SeedContent(title),
		}
		if err := insertCurrent(tx, &seed, now); err != nil {
			return err
		}
		draft.Versions = []models.Version{seed}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int("user_id", ownerID).Msg("error creating draft")
		return nil, fmt.Errorf("create draft: %w", err)
	}

	s.log.Debug().Int("user_id", ownerID).Int("draft_id", draft.ID).Msg("draft created")
	return &draft, nil
}

func (s *Store) RenameDraft(ctx context.Context, ownerID, draftID int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrValidation
	}
	return s.updateDraft(ctx, ownerID, draftID, map[string]interface{}{"title": title})
}

func (s *Store) UpdateDescription(ctx context.Context, ownerID, draftID int, description string) error {
	return s.updateDraft(ctx, ownerID, draftID, map[string]interface{}{"description": strings.TrimSpace(description)})
}

func (s *Store) updateDraft(ctx context.Context, ownerID, draftID int, updates map[string]interface{}) error {
	updates["updated_at"] = s.now()

	result := s.db.WithContext(ctx).Model(&models.Draft{}).
		Where("id = ? AND user_id = ?", draftID, ownerID).
		UpdateColumns(updates)
	if result.Error != nil {
		s.log.Error().Err(result.Error).Int("draft_id", draftID).Msg("error updating draft")
		return fmt.Errorf("update draft: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDraft removes the draft and all of its versions.
func (s *Store) DeleteDraft(ctx context.Context, ownerID, draftID int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ownedDraft(tx, ownerID, draftID)
		if err != nil {
			return err
		}
		if err := tx.Where("draft_id = ?", draft.ID).Delete(&models.Version{}).Error; err != nil {
			return err
		}
		return tx.Delete(draft).Error
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		s.log.Error().Err(err).Int("draft_id", draftID).Msg("error deleting draft")
		return fmt.Errorf("delete draft: %w", err)
	}

	s.log.Debug().Int("user_id", ownerID).Int("draft_id", draftID).Msg("draft deleted")
	return nil
}
