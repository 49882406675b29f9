package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"draftmode/models"
)

// CreateVersion adds a new version to the draft and makes it current. The
// content is taken as given; nothing is merged from the previous current version.
func (s *Store) CreateVersion(ctx context.Context, ownerID, draftID int, name, content string) (*models.Version, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}

	var version models.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ownedDraft(tx, ownerID, draftID)
		if err != nil {
			return err
		}
		version = models.Version{DraftID: draft.ID, Name: name, Content: content}
		return insertCurrent(tx, &version, s.now())
	})
	if err != nil {
		return nil, s.fail(err, "create version", draftID)
	}

	s.log.Debug().Int("draft_id", draftID).Int("version_id", version.ID).Msg("version created")
	return &version, nil
}

// DuplicateVersion copies the content of a version into a new current version.
// The copy starts untagged and unshared. An empty name defaults to "<name> (Copy)".
func (s *Store) DuplicateVersion(ctx context.Context, ownerID, versionID int, name string) (*models.Version, error) {
	name = strings.TrimSpace(name)

	var copied models.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := ownedVersion(tx, ownerID, versionID)
		if err != nil {
			return err
		}
		if name == "" {
			name = source.Name + " (Copy)"
		}
		copied = models.Version{
			DraftID: source.DraftID,
			Name:    name,
			Content: source.Content,
			Tag:     models.TagDraft,
		}
		return insertCurrent(tx, &copied, s.now())
	})
	if err != nil {
		return nil, s.fail(err, "duplicate version", versionID)
	}

	s.log.Debug().Int("source_id", versionID).Int("version_id", copied.ID).Msg("version duplicated")
	return &copied, nil
}

// SaveContent replaces the content of a version in place.
func (s *Store) SaveContent(ctx context.Context, ownerID, versionID int, content string) (*models.Version, error) {
	return s.updateVersion(ctx, ownerID, versionID, "save content", map[string]interface{}{"content": content})
}

func (s *Store) RenameVersion(ctx context.Context, ownerID, versionID int, name string) (*models.Version, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	return s.updateVersion(ctx, ownerID, versionID, "rename version", map[string]interface{}{"name": name})
}

// updateVersion writes updates to one version and carries its new
// updated_at up to the parent draft.
func (s *Store) updateVersion(ctx context.Context, ownerID, versionID int, op string, updates map[string]interface{}) (*models.Version, error) {
	var version *models.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := ownedVersion(tx, ownerID, versionID)
		if err != nil {
			return err
		}
		now := s.now()
		updates["updated_at"] = now
		if err := tx.Model(&models.Version{}).Where("id = ?", v.ID).UpdateColumns(updates).Error; err != nil {
			return err
		}
		if err := touchDraft(tx, v.DraftID, now); err != nil {
			return err
		}
		version, err = ownedVersion(tx, ownerID, versionID)
		return err
	})
	if err != nil {
		return nil, s.fail(err, op, versionID)
	}
	return version, nil
}

// SetCurrent makes versionID the only current version of the draft.
func (s *Store) SetCurrent(ctx context.Context, ownerID, draftID, versionID int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ownedDraft(tx, ownerID, draftID)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Version{}).Where("id = ? AND draft_id = ?", versionID, draft.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		// one statement clears every sibling and flags the target
		err = tx.Model(&models.Version{}).
			Where("draft_id = ?", draft.ID).
			UpdateColumn("is_current", gorm.Expr("CASE WHEN id = ? THEN 1 ELSE 0 END", versionID)).Error
		if err != nil {
			return err
		}
		return touchDraft(tx, draft.ID, s.now())
	})
	if err != nil {
		return s.fail(err, "set current version", versionID)
	}

	s.log.Debug().Int("draft_id", draftID).Int("version_id", versionID).Msg("current version set")
	return nil
}

// SetTag applies tag to a version. An exclusive tag is first taken away from
// any sibling holding it, in the same statement that applies it.
func (s *Store) SetTag(ctx context.Context, ownerID, versionID int, tag string) (*models.Version, error) {
	t, ok := models.ParseTag(tag)
	if !ok {
		return nil, ErrInvalidTag
	}

	var version *models.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := ownedVersion(tx, ownerID, versionID)
		if err != nil {
			return err
		}

		if t.Exclusive() {
			err = tx.Model(&models.Version{}).
				Where("draft_id = ? AND (id = ? OR tag = ?)", v.DraftID, v.ID, string(t)).
				UpdateColumn("tag", gorm.Expr("CASE WHEN id = ? THEN ? ELSE ? END", v.ID, string(t), string(models.TagDraft))).Error
		} else {
			err = tx.Model(&models.Version{}).Where("id = ?", v.ID).UpdateColumn("tag", string(t)).Error
		}
		if err != nil {
			return err
		}

		now := s.now()
		if err := tx.Model(&models.Version{}).Where("id = ?", v.ID).UpdateColumn("updated_at", now).Error; err != nil {
			return err
		}
		if err := touchDraft(tx, v.DraftID, now); err != nil {
			return err
		}
		version, err = ownedVersion(tx, ownerID, versionID)
		return err
	})
	if err != nil {
		return nil, s.fail(err, "set tag", versionID)
	}

	s.log.Debug().Int("version_id", versionID).Str("tag", string(t)).Msg("tag set")
	return version, nil
}

// DeleteVersion removes a version unless it is the last one of its draft.
// When the removed version was current, the most recently created survivor
// becomes current.
func (s *Store) DeleteVersion(ctx context.Context, ownerID, versionID int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := ownedVersion(tx, ownerID, versionID)
		if err != nil {
			return err
		}

		// the sibling count is checked by the DELETE itself
		result := tx.Where("id = ? AND (SELECT COUNT(*) FROM versions WHERE draft_id = ?) > 1", v.ID, v.DraftID).
			Delete(&models.Version{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLastVersion
		}

		if v.IsCurrent {
			var next models.Version
			if err := newestFirst(tx.Where("draft_id = ?", v.DraftID)).First(&next).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Version{}).Where("id = ?", next.ID).UpdateColumn("is_current", true).Error; err != nil {
				return err
			}
		}
		return touchDraft(tx, v.DraftID, s.now())
	})
	if err != nil {
		return s.fail(err, "delete version", versionID)
	}

	s.log.Debug().Int("version_id", versionID).Msg("version deleted")
	return nil
}

// fail passes domain errors through untouched and logs and wraps anything else.
func (s *Store) fail(err error, op string, id int) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLastVersion),
		errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidTag):
		return err
	}
	s.log.Error().Err(err).Int("id", id).Msg("error during " + op)
	return fmt.Errorf("%s: %w", op, err)
}
