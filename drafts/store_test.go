package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"draftmode/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database")
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	db.AutoMigrate(&models.User{}, &models.Draft{}, &models.Version{})
	return db
}

// steppingClock advances one second per call so creation order is unambiguous.
func steppingClock() func() time.Time {
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func setupStore() (*Store, *gorm.DB) {
	db := setupTestDB()
	store := NewStore(db, zerolog.Nop())
	store.now = steppingClock()
	return store, db
}

func createTestUser(db *gorm.DB, email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	db.Create(user)
	return user
}

func loadVersions(t *testing.T, db *gorm.DB, draftID int) []models.Version {
	t.Helper()
	var versions []models.Version
	require.NoError(t, db.Where("draft_id = ?", draftID).Order("id").Find(&versions).Error)
	return versions
}

func currentCount(versions []models.Version) int {
	n := 0
	for _, v := range versions {
		if v.IsCurrent {
			n++
		}
	}
	return n
}

func TestCreateDraft_SeedsFirstVersion(t *testing.T) {
	store, db := setupStore()
	user := createTestUser(db, "test@example.com")

	draft, err := store.CreateDraft(context.Background(), user.ID, "My Post", "About things")
	require.NoError(t, err)

	versions := loadVersions(t, db, draft.ID)
	require.Len(t, versions, 1)
	assert.Equal(t, "v1.0", versions[0].Name)
	assert.True(t, versions[0].IsCurrent)
	assert.Equal(t, models.TagDraft, versions[0].Tag)
	assert.Equal(t, "# My Post\n\nStart writing your blog post here...", versions[0].Content)
	assert.Equal(t, "About things", draft.Description)
}

func TestCreateDraft_EmptyTitle(t *testing.T) {
	store, db := setupStore()
	user := createTestUser(db, "test@example.com")

	_, err := store.CreateDraft(context.Background(), user.ID, "   ", "")
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	db.Model(&models.Draft{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRenameDraft(t *testing.T) {
	store, db := setupStore()
	ctx := context.Background()
	user := createTestUser(db, "test@example.com")
	other := createTestUser(db, "other@example.com")
	draft, _ := store.CreateDraft(ctx, user.ID, "Old", "")

	assert.ErrorIs(t, store.RenameDraft(ctx, user.ID, draft.ID, " "), ErrValidation)
	assert.ErrorIs(t, store.RenameDraft(ctx, other.ID, draft.ID, "Stolen"), ErrNotFound)
	require.NoError(t, store.RenameDraft(ctx, user.ID, draft.ID, "New"))

	reloaded, err := store.GetDraft(ctx, user.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", reloaded.Title)
	assert.True(t, reloaded.UpdatedAt.After(draft.UpdatedAt))
}

func TestUpdateDescription(t *testing.T) {
	store, db := setupStore()
	ctx := context.Background()
	user := createTestUser(db, "test@example.com")
	draft, _ := store.CreateDraft(ctx, user.ID, "Post", "")

	require.NoError(t, store.UpdateDescription(ctx, user.ID, draft.ID, "  short summary "))

	reloaded, _ := store.GetDraft(ctx, user.ID, draft.ID)
	assert.Equal(t, "short summary", reloaded.Description)
}

func TestDeleteDraft_CascadesVersions(t *testing.T) {
	store, db := setupStore()
	ctx := context.Background()
	user := createTestUser(db, "test@example.com")
	other := createTestUser(db, "other@example.com")

	draft, _ := store.CreateDraft(ctx, user.ID, "Post", "")
	_, err := store.CreateVersion(ctx, user.ID, draft.ID, "v2.0", "more")
	require.NoError(t, err)
	kept, _ := store.CreateDraft(ctx, user.ID, "Kept", "")

	assert.ErrorIs(t, store.DeleteDraft(ctx, other.ID, draft.ID), ErrNotFound)
	require.NoError(t, store.DeleteDraft(ctx, user.ID, draft.ID))

	assert.Empty(t, loadVersions(t, db, draft.ID))
	assert.Len(t, loadVersions(t, db, kept.ID), 1)

	_, err = store.GetDraft(ctx, user.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnership_ForeignUserSeesNotFound(t *testing.T) {
	store, db := setupStore()
	ctx := context.Background()
	owner := createTestUser(db, "owner@example.com")
	intruder := createTestUser(db, "intruder@example.com")

	draft, _ := store.CreateDraft(ctx, owner.ID, "Private", "")
	v := draft.Versions[0]

	_, err := store.GetDraft(ctx, intruder.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetVersion(ctx, intruder.ID, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.CreateVersion(ctx, intruder.ID, draft.ID, "v2", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.SaveContent(ctx, intruder.ID, v.ID, "hacked")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.RenameVersion(ctx, intruder.ID, v.ID, "hacked")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.DuplicateVersion(ctx, intruder.ID, v.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.SetTag(ctx, intruder.ID, v.ID, "final")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.SetCurrent(ctx, intruder.ID, draft.ID, v.ID), ErrNotFound)
	assert.ErrorIs(t, store.DeleteVersion(ctx, intruder.ID, v.ID), ErrNotFound)
	_, err = store.GenerateShareToken(ctx, intruder.ID, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	reloaded := loadVersions(t, db, draft.ID)
	assert.Equal(t, v.Content, reloaded[0].Content)
	assert.Equal(t, v.Name, reloaded[0].Name)
}
