package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"draftmode/models"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"hello world", 2},
		{"   ", 0},
		{"one\ttwo\nthree  four", 4},
		{"# My Post\n\nStart writing your blog post here...", 9},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, WordCount(tt.input))
		})
	}
}

func TestCharCount(t *testing.T) {
	assert.Equal(t, 0, CharCount(""))
	assert.Equal(t, 11, CharCount("hello world"))
	assert.Equal(t, 4, CharCount("café"))
}

func TestDraftStatus(t *testing.T) {
	assert.Equal(t, StatusEmpty, DraftStatus(nil))

	versions := []models.Version{
		{ID: 1, Tag: models.TagDraft},
		{ID: 2, Tag: models.TagWorking},
	}
	assert.Equal(t, StatusActive, DraftStatus(versions))

	versions[0].Tag = models.TagFinal
	assert.Equal(t, StatusFinal, DraftStatus(versions))
}

func TestCurrent_Flagged(t *testing.T) {
	now := time.Now()
	versions := []models.Version{
		{ID: 1, CreatedAt: now.Add(-time.Hour), IsCurrent: true},
		{ID: 2, CreatedAt: now},
	}

	assert.Equal(t, 1, Current(versions).ID)
}

func TestCurrent_FallsBackToLatest(t *testing.T) {
	now := time.Now()
	versions := []models.Version{
		{ID: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: 3, CreatedAt: now},
		{ID: 2, CreatedAt: now.Add(-time.Minute)},
	}

	assert.Equal(t, 3, Current(versions).ID)
	assert.Nil(t, Current(nil))
}

func TestDraftRollup(t *testing.T) {
	d := &models.Draft{
		ID:    7,
		Title: "My Post",
		Versions: []models.Version{
			{ID: 1, Content: "hello world", IsCurrent: true},
			{ID: 2, Content: "one two three", Tag: models.TagFinal},
		},
	}

	s := Draft(d)

	assert.Equal(t, 7, s.DraftID)
	assert.Equal(t, 2, s.TotalVersions)
	assert.Equal(t, 5, s.TotalWords)
	assert.Equal(t, 24, s.TotalChars)
	assert.Equal(t, 2, s.CurrentWords)
	assert.Equal(t, 11, s.CurrentChars)
	assert.True(t, s.HasFinal)
	assert.Equal(t, StatusFinal, s.Status)
}

func TestUserRollup(t *testing.T) {
	u := &models.User{ID: 1, Name: "Ana", Email: "ana@example.com"}
	drafts := []models.Draft{
		{Versions: []models.Version{{Content: "a b"}, {Content: "c"}}},
		{Versions: []models.Version{{Content: ""}}},
	}

	s := User(u, drafts)

	assert.Equal(t, 2, s.TotalDrafts)
	assert.Equal(t, 3, s.TotalVersions)
	assert.Equal(t, 3, s.TotalWords)
}
