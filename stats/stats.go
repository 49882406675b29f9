// Package stats derives counts and statuses from drafts and versions.
// Nothing here touches the database and nothing is cached.
package stats

import (
	"strings"
	"unicode/utf8"

	"draftmode/models"
)

type Status string

const (
	StatusEmpty  Status = "empty"
	StatusActive Status = "active"
	StatusFinal  Status = "final"
)

// WordCount counts whitespace-delimited tokens.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// CharCount counts characters (code points), not bytes.
func CharCount(content string) int {
	return utf8.RuneCountInString(content)
}

type VersionStats struct {
	Words int `json:"word_count"`
	Chars int `json:"character_count"`
}

func Version(v *models.Version) VersionStats {
	if v == nil {
		return VersionStats{}
	}
	return VersionStats{Words: WordCount(v.Content), Chars: CharCount(v.Content)}
}

// HasFinal reports whether any version carries the final tag.
func HasFinal(versions []models.Version) bool {
	for i := range versions {
		if versions[i].IsFinal() {
			return true
		}
	}
	return false
}

func DraftStatus(versions []models.Version) Status {
	switch {
	case len(versions) == 0:
		return StatusEmpty
	case HasFinal(versions):
		return StatusFinal
	default:
		return StatusActive
	}
}

// Current picks the version flagged current, falling back to the most
// recently created one. Returns nil for an empty slice.
func Current(versions []models.Version) *models.Version {
	var latest *models.Version
	for i := range versions {
		v := &versions[i]
		if v.IsCurrent {
			return v
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) ||
			(v.CreatedAt.Equal(latest.CreatedAt) && v.ID > latest.ID) {
			latest = v
		}
	}
	return latest
}

type DraftStats struct {
	DraftID       int    `json:"draft_id"`
	Title         string `json:"title"`
	Status        Status `json:"status"`
	TotalVersions int    `json:"total_versions"`
	TotalWords    int    `json:"total_words_all_versions"`
	TotalChars    int    `json:"total_chars_all_versions"`
	CurrentWords  int    `json:"current_version_words"`
	CurrentChars  int    `json:"current_version_chars"`
	HasFinal      bool   `json:"has_final_version"`
}

// Draft rolls up counts over every version of d. d.Versions must be loaded.
func Draft(d *models.Draft) DraftStats {
	s := DraftStats{
		DraftID:       d.ID,
		Title:         d.Title,
		Status:        DraftStatus(d.Versions),
		TotalVersions: len(d.Versions),
		HasFinal:      HasFinal(d.Versions),
	}
	for i := range d.Versions {
		vs := Version(&d.Versions[i])
		s.TotalWords += vs.Words
		s.TotalChars += vs.Chars
	}
	cur := Version(Current(d.Versions))
	s.CurrentWords = cur.Words
	s.CurrentChars = cur.Chars
	return s
}

type UserStats struct {
	UserID        int    `json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	TotalDrafts   int    `json:"total_drafts"`
	TotalVersions int    `json:"total_versions"`
	TotalWords    int    `json:"total_words"`
	MemberSince   string `json:"member_since"`
}

// User rolls up counts over the given drafts, whose Versions must be loaded.
func User(u *models.User, drafts []models.Draft) UserStats {
	s := UserStats{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		TotalDrafts: len(drafts),
		MemberSince: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for i := range drafts {
		s.TotalVersions += len(drafts[i].Versions)
		for j := range drafts[i].Versions {
			s.TotalWords += WordCount(drafts[i].Versions[j].Content)
		}
	}
	return s
}
