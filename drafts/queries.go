package drafts

import (
	"context"
	"time"

	"draftmode/models"
	"draftmode/stats"
)

type VersionSummary struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Tag         models.Tag `json:"tag"`
	IsCurrent   bool       `json:"is_current"`
	IsFinal     bool       `json:"is_final"`
	Shared      bool       `json:"has_share_token"`
	Words       int        `json:"word_count"`
	Chars       int        `json:"character_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func SummarizeVersion(v *models.Version) VersionSummary {
	vs := stats.Version(v)
	return VersionSummary{
		ID:          v.ID,
		Name:        v.Name,
		DisplayName: v.DisplayName(),
		Tag:         v.Tag,
		IsCurrent:   v.IsCurrent,
		IsFinal:     v.IsFinal(),
		Shared:      v.IsShared(),
		Words:       vs.Words,
		Chars:       vs.Chars,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type DraftSummary struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Status         stats.Status    `json:"status"`
	VersionCount   int             `json:"version_count"`
	HasFinal       bool            `json:"has_final_version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CurrentVersion *VersionSummary `json:"current_version,omitempty"`
}

func SummarizeDraft(d *models.Draft) DraftSummary {
	sum := DraftSummary{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Status:       stats.DraftStatus(d.Versions),
		VersionCount: len(d.Versions),
		HasFinal:     stats.HasFinal(d.Versions),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if cur := stats.Current(d.Versions); cur != nil {
		vs := SummarizeVersion(cur)
		sum.CurrentVersion = &vs
	}
	return sum
}

// ListDrafts returns the owner's drafts, most recently updated first.
func (s *Store) ListDrafts(ctx context.Context, ownerID int) ([]DraftSummary, error) {
	var drafts []models.Draft
	err := s.db.WithContext(ctx).
		Preload("Versions", newestFirst).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").Order("id DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, s.fail(err, "list drafts", ownerID)
	}

	summaries := make([]DraftSummary, 0, len(drafts))
	for i := range drafts {
		summaries = append(summaries, SummarizeDraft(&drafts[i]))
	}
	return summaries, nil
}

// GetDraft loads a draft with its versions, newest first.
func (s *Store) GetDraft(ctx context.Context, ownerID, draftID int) (*models.Draft, error) {
	draft, err := ownedDraft(s.db.WithContext(ctx).Preload("Versions", newestFirst), ownerID, draftID)
	if err != nil {
		return nil, s.fail(err, "get draft", draftID)
	}
	return draft, nil
}

func (s *Store) GetVersion(ctx context.Context, ownerID, versionID int) (*models.Version, error) {
	version, err := ownedVersion(s.db.WithContext(ctx), ownerID, versionID)
	if err != nil {
		return nil, s.fail(err, "get version", versionID)
	}
	return version, nil
}

func (s *Store) ListVersions(ctx context.Context, ownerID, draftID int) ([]VersionSummary, error) {
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}

	summaries := make([]VersionSummary, 0, len(draft.Versions))
	for i := range draft.Versions {
		summaries = append(summaries, SummarizeVersion(&draft.Versions[i]))
	}
	return summaries, nil
}

// CurrentVersion resolves the version the editor opens by default: the one
// flagged current, or the most recently created one if none is flagged.
func (s *Store) CurrentVersion(ctx context.Context, ownerID, draftID int) (*models.Version, error) {
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	cur := stats.Current(draft.Versions)
	if cur == nil {
		return nil, ErrNotFound
	}
	return cur, nil
}

// OpenVersion selects versionID as the draft's current version and returns it.
func (s *Store) OpenVersion(ctx context.Context, ownerID, draftID, versionID int) (*models.Version, error) {
	if err := s.SetCurrent(ctx, ownerID, draftID, versionID); err != nil {
		return nil, err
	}
	return s.GetVersion(ctx, ownerID, versionID)
}

// Comparison puts two versions of the same draft side by side.
type Comparison struct {
	DraftID    int                `json:"draft_id"`
	DraftTitle string             `json:"draft_title"`
	Left       *models.Version    `json:"left"`
	Right      *models.Version    `json:"right"`
	LeftStats  stats.VersionStats `json:"left_stats"`
	RightStats stats.VersionStats `json:"right_stats"`
}

func (s *Store) CompareVersions(ctx context.Context, ownerID, leftID, rightID int) (*Comparison, error) {
	left, err := s.GetVersion(ctx, ownerID, leftID)
	if err != nil {
		return nil, err
	}
	right, err := s.GetVersion(ctx, ownerID, rightID)
	if err != nil {
		return nil, err
	}
	if left.DraftID != right.DraftID {
		return nil, ErrDifferentDrafts
	}

	draft, err := ownedDraft(s.db.WithContext(ctx), ownerID, left.DraftID)
	if err != nil {
		return nil, s.fail(err, "compare versions", left.DraftID)
	}

	return &Comparison{
		DraftID:    draft.ID,
		DraftTitle: draft.Title,
		Left:       left,
		Right:      right,
		LeftStats:  stats.Version(left),
		RightStats: stats.Version(right),
	}, nil
}

func (s *Store) DraftStats(ctx context.Context, ownerID, draftID int) (stats.DraftStats, error) {
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return stats.DraftStats{}, err
	}
	return stats.Draft(draft), nil
}

func (s *Store) UserStats(ctx context.Context, ownerID int) (stats.UserStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, ownerID).Error; err != nil {
		return stats.UserStats{}, s.fail(notFound(err, "load user"), "user stats", ownerID)
	}

	var drafts []models.Draft
	if err := s.db.WithContext(ctx).Preload("Versions").Where("user_id = ?", ownerID).Find(&drafts).Error; err != nil {
		return stats.UserStats{}, s.fail(err, "user stats", ownerID)
	}
	return stats.User(&user, drafts), nil
}
