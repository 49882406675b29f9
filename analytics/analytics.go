// Package analytics counts visits to public share pages.
package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"draftmode/models"
)

const visitorCookie = "draftmode_visitor_id"

// ShareView is one visit to a shared version's public page.
type ShareView struct {
	ID        uint            `gorm:"primary_key;autoIncrement"`
	VersionID int             `gorm:"not null;index"`
	VisitorID string          `gorm:"not null;index"`
	IPHash    string          `gorm:"not null"`
	Browser   *string         // nullable
	Language  *string         // nullable
	CreatedAt time.Time       `gorm:"index"`
	Version   *models.Version `gorm:"constraint:OnDelete:CASCADE"`
}

type Tracker struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
	// repeat visits by the same visitor inside window count once
	window time.Duration
}

func NewTracker(db *gorm.DB, log zerolog.Logger) *Tracker {
	return &Tracker{
		db:     db,
		log:    log.With().Str("module", "analytics").Logger(),
		now:    time.Now,
		window: 30 * time.Minute,
	}
}

// TrackView records a visit to versionID unless the same visitor was seen
// within the throttle window. Failures are logged, never returned.
func (t *Tracker) TrackView(c *gin.Context, versionID int) {
	visitorID := t.getOrCreateVisitorID(c)
	// stored in UTC so string comparisons in sqlite line up with Views
	now := t.now().UTC()

	var recent int64
	err := t.db.WithContext(c.Request.Context()).Model(&ShareView{}).
		Where("visitor_id = ? AND version_id = ? AND created_at > ?", visitorID, versionID, now.Add(-t.window)).
		Count(&recent).Error
	if err != nil {
		t.log.Warn().Err(err).Msg("error checking recent views")
		return
	}
	if recent > 0 {
		return
	}

	view := ShareView{
		VersionID: versionID,
		VisitorID: visitorID,
		IPHash:    hashIP(c.ClientIP()),
		Browser:   extractBrowser(c.Request.UserAgent()),
		Language:  extractLanguage(c.GetHeader("Accept-Language")),
		CreatedAt: now,
	}
	if err := t.db.WithContext(c.Request.Context()).Create(&view).Error; err != nil {
		t.log.Warn().Err(err).Int("version_id", versionID).Msg("error saving share view")
	}
}

func (t *Tracker) getOrCreateVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetCookie(visitorCookie, id, 60*60*24*365, "/share", "", false, true)
	return id
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func extractBrowser(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := strings.ToLower(userAgent)
	var browser string

	// order matters: Edge and Opera also claim Chrome, Chrome also claims Safari
	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		browser = "Opera"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	default:
		browser = "Other"
	}

	return &browser
}

// extractLanguage keeps the first entry of an Accept-Language header,
// e.g. "pt-BR" from "pt-BR,pt;q=0.9,en;q=0.8".
func extractLanguage(acceptLang string) *string {
	lang := strings.TrimSpace(strings.Split(strings.Split(acceptLang, ",")[0], ";")[0])
	if lang == "" {
		return nil
	}
	return &lang
}

type DayViews struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Summary struct {
	VersionID int        `json:"version_id"`
	Total     int64      `json:"total"`
	ByDay     []DayViews `json:"by_day"`
}

// Views returns the total count for versionID and a per-day breakdown of the
// last days days, oldest first, with empty days included.
func (t *Tracker) Views(ctx context.Context, versionID, days int) (*Summary, error) {
	if days <= 0 {
		days = 7
	}
	db := t.db.WithContext(ctx)

	sum := &Summary{VersionID: versionID}
	if err := db.Model(&ShareView{}).Where("version_id = ?", versionID).Count(&sum.Total).Error; err != nil {
		return nil, err
	}

	today := t.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	var stamps []time.Time
	err := db.Model(&ShareView{}).
		Where("version_id = ? AND created_at >= ?", versionID, start).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	sum.ByDay = make([]DayViews, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		sum.ByDay[i] = DayViews{Date: date}
		index[date] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.UTC().Format(time.DateOnly)]; ok {
			sum.ByDay[i].Count++
		}
	}
	return sum, nil
}
