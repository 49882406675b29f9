package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"draftmode/cache"
)

// sharePage is the public, read-only view of a shared version.
func (m *Module) sharePage(c *gin.Context) {
	shared, err := m.drafts.ResolveShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		m.fail(c, err)
		return
	}

	revision := cache.Revision(
		shared.Token,
		shared.UpdatedAt.UTC().Format(time.RFC3339Nano),
		strconv.Itoa(len(shared.Content)),
	)

	html, hit := m.cache.Read(shared.Token, revision, ShareCacheMaxAge)
	if !hit {
		html = m.renderer.HTML(shared.Content)
		if err := m.cache.Write(shared.Token, revision, html); err != nil {
			m.log.Warn().Err(err).Msg("error writing share page cache")
		}
	}

	m.views.TrackView(c, shared.VersionID)

	c.Header("X-Cache", cacheStatus(hit))
	c.JSON(http.StatusOK, gin.H{
		"title":        shared.DraftTitle,
		"description":  shared.DraftDescription,
		"author":       shared.AuthorName,
		"version":      shared.DisplayName,
		"tag":          shared.Tag,
		"updated_at":   shared.UpdatedAt,
		"content":      shared.Content,
		"content_html": html,
	})
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// versionViews reports share page visits for one of the caller's versions.
func (m *Module) versionViews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := m.drafts.GetVersion(c.Request.Context(), currentUserID(c), id); err != nil {
		m.fail(c, err)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
		return
	}

	summary, err := m.views.Views(c.Request.Context(), id, days)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
