package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"draftmode/drafts"
	"draftmode/models"
)

type draftRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

type versionRequest struct {
	Name    string `form:"name" json:"name"`
	Content string `form:"content" json:"content"`
}

type currentRequest struct {
	VersionID int `form:"version_id" json:"version_id"`
}

func (m *Module) listDrafts(c *gin.Context) {
	list, err := m.drafts.ListDrafts(c.Request.Context(), currentUserID(c))
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": list})
}

func (m *Module) createDraft(c *gin.Context) {
	var req draftRequest
	if !m.bind(c, &req) {
		return
	}

	draft, err := m.drafts.CreateDraft(c.Request.Context(), currentUserID(c), req.Title, req.Description)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// getDraft returns the draft with its versions and the version being edited.
// A ?version= query selects that version and makes it current.
func (m *Module) getDraft(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var (
		current *models.Version
		err     error
	)
	if raw := c.Query("version"); raw != "" {
		versionID, convErr := strconv.Atoi(raw)
		if convErr != nil {
			m.fail(c, drafts.ErrNotFound)
			return
		}
		current, err = m.drafts.OpenVersion(ctx, userID, id, versionID)
	} else {
		current, err = m.drafts.CurrentVersion(ctx, userID, id)
	}
	if err != nil {
		m.fail(c, err)
		return
	}

	draft, err := m.drafts.GetDraft(ctx, userID, id)
	if err != nil {
		m.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draft":           drafts.SummarizeDraft(draft),
		"versions":        summarizeAll(draft.Versions),
		"current_version": current,
	})
}

func summarizeAll(versions []models.Version) []drafts.VersionSummary {
	out := make([]drafts.VersionSummary, 0, len(versions))
	for i := range versions {
		out = append(out, drafts.SummarizeVersion(&versions[i]))
	}
	return out
}

func (m *Module) renameDraft(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req draftRequest
	if !m.bind(c, &req) {
		return
	}

	if err := m.drafts.RenameDraft(c.Request.Context(), currentUserID(c), id, req.Title); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) updateDescription(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req draftRequest
	if !m.bind(c, &req) {
		return
	}

	if err := m.drafts.UpdateDescription(c.Request.Context(), currentUserID(c), id, req.Description); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) deleteDraft(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := m.drafts.DeleteDraft(c.Request.Context(), currentUserID(c), id); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) draftStats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	st, err := m.drafts.DraftStats(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (m *Module) listVersions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	list, err := m.drafts.ListVersions(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": list})
}

func (m *Module) createVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req versionRequest
	if !m.bind(c, &req) {
		return
	}

	version, err := m.drafts.CreateVersion(c.Request.Context(), currentUserID(c), id, req.Name, req.Content)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": drafts.SummarizeVersion(version)})
}

func (m *Module) setCurrent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req currentRequest
	if !m.bind(c, &req) {
		return
	}

	if err := m.drafts.SetCurrent(c.Request.Context(), currentUserID(c), id, req.VersionID); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) compare(c *gin.Context) {
	left, ok := paramID(c, "left")
	if !ok {
		return
	}
	right, ok := paramID(c, "right")
	if !ok {
		return
	}

	cmp, err := m.drafts.CompareVersions(c.Request.Context(), currentUserID(c), left, right)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (m *Module) userStats(c *gin.Context) {
	st, err := m.drafts.UserStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
