package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftmode/drafts"
)

type tagRequest struct {
	Tag string `form:"tag" json:"tag"`
}

type previewRequest struct {
	Content string `form:"content" json:"content"`
}

func (m *Module) saveVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req versionRequest
	if !m.bind(c, &req) {
		return
	}

	version, err := m.drafts.SaveContent(c.Request.Context(), currentUserID(c), id, req.Content)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": drafts.SummarizeVersion(version)})
}

func (m *Module) renameVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req versionRequest
	if !m.bind(c, &req) {
		return
	}

	version, err := m.drafts.RenameVersion(c.Request.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": drafts.SummarizeVersion(version)})
}

func (m *Module) tagVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tagRequest
	if !m.bind(c, &req) {
		return
	}

	version, err := m.drafts.SetTag(c.Request.Context(), currentUserID(c), id, req.Tag)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": drafts.SummarizeVersion(version)})
}

func (m *Module) duplicateVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req versionRequest
	if !m.bind(c, &req) {
		return
	}

	version, err := m.drafts.DuplicateVersion(c.Request.Context(), currentUserID(c), id, req.Name)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": drafts.SummarizeVersion(version)})
}

func (m *Module) deleteVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := m.drafts.DeleteVersion(c.Request.Context(), currentUserID(c), id); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) shareVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	token, err := m.drafts.GenerateShareToken(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"share_url": m.domain + "/share/" + token,
	})
}

func (m *Module) previewVersion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	version, err := m.drafts.GetVersion(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": m.renderer.HTML(version.Content)})
}

// preview renders unsaved editor content.
func (m *Module) preview(c *gin.Context) {
	var req previewRequest
	if !m.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": m.renderer.HTML(req.Content)})
}
