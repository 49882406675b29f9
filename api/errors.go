package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"draftmode/accounts"
	"draftmode/drafts"
	"draftmode/models"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{drafts.ErrValidation, http.StatusBadRequest},
	{drafts.ErrInvalidTag, http.StatusBadRequest},
	{drafts.ErrDifferentDrafts, http.StatusBadRequest},
	{drafts.ErrNotFound, http.StatusNotFound},
	{drafts.ErrLastVersion, http.StatusConflict},
	{accounts.ErrValidation, http.StatusBadRequest},
	{accounts.ErrDuplicateEmail, http.StatusBadRequest},
	{accounts.ErrWeakPassword, http.StatusBadRequest},
	{accounts.ErrWrongPassword, http.StatusBadRequest},
	{accounts.ErrNotFound, http.StatusNotFound},
}

// fail writes the HTTP response for a store error. Known errors carry their
// own message; anything else is logged and reported generically.
func (m *Module) fail(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if !errors.Is(err, e.err) {
			continue
		}
		body := gin.H{"error": e.err.Error()}
		if e.err == drafts.ErrInvalidTag {
			body["allowed_tags"] = models.Tags()
		}
		c.JSON(e.status, body)
		return
	}

	m.log.Error().Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Str("path", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
