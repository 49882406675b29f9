// Package api exposes the account and draft stores over a JSON HTTP API.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"draftmode/accounts"
	"draftmode/analytics"
	"draftmode/cache"
	"draftmode/drafts"
	"draftmode/render"
)

const sessionUserKey = "user_id"

// ShareCacheMaxAge bounds how long a rendered share page is served from disk.
const ShareCacheMaxAge = 24 * time.Hour

type Options struct {
	Domain             string
	LoginRatePerMinute int
}

type Module struct {
	accounts *accounts.Store
	drafts   *drafts.Store
	renderer *render.Renderer
	cache    *cache.Cache
	views    *analytics.Tracker
	log      zerolog.Logger
	domain   string
	limiter  *ipLimiter
}

func NewModule(acc *accounts.Store, ds *drafts.Store, renderer *render.Renderer, pages *cache.Cache, views *analytics.Tracker, log zerolog.Logger, opts Options) *Module {
	rate := opts.LoginRatePerMinute
	if rate <= 0 {
		rate = 10
	}
	return &Module{
		accounts: acc,
		drafts:   ds,
		renderer: renderer,
		cache:    pages,
		views:    views,
		log:      log.With().Str("module", "api").Logger(),
		domain:   opts.Domain,
		limiter:  newIPLimiter(rate, time.Minute),
	}
}

func (m *Module) RegisterRoutes(router *gin.Engine) {
	router.POST("/signup", m.signup)
	router.POST("/login", m.limiter.middleware, m.login)
	router.POST("/logout", m.logout)
	router.GET("/share/:token", m.sharePage)

	settings := router.Group("/settings")
	settings.Use(m.requireAuth)
	{
		settings.GET("/profile", m.profile)
		settings.POST("/profile", m.updateProfile)
		settings.POST("/delete-account", m.deleteAccount)
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(m.requireAuth)
	{
		apiGroup.GET("/drafts", m.listDrafts)
		apiGroup.POST("/drafts", m.createDraft)
		apiGroup.GET("/drafts/:id", m.getDraft)
		apiGroup.POST("/drafts/:id/rename", m.renameDraft)
		apiGroup.POST("/drafts/:id/description", m.updateDescription)
		apiGroup.POST("/drafts/:id/delete", m.deleteDraft)
		apiGroup.GET("/drafts/:id/stats", m.draftStats)
		apiGroup.GET("/drafts/:id/versions", m.listVersions)
		apiGroup.POST("/drafts/:id/versions", m.createVersion)
		apiGroup.POST("/drafts/:id/current", m.setCurrent)

		apiGroup.POST("/versions/:id/save", m.saveVersion)
		apiGroup.POST("/versions/:id/rename", m.renameVersion)
		apiGroup.POST("/versions/:id/tag", m.tagVersion)
		apiGroup.POST("/versions/:id/duplicate", m.duplicateVersion)
		apiGroup.POST("/versions/:id/delete", m.deleteVersion)
		apiGroup.POST("/versions/:id/share", m.shareVersion)
		apiGroup.POST("/versions/:id/preview", m.previewVersion)
		apiGroup.GET("/versions/:id/views", m.versionViews)
		apiGroup.POST("/preview", m.preview)

		apiGroup.GET("/compare/:left/:right", m.compare)
		apiGroup.GET("/user/stats", m.userStats)
	}
}

func (m *Module) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserKey).(int)

	if !ok || userID == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

func currentUserID(c *gin.Context) int {
	return c.GetInt(sessionUserKey)
}

// paramID parses a numeric path parameter. Anything unparsable answers 404,
// the same as an id that does not exist.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": drafts.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func (m *Module) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
