package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"draftmode/accounts"
	"draftmode/analytics"
	"draftmode/api"
	"draftmode/cache"
	"draftmode/drafts"
	"draftmode/render"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		log.Info().Msgf("configuration: %s", cfg)

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		pages := cache.New(cfg.CacheDir)
		if err := pages.ClearOld(api.ShareCacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("error sweeping share page cache")
		}

		if log.GetLevel() > zerolog.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery(), api.RequestLogger(log))

		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 7,
			HttpOnly: true,
			Secure:   cfg.SecureCookies,
		})
		router.Use(sessions.Sessions("draftmode-session", store))

		module := api.NewModule(
			accounts.NewStore(db, log, cfg.BcryptCost),
			drafts.NewStore(db, log),
			render.New(log),
			pages,
			analytics.NewTracker(db, log),
			log,
			api.Options{
				Domain:             cfg.Domain,
				LoginRatePerMinute: cfg.LoginRatePerMinute,
			},
		)
		module.RegisterRoutes(router)

		log.Info().Str("port", cfg.Port).Msg("starting server")
		return router.Run(":" + cfg.Port)
	},
}
