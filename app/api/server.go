package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-scribe/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/feeds/articles", handler.GetArticlesFeed)

	public := r.Group("/api")
	{
		public.GET("/news", handler.APIGetNews)
		public.GET("/topics", handler.APIGetTopics)
		public.POST("/quality/assess", handler.APIAssessQuality)
		public.POST("/dedup", handler.APIDeduplicate)
	}

	if apiAccessKey != "" {
		protected := r.Group("")
		protected.Use(authMiddleware(apiAccessKey))
		{
			protected.GET("/api/articles", handler.APIListArticles)
			protected.GET("/api/articles/:id", handler.APIGetArticle)
			protected.PUT("/api/articles/:id", handler.APIUpdateArticle)
			protected.DELETE("/api/articles/:id", handler.APIDeleteArticle)

			protected.GET("/api/files", handler.APIListFiles)
			protected.GET("/api/files/:filename", handler.APIGetFile)
			protected.PUT("/api/files/:filename", handler.APIUpdateFile)
			protected.DELETE("/api/files/:filename", handler.APIDeleteFile)
			protected.GET("/download/:filename", handler.DownloadFile)

			protected.POST("/api/write_article", handler.APIWriteArticle)
			protected.GET("/api/analytics/stats", handler.APIGetStats)

			protected.GET("/api/sources", handler.APIListSources)
			protected.POST("/api/sources/:name/reload", handler.APIReloadSource)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Warn("Article and source endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"health":  "/health",
			"feed":    "/feeds/articles",
			"news":    "/api/news?limit=<n>",
			"topics":  "/api/topics",
			"quality": "/api/quality/assess (POST)",
			"dedup":   "/api/dedup (POST)",
		}

		if apiAccessKey != "" {
			endpoints["articles"] = "/api/articles[/<id>] (requires X-API-Key header)"
			endpoints["files"] = "/api/files[/<filename>] (requires X-API-Key header)"
			endpoints["download"] = "/download/<filename> (requires X-API-Key header)"
			endpoints["write"] = "/api/write_article (POST, requires X-API-Key header)"
			endpoints["stats"] = "/api/analytics/stats (requires X-API-Key header)"
			endpoints["sources"] = "/api/sources (requires X-API-Key header)"
			endpoints["reload"] = "/api/sources/<name>/reload (POST, requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "RSS Scribe",
			"version":     cfg.GetVersion(),
			"description": "News aggregation with title deduplication, quality scoring and article drafting",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware accepts the key from X-API-Key or an Authorization
// bearer token.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
