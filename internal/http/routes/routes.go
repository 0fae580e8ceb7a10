package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/http/handlers"
	"github.com/jktools/mediatools/internal/http/middleware"
)

type Router struct {
	mediaHandler *handlers.MediaHandler
	logger       *zap.Logger
}

func NewRouter(
	mediaHandler *handlers.MediaHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		mediaHandler: mediaHandler,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	api := router.Group("/api")
	{
		api.GET("/health", r.mediaHandler.HealthCheck)
		api.GET("/version", r.mediaHandler.Version)

		api.POST("/image-convert", r.mediaHandler.ConvertImage)
		api.POST("/image-resize", r.mediaHandler.ResizeImage)
		api.POST("/image-thumbnail", r.mediaHandler.ThumbnailImage)
		api.POST("/image-to-pdf", r.mediaHandler.ImagesToPDF)

		api.POST("/pdf-merge", r.mediaHandler.MergePDFs)
		api.POST("/pdf-split", r.mediaHandler.SplitPDF)
		api.POST("/text-to-pdf", r.mediaHandler.TextToPDF)

		jobs := api.Group("/jobs")
		{
			jobs.POST("/convert", r.mediaHandler.EnqueueConvert)
			jobs.GET("/:id", r.mediaHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "running",
			"message": "Media tools API is running",
		})
	})

	return router
}
