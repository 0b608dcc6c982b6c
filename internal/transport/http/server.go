package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appsvc "paperlens/internal/app"
	"paperlens/internal/bootstrap"
	"paperlens/internal/cache"
	"paperlens/internal/platform/rabbitmq"
	"paperlens/internal/repository"
	"paperlens/internal/transport/http/flash"
	"paperlens/internal/transport/http/handler"
	"paperlens/internal/transport/http/middleware"
	"paperlens/web"
)

const flashTTL = 10 * time.Minute

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	logger := app.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLog(logger), gin.Recovery())
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "templates/*.html"),
	))

	var publisher appsvc.PaperEventPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewPaperPublisher(app.MQConn, app.Config.RabbitMQ.Queue)
	}

	var flashStore flash.Store = flash.NewCookieStore(app.Config.App.SecretKey, flashTTL)
	if app.Redis != nil {
		flashStore = flash.NewRedisStore(cache.NewFlashCache(app.Redis, flashTTL))
	}

	paperRepo := repository.NewPaperRepository(app.DB)
	analysisService := appsvc.NewAnalysisService(app.Completer, logger, app.Metrics)
	paperService := appsvc.NewPaperService(paperRepo, analysisService, app.Extractor, appsvc.PaperServiceOptions{
		UploadDir: app.Config.Upload.Dir,
		MaxBytes:  app.Config.MaxUploadBytes(),
		Publisher: publisher,
		Logger:    logger,
		Metrics:   app.Metrics,
	})

	healthHandler := handler.NewHealthHandler(app)
	paperHandler := handler.NewPaperHandler(paperService, flashStore, logger, app.Config.Upload.MaxSizeMB)

	router.GET("/", paperHandler.Index)
	router.GET("/upload", paperHandler.UploadForm)
	router.POST("/upload", paperHandler.Upload)
	router.GET("/paper/:id", paperHandler.Detail)
	router.GET("/search", paperHandler.Search)
	router.GET("/api/papers", paperHandler.ListAPI)
	router.GET("/healthz", healthHandler.Check)
	if app.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))
	}

	return router
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"excerpt": func(s string, n int) string {
			return appsvc.Truncate(s, n)
		},
	}
}
