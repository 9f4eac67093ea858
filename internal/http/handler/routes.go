package handler

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docsearch/docs"
	"docsearch/internal/http/middleware"
	"docsearch/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB      *sql.DB
	Service service.DocumentService

	// Registry receives the HTTP metrics and is exposed on /metrics.
	Registry *prometheus.Registry
	// Location is the time zone of request log timestamps (default UTC).
	Location *time.Location

	// UploadDir, when set, is served as static files below PublicPrefix.
	UploadDir    string
	PublicPrefix string
}

// NewApp returns a Fiber app with the standard error handler and a body
// limit large enough for maxUploadBytes of file plus form overhead.
func NewApp(maxUploadBytes int64) *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		BodyLimit:    int(maxUploadBytes) + 1<<20,
	})
}

// RegisterRoutes installs the middleware chain and every route on app.
func RegisterRoutes(app *fiber.App, deps Deps) error {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Owner())
	app.Use(middleware.Logger(loc))
	app.Use(prom.Handler())

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	if deps.UploadDir != "" && deps.PublicPrefix != "" {
		app.Static(deps.PublicPrefix, deps.UploadDir, fiber.Static{Browse: false})
	}

	svc := deps.Service
	app.Get("/search", Search(svc))
	app.Get("/dashboard", Dashboard(svc))
	app.Get("/documents", ListDocuments(svc))
	app.Post("/documents", UploadDocument(svc))
	app.Get("/documents/:id", GetDocument(svc))
	app.Get("/documents/:id/content", GetDocumentContent(svc))
	app.Get("/documents/:id/file", DocumentFile(svc))
	return nil
}
