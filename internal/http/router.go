package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devgjhbj-wq/admin-nexus/internal/console"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/consolecookie"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/handlers"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/handlers/admin"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/modules/decisions"
	"github.com/devgjhbj-wq/admin-nexus/templates"
)

type RouterDeps struct {
	Logger    *slog.Logger
	Consoles  *console.Registry
	Decisions decisions.Log

	Secret        []byte
	CookieSecure  bool
	ConsoleCookie string
	FlashCookie   string
	AwaitTimeout  time.Duration

	// Registry receives the HTTP metrics; Gatherer backs /metrics. Both
	// default to the prometheus globals.
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Registry == nil {
		d.Registry = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	flashCodec := flash.NewCodec(d.Secret, d.FlashCookie, d.CookieSecure)
	consoleCodec := consolecookie.New(d.Secret, d.ConsoleCookie, d.CookieSecure)

	r := gin.New()
	r.SetHTMLTemplate(templates.Must())

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger, "/health", "/metrics"),
		middleware.NewHTTPMetrics(d.Registry).Handler(),
		middleware.ErrorHandler(d.Logger, flashCodec),
		middleware.Recovery(d.Logger),
	)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	web := r.Group("/",
		middleware.FlashMiddleware(flashCodec),
		middleware.Consoles(d.Consoles, consoleCodec),
		middleware.CSRF(consoleCodec),
	)

	auth := handlers.NewAuthHandlers(flashCodec, d.Logger)
	web.GET("/", auth.Root)
	web.GET("/login", auth.LoginGet)
	web.POST("/login", auth.LoginPost)
	web.POST("/logout", auth.LogoutPost)

	h := admin.New(flashCodec, d.Decisions, d.AwaitTimeout, d.Logger)
	adm := web.Group("/", middleware.RequireAuth(flashCodec), middleware.RequireAdmin(flashCodec, d.Logger))
	adm.GET("/dashboard", h.Dashboard)
	adm.GET("/users", h.Users)
	adm.GET("/transactions", h.Transactions)
	adm.POST("/transactions/:orderId/:action", h.TransactionAction)
	adm.GET("/deposits", h.Deposits)
	adm.POST("/deposits/:orderId/:action", h.DepositAction)
	adm.GET("/devices", h.Devices)

	return r
}
