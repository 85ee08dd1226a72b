package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/opsdesk/salesdesk/internal/call"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/funcerror"
	"github.com/opsdesk/salesdesk/internal/lead"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	"github.com/opsdesk/salesdesk/internal/observability"
	obsmiddleware "github.com/opsdesk/salesdesk/internal/observability/logger"
	obsmetrics "github.com/opsdesk/salesdesk/internal/observability/metrics"
	obstracing "github.com/opsdesk/salesdesk/internal/observability/tracing"
	"github.com/opsdesk/salesdesk/internal/offer"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
	"github.com/opsdesk/salesdesk/internal/outcome"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
	"github.com/opsdesk/salesdesk/internal/providers"
	"github.com/opsdesk/salesdesk/internal/providers/calendly"
	"github.com/opsdesk/salesdesk/internal/providers/ganalytics"
	"github.com/opsdesk/salesdesk/internal/providers/kajabi"
	"github.com/opsdesk/salesdesk/internal/providers/manychat"
	"github.com/opsdesk/salesdesk/internal/providers/meta"
	"github.com/opsdesk/salesdesk/internal/shift"
	shiftdomain "github.com/opsdesk/salesdesk/internal/shift/domain"
	"github.com/opsdesk/salesdesk/internal/stats"
	statsdomain "github.com/opsdesk/salesdesk/internal/stats/domain"
	"github.com/opsdesk/salesdesk/internal/team"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	"github.com/opsdesk/salesdesk/internal/tracking"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	lead.Module,
	team.Module,
	offer.Module,
	call.Module,
	outcome.Module,
	stats.Module,
	shift.Module,
	tracking.Module,
	funcerror.Module,
	providers.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method not allowed",
			"message": c.Request.Method + " is not supported on this route",
		})
	})
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if route, ok := strings.CutPrefix(path, "/api/"); ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Not found",
				"path":  strings.SplitN(route, "/", 2)[0],
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	salesConfig *config.SalesConfigHolder

	leadSvc     leaddomain.Service
	callSvc     calldomain.Service
	outcomeSvc  outcomedomain.Service
	offerSvc    offerdomain.Service
	teamSvc     teamdomain.Service
	statsSvc    statsdomain.Service
	shiftSvc    shiftdomain.Service
	trackingSvc trackingdomain.Service
	errSink     *funcerror.Recorder

	manychat  *manychat.Client
	kajabi    *kajabi.Client
	calendly  *calendly.Client
	meta      *meta.Client
	analytics *ganalytics.Client
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	SalesConfig *config.SalesConfigHolder

	LeadSvc     leaddomain.Service
	CallSvc     calldomain.Service
	OutcomeSvc  outcomedomain.Service
	OfferSvc    offerdomain.Service
	TeamSvc     teamdomain.Service
	StatsSvc    statsdomain.Service
	ShiftSvc    shiftdomain.Service
	TrackingSvc trackingdomain.Service
	ErrSink     *funcerror.Recorder

	ManyChat  *manychat.Client
	Kajabi    *kajabi.Client
	Calendly  *calendly.Client
	Meta      *meta.Client
	Analytics *ganalytics.Client
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("server"),
		genID:       p.GenID,
		clock:       p.Clock,
		salesConfig: p.SalesConfig,
		leadSvc:     p.LeadSvc,
		callSvc:     p.CallSvc,
		outcomeSvc:  p.OutcomeSvc,
		offerSvc:    p.OfferSvc,
		teamSvc:     p.TeamSvc,
		statsSvc:    p.StatsSvc,
		shiftSvc:    p.ShiftSvc,
		trackingSvc: p.TrackingSvc,
		errSink:     p.ErrSink,
		manychat:    p.ManyChat,
		kajabi:      p.Kajabi,
		calendly:    p.Calendly,
		meta:        p.Meta,
		analytics:   p.Analytics,
	}

	svc.registerDashboardRoutes()
	svc.registerIntegrationRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerDashboardRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/leads", s.CreateLead)
	v1.GET("/leads", s.ListLeads)
	v1.GET("/leads/:id", s.GetLeadByID)

	v1.POST("/calls", s.CreateCall)
	v1.GET("/calls", s.ListCalls)
	v1.GET("/calls/:id", s.GetCallByID)
	v1.PATCH("/calls/:id", s.UpdateCall)
	v1.GET("/calls/:id/outcome", s.GetCallOutcome)

	v1.POST("/outcomes", s.SaveOutcome)
	v1.GET("/outcomes", s.ListOutcomes)

	v1.POST("/offers", s.CreateOffer)
	v1.GET("/offers", s.ListOffers)
	v1.DELETE("/offers/:id", s.ArchiveOffer)

	v1.POST("/setters", s.CreateSetter)
	v1.GET("/setters", s.ListSetters)
	v1.POST("/closers", s.CreateCloser)
	v1.GET("/closers", s.ListClosers)

	v1.POST("/shifts/overrides", s.CreateShiftOverride)
	v1.GET("/shifts/overrides", s.ListShiftOverrides)
	v1.DELETE("/shifts/overrides/:id", s.DeleteShiftOverride)
	v1.POST("/shifts/weekly", s.CreateWeeklyShift)
	v1.GET("/shifts/weekly", s.ListWeeklyShifts)
	v1.DELETE("/shifts/weekly/:id", s.DeleteWeeklyShift)

	v1.GET("/stats/overview", s.StatsOverview)

	v1.GET("/webhook-events", s.ListWebhookEvents)
}

func (s *Server) registerIntegrationRoutes() {
	api := s.engine.Group("/api")

	api.GET("/academic-stats", s.AcademicStats)
	api.POST("/ai-setter", s.AISetter)
	api.POST("/calendly-webhook", s.CalendlyWebhook)
	api.POST("/cancel-calendly", s.CancelCalendly)
	api.GET("/current-setter", s.CurrentSetter)
	api.GET("/google-analytics", s.GoogleAnalytics)
	api.GET("/kajabi-token", s.KajabiToken)
	api.POST("/kajabi-webhook", s.KajabiWebhook)
	api.POST("/manychat", s.ManyChat)
	api.POST("/meta-conversion", s.MetaConversion)
	api.POST("/n8n-webhook", s.N8NWebhook)
	api.POST("/ruben-shift-toggle", s.ShiftToggle)
	api.POST("/store-fbclid", s.StoreFBCLID)
	api.POST("/zoom-webhook", s.ZoomWebhook)
}
