package router

import (
	"time"

	"github.com/VarunShelke/accessible-med-tracker/internal/config"
	"github.com/VarunShelke/accessible-med-tracker/internal/handler"
	"github.com/VarunShelke/accessible-med-tracker/internal/infra"
	"github.com/VarunShelke/accessible-med-tracker/internal/middleware"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"
	"github.com/VarunShelke/accessible-med-tracker/internal/service"
	"github.com/VarunShelke/accessible-med-tracker/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis. Clients are
// constructed here and injected — nothing holds process-global handles.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, llm *infra.LLMClient, llmCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	inventoryRepo := repository.NewInventoryRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	auditRecorder := service.NewAuditRecorder(auditRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, auditRecorder, cfg.LowStockThreshold)
	analysisSvc := service.NewAnalysisService(llm, inventoryRepo)

	dispatcher := worker.NewDispatcher(rdb)
	publisher := infra.NewAlertPublisher(rdb, cfg.AlertChannel)
	monitorSvc := service.NewMonitorService(inventoryRepo, publisher, dispatcher, cfg.Recipients())

	// ── Handlers ─────────────────────────────────────────────────────────────
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	monitorH := handler.NewMonitorHandler(monitorSvc)
	auditH := handler.NewAuditHandler(auditRepo)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb, llmCB))

	v1 := r.Group("/v1")
	{
		inv := v1.Group("/inventory")
		{
			inv.POST("", inventoryH.Create)
			inv.GET("", inventoryH.List)
			inv.GET("/low", inventoryH.LowStock)
			inv.PUT("/:id", inventoryH.Update)
			inv.DELETE("/:id", inventoryH.Delete)
		}

		v1.POST("/analysis", analysisH.Analyze)
		v1.POST("/monitor/run", monitorH.Run)
		v1.GET("/audit", auditH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// NewMonitor builds the scheduled sweep with the same wiring the router uses.
// Called from main so the cron and the HTTP path share one construction site.
func NewMonitor(cfg *config.Config, db *gorm.DB, rdb *redis.Client) service.MonitorService {
	inventoryRepo := repository.NewInventoryRepository(db)
	dispatcher := worker.NewDispatcher(rdb)
	publisher := infra.NewAlertPublisher(rdb, cfg.AlertChannel)
	return service.NewMonitorService(inventoryRepo, publisher, dispatcher, cfg.Recipients())
}
