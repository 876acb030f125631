package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/metrics"
	"github.com/mamadbah2/stockledger/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// New wires the Gin engine with required routes and middlewares. m may be nil, in which case
// /metrics is not served.
func New(inventory *handlers.InventoryHandler, exports *handlers.ExportHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:   []string{"Content-Disposition", requestIDHeader},
		MaxAge:          12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/get_barang_list", inventory.ListItems)
	api.GET("/get_saldo", inventory.GetBalance)
	api.POST("/add_mutasi", inventory.AddMutation)
	api.POST("/add_barang", inventory.AddItem)
	api.POST("/upload_stok_awal", inventory.UploadInitialStock)
	api.GET("/export_stok_excel", exports.Stock)
	api.GET("/export_mutasi_all", exports.Ledger)
	api.POST("/export_mutasi_period", exports.Period)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
