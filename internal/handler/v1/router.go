package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

type Handlers struct {
	Patients  *PatientHandler
	Metrics   *MetricHandler
	Records   *RecordHandler
	Activity  *ActivityHandler
	Analytics *AnalyticsHandler
}

// NewRouter wires the versioned API. The presentation layer only ever talks
// to services; nothing here touches the database or filesystem directly.
func NewRouter(h Handlers, col *metrics.Collector, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Instrument(col))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	{
		patients := api.Group("/patients")
		{
			patients.POST("", h.Patients.Create)
			patients.GET("", h.Patients.Search)
			patients.GET("/:id", h.Patients.Get)
			patients.PATCH("/:id", h.Patients.Update)
			patients.DELETE("/:id", h.Patients.Delete)

			patients.POST("/:id/metrics", h.Metrics.Add)
			patients.GET("/:id/metrics", h.Metrics.List)
			patients.GET("/:id/metrics/stats", h.Metrics.Stats)
			patients.GET("/:id/metrics/latest", h.Metrics.Latest)

			patients.POST("/:id/records", h.Records.Add)
			patients.POST("/:id/records/upload", h.Records.Upload)
			patients.GET("/:id/records", h.Records.List)
		}

		api.DELETE("/records/:id", h.Records.Delete)

		api.GET("/activities", h.Activity.ListRecent)

		analytics := api.Group("/analytics")
		{
			analytics.GET("/overview", h.Analytics.Overview)
			analytics.GET("/demographics", h.Analytics.Demographics)
			analytics.GET("/usage", h.Analytics.Usage)
			analytics.GET("/export", h.Analytics.Export)
		}
	}

	return r
}
