package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"quiniela-finance/pkg/middleware"
)

var Module = fx.Module("httpapi",
	fx.Provide(
		NewHandler,
		ProvideRouter,
	),
)

// ProvideRouter builds the gin engine serving the finance API.
func ProvideRouter(h *Handler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Error())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "quiniela-finance"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/config", h.getConfig)
		v1.PUT("/config", h.putConfig)
		v1.GET("/distribution", h.getDistribution)
		v1.GET("/distribution/:category", h.getCategoryDistribution)
		v1.GET("/concepts", h.getConcepts)
		v1.GET("/projection", h.getProjection)

		v1.POST("/participants", h.addParticipant)
		v1.DELETE("/participants/:id", h.removeParticipant)
		v1.GET("/participants/:id/summary", h.participantSummary)
		v1.POST("/participants/:id/reset", h.resetParticipant)
		v1.POST("/participants/:id/review", h.markUnderReview)

		v1.POST("/payments", h.registerPayment)
		v1.POST("/payments/quick", h.quickSettle)
		v1.POST("/payments/bulk", h.bulkSettle)
		v1.GET("/transactions", h.listTransactions)

		v1.GET("/report", h.getReport)
		v1.GET("/report/summary", h.getLeagueSummary)
		v1.GET("/report/export", h.exportReport)
	}

	return r
}
