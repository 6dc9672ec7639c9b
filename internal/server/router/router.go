package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stayledger/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.APIHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/units", handler.CreateUnit)
		api.GET("/units", handler.ListUnits)

		unit := api.Group("/units/:unitID")
		{
			unit.GET("/capital-expenses", handler.ListCapitalExpenses)
			unit.POST("/capital-expenses", handler.CreateCapitalExpense)
			unit.PUT("/capital-expenses/:id", handler.UpdateCapitalExpense)
			unit.DELETE("/capital-expenses/:id", handler.DeleteCapitalExpense)

			unit.GET("/transactions", handler.ListTransactions)
			unit.POST("/transactions/tariff", handler.CreateTariff)
			unit.POST("/transactions/other", handler.CreateTransaction)
			unit.POST("/transactions/import", handler.ImportCSV)

			unit.GET("/projections", handler.ListProjections)
			unit.PUT("/projections", handler.SaveProjection)
			unit.POST("/projections/flush", handler.FlushProjections)

			unit.GET("/summary", handler.MonthlySummary)
			unit.GET("/summary/projections", handler.ProjectionSummary)
			unit.GET("/summary/capital", handler.CapitalSummary)
			unit.GET("/summary/roi", handler.ROI)

			unit.POST("/chat", handler.Chat)
		}

		api.PUT("/view/unit", handler.SelectViewUnit)
		api.GET("/view", handler.View)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
