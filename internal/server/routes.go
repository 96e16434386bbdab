package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, opts Opts) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	db := opts.DB

	requesters := api.Group("/requesters")
	requesters.GET("", listRequesters(db))
	requesters.POST("", createRequester(db))
	requesters.GET("/:id", getRequester(db))
	requesters.PUT("/:id", updateRequester(db))
	requesters.DELETE("/:id", deleteRequester(db))

	projects := api.Group("/projects")
	projects.GET("", listProjects(db))
	projects.POST("", createProject(db))
	projects.GET("/:id", getProject(db))
	projects.PUT("/:id", updateProject(db))
	projects.DELETE("/:id", deleteProject(db))

	tasks := api.Group("/tasks")
	tasks.GET("", listTasks(db))
	tasks.POST("", createTask(db))
	tasks.GET("/:id", getTask(db))
	tasks.PUT("/:id", updateTask(db))
	tasks.DELETE("/:id", deleteTask(db))

	quotes := api.Group("/quotes")
	quotes.GET("", listQuotes(db))
	quotes.POST("", createQuote(db))
	quotes.GET("/:id", getQuote(db))
	quotes.POST("/:id/approve", approveQuote(db))
	quotes.DELETE("/:id", deleteQuote(db))

	periods := api.Group("/billing-periods")
	periods.GET("", listBillingPeriods(db))
	periods.POST("", createBillingPeriod(db))
	periods.POST("/:id/close", closeBillingPeriod(db))

	deliveries := api.Group("/deliveries")
	deliveries.GET("", listDeliveries(db))
	deliveries.POST("", createDelivery(db))
	deliveries.GET("/:id", getDelivery(db))
	deliveries.PUT("/:id", updateDelivery(db))
	deliveries.DELETE("/:id", deleteDelivery(db))
	deliveries.PATCH("/:id/items/:itemID/status", patchDeliveryItemStatus(db))

	sync := api.Group("/sync")
	sync.POST("/pull-requests", triggerSync(opts.PRJob))
	sync.POST("/tracker", triggerSync(opts.TrackerJob))
}
