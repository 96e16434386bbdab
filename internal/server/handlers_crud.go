package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/squadworks/backoffice/internal/models"
	"gorm.io/gorm"
)

// abortDBError maps a lookup failure to 404 or 500.
func abortDBError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (ER_DUP_ENTRY), e.g. from the unique month/year billing period index.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func listRequesters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requesters []models.Requester
		if err := db.Order("name ASC").Find(&requesters).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, requesters)
	}
}

type requesterRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Active  *bool  `json:"active"`
}

func createRequester(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requesterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		requester := models.Requester{
			ID:      models.NewID(),
			Name:    req.Name,
			Email:   req.Email,
			Company: req.Company,
			Phone:   req.Phone,
			Active:  true,
		}
		if req.Active != nil {
			requester.Active = *req.Active
		}
		if err := db.Create(&requester).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, requester)
	}
}

func getRequester(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requester models.Requester
		if err := db.First(&requester, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, requester)
	}
}

func updateRequester(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requester models.Requester
		if err := db.First(&requester, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		var req requesterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		requester.Name = req.Name
		requester.Email = req.Email
		requester.Company = req.Company
		requester.Phone = req.Phone
		if req.Active != nil {
			requester.Active = *req.Active
		}
		if err := db.Save(&requester).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, requester)
	}
}

func deleteRequester(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Requester{}, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listProjects(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []models.Project
		if err := db.Order("name ASC").Find(&projects).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

type projectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Repository  string `json:"repository"`
}

func createProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		project := models.Project{
			ID:          models.NewID(),
			Name:        req.Name,
			Description: req.Description,
			Repository:  req.Repository,
		}
		if err := db.Create(&project).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

func getProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := db.First(&project, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func updateProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := db.First(&project, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		var req projectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		project.Name = req.Name
		project.Description = req.Description
		project.Repository = req.Repository
		if err := db.Save(&project).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func deleteProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Project{}, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tasks []models.Task
		q := db.Preload("Requester").Preload("Project").Order("created_at DESC")
		if requesterID := c.Query("requester_id"); requesterID != "" {
			q = q.Where("requester_id = ?", requesterID)
		}
		if err := q.Find(&tasks).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

type taskRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	RequesterID   string  `json:"requester_id" binding:"required"`
	ProjectID     *string `json:"project_id"`
	TrackerTaskID string  `json:"tracker_task_id"`
}

func createTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task := models.Task{
			ID:            models.NewID(),
			Title:         req.Title,
			Description:   req.Description,
			RequesterID:   req.RequesterID,
			ProjectID:     req.ProjectID,
			TrackerTaskID: req.TrackerTaskID,
		}
		if err := db.Create(&task).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

func getTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var task models.Task
		err := db.Preload("Requester").Preload("Project").Preload("Quotes").
			First(&task, "id = ?", c.Param("id")).Error
		if err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func updateTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var task models.Task
		if err := db.First(&task, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		var req taskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task.Title = req.Title
		task.Description = req.Description
		task.RequesterID = req.RequesterID
		task.ProjectID = req.ProjectID
		task.TrackerTaskID = req.TrackerTaskID
		if err := db.Save(&task).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func deleteTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Task{}, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listQuotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var quotes []models.Quote
		q := db.Preload("Items").Order("created_at DESC")
		if taskID := c.Query("task_id"); taskID != "" {
			q = q.Where("task_id = ?", taskID)
		}
		if err := q.Find(&quotes).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, quotes)
	}
}

type quoteItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Hours       float64 `json:"hours"`
}

type quoteRequest struct {
	TaskID     string             `json:"task_id" binding:"required"`
	Hours      float64            `json:"hours"`
	HourlyRate float64            `json:"hourly_rate"`
	Notes      string             `json:"notes"`
	Items      []quoteItemRequest `json:"items"`
}

func createQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote := models.Quote{
			ID:         models.NewID(),
			TaskID:     req.TaskID,
			Hours:      req.Hours,
			HourlyRate: req.HourlyRate,
			Notes:      req.Notes,
		}
		for _, it := range req.Items {
			quote.Items = append(quote.Items, models.QuoteItem{
				ID:          models.NewID(),
				Description: it.Description,
				Hours:       it.Hours,
			})
		}
		if err := db.Create(&quote).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, quote)
	}
}

func getQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var quote models.Quote
		if err := db.Preload("Items").First(&quote, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

func approveQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var quote models.Quote
		if err := db.First(&quote, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		quote.Approved = true
		if err := db.Save(&quote).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

func deleteQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Select("Items").Delete(&models.Quote{ID: c.Param("id")}).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listBillingPeriods(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var periods []models.BillingPeriod
		if err := db.Order("year DESC, month DESC").Find(&periods).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, periods)
	}
}

type billingPeriodRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required"`
}

func createBillingPeriod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req billingPeriodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		period := models.BillingPeriod{
			ID:    models.NewID(),
			Month: req.Month,
			Year:  req.Year,
		}
		if err := db.Create(&period).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "billing period already exists"})
				return
			}
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, period)
	}
}

func closeBillingPeriod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var period models.BillingPeriod
		if err := db.First(&period, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		period.Closed = true
		if err := db.Save(&period).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, period)
	}
}
