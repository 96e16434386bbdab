package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/squadworks/backoffice/internal/models"
	"github.com/squadworks/backoffice/internal/status"
	"gorm.io/gorm"
)

type deliveryItemRequest struct {
	ProjectID    *string `json:"project_id"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	Branch       string  `json:"branch"`
	SourceBranch string  `json:"source_branch"`
	PullRequest  *string `json:"pull_request"`
}

type deliveryRequest struct {
	TaskID          string                `json:"task_id" binding:"required"`
	BillingPeriodID *string               `json:"billing_period_id"`
	Notes           string                `json:"notes"`
	Items           []deliveryItemRequest `json:"items"`
}

func buildItems(deliveryID string, reqs []deliveryItemRequest) []models.DeliveryItem {
	items := make([]models.DeliveryItem, len(reqs))
	for i, it := range reqs {
		items[i] = models.DeliveryItem{
			ID:           models.NewID(),
			DeliveryID:   deliveryID,
			ProjectID:    it.ProjectID,
			Status:       string(status.Parse(it.Status)),
			Description:  it.Description,
			Branch:       it.Branch,
			SourceBranch: it.SourceBranch,
			PullRequest:  it.PullRequest,
		}
	}
	return items
}

func listDeliveries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var deliveries []models.Delivery
		q := db.Preload("Items").Order("created_at DESC")
		if taskID := c.Query("task_id"); taskID != "" {
			q = q.Where("task_id = ?", taskID)
		}
		if st := c.Query("status"); st != "" {
			q = q.Where("status = ?", string(status.Parse(st)))
		}
		if err := q.Find(&deliveries).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, deliveries)
	}
}

func createDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		delivery := models.Delivery{
			ID:              models.NewID(),
			TaskID:          req.TaskID,
			BillingPeriodID: req.BillingPeriodID,
			Notes:           req.Notes,
		}
		delivery.Items = buildItems(delivery.ID, req.Items)
		// The cached aggregate is always written together with the items.
		delivery.RecomputeStatus()

		if err := db.Create(&delivery).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusCreated, delivery)
	}
}

func getDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var delivery models.Delivery
		err := db.Preload("Items").Preload("Task").Preload("BillingPeriod").
			First(&delivery, "id = ?", c.Param("id")).Error
		if err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

// updateDelivery replaces the delivery's fields and, when items are
// provided, its whole item collection. Items are owned by the delivery and
// only ever change through it.
func updateDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var delivery models.Delivery
		if err := db.Preload("Items").First(&delivery, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}
		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		delivery.TaskID = req.TaskID
		delivery.BillingPeriodID = req.BillingPeriodID
		delivery.Notes = req.Notes

		err := db.Transaction(func(tx *gorm.DB) error {
			if req.Items != nil {
				if err := tx.Where("delivery_id = ?", delivery.ID).Delete(&models.DeliveryItem{}).Error; err != nil {
					return err
				}
				delivery.Items = buildItems(delivery.ID, req.Items)
				if len(delivery.Items) > 0 {
					if err := tx.Create(&delivery.Items).Error; err != nil {
						return err
					}
				}
			}
			delivery.RecomputeStatus()
			return tx.Omit("Items").Save(&delivery).Error
		})
		if err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

func deleteDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Select("Items").Delete(&models.Delivery{ID: c.Param("id")}).Error; err != nil {
			abortDBError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type itemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// patchDeliveryItemStatus updates one item's status and synchronously
// recomputes the parent's cached aggregate.
func patchDeliveryItemStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var delivery models.Delivery
		if err := db.Preload("Items").First(&delivery, "id = ?", c.Param("id")).Error; err != nil {
			abortDBError(c, err)
			return
		}

		var req itemStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		itemID := c.Param("itemID")
		var item *models.DeliveryItem
		for i := range delivery.Items {
			if delivery.Items[i].ID == itemID {
				item = &delivery.Items[i]
				break
			}
		}
		if item == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		item.Status = string(status.Parse(req.Status))
		delivery.RecomputeStatus()

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.DeliveryItem{}).
				Where("id = ?", item.ID).
				Update("status", item.Status).Error; err != nil {
				return err
			}
			return tx.Model(&models.Delivery{}).
				Where("id = ?", delivery.ID).
				Update("status", delivery.Status).Error
		})
		if err != nil {
			abortDBError(c, err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}
