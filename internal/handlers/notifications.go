package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

// GetNotifications lists the viewer's feed, newest first, with the unread
// count for the badge.
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var notifications []models.Notification
		if err := db.Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(100).
			Find(&notifications).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND read = false", userID).
			Count(&unread)

		c.JSON(200, gin.H{"notifications": notifications, "unread": unread})
	}
}

// MarkNotificationRead marks one entry read.
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var notification models.Notification
		if err := db.First(&notification, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "NOTIFICATION_NOT_FOUND"})
			return
		}
		if notification.UserID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}

		notification.Read = true
		if err := db.Save(&notification).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update notification"})
			return
		}

		c.JSON(200, gin.H{"notification": notification})
	}
}

// MarkAllNotificationsRead clears the badge in one call.
func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if err := db.Model(&models.Notification{}).
			Where("user_id = ? AND read = false", userID).
			Update("read", true).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update notifications"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess})
	}
}
